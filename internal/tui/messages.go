package tui

import (
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/episodes"
	"github.com/mmcdole/marquee/internal/feed"
	"github.com/mmcdole/marquee/internal/filter"
	"github.com/mmcdole/marquee/internal/paging"
	"github.com/mmcdole/marquee/internal/screen"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// ViewsLoadedMsg signals that the user's libraries have been loaded
type ViewsLoadedMsg struct {
	Libraries []domain.Library
}

// HomeLoadedMsg carries the fetched home sections in display order
type HomeLoadedMsg struct {
	Sections []feed.SectionResult
}

// GridOpenedMsg signals that a library grid is ready for its first page
type GridOpenedMsg struct {
	Grid *screen.LibraryGrid
}

// PageLoadedMsg carries one fetched page. Grid identifies the grid that
// claimed the ticket so replies for a closed grid can be dropped.
type PageLoadedMsg struct {
	Grid   *screen.LibraryGrid
	Ticket paging.Ticket
	Page   domain.ResultPage
	Err    error
}

// DrainDoneMsg signals that every remaining page has been loaded
type DrainDoneMsg struct {
	Grid *screen.LibraryGrid
	Err  error
}

// DrainProgressMsg reports a drain's progress
type DrainProgressMsg struct {
	Grid     *screen.LibraryGrid
	Progress DrainProgress
	ch       <-chan DrainProgress
}

// VocabularyLoadedMsg carries the filter values of the open library
type VocabularyLoadedMsg struct {
	Grid       *screen.LibraryGrid
	Vocabulary filter.Vocabulary
}

// StripOpenedMsg signals that a season's episode strip is ready
type StripOpenedMsg struct {
	Strip  *episodes.Strip
	Scroll <-chan int
}

// ScrollMsg asks the episode strip to bring an index into view
type ScrollMsg struct {
	Strip *episodes.Strip
	Index int
}

// ClearStatusMsg clears the status bar
type ClearStatusMsg struct{}
