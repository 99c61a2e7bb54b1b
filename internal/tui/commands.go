package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/episodes"
	"github.com/mmcdole/marquee/internal/paging"
	"github.com/mmcdole/marquee/internal/screen"
)

// Command factories for async operations

const (
	requestTimeout = 30 * time.Second
	drainTimeout   = 5 * time.Minute
)

// LoadViewsCmd loads the user's libraries
func LoadViewsCmd(home *screen.HomeFeed) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		libs, err := home.Views(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading libraries"}
		}
		return ViewsLoadedMsg{Libraries: libs}
	}
}

// LoadHomeCmd composes and fetches every home section
func LoadHomeCmd(home *screen.HomeFeed) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		sections, err := home.Load(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading home"}
		}
		return HomeLoadedMsg{Sections: sections}
	}
}

// OpenGridCmd loads a library's metadata
func OpenGridCmd(grid *screen.LibraryGrid) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := grid.Open(ctx); err != nil {
			return ErrMsg{Err: err, Context: "opening library"}
		}
		return GridOpenedMsg{Grid: grid}
	}
}

// FetchPageCmd claims the next page of grid and fetches it off the update loop.
// It returns nil when a request is already in flight or nothing is left.
func FetchPageCmd(grid *screen.LibraryGrid) tea.Cmd {
	ticket, ok := grid.Begin()
	if !ok {
		return nil
	}
	return fetchTicketCmd(grid, ticket)
}

func fetchTicketCmd(grid *screen.LibraryGrid, ticket paging.Ticket) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		page, err := grid.Fetch(ctx, ticket)
		return PageLoadedMsg{Grid: grid, Ticket: ticket, Page: page, Err: err}
	}
}

// DrainCmd loads every remaining page of grid, reporting progress on ch.
// ch is closed once the drain ends.
func DrainCmd(grid *screen.LibraryGrid, ch chan DrainProgress) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
		defer cancel()
		defer close(ch)

		err := grid.Drain(ctx, NewChannelObserver(ch).OnProgress)
		return DrainDoneMsg{Grid: grid, Err: err}
	}
}

// WaitForDrainProgressCmd relays the next progress report of a drain
func WaitForDrainProgressCmd(grid *screen.LibraryGrid, ch <-chan DrainProgress) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return nil
		}
		return DrainProgressMsg{Grid: grid, Progress: p, ch: ch}
	}
}

// LoadVocabularyCmd loads the filter values for grid
func LoadVocabularyCmd(grid *screen.LibraryGrid) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		return VocabularyLoadedMsg{Grid: grid, Vocabulary: grid.Vocabulary(ctx)}
	}
}

// OpenStripCmd lists the season around current. The strip's scroll request
// is delivered through a channel so the update loop can wait for it.
func OpenStripCmd(seq *episodes.Sequencer, userID string, current domain.Item) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		scroll := make(chan int, 1)
		strip, err := seq.Open(ctx, userID, current, func(i int) {
			select {
			case scroll <- i:
			default:
			}
		})
		if err != nil {
			return ErrMsg{Err: err, Context: "loading episodes"}
		}
		return StripOpenedMsg{Strip: strip, Scroll: scroll}
	}
}

// WaitForScrollCmd blocks until the strip asks to scroll or is closed
func WaitForScrollCmd(strip *episodes.Strip, scroll <-chan int, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case i := <-scroll:
			return ScrollMsg{Strip: strip, Index: i}
		case <-done:
			return nil
		}
	}
}

// ClearStatusCmd clears the status after a delay
func ClearStatusCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
