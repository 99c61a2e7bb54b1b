// Package filter holds the per-collection filter and sort selection.
package filter

import (
	"slices"

	"github.com/mmcdole/marquee/internal/domain"
)

// Default sort used when a library has no stored preference
const (
	DefaultSortBy    = domain.SortName
	DefaultSortOrder = domain.Ascending
)

// Preferences is the sort preference persistence used by a session
type Preferences interface {
	SortBy(libraryID string) (domain.SortField, bool)
	SortOrder(libraryID string) (domain.SortOrder, bool)
	SetSortBy(libraryID string, field domain.SortField) error
	SetSortOrder(libraryID string, order domain.SortOrder) error
}

// Session is the filter state of one collection view. It is owned by its
// screen and not safe for concurrent use.
type Session struct {
	library domain.Library
	prefs   Preferences
	sel     domain.FilterSelection
}

// NewSession seeds the sort from stored preferences. Genre, tag and year
// selections always start empty.
func NewSession(library domain.Library, prefs Preferences) *Session {
	s := &Session{
		library: library,
		prefs:   prefs,
		sel: domain.FilterSelection{
			SortBy:    DefaultSortBy,
			SortOrder: DefaultSortOrder,
		},
	}
	if prefs != nil {
		if field, ok := prefs.SortBy(library.ID); ok {
			s.sel.SortBy = field
		}
		if order, ok := prefs.SortOrder(library.ID); ok {
			s.sel.SortOrder = order
		}
	}
	return s
}

// Library returns the collection this session filters
func (s *Session) Library() domain.Library { return s.library }

// Selection returns a copy of the current selection
func (s *Session) Selection() domain.FilterSelection {
	return s.sel.Clone()
}

// SetSortBy changes the sort field and persists it for the library
func (s *Session) SetSortBy(field domain.SortField) error {
	s.sel.SortBy = field
	if s.prefs == nil {
		return nil
	}
	return s.prefs.SetSortBy(s.library.ID, field)
}

// SetSortOrder changes the sort order and persists it for the library
func (s *Session) SetSortOrder(order domain.SortOrder) error {
	s.sel.SortOrder = order
	if s.prefs == nil {
		return nil
	}
	return s.prefs.SetSortOrder(s.library.ID, order)
}

func (s *Session) SetGenres(genres []string) { s.sel.Genres = dedupe(genres) }
func (s *Session) SetTags(tags []string)     { s.sel.Tags = dedupe(tags) }
func (s *Session) SetYears(years []string)   { s.sel.Years = dedupe(years) }

func (s *Session) ToggleGenre(genre string) { s.sel.Genres = toggle(s.sel.Genres, genre) }
func (s *Session) ToggleTag(tag string)     { s.sel.Tags = toggle(s.sel.Tags, tag) }
func (s *Session) ToggleYear(year string)   { s.sel.Years = toggle(s.sel.Years, year) }

// Reset clears genre, tag and year selections. Sort is kept.
func (s *Session) Reset() {
	s.sel.Genres = nil
	s.sel.Tags = nil
	s.sel.Years = nil
}

// IsFiltered reports whether any genre, tag or year is selected
func (s *Session) IsFiltered() bool {
	return len(s.sel.Genres) > 0 || len(s.sel.Tags) > 0 || len(s.sel.Years) > 0
}

func dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

func toggle(values []string, v string) []string {
	if i := slices.Index(values, v); i >= 0 {
		return slices.Delete(slices.Clone(values), i, i+1)
	}
	return append(slices.Clone(values), v)
}
