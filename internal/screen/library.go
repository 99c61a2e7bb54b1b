// Package screen exposes per-screen state and actions to the rendering layer.
package screen

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/filter"
	"github.com/mmcdole/marquee/internal/paging"
	"github.com/mmcdole/marquee/internal/query"
)

// GridState is a snapshot of the library grid for rendering
type GridState struct {
	Library    domain.Library
	Selection  domain.FilterSelection
	Items      []domain.Item
	Total      int
	IsLoading  bool
	IsFetching bool
	HasMore    bool
	Err        error
}

// LibraryGrid drives the paginated, filterable grid of one library
type LibraryGrid struct {
	catalog   domain.Catalog
	prefs     filter.Preferences
	userID    string
	libraryID string
	logger    *slog.Logger

	pageSize   int
	library    domain.Library
	session    *filter.Session
	controller *paging.Controller
	missing    bool
}

// GridOption configures a LibraryGrid
type GridOption func(*LibraryGrid)

// WithPageSize overrides the number of items requested per page
func WithPageSize(n int) GridOption {
	return func(g *LibraryGrid) { g.pageSize = n }
}

// NewLibraryGrid creates the grid for a library. Nothing is fetched until Open.
func NewLibraryGrid(catalog domain.Catalog, prefs filter.Preferences, userID, libraryID string, policy paging.OffsetPolicy, logger *slog.Logger, opts ...GridOption) *LibraryGrid {
	if logger == nil {
		logger = slog.Default()
	}
	g := &LibraryGrid{
		catalog:   catalog,
		prefs:     prefs,
		userID:    userID,
		libraryID: libraryID,
		logger:    logger,
		library:   domain.Library{ID: libraryID},
	}
	for _, opt := range opts {
		opt(g)
	}
	g.controller = paging.NewController(g.fetch, policy, logger)
	return g
}

func (g *LibraryGrid) fetch(ctx context.Context, d domain.PageDescriptor) (domain.ResultPage, error) {
	return g.catalog.ListItems(ctx, g.userID, d)
}

// Open loads collection metadata and prepares the first page request.
// A library the server no longer knows yields an empty, exhausted grid.
func (g *LibraryGrid) Open(ctx context.Context) error {
	lib, err := g.catalog.GetLibrary(ctx, g.userID, g.libraryID)
	if err != nil {
		if errors.Is(err, domain.ErrLibraryNotFound) || errors.Is(err, domain.ErrItemNotFound) {
			g.logger.Warn("library not found", "libID", g.libraryID)
			g.missing = true
			return nil
		}
		return err
	}

	g.library = *lib
	g.session = filter.NewSession(g.library, g.prefs)
	g.reset()
	return nil
}

func (g *LibraryGrid) reset() {
	if g.session == nil {
		return
	}
	sel := g.session.Selection()
	base := query.Resolve(g.library, sel)
	if g.pageSize > 0 {
		base.Limit = g.pageSize
	}
	g.controller.Reset(query.Key(g.library, sel), base)
}

// State returns a snapshot for rendering
func (g *LibraryGrid) State() GridState {
	st := GridState{
		Library:    g.library,
		Items:      g.controller.Items(),
		Total:      g.controller.Total(),
		IsLoading:  g.controller.IsLoading(),
		IsFetching: g.controller.IsFetching(),
		HasMore:    !g.missing && g.controller.HasMore(),
		Err:        g.controller.Err(),
	}
	if g.session != nil {
		st.Selection = g.session.Selection()
	}
	return st
}

// FetchMore loads the next page synchronously
func (g *LibraryGrid) FetchMore(ctx context.Context) (bool, error) {
	return g.controller.FetchMore(ctx)
}

// Begin claims the next page request for callers that run the fetch themselves
func (g *LibraryGrid) Begin() (paging.Ticket, bool) {
	return g.controller.Begin()
}

// Fetch runs a claimed request against the catalog
func (g *LibraryGrid) Fetch(ctx context.Context, t paging.Ticket) (domain.ResultPage, error) {
	return g.fetch(ctx, t.Request)
}

// Complete applies a fetched page. Pages for a replaced query are discarded.
func (g *LibraryGrid) Complete(t paging.Ticket, page domain.ResultPage, err error) bool {
	return g.controller.Complete(t, page, err)
}

// Drain loads every remaining page
func (g *LibraryGrid) Drain(ctx context.Context, onProgress paging.ProgressFunc) error {
	return g.controller.Drain(ctx, onProgress)
}

func (g *LibraryGrid) SetSortBy(field domain.SortField) error {
	if g.session == nil {
		return nil
	}
	err := g.session.SetSortBy(field)
	g.reset()
	return err
}

func (g *LibraryGrid) SetSortOrder(order domain.SortOrder) error {
	if g.session == nil {
		return nil
	}
	err := g.session.SetSortOrder(order)
	g.reset()
	return err
}

// ToggleSortOrder flips between ascending and descending
func (g *LibraryGrid) ToggleSortOrder() error {
	if g.session == nil {
		return nil
	}
	return g.SetSortOrder(g.session.Selection().SortOrder.Toggle())
}

// CycleSortBy advances to the next sort option for this collection
func (g *LibraryGrid) CycleSortBy() error {
	if g.session == nil {
		return nil
	}
	options := g.SortOptions()
	current := g.session.Selection().SortBy
	next := options[0]
	for i, f := range options {
		if f == current {
			next = options[(i+1)%len(options)]
			break
		}
	}
	return g.SetSortBy(next)
}

func (g *LibraryGrid) SetGenres(genres []string) { g.mutate(func(s *filter.Session) { s.SetGenres(genres) }) }
func (g *LibraryGrid) SetTags(tags []string)     { g.mutate(func(s *filter.Session) { s.SetTags(tags) }) }
func (g *LibraryGrid) SetYears(years []string)   { g.mutate(func(s *filter.Session) { s.SetYears(years) }) }
func (g *LibraryGrid) ToggleGenre(v string)      { g.mutate(func(s *filter.Session) { s.ToggleGenre(v) }) }
func (g *LibraryGrid) ToggleTag(v string)        { g.mutate(func(s *filter.Session) { s.ToggleTag(v) }) }
func (g *LibraryGrid) ToggleYear(v string)       { g.mutate(func(s *filter.Session) { s.ToggleYear(v) }) }

// ResetFilters clears genre, tag and year selections
func (g *LibraryGrid) ResetFilters() { g.mutate(func(s *filter.Session) { s.Reset() }) }

func (g *LibraryGrid) mutate(fn func(*filter.Session)) {
	if g.session == nil {
		return
	}
	fn(g.session)
	g.reset()
}

// Vocabulary returns the filter values of the library. Failures yield an empty vocabulary.
func (g *LibraryGrid) Vocabulary(ctx context.Context) filter.Vocabulary {
	v, err := g.catalog.GetFilterVocabulary(ctx, g.userID, g.libraryID)
	if err != nil {
		g.logger.Warn("filter vocabulary unavailable", "libID", g.libraryID, "error", err)
		return filter.NewVocabulary(domain.FilterVocabulary{})
	}
	return filter.NewVocabulary(v)
}

// SortOptions lists the sort fields offered for this collection
func (g *LibraryGrid) SortOptions() []domain.SortField {
	return domain.SortOptionsFor(g.library.CollectionType)
}
