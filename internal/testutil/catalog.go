// Package testutil holds shared test doubles and fixtures.
package testutil

import (
	"context"
	"fmt"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockCatalog is a testify mock of domain.Catalog
type MockCatalog struct {
	mock.Mock
}

var _ domain.Catalog = (*MockCatalog)(nil)

func items(args mock.Arguments) ([]domain.Item, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Item), args.Error(1)
}

func (m *MockCatalog) ListItems(ctx context.Context, userID string, q domain.PageDescriptor) (domain.ResultPage, error) {
	args := m.Called(ctx, userID, q)
	return args.Get(0).(domain.ResultPage), args.Error(1)
}

func (m *MockCatalog) GetItem(ctx context.Context, userID, itemID string) (*domain.Item, error) {
	args := m.Called(ctx, userID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

// GatedCatalog holds GetItem calls until Release, then fails them if
// their context was cancelled in the meantime
type GatedCatalog struct {
	*MockCatalog
	release chan struct{}
}

func NewGatedCatalog(m *MockCatalog) *GatedCatalog {
	return &GatedCatalog{MockCatalog: m, release: make(chan struct{})}
}

// Release lets held GetItem calls continue
func (g *GatedCatalog) Release() { close(g.release) }

func (g *GatedCatalog) GetItem(ctx context.Context, userID, itemID string) (*domain.Item, error) {
	<-g.release
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return g.MockCatalog.GetItem(ctx, userID, itemID)
}

func (m *MockCatalog) GetLibrary(ctx context.Context, userID, libraryID string) (*domain.Library, error) {
	args := m.Called(ctx, userID, libraryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Library), args.Error(1)
}

func (m *MockCatalog) GetUserViews(ctx context.Context, userID string) ([]domain.Library, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Library), args.Error(1)
}

func (m *MockCatalog) GetResumeItems(ctx context.Context, userID string, kinds []domain.ItemKind) ([]domain.Item, error) {
	return items(m.Called(ctx, userID, kinds))
}

func (m *MockCatalog) GetNextUp(ctx context.Context, userID string, q domain.NextUpQuery) ([]domain.Item, error) {
	return items(m.Called(ctx, userID, q))
}

func (m *MockCatalog) GetLatestMedia(ctx context.Context, userID string, q domain.LatestQuery) ([]domain.Item, error) {
	return items(m.Called(ctx, userID, q))
}

func (m *MockCatalog) GetSuggestions(ctx context.Context, userID string, q domain.SuggestionsQuery) ([]domain.Item, error) {
	return items(m.Called(ctx, userID, q))
}

func (m *MockCatalog) GetFilterVocabulary(ctx context.Context, userID, parentID string) (domain.FilterVocabulary, error) {
	args := m.Called(ctx, userID, parentID)
	return args.Get(0).(domain.FilterVocabulary), args.Error(1)
}

func (m *MockCatalog) GetEpisodes(ctx context.Context, userID, seriesID, seasonID string) ([]domain.Item, error) {
	return items(m.Called(ctx, userID, seriesID, seasonID))
}

// Episode builds an episode fixture
func Episode(id, seriesID, seasonID string, season, index int) domain.Item {
	return domain.Item{
		ID:                id,
		Name:              fmt.Sprintf("Episode %d", index),
		Type:              domain.KindEpisode,
		SeriesID:          seriesID,
		SeasonID:          seasonID,
		ParentIndexNumber: season,
		IndexNumber:       index,
	}
}

// Series builds a series fixture
func Series(id, name string) domain.Item {
	return domain.Item{ID: id, Name: name, Type: domain.KindSeries}
}

// Movie builds a movie fixture
func Movie(id, name string, year int) domain.Item {
	return domain.Item{ID: id, Name: name, Type: domain.KindMovie, ProductionYear: year}
}

// Movies builds n movie fixtures with sequential ids
func Movies(n int) []domain.Item {
	out := make([]domain.Item, n)
	for i := range out {
		out[i] = Movie(fmt.Sprintf("m%d", i), fmt.Sprintf("Movie %d", i), 2000+i)
	}
	return out
}
