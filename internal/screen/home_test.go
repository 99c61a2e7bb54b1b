package screen

import (
	"context"
	"testing"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/feed"
	"github.com/mmcdole/marquee/internal/log"
	"github.com/mmcdole/marquee/internal/store"
	"github.com/mmcdole/marquee/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var userViews = []domain.Library{
	{ID: "M", Name: "Movies", CollectionType: domain.CollectionMovies},
	{ID: "T", Name: "Shows", CollectionType: domain.CollectionTVShows},
}

func newHome(t *testing.T, catalog domain.Catalog, views ViewStore, hidden []string, cfg *domain.HomeFeedConfig) *HomeFeed {
	t.Helper()
	svc := feed.NewService(catalog, nil, log.NullLogger())
	return NewHomeFeed(catalog, svc, views, "u1", hidden, cfg, log.NullLogger())
}

func TestHomeFeed_DefaultSections(t *testing.T) {
	catalog := new(testutil.MockCatalog)
	catalog.On("GetUserViews", mock.Anything, "u1").Return(userViews, nil)

	sections, err := newHome(t, catalog, nil, []string{"T"}, nil).Sections(context.Background())
	require.NoError(t, err)

	var titles []string
	for _, s := range sections {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{
		"Continue Watching",
		"Next Up",
		"Recently Added in Movies",
		"Suggested Movies",
		"Suggested Episodes",
	}, titles)
}

func TestHomeFeed_ConfiguredSkipsViews(t *testing.T) {
	catalog := new(testutil.MockCatalog)
	cfg := &domain.HomeFeedConfig{Entries: []domain.FeedEntry{
		{Name: "next", Strategy: feed.NextUpStrategy{Limit: 5}},
	}}

	sections, err := newHome(t, catalog, nil, nil, cfg).Sections(context.Background())
	require.NoError(t, err)
	require.Len(t, sections, 1)
	catalog.AssertNotCalled(t, "GetUserViews", mock.Anything, mock.Anything)
}

func TestHomeFeed_ViewsFallBackToSaved(t *testing.T) {
	views, err := store.New("", "")
	require.NoError(t, err)

	catalog := new(testutil.MockCatalog)
	catalog.On("GetUserViews", mock.Anything, "u1").Return(userViews, nil).Once()
	catalog.On("GetUserViews", mock.Anything, "u1").Return(nil, domain.ErrServerOffline)

	home := newHome(t, catalog, views, nil, nil)

	first, err := home.Views(context.Background())
	require.NoError(t, err)
	assert.Equal(t, userViews, first)

	second, err := home.Views(context.Background())
	require.NoError(t, err)
	assert.Equal(t, userViews, second)
}

func TestHomeFeed_ViewsErrorWithoutSaved(t *testing.T) {
	catalog := new(testutil.MockCatalog)
	catalog.On("GetUserViews", mock.Anything, "u1").Return(nil, domain.ErrServerOffline)

	_, err := newHome(t, catalog, nil, nil, nil).Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrServerOffline)
}

func TestHomeFeed_Load(t *testing.T) {
	catalog := new(testutil.MockCatalog)
	cfg := &domain.HomeFeedConfig{Entries: []domain.FeedEntry{
		{Name: "next", Strategy: feed.NextUpStrategy{Limit: 5}},
		{Name: "broken", Strategy: feed.EmptyStrategy{Reason: "no query"}},
	}}
	catalog.On("GetNextUp", mock.Anything, "u1", domain.NextUpQuery{Limit: 5}).
		Return([]domain.Item{testutil.Episode("e1", "s", "x", 1, 1)}, nil)

	results, err := newHome(t, catalog, nil, nil, cfg).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Len(t, results[0].Items, 1)
	assert.Empty(t, results[1].Items)
	assert.NoError(t, results[1].Err)
}
