package episodes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mmcdole/marquee/internal/cache"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/log"
	"github.com/mmcdole/marquee/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeDownloads []domain.Item

func (f fakeDownloads) Downloads() []domain.Item { return f }

var season1 = []domain.Item{
	testutil.Episode("e1", "show", "S1", 1, 1),
	testutil.Episode("e2", "show", "S1", 1, 2),
	testutil.Episode("e3", "show", "S1", 1, 3),
	testutil.Episode("e4", "show", "S1", 1, 4),
}

func newSequencer(catalog domain.Catalog, downloads domain.DownloadStore, c domain.ItemCache, offline bool) *Sequencer {
	return New(catalog, downloads, c, Options{Offline: offline, SettleDelay: 10 * time.Millisecond}, log.NullLogger())
}

func scrollRecorder() (func(int), <-chan int) {
	ch := make(chan int, 1)
	return func(i int) { ch <- i }, ch
}

func TestOpen_OnlineScrollsAndPrefetches(t *testing.T) {
	catalog := new(testutil.MockCatalog)
	catalog.On("GetEpisodes", mock.Anything, "u1", "show", "S1").Return(season1, nil)
	catalog.On("GetItem", mock.Anything, "u1", "e1").Return(&season1[0], nil)
	catalog.On("GetItem", mock.Anything, "u1", "e3").Return(&season1[2], nil)

	items := cache.NewItemCache(16, DefaultPrefetchTTL)
	onScroll, scrolled := scrollRecorder()

	strip, err := newSequencer(catalog, nil, items, false).Open(context.Background(), "u1", season1[1], onScroll)
	require.NoError(t, err)
	defer strip.Stop()

	assert.Len(t, strip.Episodes, 4)
	assert.Equal(t, 1, strip.Current)

	select {
	case idx := <-scrolled:
		assert.Equal(t, 1, idx)
	case <-time.After(time.Second):
		t.Fatal("scroll request never arrived")
	}

	strip.Wait()
	_, ok := items.Get("e1")
	assert.True(t, ok)
	_, ok = items.Get("e3")
	assert.True(t, ok)
	_, ok = items.Get("e4")
	assert.False(t, ok)
	catalog.AssertNumberOfCalls(t, "GetItem", 2)
}

func TestOpen_PrefetchOutlivesRequestContext(t *testing.T) {
	mc := new(testutil.MockCatalog)
	mc.On("GetEpisodes", mock.Anything, "u1", "show", "S1").Return(season1, nil)
	mc.On("GetItem", mock.Anything, "u1", "e1").Return(&season1[0], nil)
	mc.On("GetItem", mock.Anything, "u1", "e3").Return(&season1[2], nil)
	catalog := testutil.NewGatedCatalog(mc)

	items := cache.NewItemCache(16, DefaultPrefetchTTL)
	ctx, cancel := context.WithCancel(context.Background())
	strip, err := newSequencer(catalog, nil, items, false).Open(ctx, "u1", season1[1], nil)
	require.NoError(t, err)
	cancel()

	catalog.Release()
	strip.Wait()
	assert.Equal(t, 2, items.Len())
}

func TestOpen_StopCancelsPrefetch(t *testing.T) {
	mc := new(testutil.MockCatalog)
	mc.On("GetEpisodes", mock.Anything, "u1", "show", "S1").Return(season1, nil)
	catalog := testutil.NewGatedCatalog(mc)

	items := cache.NewItemCache(16, DefaultPrefetchTTL)
	strip, err := newSequencer(catalog, nil, items, false).Open(context.Background(), "u1", season1[1], nil)
	require.NoError(t, err)
	strip.Stop()

	catalog.Release()
	strip.Wait()
	assert.Equal(t, 0, items.Len())
	mc.AssertNotCalled(t, "GetItem", mock.Anything, mock.Anything, mock.Anything)
}

func TestOpen_OfflineMakesNoNetworkCalls(t *testing.T) {
	catalog := new(testutil.MockCatalog)
	downloads := fakeDownloads{
		season1[2],
		testutil.Episode("other", "show", "S2", 2, 1),
		season1[0],
		season1[1],
	}
	onScroll, scrolled := scrollRecorder()

	strip, err := newSequencer(catalog, downloads, cache.NewItemCache(16, time.Minute), true).
		Open(context.Background(), "u1", season1[1], onScroll)
	require.NoError(t, err)
	defer strip.Stop()

	ids := make([]string, len(strip.Episodes))
	for i, e := range strip.Episodes {
		ids[i] = e.ID
	}
	assert.Equal(t, []string{"e1", "e2", "e3"}, ids)
	assert.Equal(t, 1, strip.Current)

	select {
	case idx := <-scrolled:
		assert.Equal(t, 1, idx)
	case <-time.After(time.Second):
		t.Fatal("scroll request never arrived")
	}

	strip.Wait()
	assert.Empty(t, catalog.Calls)
}

func TestOpen_MissingSeasonIsEmpty(t *testing.T) {
	catalog := new(testutil.MockCatalog)
	current := testutil.Episode("e1", "show", "", 1, 1)

	strip, err := newSequencer(catalog, nil, nil, false).Open(context.Background(), "u1", current, nil)
	require.NoError(t, err)
	assert.Empty(t, strip.Episodes)
	assert.Equal(t, -1, strip.Current)
	assert.Empty(t, catalog.Calls)
}

func TestOpen_CatalogError(t *testing.T) {
	catalog := new(testutil.MockCatalog)
	catalog.On("GetEpisodes", mock.Anything, "u1", "show", "S1").Return(nil, domain.ErrServerOffline)

	_, err := newSequencer(catalog, nil, nil, false).Open(context.Background(), "u1", season1[0], nil)
	assert.ErrorIs(t, err, domain.ErrServerOffline)
}

func TestOpen_StopCancelsScroll(t *testing.T) {
	catalog := new(testutil.MockCatalog)
	catalog.On("GetEpisodes", mock.Anything, "u1", "show", "S1").Return(season1, nil)

	seq := New(catalog, nil, nil, Options{SettleDelay: 50 * time.Millisecond}, log.NullLogger())
	onScroll, scrolled := scrollRecorder()

	strip, err := seq.Open(context.Background(), "u1", season1[0], onScroll)
	require.NoError(t, err)
	strip.Stop()

	select {
	case <-scrolled:
		t.Fatal("scroll fired after Stop")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestOpen_CurrentNotListedDoesNotScroll(t *testing.T) {
	catalog := new(testutil.MockCatalog)
	catalog.On("GetEpisodes", mock.Anything, "u1", "show", "S1").Return(season1[:2], nil)

	onScroll, scrolled := scrollRecorder()
	strip, err := newSequencer(catalog, nil, nil, false).Open(context.Background(), "u1", testutil.Episode("gone", "show", "S1", 1, 9), onScroll)
	require.NoError(t, err)
	defer strip.Stop()

	assert.Equal(t, -1, strip.Current)
	select {
	case <-scrolled:
		t.Fatal("unexpected scroll")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestOpen_PrefetchSkips(t *testing.T) {
	t.Run("unnumbered current episode", func(t *testing.T) {
		special := testutil.Episode("sp", "show", "S1", 1, 0)
		catalog := new(testutil.MockCatalog)
		catalog.On("GetEpisodes", mock.Anything, "u1", "show", "S1").Return(append([]domain.Item{special}, season1...), nil)

		strip, err := newSequencer(catalog, nil, cache.NewItemCache(16, time.Minute), false).Open(context.Background(), "u1", special, nil)
		require.NoError(t, err)
		strip.Wait()
		catalog.AssertNotCalled(t, "GetItem", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("already cached neighbours", func(t *testing.T) {
		items := cache.NewItemCache(16, time.Minute)
		items.Add("e1", season1[0])
		items.Add("e3", season1[2])

		catalog := new(testutil.MockCatalog)
		catalog.On("GetEpisodes", mock.Anything, "u1", "show", "S1").Return(season1, nil)

		strip, err := newSequencer(catalog, nil, items, false).Open(context.Background(), "u1", season1[1], nil)
		require.NoError(t, err)
		strip.Wait()
		catalog.AssertNotCalled(t, "GetItem", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("failed prefetch is dropped", func(t *testing.T) {
		items := cache.NewItemCache(16, time.Minute)
		catalog := new(testutil.MockCatalog)
		catalog.On("GetEpisodes", mock.Anything, "u1", "show", "S1").Return(season1, nil)
		catalog.On("GetItem", mock.Anything, "u1", mock.Anything).Return(nil, errors.New("boom"))

		strip, err := newSequencer(catalog, nil, items, false).Open(context.Background(), "u1", season1[0], nil)
		require.NoError(t, err)
		strip.Wait()
		assert.Equal(t, 0, items.Len())
		catalog.AssertNumberOfCalls(t, "GetItem", 1)
	})
}
