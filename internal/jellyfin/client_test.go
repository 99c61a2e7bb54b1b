package jellyfin

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL+"/", "secret", nil)
	c.retryDelay = time.Millisecond
	return c
}

func TestListItems_EncodesDescriptor(t *testing.T) {
	var got *http.Request
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Write([]byte(`{"Items":[{"Id":"m1","Name":"Alien","Type":"Movie","ProductionYear":1979,"RunTimeTicks":70000000,"UserData":{"Played":true}}],"TotalRecordCount":100}`))
	})

	page, err := c.ListItems(context.Background(), "u1", domain.PageDescriptor{
		ParentID:       "lib",
		Offset:         36,
		Limit:          36,
		SortBy:         []domain.SortField{domain.SortDateCreated, domain.SortName, domain.SortProductionYear},
		SortOrder:      []domain.SortOrder{domain.Descending},
		IncludeKinds:   []domain.ItemKind{domain.KindMovie},
		Genres:         []string{"Horror", "Sci-Fi"},
		Tags:           []string{"4k"},
		Years:          []int{1979, 1986},
		Recursive:      true,
		Fields:         []string{"PrimaryImageAspectRatio", "SortName"},
		ImageTypes:     []string{"Primary", "Backdrop"},
		ImageTypeLimit: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, "/Users/u1/Items", got.URL.Path)
	q := got.URL.Query()
	assert.Equal(t, "lib", q.Get("ParentId"))
	assert.Equal(t, "36", q.Get("StartIndex"))
	assert.Equal(t, "36", q.Get("Limit"))
	assert.Equal(t, "DateCreated,SortName,ProductionYear", q.Get("SortBy"))
	assert.Equal(t, "Descending", q.Get("SortOrder"))
	assert.Equal(t, "Movie", q.Get("IncludeItemTypes"))
	assert.Equal(t, "Horror|Sci-Fi", q.Get("Genres"))
	assert.Equal(t, "4k", q.Get("Tags"))
	assert.Equal(t, "1979,1986", q.Get("Years"))
	assert.Equal(t, "true", q.Get("Recursive"))
	assert.Equal(t, "Primary,Backdrop", q.Get("EnableImageTypes"))
	assert.Equal(t, "1", q.Get("ImageTypeLimit"))
	assert.Contains(t, got.Header.Get("X-Emby-Authorization"), `Token="secret"`)

	assert.Equal(t, 100, page.TotalRecordCount)
	require.Len(t, page.Items, 1)
	item := page.Items[0]
	assert.Equal(t, domain.KindMovie, item.Type)
	assert.Equal(t, "Alien", item.SortName, "sort name falls back to name")
	assert.Equal(t, 7*time.Second, item.RunTime)
	assert.Equal(t, domain.WatchStatusWatched, item.WatchStatus())
}

func TestDoRequest_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"Items":[],"TotalRecordCount":0}`))
	})

	views, err := c.GetUserViews(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, views)
	assert.Equal(t, int32(3), calls.Load())
}

func TestDoRequest_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.GetUserViews(context.Background(), "u1")
	require.Error(t, err)
	assert.Equal(t, int32(maxRetries+1), calls.Load())
}

func TestDoRequest_LogsEachRetry(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	var buf bytes.Buffer
	c.logger = slog.New(slog.NewJSONHandler(&buf, nil))

	_, err := c.GetUserViews(context.Background(), "u1")
	require.Error(t, err)

	out := buf.String()
	assert.Equal(t, maxRetries, strings.Count(out, "will retry"))
	assert.Contains(t, out, `"retry":3`)
	assert.NotContains(t, out, `"retry":4`)
}

func TestGetItem_EscapesIDs(t *testing.T) {
	var got string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.EscapedPath()
		w.Write([]byte(`{"Id":"a/b","Name":"x","Type":"Movie"}`))
	})

	_, err := c.GetItem(context.Background(), "u 1", "a/b")
	require.NoError(t, err)
	assert.Equal(t, "/Users/u%201/Items/a%2Fb", got)
}

func TestDoRequest_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, domain.ErrAuthFailed},
		{"not found", http.StatusNotFound, domain.ErrItemNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
			})

			_, err := c.GetItem(context.Background(), "u1", "x")
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, int32(1), calls.Load(), "client errors are not retried")
		})
	}
}

func TestGetLibrary_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.GetLibrary(context.Background(), "u1", "gone")
	assert.ErrorIs(t, err, domain.ErrLibraryNotFound)
}

func TestServerOffline(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := NewClient(srv.URL, "", nil)
	_, err := c.GetUserViews(context.Background(), "u1")
	assert.ErrorIs(t, err, domain.ErrServerOffline)
}

func TestGetNextUp_Params(t *testing.T) {
	var got *http.Request
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Write([]byte(`{"Items":[{"Id":"e1","Type":"Episode","SeriesId":"s1","IndexNumber":3,"ParentIndexNumber":2}]}`))
	})

	off := false
	items, err := c.GetNextUp(context.Background(), "u1", domain.NextUpQuery{SeriesID: "s1", Limit: 1, EnableResumable: &off})
	require.NoError(t, err)

	assert.Equal(t, "/Shows/NextUp", got.URL.Path)
	q := got.URL.Query()
	assert.Equal(t, "u1", q.Get("UserId"))
	assert.Equal(t, "s1", q.Get("SeriesId"))
	assert.Equal(t, "1", q.Get("Limit"))
	assert.Equal(t, "false", q.Get("EnableResumable"))
	assert.False(t, q.Has("EnableRewatching"))

	require.Len(t, items, 1)
	assert.Equal(t, "S02E03", items[0].EpisodeCode())
}

func TestGetLatestMedia_BareArray(t *testing.T) {
	var got *http.Request
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Write([]byte(`[{"Id":"a","Type":"Series"},{"Id":"b","Type":"Episode"}]`))
	})

	group := true
	items, err := c.GetLatestMedia(context.Background(), "u1", domain.LatestQuery{
		ParentID:     "tv",
		IncludeKinds: []domain.ItemKind{domain.KindEpisode, domain.KindSeries},
		Limit:        25,
		GroupItems:   &group,
	})
	require.NoError(t, err)

	assert.Equal(t, "/Users/u1/Items/Latest", got.URL.Path)
	assert.Equal(t, "Episode,Series", got.URL.Query().Get("IncludeItemTypes"))
	assert.Equal(t, "true", got.URL.Query().Get("GroupItems"))
	assert.Len(t, items, 2)
}

func TestGetFilterVocabulary(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Items/Filters", r.URL.Path)
		assert.Equal(t, "lib", r.URL.Query().Get("ParentId"))
		w.Write([]byte(`{"Genres":["Drama","Horror"],"Tags":["4k"],"Years":[1999,2001,2024]}`))
	})

	v, err := c.GetFilterVocabulary(context.Background(), "u1", "lib")
	require.NoError(t, err)
	assert.Equal(t, []string{"Drama", "Horror"}, v.Genres)
	assert.Equal(t, []string{"4k"}, v.Tags)
	assert.Equal(t, []string{"2024", "2001", "1999"}, v.Years)
}

func TestGetEpisodes_ScopedBySeason(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Shows/series-1/Episodes", r.URL.Path)
		assert.Equal(t, "season-1", r.URL.Query().Get("SeasonId"))
		w.Write([]byte(`{"Items":[{"Id":"e1","IndexNumber":1},{"Id":"e2","IndexNumber":2}],"TotalRecordCount":2}`))
	})

	eps, err := c.GetEpisodes(context.Background(), "u1", "series-1", "season-1")
	require.NoError(t, err)
	assert.Len(t, eps, 2)
}

func TestFindUser(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Users", r.URL.Path)
		w.Write([]byte(`[{"Id":"u-admin","Name":"admin"},{"Id":"u-kim","Name":"Kim"}]`))
	})

	id, err := c.FindUser(context.Background(), "kim")
	require.NoError(t, err)
	assert.Equal(t, "u-kim", id)

	_, err = c.FindUser(context.Background(), "nobody")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
