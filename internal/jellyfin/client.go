package jellyfin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/mmcdole/marquee/internal/domain"
)

const (
	defaultTimeout = 60 * time.Second
	maxRetries     = 3
	baseRetryDelay = 500 * time.Millisecond
)

var _ domain.Catalog = (*Client)(nil)

// Client implements domain.Catalog against the Jellyfin HTTP API
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
	retryDelay time.Duration
}

// NewClient creates a new Jellyfin API client
func NewClient(baseURL, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger:     logger,
		retryDelay: baseRetryDelay,
	}
}

// statusError is a non-2xx response
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d - %s", e.status, e.body)
}

func isServerError(err error) bool {
	var se *statusError
	return errors.As(err, &se) && se.status >= 500 && se.status < 600
}

func buildAuthHeader(token string) string {
	parts := []string{
		`MediaBrowser Client="Marquee"`,
		`Device="CLI"`,
		`DeviceId="marquee-tui-client"`,
		`Version="1.0.0"`,
	}
	if token != "" {
		parts = append(parts, fmt.Sprintf(`Token="%s"`, token))
	}
	return strings.Join(parts, ", ")
}

// doRequest performs an authenticated GET against the Jellyfin API.
// 5xx responses are retried with exponential backoff.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL = reqURL + "?" + query.Encode()
	}

	var body []byte
	err := retry.Do(
		func() error {
			b, err := c.once(ctx, reqURL)
			if err != nil {
				return err
			}
			body = b
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(maxRetries+1),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isServerError),
		retry.OnRetry(func(n uint, err error) {
			// Also called after the last attempt, which is not followed by a retry.
			if n >= maxRetries {
				return
			}
			c.logger.Warn("jellyfin server error, will retry",
				"retry", n+1,
				"maxRetries", maxRetries,
				"path", path,
				"error", err,
			)
		}),
	)
	if err != nil {
		return nil, c.classify(err, path)
	}
	return body, nil
}

func (c *Client) once(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Emby-Authorization", buildAuthHeader(c.token))

	c.logger.Debug("jellyfin request", "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Error("jellyfin request failed", "error", err)
		return nil, domain.ErrServerOffline
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{status: resp.StatusCode, body: string(body)}
	}
	return body, nil
}

// classify maps a final request error onto the domain sentinels
func (c *Client) classify(err error, path string) error {
	var se *statusError
	if !errors.As(err, &se) {
		return err
	}
	switch {
	case se.status == http.StatusUnauthorized:
		return domain.ErrAuthFailed
	case se.status == http.StatusNotFound:
		return fmt.Errorf("%s: %w", path, domain.ErrItemNotFound)
	default:
		c.logger.Error("jellyfin request error", "status", se.status, "path", path, "body", se.body)
		return err
	}
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, dest any) error {
	body, err := c.doRequest(ctx, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// apiPath formats an endpoint path, escaping each id as one segment
func apiPath(format string, ids ...string) string {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = url.PathEscape(id)
	}
	return fmt.Sprintf(format, args...)
}

func joinKinds(kinds []domain.ItemKind) string {
	s := make([]string, len(kinds))
	for i, k := range kinds {
		s[i] = string(k)
	}
	return strings.Join(s, ",")
}

func setBool(q url.Values, key string, b *bool) {
	if b != nil {
		q.Set(key, strconv.FormatBool(*b))
	}
}

// itemsQuery renders a page descriptor as /Items query parameters
func itemsQuery(d domain.PageDescriptor) url.Values {
	q := url.Values{}
	if d.ParentID != "" {
		q.Set("ParentId", d.ParentID)
	}
	q.Set("StartIndex", strconv.Itoa(d.Offset))
	if d.Limit > 0 {
		q.Set("Limit", strconv.Itoa(d.Limit))
	}
	if len(d.SortBy) > 0 {
		s := make([]string, len(d.SortBy))
		for i, f := range d.SortBy {
			s[i] = string(f)
		}
		q.Set("SortBy", strings.Join(s, ","))
	}
	if len(d.SortOrder) > 0 {
		s := make([]string, len(d.SortOrder))
		for i, o := range d.SortOrder {
			s[i] = string(o)
		}
		q.Set("SortOrder", strings.Join(s, ","))
	}
	if len(d.IncludeKinds) > 0 {
		q.Set("IncludeItemTypes", joinKinds(d.IncludeKinds))
	}
	if len(d.Genres) > 0 {
		q.Set("Genres", strings.Join(d.Genres, "|"))
	}
	if len(d.Tags) > 0 {
		q.Set("Tags", strings.Join(d.Tags, "|"))
	}
	if len(d.Years) > 0 {
		s := make([]string, len(d.Years))
		for i, y := range d.Years {
			s[i] = strconv.Itoa(y)
		}
		q.Set("Years", strings.Join(s, ","))
	}
	if len(d.Filters) > 0 {
		q.Set("Filters", strings.Join(d.Filters, ","))
	}
	if d.Recursive {
		q.Set("Recursive", "true")
	}
	if len(d.Fields) > 0 {
		q.Set("Fields", strings.Join(d.Fields, ","))
	}
	if len(d.ImageTypes) > 0 {
		q.Set("EnableImageTypes", strings.Join(d.ImageTypes, ","))
	}
	if d.ImageTypeLimit > 0 {
		q.Set("ImageTypeLimit", strconv.Itoa(d.ImageTypeLimit))
	}
	return q
}

// ListItems returns one page of items for a descriptor
func (c *Client) ListItems(ctx context.Context, userID string, d domain.PageDescriptor) (domain.ResultPage, error) {
	var resp ItemsResponse
	if err := c.getJSON(ctx, apiPath("/Users/%s/Items", userID), itemsQuery(d), &resp); err != nil {
		return domain.ResultPage{}, err
	}
	return domain.ResultPage{
		Items:            MapItems(resp.Items),
		TotalRecordCount: resp.TotalRecordCount,
	}, nil
}

// GetItem returns a single item's details
func (c *Client) GetItem(ctx context.Context, userID, itemID string) (*domain.Item, error) {
	var item Item
	if err := c.getJSON(ctx, apiPath("/Users/%s/Items/%s", userID, itemID), nil, &item); err != nil {
		return nil, err
	}
	mapped := MapItem(item)
	return &mapped, nil
}

// GetLibrary returns collection metadata for a library id
func (c *Client) GetLibrary(ctx context.Context, userID, libraryID string) (*domain.Library, error) {
	var item Item
	if err := c.getJSON(ctx, apiPath("/Users/%s/Items/%s", userID, libraryID), nil, &item); err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return nil, domain.ErrLibraryNotFound
		}
		return nil, err
	}
	lib := MapLibrary(item)
	return &lib, nil
}

// GetUserViews returns the user's top-level collections
func (c *Client) GetUserViews(ctx context.Context, userID string) ([]domain.Library, error) {
	var resp ItemsResponse
	if err := c.getJSON(ctx, apiPath("/Users/%s/Views", userID), nil, &resp); err != nil {
		return nil, err
	}
	return MapLibraries(resp.Items), nil
}

// GetResumeItems returns partially watched items
func (c *Client) GetResumeItems(ctx context.Context, userID string, kinds []domain.ItemKind) ([]domain.Item, error) {
	q := url.Values{}
	if len(kinds) > 0 {
		q.Set("IncludeItemTypes", joinKinds(kinds))
	}
	q.Set("Recursive", "true")

	var resp ItemsResponse
	if err := c.getJSON(ctx, apiPath("/Users/%s/Items/Resume", userID), q, &resp); err != nil {
		return nil, err
	}
	return MapItems(resp.Items), nil
}

// GetNextUp returns the next unwatched episode per in-progress series
func (c *Client) GetNextUp(ctx context.Context, userID string, nq domain.NextUpQuery) ([]domain.Item, error) {
	q := url.Values{}
	q.Set("UserId", userID)
	if nq.SeriesID != "" {
		q.Set("SeriesId", nq.SeriesID)
	}
	if nq.Limit > 0 {
		q.Set("Limit", strconv.Itoa(nq.Limit))
	}
	setBool(q, "EnableResumable", nq.EnableResumable)
	setBool(q, "EnableRewatching", nq.EnableRewatching)

	var resp ItemsResponse
	if err := c.getJSON(ctx, "/Shows/NextUp", q, &resp); err != nil {
		return nil, err
	}
	return MapItems(resp.Items), nil
}

// GetLatestMedia returns recently added items under a parent
func (c *Client) GetLatestMedia(ctx context.Context, userID string, lq domain.LatestQuery) ([]domain.Item, error) {
	q := url.Values{}
	if lq.ParentID != "" {
		q.Set("ParentId", lq.ParentID)
	}
	if len(lq.IncludeKinds) > 0 {
		q.Set("IncludeItemTypes", joinKinds(lq.IncludeKinds))
	}
	if lq.Limit > 0 {
		q.Set("Limit", strconv.Itoa(lq.Limit))
	}
	setBool(q, "IsPlayed", lq.IsPlayed)
	setBool(q, "GroupItems", lq.GroupItems)

	// Latest returns a bare array rather than an ItemsResponse
	var items []Item
	if err := c.getJSON(ctx, apiPath("/Users/%s/Items/Latest", userID), q, &items); err != nil {
		return nil, err
	}
	return MapItems(items), nil
}

// GetSuggestions returns server recommendations
func (c *Client) GetSuggestions(ctx context.Context, userID string, sq domain.SuggestionsQuery) ([]domain.Item, error) {
	q := url.Values{}
	if len(sq.Kinds) > 0 {
		q.Set("Type", joinKinds(sq.Kinds))
	}
	if len(sq.MediaTypes) > 0 {
		q.Set("MediaType", strings.Join(sq.MediaTypes, ","))
	}
	if sq.Limit > 0 {
		q.Set("Limit", strconv.Itoa(sq.Limit))
	}

	var resp ItemsResponse
	if err := c.getJSON(ctx, apiPath("/Users/%s/Suggestions", userID), q, &resp); err != nil {
		return nil, err
	}
	return MapItems(resp.Items), nil
}

// GetFilterVocabulary returns the genre/year/tag values present under a parent
func (c *Client) GetFilterVocabulary(ctx context.Context, userID, parentID string) (domain.FilterVocabulary, error) {
	q := url.Values{}
	q.Set("UserId", userID)
	if parentID != "" {
		q.Set("ParentId", parentID)
	}

	var resp QueryFilters
	if err := c.getJSON(ctx, "/Items/Filters", q, &resp); err != nil {
		return domain.FilterVocabulary{}, err
	}
	return MapFilters(resp), nil
}

// GetEpisodes returns a season's episodes in index order
func (c *Client) GetEpisodes(ctx context.Context, userID, seriesID, seasonID string) ([]domain.Item, error) {
	q := url.Values{}
	q.Set("UserId", userID)
	if seasonID != "" {
		q.Set("SeasonId", seasonID)
	}
	q.Set("Fields", "Overview")

	var resp ItemsResponse
	if err := c.getJSON(ctx, apiPath("/Shows/%s/Episodes", seriesID), q, &resp); err != nil {
		return nil, err
	}
	return MapItems(resp.Items), nil
}

// FindUser resolves a user name to its id. Listing users needs an admin API key.
func (c *Client) FindUser(ctx context.Context, name string) (string, error) {
	var users []User
	if err := c.getJSON(ctx, "/Users", nil, &users); err != nil {
		return "", err
	}
	for _, u := range users {
		if strings.EqualFold(u.Name, name) {
			return u.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %s", domain.ErrUserNotFound, name)
}
