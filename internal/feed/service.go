package feed

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/mmcdole/marquee/internal/cache"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/sourcegraph/conc/pool"
)

const defaultConcurrency = 4

// SectionResult is the outcome of loading one section
type SectionResult struct {
	Section domain.SectionDescriptor
	Items   []domain.Item
	Err     error
}

// Service executes section strategies against the catalog
type Service struct {
	catalog     domain.Catalog
	cache       *cache.Cache[[]domain.Item]
	logger      *slog.Logger
	maxItems    int
	concurrency int
}

// Option configures a Service
type Option func(*Service)

// WithMaxItems overrides the per-section item cap
func WithMaxItems(n int) Option {
	return func(s *Service) { s.maxItems = n }
}

// WithConcurrency bounds parallel catalog calls
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// NewService creates a section service. A nil cache disables result caching.
func NewService(catalog domain.Catalog, sectionCache *cache.Cache[[]domain.Item], logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		catalog:     catalog,
		cache:       sectionCache,
		logger:      logger,
		maxItems:    MaxSectionItems,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch returns the items of one section, from cache when fresh
func (s *Service) Fetch(ctx context.Context, userID string, sec domain.SectionDescriptor) ([]domain.Item, error) {
	cacheKey := sec.Key.String()
	if s.cache != nil {
		if items, ok := s.cache.Get(cacheKey); ok {
			return items, nil
		}
	}

	items, err := s.execute(ctx, userID, sec.Strategy)
	if err != nil {
		return nil, fmt.Errorf("section %q: %w", sec.Title, err)
	}

	if slices.Contains(requestedKinds(sec.Strategy), domain.KindEpisode) {
		items = DedupeSeries(items)
	}
	items = Cap(items, s.maxItems)
	if items == nil {
		items = []domain.Item{}
	}

	if s.cache != nil {
		s.cache.Add(cacheKey, items)
	}
	return items, nil
}

// Load fetches all sections concurrently. Each result carries its own error;
// a failing section does not affect its siblings.
func (s *Service) Load(ctx context.Context, userID string, sections []domain.SectionDescriptor) []SectionResult {
	results := make([]SectionResult, len(sections))
	p := pool.New().WithMaxGoroutines(s.concurrency)
	for i, sec := range sections {
		p.Go(func() {
			items, err := s.Fetch(ctx, userID, sec)
			if err != nil {
				s.logger.Warn("home section failed", "section", sec.Title, "error", err)
			}
			results[i] = SectionResult{Section: sec, Items: items, Err: err}
		})
	}
	p.Wait()
	return results
}

// Invalidate drops cached results so the next Fetch hits the catalog
func (s *Service) Invalidate() {
	if s.cache != nil {
		s.cache.Purge()
	}
}

func (s *Service) execute(ctx context.Context, userID string, strategy domain.Strategy) ([]domain.Item, error) {
	switch st := strategy.(type) {
	case ItemsStrategy:
		page, err := s.catalog.ListItems(ctx, userID, st.Descriptor())
		if err != nil {
			return nil, err
		}
		return page.Items, nil
	case ResumeStrategy:
		return s.catalog.GetResumeItems(ctx, userID, st.Kinds)
	case NextUpStrategy:
		return s.catalog.GetNextUp(ctx, userID, domain.NextUpQuery{
			Limit:            st.Limit,
			EnableResumable:  st.EnableResumable,
			EnableRewatching: st.EnableRewatching,
		})
	case LatestStrategy:
		return s.catalog.GetLatestMedia(ctx, userID, domain.LatestQuery{
			ParentID:     st.ParentID,
			IncludeKinds: st.Kinds,
			Limit:        st.Limit,
			IsPlayed:     st.IsPlayed,
			GroupItems:   st.GroupItems,
		})
	case SuggestedStrategy:
		return s.catalog.GetSuggestions(ctx, userID, domain.SuggestionsQuery{
			Kinds:      st.Kinds,
			MediaTypes: st.MediaTypes,
			Limit:      st.Limit,
		})
	case SuggestedEpisodesStrategy:
		return s.suggestedEpisodes(ctx, userID, st), nil
	case EmptyStrategy, nil:
		return nil, nil
	default:
		s.logger.Warn("unknown section strategy", "kind", strategy.Kind())
		return nil, nil
	}
}

// suggestedEpisodes resolves each suggested series to its next episode.
// Failures are logged and contribute nothing.
func (s *Service) suggestedEpisodes(ctx context.Context, userID string, st SuggestedEpisodesStrategy) []domain.Item {
	series, err := s.catalog.GetSuggestions(ctx, userID, domain.SuggestionsQuery{
		Kinds:      st.Kinds,
		MediaTypes: st.MediaTypes,
		Limit:      st.Limit,
	})
	if err != nil {
		s.logger.Warn("suggested series unavailable", "error", err)
		return nil
	}

	perSeries := make([][]domain.Item, len(series))
	p := pool.New().WithMaxGoroutines(s.concurrency)
	for i, sr := range series {
		if sr.ID == "" {
			continue
		}
		p.Go(func() {
			eps, err := s.catalog.GetNextUp(ctx, userID, domain.NextUpQuery{SeriesID: sr.ID, Limit: st.PerSeries})
			if err != nil {
				s.logger.Warn("next up for suggested series failed", "seriesID", sr.ID, "error", err)
				return
			}
			if len(eps) > st.PerSeries && st.PerSeries > 0 {
				eps = eps[:st.PerSeries]
			}
			perSeries[i] = eps
		})
	}
	p.Wait()

	var out []domain.Item
	for _, eps := range perSeries {
		out = append(out, eps...)
	}
	return out
}
