// Package episodes builds the season episode strip around a current episode.
package episodes

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/sourcegraph/conc/pool"
)

// Defaults for the strip behaviour
const (
	DefaultSettleDelay = 400 * time.Millisecond
	DefaultPrefetchTTL = 5 * time.Minute
)

// Options configures a Sequencer
type Options struct {
	Offline     bool
	SettleDelay time.Duration
}

// Sequencer resolves season episode lists from the catalog or, offline,
// from downloaded items
type Sequencer struct {
	catalog   domain.Catalog
	downloads domain.DownloadStore
	cache     domain.ItemCache
	offline   bool
	settle    time.Duration
	logger    *slog.Logger
}

// New creates a sequencer
func New(catalog domain.Catalog, downloads domain.DownloadStore, cache domain.ItemCache, opts Options, logger *slog.Logger) *Sequencer {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = DefaultSettleDelay
	}
	return &Sequencer{
		catalog:   catalog,
		downloads: downloads,
		cache:     cache,
		offline:   opts.Offline,
		settle:    opts.SettleDelay,
		logger:    logger,
	}
}

// Strip is an opened episode list. Stop releases its timer and background work.
type Strip struct {
	Episodes []domain.Item
	Current  int // Index of the current episode, -1 when absent

	timer    *time.Timer
	cancel   context.CancelFunc
	prefetch *pool.Pool
	waitOnce sync.Once
}

// Stop cancels a pending scroll request and in-flight prefetches
func (s *Strip) Stop() {
	if s.timer != nil {
		s.timer.Stop()
	}
	if s.cancel != nil {
		s.cancel()
	}
}

// Wait blocks until background prefetching has finished
func (s *Strip) Wait() {
	s.waitOnce.Do(func() {
		if s.prefetch != nil {
			s.prefetch.Wait()
		}
	})
}

// Open lists the episodes of current's season. Once the list is shown,
// onScroll receives the current episode's index after the settle delay.
// Online, the neighbouring episodes are prefetched into the item cache.
func (q *Sequencer) Open(ctx context.Context, userID string, current domain.Item, onScroll func(index int)) (*Strip, error) {
	eps, err := q.episodes(ctx, userID, current)
	if err != nil {
		return nil, err
	}

	strip := &Strip{Episodes: eps, Current: -1}
	strip.Current = slices.IndexFunc(eps, func(e domain.Item) bool { return e.ID == current.ID })

	if strip.Current >= 0 && onScroll != nil {
		index := strip.Current
		strip.timer = time.AfterFunc(q.settle, func() { onScroll(index) })
	}

	q.startPrefetch(ctx, userID, current, strip)
	return strip, nil
}

func (q *Sequencer) episodes(ctx context.Context, userID string, current domain.Item) ([]domain.Item, error) {
	if current.SeasonID == "" {
		return []domain.Item{}, nil
	}

	if q.offline {
		var eps []domain.Item
		if q.downloads != nil {
			for _, it := range q.downloads.Downloads() {
				if it.SeasonID == current.SeasonID {
					eps = append(eps, it)
				}
			}
		}
		slices.SortStableFunc(eps, func(a, b domain.Item) int {
			return cmp.Compare(a.IndexNumber, b.IndexNumber)
		})
		if eps == nil {
			eps = []domain.Item{}
		}
		return eps, nil
	}

	eps, err := q.catalog.GetEpisodes(ctx, userID, current.SeriesID, current.SeasonID)
	if err != nil {
		return nil, err
	}
	if eps == nil {
		eps = []domain.Item{}
	}
	return eps, nil
}

// neighbours returns the episodes numbered one before and one after current
func neighbours(eps []domain.Item, current domain.Item) []domain.Item {
	var out []domain.Item
	for _, e := range eps {
		if e.IndexNumber == current.IndexNumber-1 || e.IndexNumber == current.IndexNumber+1 {
			out = append(out, e)
		}
	}
	return out
}

func (q *Sequencer) startPrefetch(ctx context.Context, userID string, current domain.Item, strip *Strip) {
	if current.IndexNumber == 0 {
		return
	}
	adjacent := neighbours(strip.Episodes, current)
	if len(adjacent) == 0 {
		return
	}

	if q.offline {
		for _, n := range adjacent {
			q.logger.Debug("offline neighbour", "itemID", n.ID, "episode", n.EpisodeCode())
		}
		return
	}
	if q.cache == nil {
		return
	}

	// Prefetch outlives the listing request; only Stop cancels it.
	ctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	strip.cancel = cancel
	strip.prefetch = pool.New().WithMaxGoroutines(2)

	for _, n := range adjacent {
		if _, ok := q.cache.Get(n.ID); ok {
			continue
		}
		strip.prefetch.Go(func() {
			item, err := q.catalog.GetItem(ctx, userID, n.ID)
			if err != nil {
				q.logger.Warn("prefetch failed", "itemID", n.ID, "error", err)
				return
			}
			q.cache.Add(n.ID, *item)
		})
	}
}
