// Package feed composes and loads the sections of the home feed.
package feed

import "github.com/mmcdole/marquee/internal/domain"

// MaxSectionItems is the default number of items shown per home section
const MaxSectionItems = 20

// DedupeSeries drops episodes whose series also appears in the same list.
// Relative order of the remaining items is kept.
func DedupeSeries(items []domain.Item) []domain.Item {
	series := make(map[string]struct{})
	for _, it := range items {
		if it.Type == domain.KindSeries {
			series[it.ID] = struct{}{}
		}
	}

	out := make([]domain.Item, 0, len(items))
	for _, it := range items {
		if it.Type == domain.KindEpisode {
			if _, dup := series[it.SeriesID]; dup {
				continue
			}
		}
		out = append(out, it)
	}
	return out
}

// Cap truncates items to at most n entries. A non-positive n leaves items alone.
func Cap(items []domain.Item, n int) []domain.Item {
	if n <= 0 || len(items) <= n {
		return items
	}
	return items[:n]
}
