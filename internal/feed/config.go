package feed

import (
	"log/slog"

	"github.com/mmcdole/marquee/internal/config"
	"github.com/mmcdole/marquee/internal/domain"
)

// LoadHomeFeed validates the configured home sections. No sections selects the
// default layout and returns nil. A section naming zero or several query kinds
// becomes an empty section.
func LoadHomeFeed(sections []config.SectionConfig, logger *slog.Logger) *domain.HomeFeedConfig {
	if len(sections) == 0 {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}

	cfg := &domain.HomeFeedConfig{Entries: make([]domain.FeedEntry, 0, len(sections))}
	for _, sc := range sections {
		cfg.Entries = append(cfg.Entries, domain.FeedEntry{
			Name:        sc.Name,
			Title:       sc.Title,
			Orientation: domain.ParseOrientation(sc.Orientation),
			Strategy:    strategyFor(sc, logger),
		})
	}
	return cfg
}

func strategyFor(sc config.SectionConfig, logger *slog.Logger) domain.Strategy {
	n := 0
	for _, set := range []bool{sc.Items != nil, sc.NextUp != nil, sc.Latest != nil} {
		if set {
			n++
		}
	}
	if n != 1 {
		logger.Warn("home section must set exactly one of items, next_up, latest", "section", sc.Name, "count", n)
		if n == 0 {
			return EmptyStrategy{Reason: "no query"}
		}
		return EmptyStrategy{Reason: "ambiguous query"}
	}

	switch {
	case sc.Items != nil:
		return ItemsStrategy{
			ParentID:  sc.Items.ParentID,
			Kinds:     parseKinds(sc.Items.IncludeItemTypes),
			SortBy:    parseSortFields(sc.Items.SortBy, sc.Name, logger),
			SortOrder: parseSortOrders(sc.Items.SortOrder, sc.Name, logger),
			Filters:   sc.Items.Filters,
			Limit:     limitOrDefault(sc.Items.Limit),
		}
	case sc.NextUp != nil:
		return NextUpStrategy{
			Limit:            limitOrDefault(sc.NextUp.Limit),
			EnableResumable:  sc.NextUp.EnableResumable,
			EnableRewatching: sc.NextUp.EnableRewatching,
		}
	default:
		return LatestStrategy{
			Kinds:      parseKinds(sc.Latest.IncludeItemTypes),
			Limit:      limitOrDefault(sc.Latest.Limit),
			IsPlayed:   sc.Latest.IsPlayed,
			GroupItems: sc.Latest.GroupItems,
		}
	}
}

func limitOrDefault(n int) int {
	if n <= 0 {
		return DefaultConfiguredLimit
	}
	return n
}

func parseKinds(values []string) []domain.ItemKind {
	if len(values) == 0 {
		return nil
	}
	kinds := make([]domain.ItemKind, len(values))
	for i, v := range values {
		kinds[i] = domain.ItemKind(v)
	}
	return kinds
}

func parseSortFields(values []string, section string, logger *slog.Logger) []domain.SortField {
	var out []domain.SortField
	for _, v := range values {
		f, ok := domain.ParseSortField(v)
		if !ok {
			logger.Warn("ignoring unknown sort field", "section", section, "sortBy", v)
			continue
		}
		out = append(out, f)
	}
	return out
}

func parseSortOrders(values []string, section string, logger *slog.Logger) []domain.SortOrder {
	var out []domain.SortOrder
	for _, v := range values {
		o, ok := domain.ParseSortOrder(v)
		if !ok {
			logger.Warn("ignoring unknown sort order", "section", section, "sortOrder", v)
			continue
		}
		out = append(out, o)
	}
	return out
}
