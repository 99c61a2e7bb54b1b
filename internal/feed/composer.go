package feed

import (
	"fmt"
	"slices"

	"github.com/mmcdole/marquee/internal/domain"
)

// Default section ids
const (
	sectionResume            = "resumeItems"
	sectionNextUp            = "nextUp-all"
	sectionRecentlyAddedIn   = "recentlyAddedIn"
	sectionSuggestedMovies   = "suggestedMovies"
	sectionSuggestedEpisodes = "suggestedEpisodes"
)

// DefaultConfiguredLimit applies to configured sections without an explicit limit
const DefaultConfiguredLimit = 25

func ptr[T any](v T) *T { return &v }

func sectionKey(id, userID string, s domain.Strategy) domain.QueryKey {
	key := domain.QueryKey{"home", id, userID}
	return append(key, s.KeyParts()...)
}

func section(title, id, userID string, s domain.Strategy, o domain.Orientation) domain.SectionDescriptor {
	return domain.SectionDescriptor{
		Title:       title,
		Key:         sectionKey(id, userID, s),
		Strategy:    s,
		Orientation: o,
	}
}

// Compose builds the home feed section list. With a nil cfg the default
// layout is produced from the user's views; otherwise one section per
// configured entry, in configuration order.
func Compose(userID string, views []domain.Library, hidden []string, cfg *domain.HomeFeedConfig) []domain.SectionDescriptor {
	if cfg != nil {
		return composeConfigured(userID, cfg)
	}
	return composeDefault(userID, views, hidden)
}

func composeDefault(userID string, views []domain.Library, hidden []string) []domain.SectionDescriptor {
	sections := []domain.SectionDescriptor{
		section("Continue Watching", sectionResume, userID,
			ResumeStrategy{Kinds: []domain.ItemKind{domain.KindMovie, domain.KindSeries, domain.KindEpisode}},
			domain.Horizontal),
		section("Next Up", sectionNextUp, userID,
			NextUpStrategy{Limit: 20, EnableResumable: ptr(false)},
			domain.Horizontal),
	}

	for _, v := range views {
		if slices.Contains(hidden, v.ID) {
			continue
		}
		var kinds []domain.ItemKind
		switch v.CollectionType {
		case domain.CollectionTVShows:
			kinds = []domain.ItemKind{domain.KindEpisode, domain.KindSeries}
		case domain.CollectionMovies:
			kinds = []domain.ItemKind{domain.KindMovie}
		default:
			continue
		}
		sections = append(sections, section(
			fmt.Sprintf("Recently Added in %s", v.Name),
			sectionRecentlyAddedIn+string(v.CollectionType),
			userID,
			ItemsStrategy{
				ParentID:  v.ID,
				Kinds:     kinds,
				SortBy:    []domain.SortField{domain.SortDateCreated},
				SortOrder: []domain.SortOrder{domain.Descending},
				Limit:     40,
			},
			domain.Vertical,
		))
	}

	sections = append(sections,
		section("Suggested Movies", sectionSuggestedMovies, userID,
			SuggestedStrategy{Kinds: []domain.ItemKind{domain.KindMovie}, MediaTypes: []string{"Video"}, Limit: 10},
			domain.Vertical),
		section("Suggested Episodes", sectionSuggestedEpisodes, userID,
			SuggestedEpisodesStrategy{Kinds: []domain.ItemKind{domain.KindSeries}, MediaTypes: []string{"Unknown"}, Limit: 10, PerSeries: 1},
			domain.Horizontal),
	)
	return sections
}

func composeConfigured(userID string, cfg *domain.HomeFeedConfig) []domain.SectionDescriptor {
	sections := make([]domain.SectionDescriptor, 0, len(cfg.Entries))
	for _, e := range cfg.Entries {
		id := e.Title
		if id == "" {
			id = e.Name
		}
		strategy := e.Strategy
		if strategy == nil {
			strategy = EmptyStrategy{Reason: "no strategy"}
		}
		sections = append(sections, section(id, id, userID, strategy, e.Orientation))
	}
	return sections
}
