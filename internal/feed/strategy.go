package feed

import (
	"strconv"

	"github.com/mmcdole/marquee/internal/domain"
)

// ItemsStrategy lists items through the general items query
type ItemsStrategy struct {
	ParentID  string
	Kinds     []domain.ItemKind
	SortBy    []domain.SortField
	SortOrder []domain.SortOrder
	Filters   []string
	Limit     int
}

func (ItemsStrategy) Kind() domain.StrategyKind { return domain.StrategyItems }

func (s ItemsStrategy) KeyParts() []string {
	sortBy := make([]string, len(s.SortBy))
	for i, f := range s.SortBy {
		sortBy[i] = string(f)
	}
	sortOrder := make([]string, len(s.SortOrder))
	for i, o := range s.SortOrder {
		sortOrder[i] = string(o)
	}
	return []string{
		string(s.Kind()),
		s.ParentID,
		domain.KindsPart(s.Kinds),
		domain.ListPart(sortBy),
		domain.ListPart(sortOrder),
		domain.ListPart(s.Filters),
		strconv.Itoa(s.Limit),
	}
}

// Descriptor renders the strategy as a single-page items request
func (s ItemsStrategy) Descriptor() domain.PageDescriptor {
	return domain.PageDescriptor{
		ParentID:     s.ParentID,
		Limit:        s.Limit,
		SortBy:       s.SortBy,
		SortOrder:    s.SortOrder,
		IncludeKinds: s.Kinds,
		Filters:      s.Filters,
		Recursive:    true,
		Fields:       []string{"PrimaryImageAspectRatio", "Path"},
	}
}

// ResumeStrategy lists partially watched items
type ResumeStrategy struct {
	Kinds []domain.ItemKind
}

func (ResumeStrategy) Kind() domain.StrategyKind { return domain.StrategyResume }

func (s ResumeStrategy) KeyParts() []string {
	return []string{string(s.Kind()), domain.KindsPart(s.Kinds)}
}

// NextUpStrategy lists the next episode of each in-progress series
type NextUpStrategy struct {
	Limit            int
	EnableResumable  *bool
	EnableRewatching *bool
}

func (NextUpStrategy) Kind() domain.StrategyKind { return domain.StrategyNextUp }

func (s NextUpStrategy) KeyParts() []string {
	return []string{
		string(s.Kind()),
		strconv.Itoa(s.Limit),
		domain.BoolPart(s.EnableResumable),
		domain.BoolPart(s.EnableRewatching),
	}
}

// LatestStrategy lists recently added media
type LatestStrategy struct {
	ParentID   string
	Kinds      []domain.ItemKind
	Limit      int
	IsPlayed   *bool
	GroupItems *bool
}

func (LatestStrategy) Kind() domain.StrategyKind { return domain.StrategyLatest }

func (s LatestStrategy) KeyParts() []string {
	return []string{
		string(s.Kind()),
		s.ParentID,
		domain.KindsPart(s.Kinds),
		strconv.Itoa(s.Limit),
		domain.BoolPart(s.IsPlayed),
		domain.BoolPart(s.GroupItems),
	}
}

// SuggestedStrategy lists server recommendations
type SuggestedStrategy struct {
	Kinds      []domain.ItemKind
	MediaTypes []string
	Limit      int
}

func (SuggestedStrategy) Kind() domain.StrategyKind { return domain.StrategySuggested }

func (s SuggestedStrategy) KeyParts() []string {
	return []string{
		string(s.Kind()),
		domain.KindsPart(s.Kinds),
		domain.ListPart(s.MediaTypes),
		strconv.Itoa(s.Limit),
	}
}

// SuggestedEpisodesStrategy resolves suggested series to their next episode
type SuggestedEpisodesStrategy struct {
	Kinds      []domain.ItemKind
	MediaTypes []string
	Limit      int
	PerSeries  int
}

func (SuggestedEpisodesStrategy) Kind() domain.StrategyKind {
	return domain.StrategySuggestedEpisodes
}

func (s SuggestedEpisodesStrategy) KeyParts() []string {
	return []string{
		string(s.Kind()),
		domain.KindsPart(s.Kinds),
		domain.ListPart(s.MediaTypes),
		strconv.Itoa(s.Limit),
		strconv.Itoa(s.PerSeries),
	}
}

// EmptyStrategy yields no items. Used for invalid configured sections.
type EmptyStrategy struct {
	Reason string
}

func (EmptyStrategy) Kind() domain.StrategyKind { return domain.StrategyEmpty }

func (s EmptyStrategy) KeyParts() []string {
	return []string{string(s.Kind()), s.Reason}
}

// requestedKinds returns the item kinds a strategy asks for, when it names any
func requestedKinds(s domain.Strategy) []domain.ItemKind {
	switch st := s.(type) {
	case ItemsStrategy:
		return st.Kinds
	case ResumeStrategy:
		return st.Kinds
	case LatestStrategy:
		return st.Kinds
	case NextUpStrategy, SuggestedEpisodesStrategy:
		return []domain.ItemKind{domain.KindEpisode}
	case SuggestedStrategy:
		return st.Kinds
	}
	return nil
}
