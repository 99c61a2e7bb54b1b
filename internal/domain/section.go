package domain

// Orientation is the scroll direction of a feed section
type Orientation string

const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
)

// ParseOrientation falls back to vertical for anything unrecognised
func ParseOrientation(s string) Orientation {
	if Orientation(s) == Horizontal {
		return Horizontal
	}
	return Vertical
}

// StrategyKind tags a section's fetch strategy
type StrategyKind string

const (
	StrategyItems             StrategyKind = "items"
	StrategyResume            StrategyKind = "resume"
	StrategyNextUp            StrategyKind = "next-up"
	StrategyLatest            StrategyKind = "latest"
	StrategySuggested         StrategyKind = "suggested"
	StrategySuggestedEpisodes StrategyKind = "suggested-episodes"
	StrategyEmpty             StrategyKind = "empty"
)

// Strategy is a section's fetch strategy.
// KeyParts returns every parameter that influences the result.
type Strategy interface {
	Kind() StrategyKind
	KeyParts() []string
}

// SectionDescriptor describes one home-feed section
type SectionDescriptor struct {
	Title       string
	Key         QueryKey
	Strategy    Strategy
	Orientation Orientation
}

// FeedEntry is one validated, user-authored home section
type FeedEntry struct {
	Name        string
	Title       string
	Orientation Orientation
	Strategy    Strategy
}

// HomeFeedConfig is the user-authored home layout. A nil config selects the default layout.
type HomeFeedConfig struct {
	Entries []FeedEntry
}
