package feed

import (
	"testing"

	"github.com/mmcdole/marquee/internal/config"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadHomeFeed_NoSectionsMeansDefault(t *testing.T) {
	assert.Nil(t, LoadHomeFeed(nil, log.NullLogger()))
	assert.Nil(t, LoadHomeFeed([]config.SectionConfig{}, log.NullLogger()))
}

func TestLoadHomeFeed_Strategies(t *testing.T) {
	played := false
	cfg := LoadHomeFeed([]config.SectionConfig{
		{
			Name:        "unwatched",
			Title:       "Unwatched",
			Orientation: "horizontal",
			Items: &config.ItemsSection{
				IncludeItemTypes: []string{"Movie"},
				SortBy:           []string{"Random", "Bogus"},
				SortOrder:        []string{"Descending"},
				Filters:          []string{"IsUnplayed"},
				ParentID:         "M",
			},
		},
		{Name: "upnext", NextUp: &config.NextUpSection{Limit: 5}},
		{Name: "latest", Latest: &config.LatestSection{IncludeItemTypes: []string{"Episode"}, IsPlayed: &played}},
	}, log.NullLogger())
	require.NotNil(t, cfg)
	require.Len(t, cfg.Entries, 3)

	items := cfg.Entries[0].Strategy.(ItemsStrategy)
	assert.Equal(t, domain.Horizontal, cfg.Entries[0].Orientation)
	assert.Equal(t, 25, items.Limit)
	assert.Equal(t, "M", items.ParentID)
	assert.Equal(t, []domain.ItemKind{domain.KindMovie}, items.Kinds)
	assert.Equal(t, []domain.SortField{domain.SortRandom}, items.SortBy)
	assert.Equal(t, []domain.SortOrder{domain.Descending}, items.SortOrder)

	nextUp := cfg.Entries[1].Strategy.(NextUpStrategy)
	assert.Equal(t, domain.Vertical, cfg.Entries[1].Orientation)
	assert.Equal(t, 5, nextUp.Limit)

	latest := cfg.Entries[2].Strategy.(LatestStrategy)
	assert.Equal(t, 25, latest.Limit)
	require.NotNil(t, latest.IsPlayed)
	assert.False(t, *latest.IsPlayed)
}

func TestLoadHomeFeed_InvalidSectionsAreEmpty(t *testing.T) {
	cfg := LoadHomeFeed([]config.SectionConfig{
		{Name: "nothing"},
		{Name: "both", NextUp: &config.NextUpSection{}, Latest: &config.LatestSection{}},
	}, log.NullLogger())
	require.NotNil(t, cfg)

	for _, e := range cfg.Entries {
		assert.Equal(t, domain.StrategyEmpty, e.Strategy.Kind(), e.Name)
	}
}
