package filter

import (
	"testing"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVocabulary_Search(t *testing.T) {
	v := NewVocabulary(domain.FilterVocabulary{
		Genres: []string{"Drama", "Horror", "Adventure"},
		Tags:   []string{"4k", "dolby"},
		Years:  []string{"2001", "1999", "1995"},
	})

	got := v.Search("DRA")
	assert.Equal(t, []string{"Drama"}, got.Genres)
	assert.Empty(t, got.Tags)

	got = v.Search("199")
	assert.Equal(t, []string{"1999", "1995"}, got.Years)

	assert.Equal(t, v.FilterVocabulary, v.Search("  "))
}

func TestMatchSortOptions(t *testing.T) {
	options := domain.SortOptionsFor(domain.CollectionTVShows)

	got := MatchSortOptions("rand", options)
	require.NotEmpty(t, got)
	assert.Equal(t, domain.SortRandom, got[0])

	assert.Equal(t, options, MatchSortOptions("", options))
	assert.Empty(t, MatchSortOptions("zzzz", options))
}
