package query

import (
	"testing"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestResolve_KindInference(t *testing.T) {
	tests := []struct {
		ct   domain.CollectionType
		want []domain.ItemKind
	}{
		{domain.CollectionMovies, []domain.ItemKind{domain.KindMovie}},
		{domain.CollectionTVShows, []domain.ItemKind{domain.KindSeries}},
		{domain.CollectionBoxSets, []domain.ItemKind{domain.KindBoxSet}},
		{"music", nil},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(string(tt.ct), func(t *testing.T) {
			d := Resolve(domain.Library{ID: "L", CollectionType: tt.ct}, domain.FilterSelection{SortBy: domain.SortName, SortOrder: domain.Ascending})
			assert.Equal(t, tt.want, d.IncludeKinds)
		})
	}
}

func TestResolve_Descriptor(t *testing.T) {
	meta := domain.Library{ID: "L", CollectionType: domain.CollectionMovies}
	sel := domain.FilterSelection{
		Genres:    []string{"Horror"},
		Tags:      []string{"4k"},
		Years:     []string{"1979", "not-a-year", "1986"},
		SortBy:    domain.SortDateCreated,
		SortOrder: domain.Descending,
	}

	d := Resolve(meta, sel)

	assert.Equal(t, "L", d.ParentID)
	assert.Equal(t, 0, d.Offset)
	assert.Equal(t, 36, d.Limit)
	assert.Equal(t, []domain.SortField{domain.SortDateCreated, domain.SortName, domain.SortProductionYear}, d.SortBy)
	assert.Equal(t, []domain.SortOrder{domain.Descending}, d.SortOrder)
	assert.Equal(t, []string{"Horror"}, d.Genres)
	assert.Equal(t, []string{"4k"}, d.Tags)
	assert.Equal(t, []int{1979, 1986}, d.Years)
	assert.True(t, d.Recursive)
	assert.Equal(t, []string{"PrimaryImageAspectRatio", "SortName"}, d.Fields)
	assert.Equal(t, []string{"Primary", "Backdrop", "Banner", "Thumb"}, d.ImageTypes)
	assert.Equal(t, 1, d.ImageTypeLimit)
}

func TestResolve_IsPure(t *testing.T) {
	meta := domain.Library{ID: "L", CollectionType: domain.CollectionTVShows}
	sel := domain.FilterSelection{Genres: []string{"Drama"}, SortBy: domain.SortName, SortOrder: domain.Ascending}

	assert.Equal(t, Resolve(meta, sel), Resolve(meta, sel))

	d := Resolve(meta, sel)
	d.Genres[0] = "Mutated"
	assert.Equal(t, []string{"Drama"}, sel.Genres)
}

func TestKey(t *testing.T) {
	meta := domain.Library{ID: "L"}
	base := domain.FilterSelection{SortBy: domain.SortName, SortOrder: domain.Ascending}

	withGenre := base.Clone()
	withGenre.Genres = []string{"Drama"}

	withTag := base.Clone()
	withTag.Tags = []string{"Drama"}

	descending := base.Clone()
	descending.SortOrder = domain.Descending

	assert.True(t, Key(meta, base).Equal(Key(meta, base.Clone())))
	assert.False(t, Key(meta, base).Equal(Key(meta, withGenre)))
	assert.False(t, Key(meta, withGenre).Equal(Key(meta, withTag)), "same value in different dimensions")
	assert.False(t, Key(meta, base).Equal(Key(meta, descending)))
	assert.False(t, Key(meta, base).Equal(Key(domain.Library{ID: "M"}, base)))

	assert.Equal(t, "library-items", Key(meta, base)[0])
}
