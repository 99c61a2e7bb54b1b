// Package query turns a collection and its filter selection into a catalog request.
package query

import (
	"strconv"

	"github.com/mmcdole/marquee/internal/domain"
)

var (
	itemFields = []string{"PrimaryImageAspectRatio", "SortName"}
	imageTypes = []string{"Primary", "Backdrop", "Banner", "Thumb"}
)

// KindFor returns the item kind a collection is restricted to, if any.
// Collections can hold stray items of other kinds; the restriction hides them.
func KindFor(ct domain.CollectionType) (domain.ItemKind, bool) {
	switch ct {
	case domain.CollectionMovies:
		return domain.KindMovie, true
	case domain.CollectionTVShows:
		return domain.KindSeries, true
	case domain.CollectionBoxSets:
		return domain.KindBoxSet, true
	}
	return "", false
}

// Resolve builds the first-page descriptor for a collection view.
// Non-numeric years are skipped.
func Resolve(meta domain.Library, sel domain.FilterSelection) domain.PageDescriptor {
	d := domain.PageDescriptor{
		ParentID:       meta.ID,
		Offset:         0,
		Limit:          domain.LibraryPageSize,
		SortBy:         []domain.SortField{sel.SortBy, domain.SortName, domain.SortProductionYear},
		SortOrder:      []domain.SortOrder{sel.SortOrder},
		Genres:         append([]string{}, sel.Genres...),
		Tags:           append([]string{}, sel.Tags...),
		Years:          parseYears(sel.Years),
		Recursive:      true,
		Fields:         append([]string{}, itemFields...),
		ImageTypes:     append([]string{}, imageTypes...),
		ImageTypeLimit: 1,
	}
	if kind, ok := KindFor(meta.CollectionType); ok {
		d.IncludeKinds = []domain.ItemKind{kind}
	}
	return d
}

func parseYears(years []string) []int {
	out := make([]int, 0, len(years))
	for _, y := range years {
		n, err := strconv.Atoi(y)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}

// Key identifies the paginated query for a collection view. Two selections
// produce the same key exactly when they would request the same items.
func Key(meta domain.Library, sel domain.FilterSelection) domain.QueryKey {
	return domain.QueryKey{
		"library-items",
		meta.ID,
		domain.ListPart(sel.Genres),
		domain.ListPart(sel.Years),
		domain.ListPart(sel.Tags),
		string(sel.SortBy),
		string(sel.SortOrder),
	}
}
