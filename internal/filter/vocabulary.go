package filter

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/marquee/internal/domain"
	sfuzzy "github.com/sahilm/fuzzy"
)

// Vocabulary is the searchable set of filter values for a collection
type Vocabulary struct {
	domain.FilterVocabulary
}

// NewVocabulary wraps the values reported by the catalog
func NewVocabulary(v domain.FilterVocabulary) Vocabulary {
	return Vocabulary{FilterVocabulary: v}
}

// Search narrows every dimension to the values matching term, case-insensitively.
// An empty term returns the full vocabulary.
func (v Vocabulary) Search(term string) domain.FilterVocabulary {
	term = strings.TrimSpace(term)
	if term == "" {
		return v.FilterVocabulary
	}
	return domain.FilterVocabulary{
		Genres: match(term, v.Genres),
		Tags:   match(term, v.Tags),
		Years:  match(term, v.Years),
	}
}

func match(term string, values []string) []string {
	out := fuzzy.FindFold(term, values)
	if out == nil {
		return []string{}
	}
	return out
}

// sortOptionSource implements sahilm/fuzzy.Source over sort option labels
type sortOptionSource []domain.SortField

func (s sortOptionSource) String(i int) string { return strings.ToLower(s[i].Label()) }
func (s sortOptionSource) Len() int            { return len(s) }

// MatchSortOptions ranks sort options whose label fuzzily matches query,
// best match first. An empty query returns the options unchanged.
func MatchSortOptions(query string, options []domain.SortField) []domain.SortField {
	query = strings.TrimSpace(query)
	if query == "" {
		return options
	}
	matches := sfuzzy.FindFrom(strings.ToLower(query), sortOptionSource(options))
	out := make([]domain.SortField, 0, len(matches))
	for _, m := range matches {
		out = append(out, options[m.Index])
	}
	return out
}
