package domain

import (
	"encoding/json"
	"strconv"
)

// LibraryPageSize is the number of items per library grid page
const LibraryPageSize = 36

// PageDescriptor describes one items request against the catalog.
// A zero Offset with everything else filled in is a descriptor "template".
type PageDescriptor struct {
	ParentID       string
	Offset         int
	Limit          int
	SortBy         []SortField
	SortOrder      []SortOrder
	IncludeKinds   []ItemKind // Empty means no kind restriction
	Genres         []string
	Tags           []string
	Years          []int
	Filters        []string // Server-side flags such as "IsUnplayed"
	Recursive      bool
	Fields         []string
	ImageTypes     []string
	ImageTypeLimit int
}

// WithOffset returns a copy of the descriptor starting at offset
func (d PageDescriptor) WithOffset(offset int) PageDescriptor {
	d.Offset = offset
	return d
}

// HasKind reports whether the descriptor requests the given kind
func (d PageDescriptor) HasKind(k ItemKind) bool {
	for _, kind := range d.IncludeKinds {
		if kind == k {
			return true
		}
	}
	return false
}

// ResultPage is one page of catalog results.
// TotalRecordCount is authoritative for "has more"; len(Items) may be short.
type ResultPage struct {
	Items            []Item
	TotalRecordCount int
}

// NextUpQuery parameters for the next-up endpoint
type NextUpQuery struct {
	SeriesID         string // Empty aggregates across all series
	Limit            int
	EnableResumable  *bool
	EnableRewatching *bool
}

// LatestQuery parameters for the latest-media endpoint
type LatestQuery struct {
	ParentID     string
	IncludeKinds []ItemKind
	Limit        int
	IsPlayed     *bool
	GroupItems   *bool
}

// SuggestionsQuery parameters for the suggestions endpoint
type SuggestionsQuery struct {
	Kinds      []ItemKind
	MediaTypes []string
	Limit      int
}

// QueryKey is the stable identity of a cacheable, paginatable request
type QueryKey []string

// String encodes the key without ambiguity between element boundaries
func (k QueryKey) String() string {
	data, _ := json.Marshal([]string(k))
	return string(data)
}

// Equal reports whether two keys identify the same query
func (k QueryKey) Equal(other QueryKey) bool {
	if len(k) != len(other) {
		return false
	}
	for i := range k {
		if k[i] != other[i] {
			return false
		}
	}
	return true
}

// BoolPart renders an optional flag as a key element
func BoolPart(b *bool) string {
	if b == nil {
		return "-"
	}
	return strconv.FormatBool(*b)
}

// ListPart renders a list as a single key element. Nil and empty lists render alike.
func ListPart(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	data, _ := json.Marshal(values)
	return string(data)
}

// KindsPart renders a kind list as a single key element
func KindsPart(kinds []ItemKind) string {
	s := make([]string, len(kinds))
	for i, k := range kinds {
		s[i] = string(k)
	}
	return ListPart(s)
}
