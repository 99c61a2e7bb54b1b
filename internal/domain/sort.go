package domain

// SortField is a catalog sort key. Values are the server's wire names.
type SortField string

const (
	SortDefault              SortField = "Default"
	SortName                 SortField = "SortName"
	SortCommunityRating      SortField = "CommunityRating"
	SortCriticRating         SortField = "CriticRating"
	SortDateCreated          SortField = "DateCreated"
	SortDateLastContentAdded SortField = "DateLastContentAdded"
	SortDatePlayed           SortField = "DatePlayed"
	SortPlayCount            SortField = "PlayCount"
	SortProductionYear       SortField = "ProductionYear"
	SortRuntime              SortField = "Runtime"
	SortOfficialRating       SortField = "OfficialRating"
	SortPremiereDate         SortField = "PremiereDate"
	SortStartDate            SortField = "StartDate"
	SortIsUnplayed           SortField = "IsUnplayed"
	SortIsPlayed             SortField = "IsPlayed"
	SortAirTime              SortField = "AirTime"
	SortStudio               SortField = "Studio"
	SortIsFavoriteOrLiked    SortField = "IsFavoriteOrLiked"
	SortRandom               SortField = "Random"
)

// sortFields lists every field in display order
var sortFields = []SortField{
	SortDefault,
	SortName,
	SortCommunityRating,
	SortCriticRating,
	SortDateCreated,
	SortDateLastContentAdded,
	SortDatePlayed,
	SortPlayCount,
	SortProductionYear,
	SortRuntime,
	SortOfficialRating,
	SortPremiereDate,
	SortStartDate,
	SortIsUnplayed,
	SortIsPlayed,
	SortAirTime,
	SortStudio,
	SortIsFavoriteOrLiked,
	SortRandom,
}

var sortLabels = map[SortField]string{
	SortDefault:              "Default",
	SortName:                 "Name",
	SortCommunityRating:      "Community Rating",
	SortCriticRating:         "Critics Rating",
	SortDateCreated:          "Date Added",
	SortDateLastContentAdded: "Date Episode Added",
	SortDatePlayed:           "Date Played",
	SortPlayCount:            "Play Count",
	SortProductionYear:       "Production Year",
	SortRuntime:              "Runtime",
	SortOfficialRating:       "Official Rating",
	SortPremiereDate:         "Premiere Date",
	SortStartDate:            "Start Date",
	SortIsUnplayed:           "Is Unplayed",
	SortIsPlayed:             "Is Played",
	SortAirTime:              "Air Time",
	SortStudio:               "Studio",
	SortIsFavoriteOrLiked:    "Is Favorite Or Liked",
	SortRandom:               "Random",
}

// Label returns the display name for the sort field
func (f SortField) Label() string {
	if l, ok := sortLabels[f]; ok {
		return l
	}
	return "Unknown"
}

// ParseSortField converts a wire name into a SortField
func ParseSortField(s string) (SortField, bool) {
	f := SortField(s)
	_, ok := sortLabels[f]
	return f, ok
}

// SortFields returns every known sort field in display order
func SortFields() []SortField {
	out := make([]SortField, len(sortFields))
	copy(out, sortFields)
	return out
}

// SortOptionsFor returns the sort fields offered for a collection.
// "Date Episode Added" means nothing for a movie library.
func SortOptionsFor(ct CollectionType) []SortField {
	out := make([]SortField, 0, len(sortFields))
	for _, f := range sortFields {
		if ct == CollectionMovies && f == SortDateLastContentAdded {
			continue
		}
		out = append(out, f)
	}
	return out
}

// SortOrder is the direction of a sort
type SortOrder string

const (
	Ascending  SortOrder = "Ascending"
	Descending SortOrder = "Descending"
)

// ParseSortOrder converts a wire name into a SortOrder
func ParseSortOrder(s string) (SortOrder, bool) {
	switch SortOrder(s) {
	case Ascending, Descending:
		return SortOrder(s), true
	}
	return "", false
}

// Toggle returns the opposite direction
func (o SortOrder) Toggle() SortOrder {
	if o == Descending {
		return Ascending
	}
	return Descending
}

// FilterSelection is the active filter/sort state of one collection view.
// Sort values are scalars; the view only ever has one active field and order.
type FilterSelection struct {
	Genres    []string
	Tags      []string
	Years     []string
	SortBy    SortField
	SortOrder SortOrder
}

// Clone returns a deep copy of the selection
func (s FilterSelection) Clone() FilterSelection {
	return FilterSelection{
		Genres:    append([]string(nil), s.Genres...),
		Tags:      append([]string(nil), s.Tags...),
		Years:     append([]string(nil), s.Years...),
		SortBy:    s.SortBy,
		SortOrder: s.SortOrder,
	}
}

// FilterVocabulary lists the values a collection can be filtered by
type FilterVocabulary struct {
	Genres []string
	Tags   []string
	Years  []string
}
