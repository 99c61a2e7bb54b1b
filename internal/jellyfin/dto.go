package jellyfin

// ItemsResponse represents a paginated list of items from Jellyfin
type ItemsResponse struct {
	Items            []Item `json:"Items"`
	TotalRecordCount int    `json:"TotalRecordCount"`
	StartIndex       int    `json:"StartIndex"`
}

// Item represents a media item from Jellyfin (movie, series, season, episode, view, ...)
type Item struct {
	ID                string    `json:"Id"`
	Name              string    `json:"Name"`
	SortName          string    `json:"SortName"`
	Overview          string    `json:"Overview"`
	Type              string    `json:"Type"`
	CollectionType    string    `json:"CollectionType,omitempty"` // For views: "movies", "tvshows", ...
	DateCreated       string    `json:"DateCreated,omitempty"`
	ProductionYear    int       `json:"ProductionYear,omitempty"`
	RunTimeTicks      int64     `json:"RunTimeTicks,omitempty"` // Duration in 100-nanosecond units
	CommunityRating   float64   `json:"CommunityRating,omitempty"`
	OfficialRating    string    `json:"OfficialRating,omitempty"`
	ParentID          string    `json:"ParentId,omitempty"`
	SeriesID          string    `json:"SeriesId,omitempty"`
	SeriesName        string    `json:"SeriesName,omitempty"`
	SeasonID          string    `json:"SeasonId,omitempty"`
	ParentIndexNumber int       `json:"ParentIndexNumber,omitempty"` // Season number
	IndexNumber       int       `json:"IndexNumber,omitempty"`       // Episode number
	UserData          *UserData `json:"UserData,omitempty"`
}

// UserData contains user-specific data for an item (watch status, progress)
type UserData struct {
	PlaybackPositionTicks int64 `json:"PlaybackPositionTicks"`
	PlayCount             int   `json:"PlayCount"`
	IsFavorite            bool  `json:"IsFavorite"`
	Played                bool  `json:"Played"`
	UnplayedItemCount     int   `json:"UnplayedItemCount,omitempty"` // For containers like series/seasons
}

// QueryFilters is the response of /Items/Filters
type QueryFilters struct {
	Genres          []string `json:"Genres"`
	Tags            []string `json:"Tags"`
	OfficialRatings []string `json:"OfficialRatings"`
	Years           []int    `json:"Years"`
}

// User is an account on the server
type User struct {
	ID   string `json:"Id"`
	Name string `json:"Name"`
}
