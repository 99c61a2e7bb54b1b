package domain

import (
	"fmt"
	"time"
)

// ItemKind is the server-side item type ("Movie", "Series", "Episode", ...)
type ItemKind string

const (
	KindMovie    ItemKind = "Movie"
	KindSeries   ItemKind = "Series"
	KindSeason   ItemKind = "Season"
	KindEpisode  ItemKind = "Episode"
	KindBoxSet   ItemKind = "BoxSet"
	KindProgram  ItemKind = "Program"
	KindFolder   ItemKind = "CollectionFolder"
	KindPlaylist ItemKind = "Playlist"
)

// Item represents a media entity returned by the catalog
type Item struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	SortName          string        `json:"sortName,omitempty"`
	Type              ItemKind      `json:"type"`
	Overview          string        `json:"overview,omitempty"`
	ParentID          string        `json:"parentId,omitempty"`
	SeriesID          string        `json:"seriesId,omitempty"` // Parent series (episodes, seasons)
	SeriesName        string        `json:"seriesName,omitempty"`
	SeasonID          string        `json:"seasonId,omitempty"` // Parent season (episodes)
	IndexNumber       int           `json:"indexNumber,omitempty"`       // Episode number within season
	ParentIndexNumber int           `json:"parentIndexNumber,omitempty"` // Season number
	ProductionYear    int           `json:"productionYear,omitempty"`
	CommunityRating   float64       `json:"communityRating,omitempty"`
	OfficialRating    string        `json:"officialRating,omitempty"`
	RunTime           time.Duration `json:"runTime,omitempty"`
	DateCreated       time.Time     `json:"dateCreated,omitempty"`
	UserData          UserData      `json:"userData"`
}

// UserData holds per-user state for an item
type UserData struct {
	Played           bool          `json:"played"`
	PlaybackPosition time.Duration `json:"playbackPosition,omitempty"`
	IsFavorite       bool          `json:"isFavorite,omitempty"`
	UnplayedCount    int           `json:"unplayedCount,omitempty"`
}

// WatchStatus returns the watch status of the item
func (i Item) WatchStatus() WatchStatus {
	if i.UserData.Played {
		return WatchStatusWatched
	}
	if i.UserData.PlaybackPosition > 0 {
		return WatchStatusInProgress
	}
	return WatchStatusUnwatched
}

// FormattedDuration returns the runtime in a human-readable format
func (i Item) FormattedDuration() string {
	h := int(i.RunTime.Hours())
	mins := int(i.RunTime.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, mins)
	}
	return fmt.Sprintf("%dm", mins)
}

// EpisodeCode returns the formatted episode code (e.g., "S01E05")
func (i Item) EpisodeCode() string {
	if i.Type != KindEpisode {
		return ""
	}
	return fmt.Sprintf("S%02dE%02d", i.ParentIndexNumber, i.IndexNumber)
}

// DisplayTitle returns the title shown in lists. Episodes carry their series name.
func (i Item) DisplayTitle() string {
	if i.Type == KindEpisode && i.SeriesName != "" {
		return fmt.Sprintf("%s %s - %s", i.SeriesName, i.EpisodeCode(), i.Name)
	}
	if i.ProductionYear > 0 && (i.Type == KindMovie || i.Type == KindSeries) {
		return fmt.Sprintf("%s (%d)", i.Name, i.ProductionYear)
	}
	return i.Name
}

// CollectionType is the server's library classification
type CollectionType string

const (
	CollectionMovies  CollectionType = "movies"
	CollectionTVShows CollectionType = "tvshows"
	CollectionBoxSets CollectionType = "boxsets"
)

// Library represents a top-level collection (a user view)
type Library struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	CollectionType CollectionType `json:"collectionType,omitempty"`
}

// WatchStatus represents the viewing state of media
type WatchStatus int

const (
	WatchStatusUnwatched WatchStatus = iota
	WatchStatusInProgress
	WatchStatusWatched
)

// String returns a human-readable representation of the watch status
func (w WatchStatus) String() string {
	switch w {
	case WatchStatusUnwatched:
		return "Unwatched"
	case WatchStatusInProgress:
		return "In Progress"
	case WatchStatusWatched:
		return "Watched"
	default:
		return "Unknown"
	}
}
