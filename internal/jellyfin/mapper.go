package jellyfin

import (
	"strconv"
	"time"

	"github.com/mmcdole/marquee/internal/domain"
)

// Jellyfin uses 100-nanosecond ticks
const nanosPerTick = 100

func ticksToDuration(ticks int64) time.Duration {
	return time.Duration(ticks * nanosPerTick)
}

// MapItems converts Jellyfin items to domain items
func MapItems(items []Item) []domain.Item {
	out := make([]domain.Item, 0, len(items))
	for _, item := range items {
		out = append(out, MapItem(item))
	}
	return out
}

// MapItem converts a single Jellyfin item
func MapItem(item Item) domain.Item {
	it := domain.Item{
		ID:                item.ID,
		Name:              item.Name,
		SortName:          item.SortName,
		Type:              domain.ItemKind(item.Type),
		Overview:          item.Overview,
		ParentID:          item.ParentID,
		SeriesID:          item.SeriesID,
		SeriesName:        item.SeriesName,
		SeasonID:          item.SeasonID,
		IndexNumber:       item.IndexNumber,
		ParentIndexNumber: item.ParentIndexNumber,
		ProductionYear:    item.ProductionYear,
		CommunityRating:   item.CommunityRating,
		OfficialRating:    item.OfficialRating,
		RunTime:           ticksToDuration(item.RunTimeTicks),
	}

	if it.SortName == "" {
		it.SortName = it.Name
	}

	if item.DateCreated != "" {
		if t, err := time.Parse(time.RFC3339, item.DateCreated); err == nil {
			it.DateCreated = t
		}
	}

	if item.UserData != nil {
		it.UserData = domain.UserData{
			Played:           item.UserData.Played,
			PlaybackPosition: ticksToDuration(item.UserData.PlaybackPositionTicks),
			IsFavorite:       item.UserData.IsFavorite,
			UnplayedCount:    item.UserData.UnplayedItemCount,
		}
	}

	return it
}

// MapLibraries converts Jellyfin user views to domain libraries
func MapLibraries(items []Item) []domain.Library {
	libraries := make([]domain.Library, 0, len(items))
	for _, item := range items {
		libraries = append(libraries, MapLibrary(item))
	}
	return libraries
}

// MapLibrary converts a single view item. Unknown collection types pass through as-is.
func MapLibrary(item Item) domain.Library {
	return domain.Library{
		ID:             item.ID,
		Name:           item.Name,
		CollectionType: domain.CollectionType(item.CollectionType),
	}
}

// MapFilters converts the filter vocabulary. Years are rendered newest first.
func MapFilters(f QueryFilters) domain.FilterVocabulary {
	v := domain.FilterVocabulary{
		Genres: append([]string{}, f.Genres...),
		Tags:   append([]string{}, f.Tags...),
		Years:  make([]string, 0, len(f.Years)),
	}
	for i := len(f.Years) - 1; i >= 0; i-- {
		v.Years = append(v.Years, strconv.Itoa(f.Years[i]))
	}
	return v
}
