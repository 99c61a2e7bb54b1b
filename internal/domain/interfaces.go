package domain

import "context"

// Catalog is the media server's query API (implemented by the jellyfin client)
type Catalog interface {
	// ListItems returns one page of items for a descriptor
	ListItems(ctx context.Context, userID string, q PageDescriptor) (ResultPage, error)

	// GetItem returns a single item's details
	GetItem(ctx context.Context, userID, itemID string) (*Item, error)

	// GetLibrary returns collection metadata for a library id
	GetLibrary(ctx context.Context, userID, libraryID string) (*Library, error)

	// GetUserViews returns the user's top-level collections
	GetUserViews(ctx context.Context, userID string) ([]Library, error)

	GetResumeItems(ctx context.Context, userID string, kinds []ItemKind) ([]Item, error)
	GetNextUp(ctx context.Context, userID string, q NextUpQuery) ([]Item, error)
	GetLatestMedia(ctx context.Context, userID string, q LatestQuery) ([]Item, error)
	GetSuggestions(ctx context.Context, userID string, q SuggestionsQuery) ([]Item, error)

	// GetFilterVocabulary returns the genre/year/tag values present under a parent
	GetFilterVocabulary(ctx context.Context, userID, parentID string) (FilterVocabulary, error)

	// GetEpisodes returns a season's episodes in index order
	GetEpisodes(ctx context.Context, userID, seriesID, seasonID string) ([]Item, error)
}

// KeyValueStore is a durable string key-value backend.
// GetString reports false when the key is absent.
type KeyValueStore interface {
	GetString(key string) (string, bool)
	SetString(key, value string) error
	Delete(key string) error
}

// DownloadStore exposes the locally downloaded items.
// The list is refreshed independently of the engine.
type DownloadStore interface {
	Downloads() []Item
}

// ItemCache holds item details primed ahead of navigation
type ItemCache interface {
	Get(key string) (Item, bool)
	Add(key string, item Item)
}
