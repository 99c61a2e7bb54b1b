// Package preferences persists per-library sort choices.
package preferences

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/mmcdole/marquee/internal/domain"
)

// Backend keys. Each holds a JSON object of library id to value.
const (
	SortByKey    = "sortByPreference"
	SortOrderKey = "sortOrderPreference"
)

// Repository reads and writes sort preferences through a key-value backend.
// Writes are read-modify-write under a single mutex; concurrent writers are last-write-wins.
type Repository struct {
	store  domain.KeyValueStore
	logger *slog.Logger
	mu     sync.Mutex
}

// NewRepository creates a repository over the given backend
func NewRepository(store domain.KeyValueStore, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{store: store, logger: logger}
}

// SortBy returns the stored sort field for a library
func (r *Repository) SortBy(libraryID string) (domain.SortField, bool) {
	r.mu.Lock()
	raw, ok := r.load(SortByKey)[libraryID]
	r.mu.Unlock()
	if !ok {
		return "", false
	}
	return domain.ParseSortField(raw)
}

// SortOrder returns the stored sort order for a library
func (r *Repository) SortOrder(libraryID string) (domain.SortOrder, bool) {
	r.mu.Lock()
	raw, ok := r.load(SortOrderKey)[libraryID]
	r.mu.Unlock()
	if !ok {
		return "", false
	}
	return domain.ParseSortOrder(raw)
}

// SetSortBy records the sort field for a library
func (r *Repository) SetSortBy(libraryID string, field domain.SortField) error {
	return r.put(SortByKey, libraryID, string(field))
}

// SetSortOrder records the sort order for a library
func (r *Repository) SetSortOrder(libraryID string, order domain.SortOrder) error {
	return r.put(SortOrderKey, libraryID, string(order))
}

// Clear forgets both preferences for a library
func (r *Repository) Clear(libraryID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, key := range []string{SortByKey, SortOrderKey} {
		m := r.load(key)
		if _, ok := m[libraryID]; !ok {
			continue
		}
		delete(m, libraryID)
		if err := r.save(key, m); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) put(key, libraryID, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m := r.load(key)
	if current, ok := m[libraryID]; ok && current == value {
		return nil
	}
	m[libraryID] = value
	return r.save(key, m)
}

// load decodes a preference map. Missing or corrupt data reads as empty.
func (r *Repository) load(key string) map[string]string {
	m := make(map[string]string)
	raw, ok := r.store.GetString(key)
	if !ok || raw == "" {
		return m
	}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		r.logger.Warn("ignoring corrupt preference map", "key", key, "error", err)
		return make(map[string]string)
	}
	return m
}

func (r *Repository) save(key string, m map[string]string) error {
	if len(m) == 0 {
		return r.store.Delete(key)
	}
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return r.store.SetString(key, string(data))
}
