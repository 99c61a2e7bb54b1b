package store

import (
	"cmp"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/marquee/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketPreferences = []byte("preferences")
	bucketDownloads   = []byte("downloads")
	bucketLibraries   = []byte("libraries")
)

var (
	_ domain.KeyValueStore = (*Store)(nil)
	_ domain.DownloadStore = (*Store)(nil)
)

// Store is the durable local state: preference strings, downloaded items and
// the last known user views. Backed by BoltDB with an in-memory read cache.
type Store struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

// New opens the store for a server. An empty baseDir keeps everything in memory.
func New(baseDir, serverURL string) (*Store, error) {
	if baseDir == "" {
		// Memory-only mode (no persistence)
		return &Store{cache: make(map[string][]byte)}, nil
	}

	dir := baseDir
	if serverURL != "" {
		dir = filepath.Join(baseDir, hashServerURL(serverURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "marquee.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketPreferences, bucketDownloads, bucketLibraries} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, cache: make(map[string][]byte)}, nil
}

func hashServerURL(serverURL string) string {
	normalized := strings.TrimRight(strings.ToLower(serverURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func cacheKey(bucket []byte, key string) string {
	return string(bucket) + ":" + key
}

func (s *Store) get(bucket []byte, key string, dest any) bool {
	ck := cacheKey(bucket, key)

	s.mu.RLock()
	if data, ok := s.cache[ck]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[ck] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *Store) set(bucket []byte, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if s.db != nil {
		err := s.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(bucket).Put([]byte(key), data)
		})
		if err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.cache[cacheKey(bucket, key)] = data
	s.mu.Unlock()
	return nil
}

func (s *Store) delete(bucket []byte, key string) error {
	s.mu.Lock()
	delete(s.cache, cacheKey(bucket, key))
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
}

// scan returns every raw value in a bucket. In memory-only mode the cache is the bucket.
func (s *Store) scan(bucket []byte) [][]byte {
	var out [][]byte

	if s.db == nil {
		prefix := string(bucket) + ":"
		s.mu.RLock()
		for k, v := range s.cache {
			if strings.HasPrefix(k, prefix) {
				out = append(out, v)
			}
		}
		s.mu.RUnlock()
		return out
	}

	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			data := make([]byte, len(v))
			copy(data, v)
			out = append(out, data)
			return nil
		})
	})
	return out
}

// === Preferences ===

// GetString returns a preference value and whether it was present
func (s *Store) GetString(key string) (string, bool) {
	var value string
	ok := s.get(bucketPreferences, key, &value)
	return value, ok
}

// SetString stores a preference value
func (s *Store) SetString(key, value string) error {
	return s.set(bucketPreferences, key, value)
}

// Delete removes a preference value
func (s *Store) Delete(key string) error {
	return s.delete(bucketPreferences, key)
}

// === Downloads ===

// SaveDownload records an item as available offline
func (s *Store) SaveDownload(item domain.Item) error {
	return s.set(bucketDownloads, item.ID, item)
}

// RemoveDownload forgets a downloaded item
func (s *Store) RemoveDownload(itemID string) error {
	return s.delete(bucketDownloads, itemID)
}

// Downloads returns all downloaded items ordered by series, season and episode number
func (s *Store) Downloads() []domain.Item {
	raw := s.scan(bucketDownloads)
	items := make([]domain.Item, 0, len(raw))
	for _, data := range raw {
		var item domain.Item
		if err := json.Unmarshal(data, &item); err != nil {
			continue
		}
		items = append(items, item)
	}
	slices.SortFunc(items, func(a, b domain.Item) int {
		return cmp.Or(
			cmp.Compare(a.SeriesName, b.SeriesName),
			cmp.Compare(a.ParentIndexNumber, b.ParentIndexNumber),
			cmp.Compare(a.IndexNumber, b.IndexNumber),
			cmp.Compare(a.ID, b.ID),
		)
	})
	return items
}

// === Libraries ===

// GetLibraries returns the last saved user views
func (s *Store) GetLibraries() ([]domain.Library, bool) {
	var libs []domain.Library
	ok := s.get(bucketLibraries, "list", &libs)
	return libs, ok
}

// SaveLibraries remembers the user views for offline start-up
func (s *Store) SaveLibraries(libs []domain.Library) error {
	return s.set(bucketLibraries, "list", libs)
}
