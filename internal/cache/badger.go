package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/quantmind-br/gamepass-catalog/internal/domain"
)

// BadgerCache is a byte-level key/value cache using BadgerDB
type BadgerCache struct {
	db       *badger.DB
	stopGC   chan struct{}
	stopOnce sync.Once
}

// NewBadgerCache creates a new BadgerDB cache
func NewBadgerCache(opts Options) (*BadgerCache, error) {
	var badgerOpts badger.Options

	if opts.InMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if opts.Directory == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			opts.Directory = filepath.Join(homeDir, ".gamepass", "cache")
		}

		// Ensure directory exists
		if err := os.MkdirAll(opts.Directory, 0755); err != nil {
			return nil, err
		}

		badgerOpts = badger.DefaultOptions(opts.Directory)
	}

	// Disable logging unless explicitly enabled
	if !opts.Logger {
		badgerOpts = badgerOpts.WithLogger(nil)
	}

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, err
	}

	c := &BadgerCache{db: db, stopGC: make(chan struct{})}

	// Value log GC only applies to on-disk databases
	if !opts.InMemory {
		go c.runGC(5 * time.Minute)
	}

	return c, nil
}

func (c *BadgerCache) runGC(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stopGC:
			return
		case <-ticker.C:
			_ = c.db.RunValueLogGC(0.5)
		}
	}
}

// Get retrieves a value from cache
func (c *BadgerCache) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return domain.ErrCacheMiss
			}
			return err
		}

		value, err = item.ValueCopy(nil)
		return err
	})

	if err != nil {
		return nil, err
	}

	return value, nil
}

// Set stores a value in cache with TTL
func (c *BadgerCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), value)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
}

// Delete removes a key from cache
func (c *BadgerCache) Delete(ctx context.Context, key string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// DeletePrefix removes every key starting with prefix
func (c *BadgerCache) DeletePrefix(ctx context.Context, prefix string) error {
	return c.db.DropPrefix([]byte(prefix))
}

// Close releases cache resources
func (c *BadgerCache) Close() error {
	c.stopOnce.Do(func() { close(c.stopGC) })
	return c.db.Close()
}

// Clear removes all entries from the cache
func (c *BadgerCache) Clear() error {
	return c.db.DropAll()
}

// Count returns the number of live keys starting with prefix
func (c *BadgerCache) Count(prefix string) int {
	var count int
	_ = c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count
}

// BadgerStore is a catalog cache backed by an in-memory badger database.
// Entries are stored as zstd-compressed JSON.
type BadgerStore struct {
	cache *BadgerCache
}

// NewBadgerStore opens an in-memory badger database for catalog entries
func NewBadgerStore() (*BadgerStore, error) {
	c, err := NewBadgerCache(Options{InMemory: true})
	if err != nil {
		return nil, err
	}
	return &BadgerStore{cache: c}, nil
}

// Get returns the stored entry, fresh or stale. An undecodable entry is
// deleted and reported as a miss.
func (s *BadgerStore) Get(ctx context.Context, key string) (*domain.CacheEntry, error) {
	data, err := s.cache.Get(ctx, CatalogKey(key))
	if err != nil {
		return nil, err
	}

	var entry domain.CacheEntry
	if err := Decode(data, &entry); err != nil {
		_ = s.cache.Delete(ctx, CatalogKey(key))
		return nil, domain.ErrCacheMiss
	}
	return &entry, nil
}

// Put replaces the entry under key. Freshness is judged by the caller, so
// no badger TTL is set.
func (s *BadgerStore) Put(ctx context.Context, key string, entry *domain.CacheEntry) error {
	data, err := Encode(entry)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, CatalogKey(key), data, 0)
}

// InvalidateAll removes every entry
func (s *BadgerStore) InvalidateAll(_ context.Context) error {
	return s.cache.Clear()
}

// Len returns the number of stored entries
func (s *BadgerStore) Len() int {
	return s.cache.Count(PrefixCatalog + ":")
}

// Close releases the badger database
func (s *BadgerStore) Close() error {
	return s.cache.Close()
}
