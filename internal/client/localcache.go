package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/quantmind-br/gamepass-catalog/internal/cache"
	"github.com/quantmind-br/gamepass-catalog/internal/domain"
	"github.com/quantmind-br/gamepass-catalog/internal/utils"
)

// KeyPrefix namespaces every key written by LocalCache
const KeyPrefix = "gamepass_"

// KV is the byte store behind a LocalCache
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) error
	Close() error
}

var _ KV = (*cache.BadgerCache)(nil)

// localEntry is the stored JSON shape; times are Unix milliseconds
type localEntry struct {
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
	ExpiresAt int64           `json:"expiresAt"`
}

// LocalCache is a persistent TTL cache for façade responses
type LocalCache struct {
	kv     KV
	now    func() time.Time
	logger *utils.Logger
}

// LocalCacheOptions contains options for creating a LocalCache
type LocalCacheOptions struct {
	KV     KV
	Now    func() time.Time
	Logger *utils.Logger
}

// NewLocalCache creates a LocalCache over opts.KV
func NewLocalCache(opts LocalCacheOptions) *LocalCache {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &LocalCache{kv: opts.KV, now: now, logger: logger.WithComponent("localcache")}
}

// OpenLocalCache opens an on-disk badger database in dir
func OpenLocalCache(dir string, logger *utils.Logger) (*LocalCache, error) {
	kv, err := cache.NewBadgerCache(cache.Options{Directory: utils.ExpandPath(dir)})
	if err != nil {
		return nil, fmt.Errorf("failed to open local cache: %w", err)
	}
	return NewLocalCache(LocalCacheOptions{KV: kv, Logger: logger}), nil
}

// Set stores data under key for ttl
func (c *LocalCache) Set(ctx context.Context, key string, data any, ttl time.Duration) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	now := c.now()
	value, err := json.Marshal(localEntry{
		Data:      raw,
		Timestamp: now.UnixMilli(),
		ExpiresAt: now.Add(ttl).UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return c.kv.Set(ctx, KeyPrefix+key, value, 0)
}

// Get decodes the data stored under key into dst. It reports false when
// the key is absent or expired. Expired and corrupt entries are removed.
func (c *LocalCache) Get(ctx context.Context, key string, dst any) bool {
	entry, ok := c.entry(ctx, key)
	if !ok {
		return false
	}

	if c.now().UnixMilli() > entry.ExpiresAt {
		c.Remove(ctx, key)
		return false
	}

	if err := json.Unmarshal(entry.Data, dst); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Dropping undecodable cache entry")
		c.Remove(ctx, key)
		return false
	}
	return true
}

// Age returns the age in whole minutes of the entry under key
func (c *LocalCache) Age(ctx context.Context, key string) (int, bool) {
	entry, ok := c.entry(ctx, key)
	if !ok {
		return 0, false
	}
	return int((c.now().UnixMilli() - entry.Timestamp) / time.Minute.Milliseconds()), true
}

// Remove deletes the entry under key
func (c *LocalCache) Remove(ctx context.Context, key string) {
	if err := c.kv.Delete(ctx, KeyPrefix+key); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Failed to remove cache entry")
	}
}

// ClearAll removes every namespaced entry
func (c *LocalCache) ClearAll(ctx context.Context) error {
	if err := c.kv.DeletePrefix(ctx, KeyPrefix); err != nil {
		return fmt.Errorf("clear local cache: %w", err)
	}
	return nil
}

// Close releases the underlying store
func (c *LocalCache) Close() error {
	return c.kv.Close()
}

func (c *LocalCache) entry(ctx context.Context, key string) (*localEntry, bool) {
	value, err := c.kv.Get(ctx, KeyPrefix+key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			c.logger.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		}
		return nil, false
	}

	var entry localEntry
	if err := json.Unmarshal(value, &entry); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Dropping corrupt cache entry")
		c.Remove(ctx, key)
		return nil, false
	}
	return &entry, true
}
