//go:generate mockgen -source=interfaces.go -destination=../mocks/mock_domain.go -package=mocks

package domain

import (
	"context"
)

// Fetcher defines the interface for upstream HTTP fetching
type Fetcher interface {
	// Get fetches content from a URL
	Get(ctx context.Context, url string) (*Response, error)
	// GetWithHeaders fetches content with custom headers
	GetWithHeaders(ctx context.Context, url string, headers map[string]string) (*Response, error)
	// Close releases resources
	Close() error
}

// CatalogStore defines the interface for the catalog cache
type CatalogStore interface {
	// Get returns the entry stored under key, or ErrCacheMiss. Stale entries
	// are returned as-is; freshness is judged by the caller.
	Get(ctx context.Context, key string) (*CacheEntry, error)
	// Put replaces the entry stored under key
	Put(ctx context.Context, key string, entry *CacheEntry) error
	// InvalidateAll removes every entry
	InvalidateAll(ctx context.Context) error
	// Len returns the number of stored entries, fresh or stale
	Len() int
	// Close releases cache resources
	Close() error
}
