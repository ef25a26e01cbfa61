package cache

import "github.com/quantmind-br/gamepass-catalog/internal/domain"

var (
	_ domain.CatalogStore = (*MemoryStore)(nil)
	_ domain.CatalogStore = (*BadgerStore)(nil)
)

// Options contains badger configuration options
type Options struct {
	Directory string
	InMemory  bool
	Logger    bool
}
