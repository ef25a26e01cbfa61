package cache

// Key prefixes for the namespaces sharing a badger database
const (
	PrefixCatalog = "catalog"
)

// KeyWithPrefix joins a namespace prefix and a key
func KeyWithPrefix(prefix, key string) string {
	return prefix + ":" + key
}

// CatalogKey generates the storage key of a catalog cache entry
func CatalogKey(key string) string {
	return KeyWithPrefix(PrefixCatalog, key)
}
