package domain

import (
	"fmt"
	"strings"
)

// Platform selects which catalog a query is scoped to.
type Platform string

const (
	PlatformConsole Platform = "console"
	PlatformPC      Platform = "pc"
	PlatformCloud   Platform = "cloud"
	PlatformEAPlay  Platform = "eaplay"
	PlatformAll     Platform = "all"
)

// ValidPlatforms lists every accepted platform value in display order.
var ValidPlatforms = []Platform{
	PlatformConsole,
	PlatformPC,
	PlatformCloud,
	PlatformEAPlay,
	PlatformAll,
}

// Valid reports whether p is one of ValidPlatforms.
func (p Platform) Valid() bool {
	for _, v := range ValidPlatforms {
		if p == v {
			return true
		}
	}
	return false
}

// ParsePlatform validates a raw platform value. An empty value resolves to
// PlatformAll.
func ParsePlatform(raw string) (Platform, error) {
	if raw == "" {
		return PlatformAll, nil
	}
	p := Platform(raw)
	if !p.Valid() {
		return "", NewValidationError("platform", CodeInvalidPlatform,
			fmt.Sprintf("Platform must be one of: %s", PlatformList()), ErrInvalidPlatform)
	}
	return p, nil
}

// PlatformList returns the accepted platforms joined for messages.
func PlatformList() string {
	names := make([]string, len(ValidPlatforms))
	for i, p := range ValidPlatforms {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}

// QueryOptions scopes a catalog query. Zero fields are filled by
// ResolveOptions.
type QueryOptions struct {
	Platform Platform `json:"platform,omitempty"`
	Market   string   `json:"market,omitempty"`
	Language string   `json:"language,omitempty"`
}

// Defaults holds the process-wide market and language.
type Defaults struct {
	Market   string
	Language string
}

// ResolveOptions substitutes defaults for every empty field. It is the only
// place defaults are applied.
func ResolveOptions(partial QueryOptions, d Defaults) QueryOptions {
	resolved := partial
	if resolved.Platform == "" {
		resolved.Platform = PlatformAll
	}
	if resolved.Market == "" {
		resolved.Market = d.Market
	}
	if resolved.Language == "" {
		resolved.Language = d.Language
	}
	return resolved
}

// Key formats the cache key of already-resolved options as
// platform-market-language.
func (o QueryOptions) Key() string {
	return string(o.Platform) + "-" + o.Market + "-" + o.Language
}

// CacheKey resolves partial against d and returns its cache key.
func CacheKey(partial QueryOptions, d Defaults) string {
	return ResolveOptions(partial, d).Key()
}
