package domain

import "time"

// Platform labels carried by a GameCard
const (
	LabelConsole = "Console"
	LabelPC      = "PC"
	LabelCloud   = "Cloud"
)

// GameCard is the normalized, UI-ready representation of one catalog product.
type GameCard struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Platforms   []string `json:"platforms"`
	Genres      []string `json:"genres"`
	CoverURL    *string  `json:"coverUrl"`
	ReleaseDate *string  `json:"releaseDate"`
}

// CacheEntry holds one cached result set and the instant it was fetched.
type CacheEntry struct {
	Timestamp time.Time  `json:"timestamp"`
	Games     []GameCard `json:"games"`
}

// IsValid reports whether the entry is still fresh at now for the given ttl.
func (e *CacheEntry) IsValid(now time.Time, ttl time.Duration) bool {
	if e == nil {
		return false
	}
	return now.Sub(e.Timestamp) < ttl
}

// Age returns how long ago the entry was fetched.
func (e *CacheEntry) Age(now time.Time) time.Duration {
	return now.Sub(e.Timestamp)
}

// Response represents an HTTP response
type Response struct {
	StatusCode  int
	Body        []byte
	ContentType string
	URL         string
}
