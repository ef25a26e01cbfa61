package client

import (
	"strings"

	"github.com/quantmind-br/gamepass-catalog/internal/domain"
)

// DefaultCoverURL replaces a missing cover image
const DefaultCoverURL = "https://upload.wikimedia.org/wikipedia/pt/d/dc/Capa_de_Forza_Horizon_5.jpg"

// Game is a catalog entry as presented to the user
type Game struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Platforms   []string `json:"platforms"`
	Genres      []string `json:"genres"`
	Description string   `json:"description"`
	CoverURL    string   `json:"coverUrl"`
	ReleaseDate string   `json:"releaseDate,omitempty"`
	Score       *Score   `json:"metacritic,omitempty"`
}

// fromCard converts a façade game card, filling display defaults
func fromCard(card domain.GameCard) Game {
	g := Game{
		ID:          card.ID,
		Title:       card.Title,
		Platforms:   card.Platforms,
		Genres:      card.Genres,
		Description: card.Description,
		CoverURL:    DefaultCoverURL,
	}
	if len(g.Platforms) == 0 {
		g.Platforms = []string{domain.LabelConsole}
	}
	if g.Genres == nil {
		g.Genres = []string{}
	}
	if card.CoverURL != nil && *card.CoverURL != "" {
		g.CoverURL = absoluteImageURL(*card.CoverURL)
	}
	if card.ReleaseDate != nil {
		g.ReleaseDate = *card.ReleaseDate
	}
	return g
}

// absoluteImageURL turns protocol-relative store image URIs into https URLs
func absoluteImageURL(uri string) string {
	if strings.HasPrefix(uri, "//") {
		return "https:" + uri
	}
	return uri
}

func fromCards(cards []domain.GameCard) []Game {
	games := make([]Game, len(cards))
	for i, card := range cards {
		games[i] = fromCard(card)
	}
	return games
}

// scoreValue returns the known score, or def when none is known
func (g Game) scoreValue(def int) int {
	if g.Score == nil || g.Score.Value == nil {
		return def
	}
	return *g.Score.Value
}
