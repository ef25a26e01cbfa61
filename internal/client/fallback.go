package client

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed data/sample_games.json
var sampleGames []byte

// SampleGames returns the bundled catalog served when the API is down
func SampleGames() ([]Game, error) {
	var games []Game
	if err := json.Unmarshal(sampleGames, &games); err != nil {
		return nil, fmt.Errorf("decode sample games: %w", err)
	}
	return games, nil
}
