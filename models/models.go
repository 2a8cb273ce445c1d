package models

import (
	"time"
)

// GameRecord is one finished game.
type GameRecord struct {
	GameID          string    `json:"game_id"`
	Player          string    `json:"player"`
	Width           int       `json:"width"`
	Height          int       `json:"height"`
	Mines           int       `json:"mines"`
	Outcome         string    `json:"outcome"` // won/lost
	DurationSeconds int       `json:"duration_seconds"`
	TilesOpened     int       `json:"tiles_opened"`
	FlagsPlaced     int       `json:"flags_placed"`
	CreatedAt       time.Time `json:"created_at"`
}

// PlayerStats aggregates a player's finished games.
type PlayerStats struct {
	TotalGames      int `json:"total_games"`
	Wins            int `json:"wins"`
	Losses          int `json:"losses"`
	BestTimeSeconds int `json:"best_time_seconds"` // fastest win, 0 when no wins
}
