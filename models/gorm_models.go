package models

import (
	"gorm.io/gorm"
)

// GormGameRecord is the persisted form of GameRecord.
type GormGameRecord struct {
	gorm.Model
	GameID          string `gorm:"index;not null"`
	Player          string `gorm:"index;not null"`
	Width           int    `gorm:"not null"`
	Height          int    `gorm:"not null"`
	Mines           int    `gorm:"not null"`
	Outcome         string `gorm:"not null"`
	DurationSeconds int    `gorm:"default:0"`
	TilesOpened     int    `gorm:"default:0"`
	FlagsPlaced     int    `gorm:"default:0"`
}
