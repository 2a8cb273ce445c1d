package services

import (
	"time"

	"github.com/wfunc/minesweeper/logger"
	"github.com/wfunc/minesweeper/models"
	"github.com/wfunc/minesweeper/persistence"
)

// RecordService persists finished games and answers stats queries.
type RecordService struct {
	db persistence.Database
}

func NewRecordService(db persistence.Database) *RecordService {
	return &RecordService{db: db}
}

// SaveResult stores one finished game.
func (s *RecordService) SaveResult(gameID, player string, width, height, mines int,
	outcome string, duration time.Duration, tilesOpened, flagsPlaced int) error {

	record := &models.GameRecord{
		GameID:          gameID,
		Player:          player,
		Width:           width,
		Height:          height,
		Mines:           mines,
		Outcome:         outcome,
		DurationSeconds: int(duration / time.Second),
		TilesOpened:     tilesOpened,
		FlagsPlaced:     flagsPlaced,
	}
	if err := s.db.SaveGameRecord(record); err != nil {
		logger.Log.Errorf("Failed to save game record for %s: %v", gameID, err)
		return err
	}
	return nil
}

// PlayerStats returns a player's aggregate results.
func (s *RecordService) PlayerStats(player string) (*models.PlayerStats, error) {
	return s.db.PlayerStats(player)
}

// RecentGames returns a player's latest records.
func (s *RecordService) RecentGames(player string, limit int) ([]models.GameRecord, error) {
	return s.db.RecentGames(player, limit)
}
