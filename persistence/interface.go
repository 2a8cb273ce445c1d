// persistence/interface.go
package persistence

import (
	"fmt"

	"github.com/wfunc/minesweeper/models"
)

// Database stores finished games and answers stats queries.
type Database interface {
	SaveGameRecord(record *models.GameRecord) error
	PlayerStats(player string) (*models.PlayerStats, error)
	RecentGames(player string, limit int) ([]models.GameRecord, error)
	Close() error
}

var (
	ErrRecordNotFound = fmt.Errorf("record not found")
)
