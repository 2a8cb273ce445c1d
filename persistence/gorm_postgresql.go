// persistence/gorm_postgresql.go
package persistence

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wfunc/minesweeper/models"
)

// GormPostgreSQL is the GORM implementation of Database.
type GormPostgreSQL struct {
	db *gorm.DB
}

// NewGormPostgreSQL opens a GORM PostgreSQL connection and migrates the
// schema.
func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Silent,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&models.GormGameRecord{}); err != nil {
		return nil, err
	}

	return &GormPostgreSQL{db: db}, nil
}

// SaveGameRecord inserts one finished game.
func (p *GormPostgreSQL) SaveGameRecord(record *models.GameRecord) error {
	row := models.GormGameRecord{
		GameID:          record.GameID,
		Player:          record.Player,
		Width:           record.Width,
		Height:          record.Height,
		Mines:           record.Mines,
		Outcome:         record.Outcome,
		DurationSeconds: record.DurationSeconds,
		TilesOpened:     record.TilesOpened,
		FlagsPlaced:     record.FlagsPlaced,
	}
	return p.db.Create(&row).Error
}

// PlayerStats aggregates a player's finished games.
func (p *GormPostgreSQL) PlayerStats(player string) (*models.PlayerStats, error) {
	var stats models.PlayerStats
	err := p.db.Raw(`
        SELECT
            COUNT(*) AS total_games,
            COUNT(*) FILTER (WHERE outcome = 'won') AS wins,
            COUNT(*) FILTER (WHERE outcome = 'lost') AS losses,
            COALESCE(MIN(duration_seconds) FILTER (WHERE outcome = 'won'), 0) AS best_time_seconds
        FROM gorm_game_records
        WHERE player = ? AND deleted_at IS NULL`,
		player,
	).Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	if stats.TotalGames == 0 {
		return nil, ErrRecordNotFound
	}
	return &stats, nil
}

// RecentGames returns a player's latest records, newest first.
func (p *GormPostgreSQL) RecentGames(player string, limit int) ([]models.GameRecord, error) {
	var rows []models.GormGameRecord
	err := p.db.Where("player = ?", player).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	records := make([]models.GameRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, models.GameRecord{
			GameID:          row.GameID,
			Player:          row.Player,
			Width:           row.Width,
			Height:          row.Height,
			Mines:           row.Mines,
			Outcome:         row.Outcome,
			DurationSeconds: row.DurationSeconds,
			TilesOpened:     row.TilesOpened,
			FlagsPlaced:     row.FlagsPlaced,
			CreatedAt:       row.CreatedAt,
		})
	}
	return records, nil
}

// Close closes the underlying connection pool.
func (p *GormPostgreSQL) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
