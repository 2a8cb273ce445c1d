// persistence/postgresql.go
package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// PostgreSQL driver
	_ "github.com/lib/pq"

	"github.com/wfunc/minesweeper/models"
)

// PostgreSQL is the plain database/sql implementation of Database.
type PostgreSQL struct {
	db *sql.DB
}

// NewPostgreSQL opens a PostgreSQL connection and prepares the schema.
func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := initTables(db); err != nil {
		return nil, err
	}

	return &PostgreSQL{db: db}, nil
}

func initTables(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS game_records (
            id SERIAL PRIMARY KEY,
            game_id VARCHAR(255) NOT NULL,
            player VARCHAR(255) NOT NULL,
            width INT NOT NULL,
            height INT NOT NULL,
            mines INT NOT NULL,
            outcome VARCHAR(16) NOT NULL,
            duration_seconds INT NOT NULL DEFAULT 0,
            tiles_opened INT NOT NULL DEFAULT 0,
            flags_placed INT NOT NULL DEFAULT 0,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE INDEX IF NOT EXISTS idx_game_records_player
        ON game_records (player)
    `)
	return err
}

// SaveGameRecord inserts one finished game.
func (p *PostgreSQL) SaveGameRecord(record *models.GameRecord) error {
	_, err := p.db.Exec(`
        INSERT INTO game_records
            (game_id, player, width, height, mines, outcome,
             duration_seconds, tiles_opened, flags_placed)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		record.GameID, record.Player, record.Width, record.Height,
		record.Mines, record.Outcome, record.DurationSeconds,
		record.TilesOpened, record.FlagsPlaced,
	)
	return err
}

// PlayerStats aggregates a player's finished games.
func (p *PostgreSQL) PlayerStats(player string) (*models.PlayerStats, error) {
	var stats models.PlayerStats
	err := p.db.QueryRow(`
        SELECT
            COUNT(*),
            COUNT(*) FILTER (WHERE outcome = 'won'),
            COUNT(*) FILTER (WHERE outcome = 'lost'),
            COALESCE(MIN(duration_seconds) FILTER (WHERE outcome = 'won'), 0)
        FROM game_records
        WHERE player = $1`,
		player,
	).Scan(&stats.TotalGames, &stats.Wins, &stats.Losses, &stats.BestTimeSeconds)
	if err != nil {
		return nil, err
	}
	if stats.TotalGames == 0 {
		return nil, ErrRecordNotFound
	}
	return &stats, nil
}

// RecentGames returns a player's latest records, newest first.
func (p *PostgreSQL) RecentGames(player string, limit int) ([]models.GameRecord, error) {
	rows, err := p.db.Query(`
        SELECT game_id, player, width, height, mines, outcome,
               duration_seconds, tiles_opened, flags_placed, created_at
        FROM game_records
        WHERE player = $1
        ORDER BY created_at DESC
        LIMIT $2`,
		player, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.GameRecord
	for rows.Next() {
		var r models.GameRecord
		if err := rows.Scan(&r.GameID, &r.Player, &r.Width, &r.Height,
			&r.Mines, &r.Outcome, &r.DurationSeconds, &r.TilesOpened,
			&r.FlagsPlaced, &r.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Close closes the connection pool.
func (p *PostgreSQL) Close() error {
	return p.db.Close()
}
