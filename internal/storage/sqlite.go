// Package storage provides SQLite-based persistence for knight profiles and
// fight history. Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Fight outcomes.
const (
	OutcomeVictory = "victory"
	OutcomeDefeat  = "defeat"
)

const sqliteTime = "2006-01-02 15:04:05"

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// KnightRecord is a persisted knight profile.
type KnightRecord struct {
	Name      string
	Health    int
	Stamina   float64
	X, Y      int
	Gold      int
	Skin      string
	Defeated  []string // boss ids in the order they were first beaten
	UpdatedAt time.Time
}

// FightRecord is the outcome of a finished fight.
type FightRecord struct {
	ID        string // uuid, generated on save when empty
	Knight    string
	BossID    string
	Outcome   string // OutcomeVictory or OutcomeDefeat
	Frames    int
	CreatedAt time.Time
}

// BossStats aggregates fight history for one boss.
type BossStats struct {
	BossID     string
	Fights     int
	Victories  int
	Defeats    int
	LastFought time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// One writer keeps SQLite from returning SQLITE_BUSY under concurrent handlers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS knights (
			name TEXT PRIMARY KEY,
			health INTEGER NOT NULL,
			stamina REAL NOT NULL,
			pos_x INTEGER NOT NULL,
			pos_y INTEGER NOT NULL,
			gold INTEGER NOT NULL DEFAULT 0,
			skin TEXT NOT NULL DEFAULT 'default',
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS knight_defeats (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			knight TEXT NOT NULL REFERENCES knights(name) ON DELETE CASCADE,
			boss_id TEXT NOT NULL,
			UNIQUE(knight, boss_id)
		);

		CREATE TABLE IF NOT EXISTS fights (
			id TEXT PRIMARY KEY,
			knight TEXT NOT NULL,
			boss_id TEXT NOT NULL,
			outcome TEXT NOT NULL,
			frames INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_fights_knight ON fights(knight);
		CREATE INDEX IF NOT EXISTS idx_fights_boss ON fights(boss_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveKnight inserts or replaces a knight together with its defeated list.
func (s *Store) SaveKnight(k KnightRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	_, err = tx.Exec(
		`INSERT INTO knights (name, health, stamina, pos_x, pos_y, gold, skin, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(name) DO UPDATE SET
			health = excluded.health,
			stamina = excluded.stamina,
			pos_x = excluded.pos_x,
			pos_y = excluded.pos_y,
			gold = excluded.gold,
			skin = excluded.skin,
			updated_at = CURRENT_TIMESTAMP`,
		k.Name, k.Health, k.Stamina, k.X, k.Y, k.Gold, k.Skin,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save knight: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM knight_defeats WHERE knight = ?", k.Name); err != nil {
		return fmt.Errorf("storage: cannot reset defeats: %w", err)
	}
	for _, boss := range k.Defeated {
		if _, err := tx.Exec(
			"INSERT OR IGNORE INTO knight_defeats (knight, boss_id) VALUES (?, ?)",
			k.Name, boss,
		); err != nil {
			return fmt.Errorf("storage: cannot save defeat: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit knight: %w", err)
	}
	return nil
}

// LoadKnight retrieves a knight by name. Returns nil if it does not exist.
func (s *Store) LoadKnight(name string) (*KnightRecord, error) {
	var k KnightRecord
	var updatedAt any

	err := s.db.QueryRow(
		`SELECT name, health, stamina, pos_x, pos_y, gold, skin, updated_at
		 FROM knights WHERE name = ?`,
		name,
	).Scan(&k.Name, &k.Health, &k.Stamina, &k.X, &k.Y, &k.Gold, &k.Skin, &updatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query knight: %w", err)
	}
	k.UpdatedAt = parseTime(updatedAt)

	k.Defeated, err = s.defeats(name)
	if err != nil {
		return nil, err
	}
	return &k, nil
}

// DeleteKnight removes a knight and its defeats. Reports whether a row existed.
func (s *Store) DeleteKnight(name string) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	if _, err := tx.Exec("DELETE FROM knight_defeats WHERE knight = ?", name); err != nil {
		return false, fmt.Errorf("storage: cannot delete defeats: %w", err)
	}
	res, err := tx.Exec("DELETE FROM knights WHERE name = ?", name)
	if err != nil {
		return false, fmt.Errorf("storage: cannot delete knight: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("storage: cannot count deleted rows: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("storage: cannot commit delete: %w", err)
	}
	return n > 0, nil
}

// ListKnights returns every knight ordered by name.
func (s *Store) ListKnights() ([]KnightRecord, error) {
	rows, err := s.db.Query(
		`SELECT name, health, stamina, pos_x, pos_y, gold, skin, updated_at
		 FROM knights ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query knights: %w", err)
	}

	var knights []KnightRecord
	for rows.Next() {
		var k KnightRecord
		var updatedAt any
		if err := rows.Scan(&k.Name, &k.Health, &k.Stamina, &k.X, &k.Y, &k.Gold, &k.Skin, &updatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		k.UpdatedAt = parseTime(updatedAt)
		knights = append(knights, k)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	// Close before issuing the per-knight queries on the single connection.
	rows.Close()

	for i := range knights {
		knights[i].Defeated, err = s.defeats(knights[i].Name)
		if err != nil {
			return nil, err
		}
	}
	return knights, nil
}

// AddDefeat marks bossID as beaten by the knight. Repeat defeats are ignored.
func (s *Store) AddDefeat(name, bossID string) error {
	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO knight_defeats (knight, boss_id) VALUES (?, ?)",
		name, bossID,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot add defeat: %w", err)
	}
	return nil
}

func (s *Store) defeats(name string) ([]string, error) {
	rows, err := s.db.Query(
		"SELECT boss_id FROM knight_defeats WHERE knight = ? ORDER BY id",
		name,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query defeats: %w", err)
	}
	defer rows.Close()

	defeated := []string{}
	for rows.Next() {
		var boss string
		if err := rows.Scan(&boss); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		defeated = append(defeated, boss)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return defeated, nil
}

// SaveFight records a finished fight and returns its id.
func (s *Store) SaveFight(f FightRecord) (string, error) {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	_, err := s.db.Exec(
		"INSERT INTO fights (id, knight, boss_id, outcome, frames) VALUES (?, ?, ?, ?, ?)",
		f.ID, f.Knight, f.BossID, f.Outcome, f.Frames,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save fight: %w", err)
	}
	return f.ID, nil
}

// RecentFights retrieves the most recent fights across all knights.
func (s *Store) RecentFights(limit int) ([]FightRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryFights(
		`SELECT id, knight, boss_id, outcome, frames, created_at
		 FROM fights ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
}

// KnightFights retrieves fight history for one knight, newest first.
func (s *Store) KnightFights(name string, limit int) ([]FightRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryFights(
		`SELECT id, knight, boss_id, outcome, frames, created_at
		 FROM fights WHERE knight = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		name, limit,
	)
}

func (s *Store) queryFights(query string, args ...any) ([]FightRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query fights: %w", err)
	}
	defer rows.Close()

	var fights []FightRecord
	for rows.Next() {
		var f FightRecord
		var createdAt any
		if err := rows.Scan(&f.ID, &f.Knight, &f.BossID, &f.Outcome, &f.Frames, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		f.CreatedAt = parseTime(createdAt)
		fights = append(fights, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return fights, nil
}

// AllBossStats aggregates fight history per boss.
func (s *Store) AllBossStats() (map[string]*BossStats, error) {
	rows, err := s.db.Query(
		`SELECT boss_id, COUNT(*),
		        COALESCE(SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END), 0),
		        MAX(created_at)
		 FROM fights
		 GROUP BY boss_id`,
		OutcomeVictory, OutcomeDefeat,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get boss stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*BossStats)
	for rows.Next() {
		var b BossStats
		var lastFought any
		if err := rows.Scan(&b.BossID, &b.Fights, &b.Victories, &b.Defeats, &lastFought); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		b.LastFought = parseTime(lastFought)
		stats[b.BossID] = &b
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

// parseTime handles both time.Time and string values returned by the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(sqliteTime, t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
