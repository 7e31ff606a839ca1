// Package storage provides SQLite-based persistence for high scores and
// finished Battleship games.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
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

// End reasons recorded for a game.
const (
	EndReasonCompleted = "completed" // A fleet was destroyed
	EndReasonRestarted = "restarted" // Abandoned by a restart
	EndReasonQuit      = "quit"      // Abandoned by leaving the game
)

// Store manages the SQLite database connection for score persistence.
type Store struct {
	db *sql.DB
}

// ScoreEntry represents a single high score record.
type ScoreEntry struct {
	ID        int64
	GameID    string
	Player    string
	Score     int
	CreatedAt time.Time
}

// GameRecord represents the outcome of one Battleship game.
type GameRecord struct {
	ID            int64
	GameUUID      string // Generated on save when empty
	Player        string // Local user or SSH user name
	Winner        string // "user", "computer", or empty when abandoned
	EndReason     string
	UserShots     int
	UserHits      int
	ComputerShots int
	ComputerHits  int
	Score         int
	Duration      int // Duration in seconds
	CreatedAt     time.Time
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
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			player TEXT NOT NULL DEFAULT '',
			score INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(game_id, score DESC);

		CREATE TABLE IF NOT EXISTS games (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_uuid TEXT NOT NULL UNIQUE,
			player TEXT NOT NULL DEFAULT '',
			winner TEXT,
			end_reason TEXT NOT NULL,
			user_shots INTEGER NOT NULL DEFAULT 0,
			user_hits INTEGER NOT NULL DEFAULT 0,
			computer_shots INTEGER NOT NULL DEFAULT 0,
			computer_hits INTEGER NOT NULL DEFAULT 0,
			score INTEGER NOT NULL DEFAULT 0,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_games_player ON games(player);
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

// SaveScore records a new score for the given game.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(gameID, player string, score int) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO scores (game_id, player, score) VALUES (?, ?, ?)",
		gameID, player, score,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopScores retrieves the top N scores for the given game.
// Results are ordered by score descending.
func (s *Store) TopScores(gameID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, player, score, created_at
		 FROM scores
		 WHERE game_id = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.GameID, &e.Player, &e.Score, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the highest score for the given game.
// Returns 0 if no scores exist.
func (s *Store) HighScore(gameID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM scores WHERE game_id = ?",
		gameID,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// ClearScores deletes the scores of the given game and every game record.
func (s *Store) ClearScores(gameID string) error {
	if _, err := s.db.Exec("DELETE FROM scores WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM games"); err != nil {
		return fmt.Errorf("storage: cannot clear games: %w", err)
	}
	return nil
}

// SaveGame records the outcome of a game and returns its UUID.
func (s *Store) SaveGame(rec GameRecord) (string, error) {
	if rec.GameUUID == "" {
		rec.GameUUID = uuid.NewString()
	}

	var winner sql.NullString
	if rec.Winner != "" {
		winner = sql.NullString{String: rec.Winner, Valid: true}
	}

	_, err := s.db.Exec(
		`INSERT INTO games
		 (game_uuid, player, winner, end_reason, user_shots, user_hits,
		  computer_shots, computer_hits, score, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.GameUUID,
		rec.Player,
		winner,
		rec.EndReason,
		rec.UserShots,
		rec.UserHits,
		rec.ComputerShots,
		rec.ComputerHits,
		rec.Score,
		rec.Duration,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save game: %w", err)
	}

	return rec.GameUUID, nil
}

const gameColumns = `id, game_uuid, player, winner, end_reason, user_shots, user_hits,
		computer_shots, computer_hits, score, duration_secs, created_at`

// GameByUUID retrieves a game record by its UUID.
// Returns nil without an error when no such game exists.
func (s *Store) GameByUUID(id string) (*GameRecord, error) {
	row := s.db.QueryRow(
		`SELECT `+gameColumns+` FROM games WHERE game_uuid = ?`,
		id,
	)

	rec, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query game: %w", err)
	}
	return &rec, nil
}

// RecentGames retrieves the most recent games, newest first.
func (s *Store) RecentGames(limit int) ([]GameRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+gameColumns+`
		 FROM games
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query games: %w", err)
	}
	return collectGames(rows)
}

// PlayerGames retrieves the most recent games of one player, newest first.
func (s *Store) PlayerGames(player string, limit int) ([]GameRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+gameColumns+`
		 FROM games
		 WHERE player = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		player, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query player games: %w", err)
	}
	return collectGames(rows)
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanGame(row scanner) (GameRecord, error) {
	var rec GameRecord
	var winner sql.NullString
	var createdAt any

	err := row.Scan(
		&rec.ID,
		&rec.GameUUID,
		&rec.Player,
		&winner,
		&rec.EndReason,
		&rec.UserShots,
		&rec.UserHits,
		&rec.ComputerShots,
		&rec.ComputerHits,
		&rec.Score,
		&rec.Duration,
		&createdAt,
	)
	if err != nil {
		return rec, err
	}

	if winner.Valid {
		rec.Winner = winner.String
	}
	rec.CreatedAt = parseTime(createdAt)
	return rec, nil
}

func collectGames(rows *sql.Rows) ([]GameRecord, error) {
	defer rows.Close()

	var results []GameRecord
	for rows.Next() {
		rec, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		results = append(results, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// GameStats contains aggregated statistics over recorded games.
type GameStats struct {
	Games      int
	Wins       int
	Losses     int
	Abandoned  int
	HighScore  int
	AvgShots   float64 // Average user shots in games the user won
	Accuracy   float64 // User hits per shot over all games
	LastPlayed time.Time
}

// GetGameStats retrieves aggregated statistics, optionally for one player.
// An empty player aggregates over everyone.
func (s *Store) GetGameStats(player string) (*GameStats, error) {
	stats := &GameStats{}

	var shots, hits int64
	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN winner = 'user' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN winner = 'computer' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN winner IS NULL THEN 1 ELSE 0 END), 0),
		        COALESCE(MAX(score), 0),
		        COALESCE(AVG(CASE WHEN winner = 'user' THEN user_shots END), 0),
		        COALESCE(SUM(user_shots), 0),
		        COALESCE(SUM(user_hits), 0)
		 FROM games
		 WHERE ? = '' OR player = ?`,
		player, player,
	).Scan(
		&stats.Games,
		&stats.Wins,
		&stats.Losses,
		&stats.Abandoned,
		&stats.HighScore,
		&stats.AvgShots,
		&shots,
		&hits,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}
	if shots > 0 {
		stats.Accuracy = float64(hits) / float64(shots)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM games
		 WHERE ? = '' OR player = ?
		 ORDER BY created_at DESC, id DESC LIMIT 1`,
		player, player,
	).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}

// parseTime handles datetimes returned either as time.Time or as string.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
