package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Attempt is one judged practice attempt
type Attempt struct {
	ID         int64     `json:"id"`
	SessionID  string    `json:"sessionId"`
	ItemID     string    `json:"itemId"`
	Word       string    `json:"word"`
	IPA        string    `json:"ipa"`
	Transcript string    `json:"transcript"`
	IsCorrect  bool      `json:"isCorrect"`
	Feedback   string    `json:"feedback"`
	Tip        string    `json:"tip"`
	Provider   string    `json:"provider"`
	CreatedAt  time.Time `json:"createdAt"`
}

// WordStats summarizes the attempts for a single word
type WordStats struct {
	Word     string  `json:"word"`
	Attempts int     `json:"attempts"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

// Store persists attempts in SQLite
type Store struct {
	db *sql.DB
}

const schema = `CREATE TABLE IF NOT EXISTS attempts (
	id integer PRIMARY KEY AUTOINCREMENT,
	session_id text NOT NULL,
	item_id text NOT NULL,
	word text NOT NULL,
	ipa text NOT NULL,
	transcript text NOT NULL,
	is_correct integer NOT NULL,
	feedback text NOT NULL,
	tip text NOT NULL,
	provider text NOT NULL,
	created_at integer NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_attempts_word ON attempts (word);`

// Open opens or creates the history database
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// SQLite allows a single writer
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends an attempt and returns its ID
func (s *Store) Record(ctx context.Context, a Attempt) (int64, error) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO attempts (session_id, item_id, word, ipa, transcript, is_correct, feedback, tip, provider, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.SessionID, a.ItemID, a.Word, a.IPA, a.Transcript, a.IsCorrect,
		a.Feedback, a.Tip, a.Provider, a.CreatedAt.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to record attempt: %w", err)
	}

	return res.LastInsertId()
}

// Recent returns the latest attempts, newest first
func (s *Store) Recent(ctx context.Context, limit int) ([]Attempt, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, item_id, word, ipa, transcript, is_correct, feedback, tip, provider, created_at
		 FROM attempts ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query attempts: %w", err)
	}
	defer rows.Close()

	var out []Attempt
	for rows.Next() {
		var a Attempt
		var created int64
		if err := rows.Scan(&a.ID, &a.SessionID, &a.ItemID, &a.Word, &a.IPA, &a.Transcript,
			&a.IsCorrect, &a.Feedback, &a.Tip, &a.Provider, &created); err != nil {
			return nil, fmt.Errorf("failed to read attempt: %w", err)
		}
		a.CreatedAt = time.UnixMilli(created)
		out = append(out, a)
	}

	return out, rows.Err()
}

// Stats returns per-word attempt counts, weakest words first
func (s *Store) Stats(ctx context.Context) ([]WordStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT word, COUNT(*), SUM(is_correct)
		 FROM attempts GROUP BY word
		 ORDER BY CAST(SUM(is_correct) AS REAL) / COUNT(*) ASC, COUNT(*) DESC, word ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	defer rows.Close()

	var out []WordStats
	for rows.Next() {
		var ws WordStats
		if err := rows.Scan(&ws.Word, &ws.Attempts, &ws.Correct); err != nil {
			return nil, fmt.Errorf("failed to read stats: %w", err)
		}
		if ws.Attempts > 0 {
			ws.Accuracy = float64(ws.Correct) / float64(ws.Attempts)
		}
		out = append(out, ws)
	}

	return out, rows.Err()
}
