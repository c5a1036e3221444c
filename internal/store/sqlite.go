package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"

	"github.com/talentscout/hiring-assistant/internal/candidate"

	_ "modernc.org/sqlite"
)

const candidatesSchema = `
CREATE TABLE IF NOT EXISTS candidates (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL DEFAULT '',
	email      TEXT NOT NULL DEFAULT '',
	phone      TEXT NOT NULL DEFAULT '',
	experience TEXT NOT NULL DEFAULT '',
	position   TEXT NOT NULL DEFAULT '',
	location   TEXT NOT NULL DEFAULT '',
	tech_stack TEXT NOT NULL DEFAULT '',
	timestamp  TEXT NOT NULL DEFAULT ''
);`

const insertCandidate = `
INSERT INTO candidates (id, name, email, phone, experience, position, location, tech_stack, timestamp)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);`

// candidateRow is the fixed SQLite schema for a candidate record.
type candidateRow struct {
	Name       string `mapstructure:"name"`
	Email      string `mapstructure:"email"`
	Phone      string `mapstructure:"phone"`
	Experience string `mapstructure:"experience"`
	Position   string `mapstructure:"position"`
	Location   string `mapstructure:"location"`
	TechStack  string `mapstructure:"tech_stack"`
	Timestamp  string `mapstructure:"timestamp"`
}

// SQLiteStore appends candidate records to a SQLite database. Unlike the
// CSV backend each Append is a single INSERT, so concurrent sessions do
// not rewrite each other's rows.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (creating when needed) the database at path and ensures
// the candidates table exists.
func NewSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database %q: %w", path, err)
	}

	if _, err := db.ExecContext(ctx, candidatesSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating candidates table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Append(ctx context.Context, row candidate.Record) error {
	if len(row) == 0 {
		return fmt.Errorf("refusing to persist an empty record")
	}

	var cr candidateRow
	if err := mapstructure.Decode(map[string]string(row), &cr); err != nil {
		return fmt.Errorf("decoding candidate row: %w", err)
	}

	_, err := s.db.ExecContext(ctx, insertCandidate,
		uuid.NewString(),
		cr.Name,
		cr.Email,
		cr.Phone,
		cr.Experience,
		cr.Position,
		cr.Location,
		cr.TechStack,
		cr.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("inserting candidate: %w", err)
	}

	return nil
}

// Count returns the number of persisted candidates.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM candidates`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting candidates: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
