// Package store persists simulation, optimization and DPS results in SQLite.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Result kinds.
const (
	KindOptimize = "optimize"
	KindSimulate = "simulate"
	KindDPS      = "dps"
)

var ErrNotFound = errors.New("result not found")

// Record is one stored result. Payload is the JSON the producer emitted.
type Record struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Label     string          `json:"label"`
	Seed      int64           `json:"seed"`
	CreatedAt time.Time       `json:"created_at"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// Store wraps the SQLite connection.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	s := &Store{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS results (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			label TEXT NOT NULL DEFAULT '',
			seed INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL,
			payload TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_created_at ON results(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_results_kind ON results(kind)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

// Save marshals payload and stores it under a fresh id.
func (s *Store) Save(kind, label string, seed int64, payload any) (Record, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return Record{}, fmt.Errorf("marshal %s result: %w", kind, err)
	}
	r := Record{
		ID:        uuid.NewString(),
		Kind:      kind,
		Label:     label,
		Seed:      seed,
		CreatedAt: s.now().UTC(),
		Payload:   b,
	}
	_, err = s.db.Exec(`
		INSERT INTO results (id, kind, label, seed, created_at, payload)
		VALUES (?, ?, ?, ?, ?, ?)
	`, r.ID, r.Kind, r.Label, r.Seed, r.CreatedAt.UnixNano(), string(b))
	if err != nil {
		return Record{}, err
	}
	return r, nil
}

func (s *Store) Load(id string) (Record, error) {
	row := s.db.QueryRow(`
		SELECT id, kind, label, seed, created_at, payload
		FROM results WHERE id = ?
	`, id)
	r, err := scan(row, true)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r, err
}

// ListRecent returns up to limit records, newest first, without payloads.
func (s *Store) ListRecent(limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, kind, label, seed, created_at, ''
		FROM results ORDER BY created_at DESC, id LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

// ListAll returns every record of kind, oldest first, with payloads. An
// empty kind matches all.
func (s *Store) ListAll(kind string) ([]Record, error) {
	rows, err := s.db.Query(`
		SELECT id, kind, label, seed, created_at, payload
		FROM results WHERE ? = '' OR kind = ?
		ORDER BY created_at ASC, id
	`, kind, kind)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (s *Store) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM results WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(sc scanner, withPayload bool) (Record, error) {
	var (
		r       Record
		created int64
		payload string
	)
	if err := sc.Scan(&r.ID, &r.Kind, &r.Label, &r.Seed, &created, &payload); err != nil {
		return Record{}, err
	}
	r.CreatedAt = time.Unix(0, created).UTC()
	if withPayload && payload != "" {
		r.Payload = json.RawMessage(payload)
	}
	return r, nil
}

func collect(rows *sql.Rows) ([]Record, error) {
	defer rows.Close()
	var out []Record
	for rows.Next() {
		r, err := scan(rows, true)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
