// Package sqlite stores records in a single SQLite table through the pure-Go
// modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/five82/siswa/internal/siswa"
	"github.com/five82/siswa/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS siswa (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	id         TEXT NOT NULL UNIQUE,
	nama       TEXT NOT NULL,
	alamat     TEXT NOT NULL,
	telpon     TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

// Store is a store.Store backed by SQLite.
type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// Open opens (creating if needed) the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) List(ctx context.Context) ([]siswa.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, nama, alamat, telpon FROM siswa ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list siswa: %w", err)
	}
	defer rows.Close()

	out := []siswa.Record{}
	for rows.Next() {
		var rec siswa.Record
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Address, &rec.Phone); err != nil {
			return nil, fmt.Errorf("scan siswa: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list siswa: %w", err)
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, id string) (siswa.Record, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, nama, alamat, telpon FROM siswa WHERE id = ?`, id)
	var rec siswa.Record
	if err := row.Scan(&rec.ID, &rec.Name, &rec.Address, &rec.Phone); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return siswa.Record{}, false, nil
		}
		return siswa.Record{}, false, fmt.Errorf("get siswa %s: %w", id, err)
	}
	return rec, true, nil
}

func (s *Store) Insert(ctx context.Context, rec siswa.Record) (siswa.Record, error) {
	rec = rec.Normalized().WithID(store.NewID())
	now := now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO siswa (id, nama, alamat, telpon, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Name, rec.Address, rec.Phone, now, now)
	if err != nil {
		return siswa.Record{}, fmt.Errorf("insert siswa: %w", err)
	}
	return rec, nil
}

func (s *Store) Update(ctx context.Context, rec siswa.Record) error {
	rec = rec.Normalized()
	res, err := s.db.ExecContext(ctx, `
		UPDATE siswa SET nama = ?, alamat = ?, telpon = ?, updated_at = ?
		WHERE id = ?
	`, rec.Name, rec.Address, rec.Phone, now(), rec.ID)
	if err != nil {
		return fmt.Errorf("update siswa %s: %w", rec.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update siswa %s: %w", rec.ID, err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM siswa WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete siswa %s: %w", id, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// now returns UTC time truncated to seconds, formatted the way SQLite sorts.
func now() string {
	return time.Now().UTC().Truncate(time.Second).Format(time.RFC3339)
}
