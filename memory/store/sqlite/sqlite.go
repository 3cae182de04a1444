// Package sqlite provides the durable ProfileStore backend.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sahayak-ai/sahayak/memory"
)

// Store persists profiles in a single SQLite table keyed by
// (namespace, user_id, record_key). The profile itself is a JSON column; the
// per-key upsert makes each write atomic, which is all the store contract
// requires.
type Store struct {
	db *sql.DB
}

// New opens (and if needed creates) the database at dbPath.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// WAL mode for concurrent readers during turn processing.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS student_profiles (
		namespace    TEXT NOT NULL,
		user_id      TEXT NOT NULL,
		record_key   TEXT NOT NULL,
		profile_json TEXT NOT NULL,
		updated_at   INTEGER NOT NULL,
		PRIMARY KEY (namespace, user_id, record_key)
	);
	`
	_, err := s.db.Exec(query)
	return err
}

// Get returns the stored profile, or (nil, nil) when the user has none.
func (s *Store) Get(ctx context.Context, userID string) (*memory.StudentProfile, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT profile_json FROM student_profiles WHERE namespace = ? AND user_id = ? AND record_key = ?`,
		memory.Namespace, userID, memory.ProfileKey,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query profile: %w", err)
	}

	var profile memory.StudentProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &profile, nil
}

// Put upserts the profile for the user (last-write-wins).
func (s *Store) Put(ctx context.Context, userID string, profile *memory.StudentProfile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
	INSERT INTO student_profiles (namespace, user_id, record_key, profile_json, updated_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT (namespace, user_id, record_key)
	DO UPDATE SET profile_json = excluded.profile_json, updated_at = excluded.updated_at`,
		memory.Namespace, userID, memory.ProfileKey, string(raw), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
