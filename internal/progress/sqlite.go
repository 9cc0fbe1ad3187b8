package progress

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SQLite stores one JSON document per profile in the progress table.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(db *sql.DB) *SQLite { return &SQLite{db: db} }

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func load(ctx context.Context, q querier, profileID string) (Progress, error) {
	var raw string
	err := q.QueryRowContext(ctx, `SELECT data FROM progress WHERE profile_id=?`, profileID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return Default(), nil
	}
	if err != nil {
		return Progress{}, fmt.Errorf("load progress: %w", err)
	}
	var p Progress
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Progress{}, fmt.Errorf("decode progress: %w", err)
	}
	p.normalize()
	return p, nil
}

func (s *SQLite) Load(ctx context.Context, profileID string) (Progress, error) {
	return load(ctx, s.db, profileID)
}

// Update runs fn inside an IMMEDIATE transaction (see database.Open), so
// concurrent updates for the same profile apply one after another.
func (s *SQLite) Update(ctx context.Context, profileID string, fn func(*Progress) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	p, err := load(ctx, tx, profileID)
	if err != nil {
		return err
	}
	if err := fn(&p); err != nil {
		return err
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
        INSERT INTO progress(profile_id, data, updated_at) VALUES (?, ?, ?)
        ON CONFLICT(profile_id) DO UPDATE SET data=excluded.data, updated_at=excluded.updated_at`,
		profileID, string(raw), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return tx.Commit()
}

func (s *SQLite) Delete(ctx context.Context, profileID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM progress WHERE profile_id=?`, profileID); err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}
	return nil
}
