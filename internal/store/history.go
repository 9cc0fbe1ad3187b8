package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/robalobadob/wordplay/internal/game"
)

// Record is one row of round history.
type Record struct {
	ID         string     `json:"id"`
	Mode       game.Mode  `json:"mode"`
	Level      string     `json:"level"`
	Status     game.State `json:"status"`
	Score      int        `json:"score"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

// SQLHistory writes round history to the rounds table.
type SQLHistory struct {
	db *sql.DB
}

func NewSQLHistory(db *sql.DB) *SQLHistory { return &SQLHistory{db: db} }

func (h *SQLHistory) Started(ctx context.Context, profileID string, r game.Round) error {
	_, err := h.db.ExecContext(ctx, `
        INSERT INTO rounds(id, profile_id, mode, level, status, score, started_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID(), profileID, string(r.Mode()), r.Level(), string(r.State()), r.Score(),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert round: %w", err)
	}
	return nil
}

func (h *SQLHistory) Finished(ctx context.Context, r game.Round) error {
	_, err := h.db.ExecContext(ctx, `
        UPDATE rounds SET status=?, score=?, finished_at=? WHERE id=?`,
		string(r.State()), r.Score(), time.Now().UTC().Format(time.RFC3339Nano), r.ID(),
	)
	if err != nil {
		return fmt.Errorf("finish round: %w", err)
	}
	return nil
}

// Recent returns the newest rounds of profileID, newest first.
func (h *SQLHistory) Recent(ctx context.Context, profileID string, limit int) ([]Record, error) {
	rows, err := h.db.QueryContext(ctx, `
        SELECT id, mode, level, status, score, started_at, finished_at
        FROM rounds WHERE profile_id=?
        ORDER BY started_at DESC LIMIT ?`, profileID, limit)
	if err != nil {
		return nil, fmt.Errorf("query rounds: %w", err)
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		var (
			rec          Record
			mode, status string
			started      string
			finished     sql.NullString
		)
		if err := rows.Scan(&rec.ID, &mode, &rec.Level, &status, &rec.Score, &started, &finished); err != nil {
			return nil, err
		}
		rec.Mode, rec.Status = game.Mode(mode), game.State(status)
		if rec.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		if finished.Valid {
			t, err := time.Parse(time.RFC3339Nano, finished.String)
			if err != nil {
				return nil, fmt.Errorf("parse finished_at: %w", err)
			}
			rec.FinishedAt = &t
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
