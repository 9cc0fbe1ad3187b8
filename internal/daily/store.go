package daily

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
)

// Result is one finished daily round.
type Result struct {
	ProfileID string `json:"profileId"`
	Mode      string `json:"mode"`
	Date      string `json:"date"`
	Score     int    `json:"score"`
	ElapsedS  int    `json:"elapsedS"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) AlreadyPlayed(ctx context.Context, profileID, mode, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM daily_results WHERE profile_id=? AND mode=? AND date=?",
		profileID, mode, date,
	).Scan(&cnt)
	if err != nil {
		return false, fmt.Errorf("daily lookup: %w", err)
	}
	return cnt > 0, nil
}

// InsertResult stores r unless the profile already has a result for that
// mode and date. It reports whether a row was written.
func (s *Store) InsertResult(ctx context.Context, r Result) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(profile_id, mode, date, score, elapsed_s)
         VALUES(?,?,?,?,?)`, r.ProfileID, r.Mode, r.Date, r.Score, r.ElapsedS,
	)
	if err != nil {
		return false, fmt.Errorf("daily insert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// LBRow is one leaderboard line. Profile ids are never exposed: Player is
// the account's username, or a short hash for guests.
type LBRow struct {
	Player   string `json:"player"`
	Guest    bool   `json:"guest"`
	Score    int    `json:"score"`
	ElapsedS int    `json:"elapsedS"`
}

// GuestName is the public leaderboard name of a guest profile.
func GuestName(profileID string) string {
	sum := sha256.Sum256([]byte(profileID))
	return "guest-" + hex.EncodeToString(sum[:4])
}

// Leaderboard ranks a day's results: highest score, then fastest, then earliest.
func (s *Store) Leaderboard(ctx context.Context, mode, date string, limit int) ([]LBRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT d.profile_id, COALESCE(u.username, ''), d.score, d.elapsed_s
         FROM daily_results d LEFT JOIN users u ON u.id = d.profile_id
         WHERE d.mode=? AND d.date=?
         ORDER BY d.score DESC, d.elapsed_s ASC, d.created_at ASC
         LIMIT ?`, mode, date, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("daily leaderboard: %w", err)
	}
	defer rows.Close()
	out := []LBRow{}
	for rows.Next() {
		var (
			r       LBRow
			profile string
		)
		if err := rows.Scan(&profile, &r.Player, &r.Score, &r.ElapsedS); err != nil {
			return nil, err
		}
		if r.Player == "" {
			r.Player, r.Guest = GuestName(profile), true
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
