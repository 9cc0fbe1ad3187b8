// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily challenge.
// Exposes two endpoints per mode under /daily:
//   - POST /daily/{mode}/new         → start (or resume) today's round
//   - GET  /daily/{mode}/leaderboard → top 20 results for today (or ?date=)
//
// Moves go through the regular /{mode}/{id}/{action} routes; when a daily
// round finishes its score is stored once per profile, mode and date.
// Word choice and puzzle layout come from daily.Seed, so every player gets
// the same puzzle for the day.

package httpserver

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordplay/internal/daily"
	"github.com/robalobadob/wordplay/internal/game"
)

// dailyRound remembers which live rounds are daily ones.
type dailyRound struct {
	profile string
	mode    game.Mode
	date    string
}

func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily/{mode}", func(r chi.Router) {
		r.Post("/new", s.handleDailyNew)
		r.Get("/leaderboard", s.handleLeaderboard)
	})
}

type dailyNewRes struct {
	Date   string `json:"date"`
	Played bool   `json:"played"`
	Round  any    `json:"round,omitempty"`
}

func (s *Server) handleDailyNew(w http.ResponseWriter, r *http.Request) {
	mode, ok := modeParam(w, r)
	if !ok {
		return
	}
	var req newReq
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	profile := s.profileID(w, r)
	now := s.timeNowUTC()
	date := daily.DateKey(now)

	played, err := s.daily.AlreadyPlayed(r.Context(), profile, string(mode), date)
	if err != nil {
		log.Error().Err(err).Msg("daily lookup")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if played {
		writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Played: true})
		return
	}

	// Resume today's round if it is still live.
	if snap, ok := s.liveDaily(r.Context(), profile, mode, date); ok {
		writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Round: snap})
		return
	}

	level := s.level(req.Level)
	seed := daily.Seed(now, s.salt, string(mode)+"|"+level)
	count := game.WordsNeeded(mode)
	if count == 1 {
		// single-word modes skip unusable words themselves
		count = 0
	}
	cfg := game.Config{Level: level, Seed: seed, Words: daily.Pick(s.bank.WordsByLevel(level), count, seed)}
	if len(cfg.Words) == 0 {
		writeGameError(w, game.ErrInsufficientWords)
		return
	}

	rd, err := game.New(mode, s.bank, s.profileStore(profile), cfg)
	if err != nil {
		writeGameError(w, err)
		return
	}
	s.forgetDaily(profile, mode)
	if err := s.rounds.Save(r.Context(), profile, rd); err != nil {
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	s.mu.Lock()
	// markers of rounds the registry has since evicted
	for id := range s.dailies {
		if _, err := s.rounds.Get(r.Context(), id, ""); err != nil {
			delete(s.dailies, id)
		}
	}
	s.dailies[rd.ID()] = dailyRound{profile: profile, mode: mode, date: date}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Round: rd.Snapshot()})
}

// liveDaily returns the snapshot of the profile's unfinished daily round for date.
func (s *Server) liveDaily(ctx context.Context, profile string, mode game.Mode, date string) (any, bool) {
	id, ok := s.rounds.Current(profile, mode)
	if !ok {
		return nil, false
	}
	s.mu.Lock()
	d, isDaily := s.dailies[id]
	s.mu.Unlock()
	if !isDaily || d.date != date {
		return nil, false
	}
	var snap any
	err := s.rounds.Update(ctx, id, profile, func(rd game.Round) error {
		snap = rd.Snapshot()
		return nil
	})
	return snap, err == nil
}

// recordDaily stores the result of a finished daily round (once).
func (s *Server) recordDaily(ctx context.Context, roundID string, score, elapsed int) {
	s.mu.Lock()
	d, ok := s.dailies[roundID]
	delete(s.dailies, roundID)
	s.mu.Unlock()
	if !ok {
		return
	}
	_, err := s.daily.InsertResult(ctx, daily.Result{
		ProfileID: d.profile, Mode: string(d.mode), Date: d.date, Score: score, ElapsedS: elapsed,
	})
	if err != nil {
		log.Warn().Err(err).Str("round", roundID).Msg("store daily result")
	}
}

type lbRes struct {
	Mode game.Mode     `json:"mode"`
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	mode, ok := modeParam(w, r)
	if !ok {
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(s.timeNowUTC())
	}
	rows, err := s.daily.Leaderboard(r.Context(), string(mode), date, 20)
	if err != nil {
		log.Error().Err(err).Msg("daily leaderboard")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Mode: mode, Date: date, Top: rows})
}
