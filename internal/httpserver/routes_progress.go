// internal/httpserver/routes_progress.go
//
// Progress endpoints for the current profile:
//   - GET    /progress/me                → progress, per-level summary
//   - DELETE /progress/me                → reset
//   - GET    /progress/me/levels/{level} → discovered percentage
//   - GET    /rounds/mine                → live rounds and recent history

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordplay/internal/game"
	"github.com/robalobadob/wordplay/internal/progress"
	"github.com/robalobadob/wordplay/internal/store"
)

func (s *Server) mountProgress(r chi.Router) {
	r.Get("/progress/me", s.handleProgress)
	r.Delete("/progress/me", s.handleResetProgress)
	r.Get("/progress/me/levels/{level}", s.handleLevelProgress)
	r.Get("/rounds/mine", s.handleMyRounds)
}

func (s *Server) profileStore(profile string) *progress.Profile {
	return progress.For(s.progress, profile)
}

type progressRes struct {
	ProfileID string                  `json:"profileId"`
	Progress  progress.Progress       `json:"progress"`
	Levels    []progress.LevelSummary `json:"levels"`
	Total     int                     `json:"totalDiscovered"`
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	profile := s.profileID(w, r)
	p, err := s.profileStore(profile).Progress(r.Context())
	if err != nil {
		log.Error().Err(err).Str("profile", profile).Msg("load progress")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, progressRes{
		ProfileID: profile,
		Progress:  p,
		Levels:    progress.Summary(p, s.bank, s.bank.Levels()),
		Total:     p.TotalDiscovered(),
	})
}

func (s *Server) handleResetProgress(w http.ResponseWriter, r *http.Request) {
	profile := s.profileID(w, r)
	if err := s.profileStore(profile).Reset(r.Context()); err != nil {
		log.Error().Err(err).Str("profile", profile).Msg("reset progress")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleLevelProgress(w http.ResponseWriter, r *http.Request) {
	level := chi.URLParam(r, "level")
	pct, err := progress.LevelProgress(r.Context(), s.profileStore(s.profileID(w, r)), s.bank, level)
	if err != nil {
		log.Error().Err(err).Msg("level progress")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"level": level, "percent": pct})
}

type liveRound struct {
	ID      string     `json:"id"`
	Mode    game.Mode  `json:"mode"`
	Level   string     `json:"level"`
	State   game.State `json:"state"`
	Score   int        `json:"score"`
	Elapsed int        `json:"elapsed"`
}

// handleMyRounds lists live rounds and, when history is enabled, the last 50.
func (s *Server) handleMyRounds(w http.ResponseWriter, r *http.Request) {
	profile := s.profileID(w, r)
	live := []liveRound{}
	for _, id := range s.rounds.Active(profile) {
		_ = s.rounds.Update(r.Context(), id, profile, func(rd game.Round) error {
			live = append(live, liveRound{
				ID: rd.ID(), Mode: rd.Mode(), Level: rd.Level(),
				State: rd.State(), Score: rd.Score(), Elapsed: rd.Elapsed(),
			})
			return nil
		})
	}
	recent := []store.Record{}
	if s.history != nil {
		var err error
		if recent, err = s.history.Recent(r.Context(), profile, 50); err != nil {
			log.Error().Err(err).Msg("round history")
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"live": live, "recent": recent})
}
