// internal/httpserver/server.go
//
// HTTP server wiring for the vocabulary games backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/levels".
//   - Game endpoints (optional auth): POST /{mode}/new and per-mode actions (routes_game.go).
//   - Progress and round history for the current profile (routes_progress.go).
//   - Daily challenge endpoints (optional auth): mounted under /daily.
//   - Accounts: /auth/* with JWT cookies and an anonymous fallback (auth.go).
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Every request resolves to a profile id: the signed-in user, or an
//     anonymous cookie id for guests. Progress and rounds are keyed by it.
//   - Errors are JSON {"error": "..."}; invalid moves carry the reason string.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordplay/internal/daily"
	"github.com/robalobadob/wordplay/internal/game"
	"github.com/robalobadob/wordplay/internal/progress"
	"github.com/robalobadob/wordplay/internal/spellingbee"
	"github.com/robalobadob/wordplay/internal/store"
	"github.com/robalobadob/wordplay/internal/words"
)

// Deps are the collaborators a Server is built from.
type Deps struct {
	DB       *sql.DB
	Words    *words.Bank
	Progress progress.Backend
	Rounds   *store.Registry
	History  *store.SQLHistory // optional; enables /rounds/mine history
}

// Server bundles the router and its collaborators.
type Server struct {
	r        *chi.Mux
	db       *sql.DB
	bank     *words.Bank
	progress progress.Backend
	rounds   *store.Registry
	history  *store.SQLHistory
	daily    *daily.Store
	salt     string
	now      func() time.Time

	mu      sync.Mutex
	dailies map[string]dailyRound // live daily rounds by round id
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		db:       d.DB,
		bank:     d.Words,
		progress: d.Progress,
		rounds:   d.Rounds,
		history:  d.History,
		daily:    daily.NewStore(d.DB),
		salt:     getEnv("DAILY_SALT", "local_dev_salt"),
		now:      time.Now,
		dailies:  make(map[string]dailyRound),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)                   // one zerolog line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(corsFromEnv)                     // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service": "wordplay",
			"modes":   game.Modes,
			"endpoints": []string{
				"/health", "/levels", "POST /{mode}/new", "POST /{mode}/{id}/{action}",
				"/progress/me", "/rounds/mine", "/daily/{mode}/*", "/auth/*",
			},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Get("/levels", s.handleLevels)

	s.mountAuthRoutes()

	s.r.Group(func(r chi.Router) {
		r.Use(s.withOptionalAuth())
		s.mountProgress(r)
		s.mountDaily(r)
		s.mountGames(r)
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

type levelInfo struct {
	Level string `json:"level"`
	Words int    `json:"words"`
}

func (s *Server) handleLevels(w http.ResponseWriter, r *http.Request) {
	out := []levelInfo{}
	for _, l := range s.bank.Levels() {
		out = append(out, levelInfo{Level: l, Words: len(s.bank.WordsByLevel(l))})
	}
	writeJSON(w, http.StatusOK, out)
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := getEnv("CLIENT_ORIGIN", "http://localhost:5173")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Str("request_id", chimw.GetReqID(r.Context())).
			Msg("http")
	})
}

// ------------------------------- responses ---------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeBody reads an optional JSON body into v; an empty body is fine.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// inputErrors are rejections the player can fix; they map to 400 with the reason.
var inputErrors = []error{
	game.ErrInvalidSelection,
	game.ErrWrongLength,
	game.ErrInvalidCell,
	game.ErrNothingToHint,
	spellingbee.ErrTooShort,
	spellingbee.ErrMissingCenter,
	spellingbee.ErrAlreadyFound,
	spellingbee.ErrNotInList,
}

// writeGameError maps domain errors to HTTP statuses.
func writeGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrInsufficientWords):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
		return
	case errors.Is(err, game.ErrRoundOver):
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	for _, e := range inputErrors {
		if errors.Is(err, e) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	log.Error().Err(err).Msg("unhandled game error")
	writeError(w, http.StatusInternalServerError, "server_error")
}

// ------------------------------- small util --------------------------------

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
