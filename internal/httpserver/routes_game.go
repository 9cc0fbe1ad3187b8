// internal/httpserver/routes_game.go
//
// Round endpoints, shared by all five modes:
//   - POST   /{mode}/new              → start a round (replaces the profile's live one)
//   - GET    /{mode}/{id}             → current snapshot
//   - DELETE /{mode}/{id}             → abandon
//   - POST   /{mode}/{id}/{action}    → apply one move (see actions below)
//
// Every action responds {"result": <move outcome>, "round": <snapshot>}.
// Answers never leave the server until a round is over.

package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/wordplay/internal/crossword"
	"github.com/robalobadob/wordplay/internal/game"
	"github.com/robalobadob/wordplay/internal/grid"
	"github.com/robalobadob/wordplay/internal/store"
	"github.com/robalobadob/wordplay/internal/words"
)

func (s *Server) mountGames(r chi.Router) {
	r.Route("/{mode}", func(r chi.Router) {
		r.Post("/new", s.handleNew)
		r.Get("/{id}", s.handleSnapshot)
		r.Delete("/{id}", s.handleAbandon)
		r.Post("/{id}/{action}", s.handleAction)
	})
}

// newReq is the body of POST /{mode}/new. WordID pins the target word for
// single-word modes (practising a specific word).
type newReq struct {
	Level  string `json:"level"`
	WordID string `json:"wordId"`
}

func modeParam(w http.ResponseWriter, r *http.Request) (game.Mode, bool) {
	mode, ok := game.ParseMode(chi.URLParam(r, "mode"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown mode")
	}
	return mode, ok
}

func (s *Server) handleNew(w http.ResponseWriter, r *http.Request) {
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
	cfg := game.Config{Level: s.level(req.Level), Seed: s.now().UnixNano()}
	if req.WordID != "" {
		wd, ok := s.bank.WordByID(req.WordID)
		if !ok {
			writeError(w, http.StatusNotFound, "unknown word")
			return
		}
		if mode == game.ModeWordGuess || mode == game.ModeAnagram {
			cfg.Level, cfg.Words = wd.Level, []words.Word{wd}
		}
	}
	if mode == game.ModeAnagram {
		cfg.Streak = s.carriedStreak(r.Context(), profile)
	}
	s.startRound(w, r, profile, mode, cfg)
}

// level defaults to the first level of the dataset.
func (s *Server) level(requested string) string {
	if requested != "" {
		return requested
	}
	if lv := s.bank.Levels(); len(lv) > 0 {
		return lv[0]
	}
	return words.DefaultLevels[0]
}

// carriedStreak continues the anagram streak when the previous round was solved.
func (s *Server) carriedStreak(ctx context.Context, profile string) int {
	id, ok := s.rounds.Current(profile, game.ModeAnagram)
	if !ok {
		return 0
	}
	streak := 0
	_ = s.rounds.Update(ctx, id, profile, func(rd game.Round) error {
		if a, ok := rd.(*game.Anagram); ok && a.State() == game.Won {
			streak = a.Streak()
		}
		return nil
	})
	return streak
}

func (s *Server) startRound(w http.ResponseWriter, r *http.Request, profile string, mode game.Mode, cfg game.Config) {
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
	writeJSON(w, http.StatusOK, rd.Snapshot())
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	mode, ok := modeParam(w, r)
	if !ok {
		return
	}
	var snap any
	err := s.rounds.Update(r.Context(), chi.URLParam(r, "id"), s.profileID(w, r), func(rd game.Round) error {
		if rd.Mode() != mode {
			return store.ErrNotFound
		}
		snap = rd.Snapshot()
		return nil
	})
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleAbandon(w http.ResponseWriter, r *http.Request) {
	if _, ok := modeParam(w, r); !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if err := s.rounds.Delete(r.Context(), id, s.profileID(w, r)); err != nil {
		writeGameError(w, err)
		return
	}
	s.mu.Lock()
	delete(s.dailies, id)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// ------------------------------ actions ------------------------------------

// actionReq is the union of every action's parameters.
type actionReq struct {
	Guess     string      `json:"guess"`
	Word      string      `json:"word"`
	Letter    string      `json:"letter"`
	Cell      *grid.Coord `json:"cell"`
	Start     *grid.Coord `json:"start"`
	End       *grid.Coord `json:"end"`
	Clue      int         `json:"clue"`
	Direction string      `json:"direction"`
	Tile      *int        `json:"tile"`
	Pos       *int        `json:"pos"`
}

type action func(ctx context.Context, rd game.Round, req actionReq) (any, error)

type actionRes struct {
	Result any `json:"result"`
	Round  any `json:"round"`
}

// need returns the coordinate or ErrInvalidSelection when it was omitted.
func need(c *grid.Coord) (grid.Coord, error) {
	if c == nil {
		return grid.Coord{}, game.ErrInvalidSelection
	}
	return *c, nil
}

func needInt(n *int) (int, error) {
	if n == nil {
		return 0, game.ErrInvalidSelection
	}
	return *n, nil
}

var actions = map[game.Mode]map[string]action{
	game.ModeWordGuess: {
		"guess": func(ctx context.Context, rd game.Round, req actionReq) (any, error) {
			return rd.(*game.WordGuess).Guess(ctx, req.Guess)
		},
	},
	game.ModeWordSearch: {
		"select": func(ctx context.Context, rd game.Round, req actionReq) (any, error) {
			start, err := need(req.Start)
			if err != nil {
				return nil, err
			}
			end, err := need(req.End)
			if err != nil {
				return nil, err
			}
			return rd.(*game.WordSearch).Select(ctx, start, end)
		},
		"press": func(ctx context.Context, rd game.Round, req actionReq) (any, error) {
			c, err := need(req.Cell)
			if err != nil {
				return nil, err
			}
			return nil, rd.(*game.WordSearch).Press(ctx, c)
		},
		"drag": func(ctx context.Context, rd game.Round, req actionReq) (any, error) {
			c, err := need(req.Cell)
			if err != nil {
				return nil, err
			}
			path, ok := rd.(*game.WordSearch).Drag(c)
			return map[string]any{"path": path, "accepted": ok}, nil
		},
		"release": func(ctx context.Context, rd game.Round, req actionReq) (any, error) {
			return rd.(*game.WordSearch).Release(ctx)
		},
		"hint": func(ctx context.Context, rd game.Round, req actionReq) (any, error) {
			return rd.(*game.WordSearch).Hint(ctx)
		},
	},
	game.ModeCrossword: {
		"enter": func(ctx context.Context, rd game.Round, req actionReq) (any, error) {
			c, err := need(req.Cell)
			if err != nil {
				return nil, err
			}
			return rd.(*game.Crossword).Enter(ctx, c, req.Letter)
		},
		"erase": func(ctx context.Context, rd game.Round, req actionReq) (any, error) {
			c, err := need(req.Cell)
			if err != nil {
				return nil, err
			}
			return nil, rd.(*game.Crossword).Erase(ctx, c)
		},
		"reveal-letter": func(ctx context.Context, rd game.Round, req actionReq) (any, error) {
			c, err := need(req.Cell)
			if err != nil {
				return nil, err
			}
			return rd.(*game.Crossword).RevealLetter(ctx, c)
		},
		"reveal-word": func(ctx context.Context, rd game.Round, req actionReq) (any, error) {
			dir := crossword.Direction(req.Direction)
			if dir != crossword.Across && dir != crossword.Down {
				return nil, game.ErrInvalidSelection
			}
			return rd.(*game.Crossword).RevealWord(ctx, req.Clue, dir)
		},
		"check": func(ctx context.Context, rd game.Round, req actionReq) (any, error) {
			wrong, err := rd.(*game.Crossword).Check(ctx)
			return map[string]any{"wrong": wrong}, err
		},
	},
	game.ModeSpellingBee: {
		"submit": func(ctx context.Context, rd game.Round, req actionReq) (any, error) {
			return rd.(*game.SpellingBee).Submit(ctx, req.Word)
		},
		"hint": func(ctx context.Context, rd game.Round, req actionReq) (any, error) {
			tip, err := rd.(*game.SpellingBee).Hint(ctx)
			return map[string]string{"hint": tip}, err
		},
		"shuffle": func(ctx context.Context, rd game.Round, req actionReq) (any, error) {
			return nil, rd.(*game.SpellingBee).Shuffle(ctx)
		},
	},
	game.ModeAnagram: {
		"pick": func(ctx context.Context, rd game.Round, req actionReq) (any, error) {
			id, err := needInt(req.Tile)
			if err != nil {
				return nil, err
			}
			return rd.(*game.Anagram).Pick(ctx, id)
		},
		"unpick": func(ctx context.Context, rd game.Round, req actionReq) (any, error) {
			pos, err := needInt(req.Pos)
			if err != nil {
				return nil, err
			}
			return rd.(*game.Anagram).Unpick(ctx, pos)
		},
		"clear": func(ctx context.Context, rd game.Round, req actionReq) (any, error) {
			return nil, rd.(*game.Anagram).Clear(ctx)
		},
		"shuffle": func(ctx context.Context, rd game.Round, req actionReq) (any, error) {
			return nil, rd.(*game.Anagram).Shuffle(ctx)
		},
		"hint": func(ctx context.Context, rd game.Round, req actionReq) (any, error) {
			hint, err := rd.(*game.Anagram).Hint(ctx)
			return map[string]string{"hint": hint}, err
		},
	},
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	mode, ok := modeParam(w, r)
	if !ok {
		return
	}
	act, ok := actions[mode][chi.URLParam(r, "action")]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown action")
		return
	}
	var req actionReq
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	id, profile := chi.URLParam(r, "id"), s.profileID(w, r)
	var (
		res      actionRes
		finished bool
		score    int
		elapsed  int
	)
	err := s.rounds.Update(r.Context(), id, profile, func(rd game.Round) error {
		if rd.Mode() != mode {
			return store.ErrNotFound
		}
		out, err := act(r.Context(), rd, req)
		if err != nil {
			return err
		}
		res = actionRes{Result: out, Round: rd.Snapshot()}
		finished, score, elapsed = rd.State().Terminal(), rd.Score(), rd.Elapsed()
		return nil
	})
	if err != nil {
		writeGameError(w, err)
		return
	}
	if finished {
		s.recordDaily(r.Context(), id, score, elapsed)
	}
	writeJSON(w, http.StatusOK, res)
}

// timeNowUTC is the server clock in UTC.
func (s *Server) timeNowUTC() time.Time { return s.now().UTC() }

// forgetDaily drops the daily marker of the round a new one is about to replace.
func (s *Server) forgetDaily(profile string, mode game.Mode) {
	if id, ok := s.rounds.Current(profile, mode); ok {
		s.mu.Lock()
		delete(s.dailies, id)
		s.mu.Unlock()
	}
}
