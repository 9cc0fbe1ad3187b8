// internal/game/wordguess.go
//
// Word-guess round: guess a level word from its definition.
// Responsibilities:
//   - Pick a target word (letters only) for the level.
//   - Validate and apply guesses (full length, alphabetic).
//   - Score guesses using the two-pass hit/present/miss algorithm.
//   - Track state transitions: in_progress → won/lost.
//
// Notes:
//   - Guess length follows the target word; there is no allowed-word list.
//   - A rejected guess does not count against MaxAttempts.
package game

import (
	"context"
	"strings"

	"github.com/samber/lo"

	"github.com/robalobadob/wordplay/internal/progress"
	"github.com/robalobadob/wordplay/internal/words"
)

// MaxAttempts is the number of full-length guesses before the round is lost.
const MaxAttempts = 6

// WordGuess holds the state of one word-guess round.
type WordGuess struct {
	base
	target  words.Word
	answer  string // upper case
	guesses []string
	marks   [][]Mark
}

// NewWordGuess picks a target from the level (or cfg.Words) and returns a fresh round.
func NewWordGuess(src words.Source, store progress.Store, cfg Config) (*WordGuess, error) {
	candidates := cfg.Words
	if len(candidates) == 0 && src != nil {
		candidates = src.WordsByLevel(cfg.Level)
	}
	candidates = lo.Filter(candidates, func(w words.Word, _ int) bool { return words.IsAlpha(w.Word) })
	if len(candidates) == 0 {
		return nil, ErrInsufficientWords
	}

	g := &WordGuess{base: newBase(ModeWordGuess, cfg, recorder{store: store})}
	g.rec.round = g.id
	if len(cfg.Words) > 0 {
		g.target = candidates[0]
	} else {
		g.target = candidates[g.rng.Intn(len(candidates))]
	}
	g.answer = g.target.Upper()
	return g, nil
}

// GuessResult is the outcome of one applied guess.
type GuessResult struct {
	Marks []Mark `json:"marks"`
	State State  `json:"state"`
}

// Guess validates and scores a guess, mutating the round.
//
// State transitions:
//   - If every tile is a hit → won (discovery + stats).
//   - Else if the guess count reaches MaxAttempts → lost (stats).
func (g *WordGuess) Guess(ctx context.Context, guess string) (GuessResult, error) {
	if err := g.begin(ctx); err != nil {
		return GuessResult{State: g.State()}, err
	}
	guess = strings.ToUpper(strings.TrimSpace(guess))
	if len(guess) != len(g.answer) || !words.IsAlpha(guess) {
		return GuessResult{State: g.State()}, ErrWrongLength
	}

	marks := scoreGuess(g.answer, guess)
	g.guesses = append(g.guesses, guess)
	g.marks = append(g.marks, marks)

	switch {
	case allHit(marks):
		g.score = 1
		g.finish(ctx, evWin)
		g.rec.discover(ctx, g.target)
		n := len(g.guesses)
		g.rec.flush(ctx, progress.GameWordGuess, func(prev progress.Stats) progress.Stats {
			return progress.Stats{
				"correctAnswers": prev["correctAnswers"] + 1,
				"totalGuesses":   prev["totalGuesses"] + n,
				"gamesPlayed":    prev["gamesPlayed"] + 1,
			}
		})
	case len(g.guesses) >= MaxAttempts:
		g.finish(ctx, evLose)
		n := len(g.guesses)
		g.rec.flush(ctx, progress.GameWordGuess, func(prev progress.Stats) progress.Stats {
			return progress.Stats{
				"totalGuesses": prev["totalGuesses"] + n,
				"gamesPlayed":  prev["gamesPlayed"] + 1,
			}
		})
	}
	return GuessResult{Marks: marks, State: g.State()}, nil
}

// scoreGuess implements the two-pass scoring algorithm.
//
// Pass 1:
//   - Mark exact matches as Hit.
//   - Count remaining (non-hit) answer letters.
//
// Pass 2:
//   - For each non-hit guess letter: if there is remaining count for that letter,
//     mark Present and decrement the count; otherwise mark Miss.
//
// This keeps repeated letters in both answer and guess honest.
func scoreGuess(answer, guess string) []Mark {
	n := len(guess)
	res := make([]Mark, n)
	var counts [26]int

	for i := 0; i < n; i++ {
		if guess[i] == answer[i] {
			res[i] = MarkHit
		} else {
			counts[answer[i]-'A']++
		}
	}
	for i := 0; i < n; i++ {
		if res[i] == MarkHit {
			continue
		}
		if j := guess[i] - 'A'; counts[j] > 0 {
			res[i] = MarkPresent
			counts[j]--
		} else {
			res[i] = MarkMiss
		}
	}
	return res
}

func allHit(m []Mark) bool {
	for _, x := range m {
		if x != MarkHit {
			return false
		}
	}
	return true
}

// WordGuessView is the client-facing snapshot.
type WordGuessView struct {
	ID          string   `json:"id"`
	Mode        Mode     `json:"mode"`
	Level       string   `json:"level"`
	State       State    `json:"state"`
	Length      int      `json:"length"`
	MaxAttempts int      `json:"maxAttempts"`
	Definition  string   `json:"definition"`
	Hint        string   `json:"hint"`
	Category    string   `json:"category"`
	Guesses     []string `json:"guesses"`
	Marks       [][]Mark `json:"marks"`
	Elapsed     int      `json:"elapsed"`
	Score       int      `json:"score"`
	Answer      string   `json:"answer,omitempty"` // only once finished
}

func (g *WordGuess) Snapshot() any {
	v := WordGuessView{
		ID:          g.id,
		Mode:        g.mode,
		Level:       g.level,
		State:       g.State(),
		Length:      len(g.answer),
		MaxAttempts: MaxAttempts,
		Definition:  g.target.Definition,
		Hint:        g.target.Hint,
		Category:    g.target.Category,
		Guesses:     append([]string{}, g.guesses...),
		Marks:       append([][]Mark{}, g.marks...),
		Elapsed:     g.elapsed,
		Score:       g.score,
	}
	if v.State.Terminal() {
		v.Answer = g.answer
	}
	return v
}
