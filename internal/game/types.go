// internal/game/types.go
//
// Core type definitions shared by every round.
// Defines:
//   - Mode: the five mini-games.
//   - State: round lifecycle states (see lifecycle.go).
//   - Mark: per-letter result of a word-guess attempt (hit/present/miss).
//   - Round: the surface the registry and HTTP layer drive.
//   - Config: per-round construction options.

package game

import (
	"errors"

	"github.com/robalobadob/wordplay/internal/words"
)

// Mode names a mini-game. Values double as URL segments.
type Mode string

const (
	ModeWordGuess   Mode = "wordguess"
	ModeWordSearch  Mode = "wordsearch"
	ModeCrossword   Mode = "crossword"
	ModeSpellingBee Mode = "spellingbee"
	ModeAnagram     Mode = "anagram"
)

// Modes lists every mode in menu order.
var Modes = []Mode{ModeWordGuess, ModeWordSearch, ModeAnagram, ModeCrossword, ModeSpellingBee}

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, bool) {
	for _, m := range Modes {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

// State is a round's lifecycle position.
type State string

const (
	NotStarted State = "not_started"
	InProgress State = "in_progress"
	Won        State = "won"
	Lost       State = "lost"
	Complete   State = "complete"
)

// Terminal reports whether no further input is accepted.
func (s State) Terminal() bool { return s == Won || s == Lost || s == Complete }

// Mark represents the evaluation result for a single letter in a guess.
//   - "hit":     letter is correct and in the correct position.
//   - "present": letter exists in the answer but in a different position.
//   - "miss":    letter does not exist in the (remaining) answer.
type Mark string

const (
	MarkHit     Mark = "hit"
	MarkPresent Mark = "present"
	MarkMiss    Mark = "miss"
)

var (
	ErrRoundOver         = errors.New("round is over")
	ErrInsufficientWords = errors.New("not enough words for this level")
	ErrInvalidSelection  = errors.New("invalid selection")
	ErrWrongLength       = errors.New("guess must fill every letter")
	ErrInvalidCell       = errors.New("cell is not part of the puzzle")
	ErrNothingToHint     = errors.New("nothing left to hint")
)

// Round is one playthrough of a mode. Implementations are not safe for
// concurrent use; the registry serialises access.
type Round interface {
	ID() string
	Mode() Mode
	Level() string
	State() State
	Score() int
	Elapsed() int
	// Tick advances the timer by one second while the round is in progress.
	Tick()
	// Snapshot is the client-facing view; it never reveals unsolved answers.
	Snapshot() any
}

// Config carries the construction options common to every mode.
type Config struct {
	Level string
	// Seed drives every random choice the round makes.
	Seed int64
	// Words, when set, replaces drawing words from the source (daily puzzles, tests).
	Words []words.Word
	// Streak is the anagram streak carried over from the previous round.
	Streak int
}
