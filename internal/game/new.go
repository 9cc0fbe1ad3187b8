// internal/game/new.go
//
// Round construction by mode, and how many words each mode draws.

package game

import (
	"fmt"

	"github.com/robalobadob/wordplay/internal/progress"
	"github.com/robalobadob/wordplay/internal/words"
)

// New constructs a round of the given mode.
func New(mode Mode, src words.Source, store progress.Store, cfg Config) (Round, error) {
	var (
		r   Round
		err error
	)
	switch mode {
	case ModeWordGuess:
		r, err = NewWordGuess(src, store, cfg)
	case ModeWordSearch:
		r, err = NewWordSearch(src, store, cfg)
	case ModeCrossword:
		r, err = NewCrossword(src, store, cfg)
	case ModeSpellingBee:
		r, err = NewSpellingBee(src, store, cfg)
	case ModeAnagram:
		r, err = NewAnagram(src, store, cfg)
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// WordsNeeded is how many words a mode draws per round; 0 means the whole level.
func WordsNeeded(mode Mode) int {
	switch mode {
	case ModeWordSearch:
		return WordSearchWords
	case ModeCrossword:
		return CrosswordWords
	case ModeWordGuess, ModeAnagram:
		return 1
	}
	return 0
}
