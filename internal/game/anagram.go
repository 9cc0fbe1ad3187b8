// internal/game/anagram.go
//
// Anagram round.
// Tiles move between the bank and the answer row; the answer is checked when
// the last tile is placed. Solving scores
//   len*10 + max(0, 60-elapsed) + streak*5 - hints*10
// and a wrong answer resets the streak.

package game

import (
	"context"

	"github.com/samber/lo"

	"github.com/robalobadob/wordplay/internal/anagram"
	"github.com/robalobadob/wordplay/internal/progress"
	"github.com/robalobadob/wordplay/internal/words"
)

const (
	anagramMinLength   = 3
	anagramTimeBonus   = 60
	anagramStreakBonus = 5
	anagramHintPenalty = 10
	anagramHintSeconds = 5
)

// Anagram is one scrambled word. Picking the last tile checks the answer;
// a wrong answer resets the streak and play continues.
type Anagram struct {
	base
	target    words.Word
	answer    string
	bank      []anagram.Tile
	picked    []anagram.Tile
	streak    int
	hintUntil int // elapsed second at which the shown hint hides
}

func NewAnagram(src words.Source, store progress.Store, cfg Config) (*Anagram, error) {
	candidates := cfg.Words
	if len(candidates) == 0 && src != nil {
		candidates = src.WordsByLevel(cfg.Level)
	}
	candidates = lo.Filter(candidates, func(w words.Word, _ int) bool {
		return words.IsAlpha(w.Word) && len(w.Word) >= anagramMinLength
	})
	if len(candidates) == 0 {
		return nil, ErrInsufficientWords
	}

	a := &Anagram{
		base:   newBase(ModeAnagram, cfg, recorder{store: store}),
		streak: cfg.Streak,
	}
	a.rec.round = a.id
	if len(cfg.Words) > 0 {
		a.target = candidates[0]
	} else {
		a.target = candidates[a.rng.Intn(len(candidates))]
	}
	a.answer = a.target.Upper()
	a.bank = anagram.Scramble(a.answer, a.rng)
	return a, nil
}

// Streak is the count of consecutive solved anagrams including this round.
func (a *Anagram) Streak() int { return a.streak }

// AnagramResult reports the answer area after an action.
type AnagramResult struct {
	Answer  string `json:"answer"`
	Checked bool   `json:"checked"`
	Correct bool   `json:"correct"`
	Score   int    `json:"score"`
	Streak  int    `json:"streak"`
	State   State  `json:"state"`
}

// Pick moves the tile with id from the bank to the end of the answer.
func (a *Anagram) Pick(ctx context.Context, id int) (AnagramResult, error) {
	if err := a.begin(ctx); err != nil {
		return a.result(false, false), err
	}
	i := lo.IndexOf(lo.Map(a.bank, func(t anagram.Tile, _ int) int { return t.ID }), id)
	if i < 0 {
		return a.result(false, false), ErrInvalidSelection
	}
	tile := a.bank[i]
	a.bank = append(a.bank[:i:i], a.bank[i+1:]...)
	a.picked = append(a.picked, tile)

	if len(a.picked) < len(a.answer) {
		return a.result(false, false), nil
	}
	return a.check(ctx), nil
}

// Unpick returns the answer tile at position pos to the bank.
func (a *Anagram) Unpick(ctx context.Context, pos int) (AnagramResult, error) {
	if err := a.begin(ctx); err != nil {
		return a.result(false, false), err
	}
	if pos < 0 || pos >= len(a.picked) {
		return a.result(false, false), ErrInvalidSelection
	}
	tile := a.picked[pos]
	a.picked = append(a.picked[:pos:pos], a.picked[pos+1:]...)
	a.bank = append(a.bank, tile)
	return a.result(false, false), nil
}

// Clear returns every answer tile to the bank.
func (a *Anagram) Clear(ctx context.Context) error {
	if err := a.begin(ctx); err != nil {
		return err
	}
	a.bank = append(a.bank, a.picked...)
	a.picked = nil
	return nil
}

// Shuffle reorders the bank.
func (a *Anagram) Shuffle(ctx context.Context) error {
	if err := a.begin(ctx); err != nil {
		return err
	}
	anagram.Shuffle(a.bank, a.rng)
	return nil
}

// Hint shows the word's hint text for a few seconds. Asking again while it
// is shown is free; once it hides, the next request costs another hint.
func (a *Anagram) Hint(ctx context.Context) (string, error) {
	if err := a.begin(ctx); err != nil {
		return "", err
	}
	if !a.hintShown() {
		a.hintUntil = a.elapsed + anagramHintSeconds
		a.hints++
	}
	return a.target.Hint, nil
}

func (a *Anagram) hintShown() bool { return a.hints > 0 && a.elapsed < a.hintUntil }

func (a *Anagram) check(ctx context.Context) AnagramResult {
	if anagram.Spell(a.picked) != a.answer {
		a.streak = 0
		return a.result(true, false)
	}

	points := max(0, len(a.answer)*10+max(0, anagramTimeBonus-a.elapsed)+a.streak*anagramStreakBonus-a.hints*anagramHintPenalty)
	a.addScore(points)
	a.streak++
	a.finish(ctx, evWin)
	a.rec.discover(ctx, a.target)
	streak := a.streak
	a.rec.flush(ctx, progress.GameAnagram, func(prev progress.Stats) progress.Stats {
		return progress.Stats{
			"solved":      prev["solved"] + 1,
			"totalScore":  prev["totalScore"] + points,
			"bestStreak":  max(prev["bestStreak"], streak),
			"gamesPlayed": prev["gamesPlayed"] + 1,
		}
	})
	return a.result(true, true)
}

func (a *Anagram) result(checked, correct bool) AnagramResult {
	return AnagramResult{
		Answer:  anagram.Spell(a.picked),
		Checked: checked,
		Correct: correct,
		Score:   a.score,
		Streak:  a.streak,
		State:   a.State(),
	}
}

// AnagramView is the client-facing snapshot.
type AnagramView struct {
	ID         string         `json:"id"`
	Mode       Mode           `json:"mode"`
	Level      string         `json:"level"`
	State      State          `json:"state"`
	Definition string         `json:"definition"`
	Category   string         `json:"category"`
	Hint       string         `json:"hint,omitempty"`
	Length     int            `json:"length"`
	Bank       []anagram.Tile `json:"bank"`
	Picked     []anagram.Tile `json:"picked"`
	Score      int            `json:"score"`
	Streak     int            `json:"streak"`
	HintsUsed  int            `json:"hintsUsed"`
	Elapsed    int            `json:"elapsed"`
	Answer     string         `json:"answer,omitempty"`
}

func (a *Anagram) Snapshot() any {
	v := AnagramView{
		ID:         a.id,
		Mode:       a.mode,
		Level:      a.level,
		State:      a.State(),
		Definition: a.target.Definition,
		Category:   a.target.Category,
		Length:     len(a.answer),
		Bank:       append([]anagram.Tile{}, a.bank...),
		Picked:     append([]anagram.Tile{}, a.picked...),
		Score:      a.score,
		Streak:     a.streak,
		HintsUsed:  a.hints,
		Elapsed:    a.elapsed,
	}
	if a.hintShown() {
		v.Hint = a.target.Hint
	}
	if v.State.Terminal() {
		v.Answer = a.answer
	}
	return v
}
