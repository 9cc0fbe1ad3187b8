// internal/game/spellingbee.go
//
// Spelling-bee round over a seven-letter honeycomb.
// Accepted words score per the spellingbee package and are discovered at once;
// finding every valid word completes the round.

package game

import (
	"context"

	"github.com/zyedidia/generic/mapset"

	"github.com/robalobadob/wordplay/internal/progress"
	"github.com/robalobadob/wordplay/internal/spellingbee"
	"github.com/robalobadob/wordplay/internal/words"
)

// SpellingBee is a round of building words from the honeycomb letters.
type SpellingBee struct {
	base
	comb    *spellingbee.Honeycomb
	words   wordIndex
	found   mapset.Set[string]
	order   []string
	lastTip string
}

// NewSpellingBee builds the honeycomb from the whole level (or cfg.Words).
func NewSpellingBee(src words.Source, store progress.Store, cfg Config) (*SpellingBee, error) {
	list := cfg.Words
	if len(list) == 0 && src != nil {
		list = src.WordsByLevel(cfg.Level)
	}
	sb := &SpellingBee{
		base:  newBase(ModeSpellingBee, cfg, recorder{store: store}),
		words: indexWords(list),
		found: mapset.New[string](),
	}
	sb.rec.round = sb.id

	comb, err := spellingbee.Generate(texts(list), sb.rng)
	if err != nil || len(comb.ValidWords) == 0 {
		return nil, ErrInsufficientWords
	}
	sb.comb = comb
	return sb, nil
}

// SubmitResult is an accepted word and its points.
type SubmitResult struct {
	Word    string `json:"word"`
	Points  int    `json:"points"`
	Pangram bool   `json:"pangram"`
	Score   int    `json:"score"`
	Rank    string `json:"rank"`
	State   State  `json:"state"`
}

// Submit validates input. Rejections carry the spellingbee reason errors.
func (sb *SpellingBee) Submit(ctx context.Context, input string) (SubmitResult, error) {
	if err := sb.begin(ctx); err != nil {
		return sb.result("", 0), err
	}
	w, err := sb.comb.Check(input, sb.found.Has)
	if err != nil {
		return sb.result("", 0), err
	}

	sb.found.Put(w)
	sb.order = append(sb.order, w)
	points := spellingbee.Score(w, sb.comb.Letters)
	sb.addScore(points)
	sb.rec.discover(ctx, sb.words[w])

	if sb.found.Size() == len(sb.comb.ValidWords) {
		sb.finish(ctx, evComplete)
		found, valid, score := sb.found.Size(), len(sb.comb.ValidWords), sb.score
		sb.rec.flush(ctx, progress.GameSpellingBee, func(prev progress.Stats) progress.Stats {
			return progress.Stats{
				"correctWords": prev["correctWords"] + found,
				"totalWords":   prev["totalWords"] + valid,
				"gamesPlayed":  prev["gamesPlayed"] + 1,
				"bestScore":    max(prev["bestScore"], score),
			}
		})
	}
	return sb.result(w, points), nil
}

func (sb *SpellingBee) result(w string, points int) SubmitResult {
	return SubmitResult{
		Word:    w,
		Points:  points,
		Pangram: w != "" && spellingbee.IsPangram(w, sb.comb.Letters),
		Score:   sb.score,
		Rank:    spellingbee.Rank(sb.score, sb.comb.MaxScore),
		State:   sb.State(),
	}
}

// Hint reveals the first two letters of an unfound word.
func (sb *SpellingBee) Hint(ctx context.Context) (string, error) {
	if err := sb.begin(ctx); err != nil {
		return "", err
	}
	tip, ok := sb.comb.Hint(sb.rng, sb.found.Has)
	if !ok {
		return "", ErrNothingToHint
	}
	sb.hints++
	sb.lastTip = tip
	return tip, nil
}

// Shuffle reorders the outer letters.
func (sb *SpellingBee) Shuffle(ctx context.Context) error {
	if err := sb.begin(ctx); err != nil {
		return err
	}
	sb.comb.Shuffle(sb.rng)
	return nil
}

// SpellingBeeView is the client-facing snapshot.
type SpellingBeeView struct {
	ID         string   `json:"id"`
	Mode       Mode     `json:"mode"`
	Level      string   `json:"level"`
	State      State    `json:"state"`
	Center     string   `json:"center"`
	Outer      []string `json:"outer"`
	Found      []string `json:"found"`
	TotalWords int      `json:"totalWords"`
	Score      int      `json:"score"`
	MaxScore   int      `json:"maxScore"`
	Rank       string   `json:"rank"`
	Hint       string   `json:"hint,omitempty"`
	HintsUsed  int      `json:"hintsUsed"`
	Elapsed    int      `json:"elapsed"`
}

func (sb *SpellingBee) Snapshot() any {
	outer := make([]string, 0, len(sb.comb.Outer()))
	for _, r := range sb.comb.Outer() {
		outer = append(outer, string(r))
	}
	return SpellingBeeView{
		ID:         sb.id,
		Mode:       sb.mode,
		Level:      sb.level,
		State:      sb.State(),
		Center:     string(sb.comb.Center()),
		Outer:      outer,
		Found:      append([]string{}, sb.order...),
		TotalWords: len(sb.comb.ValidWords),
		Score:      sb.score,
		MaxScore:   sb.comb.MaxScore,
		Rank:       spellingbee.Rank(sb.score, sb.comb.MaxScore),
		Hint:       sb.lastTip,
		HintsUsed:  sb.hints,
		Elapsed:    sb.elapsed,
	}
}
