// internal/game/wordsearch.go
//
// Word-search round: straight-line selections are matched against the
// hidden words, forwards or backwards.

package game

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/zyedidia/generic/mapset"

	"github.com/robalobadob/wordplay/internal/grid"
	"github.com/robalobadob/wordplay/internal/progress"
	"github.com/robalobadob/wordplay/internal/words"
	"github.com/robalobadob/wordplay/internal/wordsearch"
)

const (
	WordSearchWords = 6
	WordSearchSize  = 12

	wordSearchTimeBonus   = 300
	wordSearchHintPenalty = 20
)

// WordSearch is a round of finding hidden words by dragging across the grid.
type WordSearch struct {
	base
	puzzle  *wordsearch.Puzzle
	words   wordIndex
	found   mapset.Set[string]
	order   []string // found words in discovery order
	tracker *grid.Tracker
	hinted  int // placement index of the active hint, -1 when none
}

func NewWordSearch(src words.Source, store progress.Store, cfg Config) (*WordSearch, error) {
	list := draw(src, cfg, WordSearchWords)
	ws := &WordSearch{
		base:   newBase(ModeWordSearch, cfg, recorder{store: store}),
		words:  indexWords(list),
		found:  mapset.New[string](),
		hinted: -1,
	}
	ws.rec.round = ws.id

	pz, err := wordsearch.NewPlacer(ws.rng).Generate(texts(list), WordSearchSize)
	if err != nil {
		return nil, ErrInsufficientWords
	}
	for _, w := range pz.Dropped {
		log.Warn().Str("round", ws.id).Str("word", w).Msg("word search: placement exhausted, word dropped")
	}
	if len(pz.Placements) == 0 {
		return nil, ErrInsufficientWords
	}
	ws.puzzle = pz
	ws.tracker = grid.NewTracker(pz.Grid.Rows, pz.Grid.Cols)
	return ws, nil
}

// Press starts a drag at c.
func (ws *WordSearch) Press(ctx context.Context, c grid.Coord) error {
	if err := ws.begin(ctx); err != nil {
		return err
	}
	if !ws.tracker.Begin(c) {
		return ErrInvalidSelection
	}
	return nil
}

// Drag extends the selection toward c. Off-line moves keep the previous path.
func (ws *WordSearch) Drag(c grid.Coord) ([]grid.Coord, bool) {
	ok := ws.tracker.Move(c)
	return ws.tracker.Path(), ok
}

// SelectResult reports what a released selection matched.
type SelectResult struct {
	Found bool         `json:"found"`
	Word  string       `json:"word,omitempty"`
	Cells []grid.Coord `json:"cells,omitempty"`
	Score int          `json:"score"`
	State State        `json:"state"`
}

// Release ends the drag and checks the path against the unfound words.
func (ws *WordSearch) Release(ctx context.Context) (SelectResult, error) {
	path := ws.tracker.End()
	if ws.State().Terminal() {
		return SelectResult{Score: ws.score, State: ws.State()}, ErrRoundOver
	}
	if len(path) < 2 {
		return SelectResult{Score: ws.score, State: ws.State()}, ErrInvalidSelection
	}
	i, ok := ws.puzzle.Find(path, func(i int) bool { return ws.found.Has(ws.puzzle.Placements[i].Word) })
	if !ok {
		return SelectResult{Score: ws.score, State: ws.State()}, nil
	}

	pl := ws.puzzle.Placements[i]
	ws.found.Put(pl.Word)
	ws.order = append(ws.order, pl.Word)
	if ws.hinted == i {
		ws.hinted = -1
	}
	ws.addScore(len(pl.Word)*10 + max(0, wordSearchTimeBonus-ws.elapsed) - ws.hints*wordSearchHintPenalty)
	ws.rec.discover(ctx, ws.words[pl.Word])

	if ws.found.Size() == len(ws.puzzle.Placements) {
		ws.finish(ctx, evWin)
		score, elapsed := ws.score, ws.elapsed
		ws.rec.flush(ctx, progress.GameWordSearch, func(prev progress.Stats) progress.Stats {
			return progress.Stats{
				"gamesWon":    prev["gamesWon"] + 1,
				"totalTime":   prev["totalTime"] + elapsed,
				"gamesPlayed": prev["gamesPlayed"] + 1,
				"bestScore":   max(prev["bestScore"], score),
			}
		})
	}
	return SelectResult{Found: true, Word: pl.Word, Cells: pl.Cells, Score: ws.score, State: ws.State()}, nil
}

// Select is a whole drag from start to end in one call.
func (ws *WordSearch) Select(ctx context.Context, start, end grid.Coord) (SelectResult, error) {
	if err := ws.Press(ctx, start); err != nil {
		ws.tracker.End()
		return SelectResult{Score: ws.score, State: ws.State()}, err
	}
	if _, ok := ws.Drag(end); !ok {
		ws.tracker.End()
		return SelectResult{Score: ws.score, State: ws.State()}, ErrInvalidSelection
	}
	return ws.Release(ctx)
}

// Hint highlights a random unfound word and counts against later finds.
func (ws *WordSearch) Hint(ctx context.Context) (wordsearch.Placement, error) {
	if err := ws.begin(ctx); err != nil {
		return wordsearch.Placement{}, err
	}
	var remaining []int
	for i, pl := range ws.puzzle.Placements {
		if !ws.found.Has(pl.Word) {
			remaining = append(remaining, i)
		}
	}
	if len(remaining) == 0 {
		return wordsearch.Placement{}, ErrNothingToHint
	}
	ws.hinted = remaining[ws.rng.Intn(len(remaining))]
	ws.hints++
	return ws.puzzle.Placements[ws.hinted], nil
}

// WordSearchView is the client-facing snapshot.
type WordSearchView struct {
	ID        string                 `json:"id"`
	Mode      Mode                   `json:"mode"`
	Level     string                 `json:"level"`
	State     State                  `json:"state"`
	Grid      []string               `json:"grid"`
	Words     []string               `json:"words"`
	Found     []wordsearch.Placement `json:"found"`
	Hint      []grid.Coord           `json:"hint,omitempty"`
	Selection []grid.Coord           `json:"selection,omitempty"`
	Score     int                    `json:"score"`
	HintsUsed int                    `json:"hintsUsed"`
	Elapsed   int                    `json:"elapsed"`
}

func (ws *WordSearch) Snapshot() any {
	v := WordSearchView{
		ID:        ws.id,
		Mode:      ws.mode,
		Level:     ws.level,
		State:     ws.State(),
		Grid:      ws.puzzle.Grid.Strings(),
		Words:     lo.Map(ws.puzzle.Placements, func(p wordsearch.Placement, _ int) string { return p.Word }),
		Found:     []wordsearch.Placement{},
		Selection: ws.tracker.Path(),
		Score:     ws.score,
		HintsUsed: ws.hints,
		Elapsed:   ws.elapsed,
	}
	for _, w := range ws.order {
		if p, ok := lo.Find(ws.puzzle.Placements, func(p wordsearch.Placement) bool { return p.Word == w }); ok {
			v.Found = append(v.Found, p)
		}
	}
	if ws.hinted >= 0 {
		v.Hint = ws.puzzle.Placements[ws.hinted].Cells
	}
	return v
}
