// internal/game/crossword.go
//
// Crossword round.
// Letters are entered per cell; a word scores when all its cells are right:
//   len*15 + max(0, 300-elapsed)/2 - hints*15 (never below zero).
// Reveal-letter costs one hint, reveal-word one per letter. Check marks
// wrong cells. All words correct → complete, and puzzle stats are saved.

package game

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/zyedidia/generic/mapset"

	"github.com/robalobadob/wordplay/internal/crossword"
	"github.com/robalobadob/wordplay/internal/grid"
	"github.com/robalobadob/wordplay/internal/progress"
	"github.com/robalobadob/wordplay/internal/words"
)

const (
	CrosswordWords = 6
	CrosswordSize  = 9

	crosswordTimeBonus   = 300
	crosswordHintPenalty = 15
	noBestTime           = 999999
)

// Crossword is a round of filling a generated crossword from definitions.
type Crossword struct {
	base
	puzzle    *crossword.Puzzle
	words     wordIndex
	entries   [][]byte // user letters, 0 when empty
	wrong     mapset.Set[grid.Coord]
	completed []bool
	done      int
}

func NewCrossword(src words.Source, store progress.Store, cfg Config) (*Crossword, error) {
	list := draw(src, cfg, CrosswordWords)
	cw := &Crossword{
		base:  newBase(ModeCrossword, cfg, recorder{store: store}),
		words: indexWords(list),
		wrong: mapset.New[grid.Coord](),
	}
	cw.rec.round = cw.id

	pz, err := crossword.NewBuilder(cw.rng).Generate(texts(list), CrosswordSize)
	if err != nil {
		return nil, ErrInsufficientWords
	}
	for _, w := range pz.Dropped {
		log.Debug().Str("round", cw.id).Str("word", w).Msg("crossword: no crossing found, word dropped")
	}
	cw.puzzle = pz
	cw.completed = make([]bool, len(pz.Placements))
	cw.entries = make([][]byte, pz.Grid.Rows)
	for r := range cw.entries {
		cw.entries[r] = make([]byte, pz.Grid.Cols)
	}
	return cw, nil
}

// EntryResult reports the effect of one input on the grid.
type EntryResult struct {
	Correct   bool  `json:"correct"`
	Completed []int `json:"completed,omitempty"` // clue numbers finished by this input
	Score     int   `json:"score"`
	State     State `json:"state"`
}

func (cw *Crossword) solution(c grid.Coord) (byte, error) {
	cell := cw.puzzle.Grid.At(c)
	if !cell.IsFilled() {
		return 0, ErrInvalidCell
	}
	return cell.Letter, nil
}

// Enter types letter into c. Wrong letters are tracked until corrected.
func (cw *Crossword) Enter(ctx context.Context, c grid.Coord, letter string) (EntryResult, error) {
	if err := cw.begin(ctx); err != nil {
		return cw.result(false, nil), err
	}
	want, err := cw.solution(c)
	if err != nil {
		return cw.result(false, nil), err
	}
	letter = strings.ToUpper(strings.TrimSpace(letter))
	if len(letter) != 1 || !words.IsAlpha(letter) {
		return cw.result(false, nil), ErrInvalidSelection
	}

	cw.entries[c.Row][c.Col] = letter[0]
	correct := letter[0] == want
	if correct {
		cw.wrong.Remove(c)
	} else {
		cw.wrong.Put(c)
	}
	return cw.result(correct, cw.checkCompletion(ctx)), nil
}

// Erase clears the letter in c.
func (cw *Crossword) Erase(ctx context.Context, c grid.Coord) error {
	if err := cw.begin(ctx); err != nil {
		return err
	}
	if _, err := cw.solution(c); err != nil {
		return err
	}
	cw.entries[c.Row][c.Col] = 0
	cw.wrong.Remove(c)
	return nil
}

// RevealLetter fills c with its answer for one hint. A correct cell costs nothing.
func (cw *Crossword) RevealLetter(ctx context.Context, c grid.Coord) (EntryResult, error) {
	if err := cw.begin(ctx); err != nil {
		return cw.result(false, nil), err
	}
	want, err := cw.solution(c)
	if err != nil {
		return cw.result(false, nil), err
	}
	if cw.entries[c.Row][c.Col] == want {
		return cw.result(true, nil), nil
	}
	cw.entries[c.Row][c.Col] = want
	cw.wrong.Remove(c)
	cw.hints++
	return cw.result(true, cw.checkCompletion(ctx)), nil
}

// RevealWord fills the entry with the given clue number and direction,
// costing one hint per letter.
func (cw *Crossword) RevealWord(ctx context.Context, clue int, dir crossword.Direction) (EntryResult, error) {
	if err := cw.begin(ctx); err != nil {
		return cw.result(false, nil), err
	}
	idx := -1
	for i, p := range cw.puzzle.Placements {
		if p.ClueNumber == clue && p.Direction == dir {
			idx = i
			break
		}
	}
	if idx < 0 {
		return cw.result(false, nil), ErrInvalidSelection
	}
	p := cw.puzzle.Placements[idx]
	for i, c := range p.Cells {
		cw.entries[c.Row][c.Col] = p.Word[i]
		cw.wrong.Remove(c)
	}
	cw.hints += len(p.Word)
	return cw.result(true, cw.checkCompletion(ctx)), nil
}

// Check marks every filled-in wrong cell and returns them in reading order.
func (cw *Crossword) Check(ctx context.Context) ([]grid.Coord, error) {
	if err := cw.begin(ctx); err != nil {
		return nil, err
	}
	cw.wrong = mapset.New[grid.Coord]()
	out := []grid.Coord{}
	cw.puzzle.Grid.Each(func(c grid.Coord, cell grid.Cell) {
		if e := cw.entries[c.Row][c.Col]; cell.IsFilled() && e != 0 && e != cell.Letter {
			cw.wrong.Put(c)
			out = append(out, c)
		}
	})
	return out, nil
}

// checkCompletion scores every entry that just became fully correct and
// returns their clue numbers.
func (cw *Crossword) checkCompletion(ctx context.Context) []int {
	var newly []int
	for i, p := range cw.puzzle.Placements {
		if cw.completed[i] || !cw.solved(p) {
			continue
		}
		cw.completed[i] = true
		cw.done++
		newly = append(newly, p.ClueNumber)
		cw.addScore(len(p.Word)*15 + max(0, crosswordTimeBonus-cw.elapsed)/2 - cw.hints*crosswordHintPenalty)
		cw.rec.discover(ctx, cw.words[p.Word])
	}
	if len(newly) > 0 && cw.done == len(cw.puzzle.Placements) {
		cw.finish(ctx, evComplete)
		score, elapsed := cw.score, cw.elapsed
		cw.rec.flush(ctx, progress.GameWordPuzzle, func(prev progress.Stats) progress.Stats {
			best := prev["bestTime"]
			if best == 0 {
				best = noBestTime
			}
			return progress.Stats{
				"solved":      prev["solved"] + 1,
				"totalScore":  prev["totalScore"] + score,
				"bestTime":    min(best, elapsed),
				"gamesPlayed": prev["gamesPlayed"] + 1,
			}
		})
	}
	return newly
}

func (cw *Crossword) solved(p crossword.Placement) bool {
	for i, c := range p.Cells {
		if cw.entries[c.Row][c.Col] != p.Word[i] {
			return false
		}
	}
	return true
}

func (cw *Crossword) result(correct bool, completed []int) EntryResult {
	return EntryResult{Correct: correct, Completed: completed, Score: cw.score, State: cw.State()}
}

// CrosswordCell is one square of the player's view.
type CrosswordCell struct {
	Blocked bool   `json:"blocked,omitempty"`
	Clue    int    `json:"clue,omitempty"`
	Entry   string `json:"entry,omitempty"`
	Wrong   bool   `json:"wrong,omitempty"`
}

// CrosswordClue is one numbered definition.
type CrosswordClue struct {
	Number    int                 `json:"number"`
	Direction crossword.Direction `json:"direction"`
	Length    int                 `json:"length"`
	Clue      string              `json:"clue"`
	Hint      string              `json:"hint,omitempty"`
	Cells     []grid.Coord        `json:"cells"`
	Completed bool                `json:"completed"`
}

// CrosswordView is the client-facing snapshot.
type CrosswordView struct {
	ID        string            `json:"id"`
	Mode      Mode              `json:"mode"`
	Level     string            `json:"level"`
	State     State             `json:"state"`
	Cells     [][]CrosswordCell `json:"cells"`
	Across    []CrosswordClue   `json:"across"`
	Down      []CrosswordClue   `json:"down"`
	Score     int               `json:"score"`
	HintsUsed int               `json:"hintsUsed"`
	Elapsed   int               `json:"elapsed"`
}

func (cw *Crossword) Snapshot() any {
	g := cw.puzzle.Grid
	v := CrosswordView{
		ID:        cw.id,
		Mode:      cw.mode,
		Level:     cw.level,
		State:     cw.State(),
		Cells:     make([][]CrosswordCell, g.Rows),
		Across:    []CrosswordClue{},
		Down:      []CrosswordClue{},
		Score:     cw.score,
		HintsUsed: cw.hints,
		Elapsed:   cw.elapsed,
	}
	for r := range v.Cells {
		v.Cells[r] = make([]CrosswordCell, g.Cols)
	}
	g.Each(func(c grid.Coord, cell grid.Cell) {
		out := &v.Cells[c.Row][c.Col]
		if !cell.IsFilled() {
			out.Blocked = true
			return
		}
		out.Clue = cell.Clue
		if e := cw.entries[c.Row][c.Col]; e != 0 {
			out.Entry = string(e)
		}
		out.Wrong = cw.wrong.Has(c)
	})
	for i, p := range cw.puzzle.Placements {
		w := cw.words[p.Word]
		clue := CrosswordClue{
			Number:    p.ClueNumber,
			Direction: p.Direction,
			Length:    len(p.Word),
			Clue:      w.Definition,
			Hint:      w.Hint,
			Cells:     p.Cells,
			Completed: cw.completed[i],
		}
		if p.Direction == crossword.Across {
			v.Across = append(v.Across, clue)
		} else {
			v.Down = append(v.Down, clue)
		}
	}
	sort.SliceStable(v.Across, func(i, j int) bool { return v.Across[i].Number < v.Across[j].Number })
	sort.SliceStable(v.Down, func(i, j int) bool { return v.Down[i].Number < v.Down[j].Number })
	return v
}
