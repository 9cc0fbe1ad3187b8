// internal/crossword/crossword.go
//
// Intersection-based crossword construction.
// Responsibilities:
//   - Seed the grid with the longest word, across and centred.
//   - Hang every further word off a shared letter of an earlier entry,
//     perpendicular to it.
//   - Keep new letters isolated from unrelated entries so no accidental
//     words appear.
//   - Number clues sequentially in placement order.
//
// This is a bounded random search, not an optimiser: words that find no
// valid crossing within the attempt budget are dropped.
package crossword

import (
	"errors"
	"math/rand"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/robalobadob/wordplay/internal/grid"
	"github.com/robalobadob/wordplay/internal/words"
)

const (
	// DefaultAttempts bounds the crossing attempts per word.
	DefaultAttempts = 150
	MinWords        = 3
	minWordLength   = 2
)

var ErrInsufficientWords = errors.New("not enough eligible words for a crossword")

// Direction is across or down.
type Direction string

const (
	Across Direction = "across"
	Down   Direction = "down"
)

func (d Direction) step() grid.Direction {
	if d == Across {
		return grid.East
	}
	return grid.South
}

// Perpendicular returns the other direction.
func (d Direction) Perpendicular() Direction {
	if d == Across {
		return Down
	}
	return Across
}

func (d Direction) bit() uint8 {
	if d == Across {
		return 1
	}
	return 2
}

// Placement is one entry in the finished crossword.
type Placement struct {
	Word       string       `json:"word"`
	Start      grid.Coord   `json:"start"`
	Direction  Direction    `json:"direction"`
	ClueNumber int          `json:"clueNumber"`
	Cells      []grid.Coord `json:"cells"`
}

// Puzzle holds the solution grid. Cells outside any entry are Blocked.
type Puzzle struct {
	Grid       *grid.Grid  `json:"grid"`
	Placements []Placement `json:"placements"`
	Dropped    []string    `json:"dropped,omitempty"`
}

// Builder generates puzzles. The zero Attempts value means DefaultAttempts.
type Builder struct {
	Attempts int
	Rand     *rand.Rand
}

func NewBuilder(rng *rand.Rand) *Builder {
	return &Builder{Attempts: DefaultAttempts, Rand: rng}
}

// build carries the in-progress state of one Generate call.
type build struct {
	g    *grid.Grid
	used map[grid.Coord]uint8 // directions already running through a cell
	pz   *Puzzle
	next int
}

// Generate lays out an n×n crossword from candidates.
func (b *Builder) Generate(candidates []string, n int) (*Puzzle, error) {
	list := lo.FilterMap(candidates, func(w string, _ int) (string, bool) {
		w = strings.ToUpper(strings.TrimSpace(w))
		return w, words.IsAlpha(w) && len(w) >= minWordLength && len(w) <= n
	})
	if len(list) < MinWords {
		return nil, ErrInsufficientWords
	}
	sort.SliceStable(list, func(i, j int) bool { return len(list[i]) > len(list[j]) })

	attempts := b.Attempts
	if attempts <= 0 {
		attempts = DefaultAttempts
	}

	st := &build{
		g:    grid.New(n, n, grid.Blocked),
		used: make(map[grid.Coord]uint8),
		pz:   &Puzzle{},
		next: 1,
	}
	st.pz.Grid = st.g

	seed := list[0]
	st.commit(seed, grid.Coord{Row: n / 2, Col: (n - len(seed)) / 2}, Across)

	for _, w := range list[1:] {
		if !b.hang(st, w, attempts) {
			st.pz.Dropped = append(st.pz.Dropped, w)
		}
	}
	return st.pz, nil
}

type candidate struct {
	start grid.Coord
	dir   Direction
}

// hang tries to cross w over a randomly chosen earlier entry, attempts times.
func (b *Builder) hang(st *build, w string, attempts int) bool {
	for a := 0; a < attempts; a++ {
		ex := st.pz.Placements[b.Rand.Intn(len(st.pz.Placements))]
		dir := ex.Direction.Perpendicular()

		var cands []candidate
		for i := 0; i < len(w); i++ {
			for j := 0; j < len(ex.Word); j++ {
				if w[i] != ex.Word[j] {
					continue
				}
				cross := ex.Start.Add(ex.Direction.step(), j)
				cands = append(cands, candidate{start: cross.Add(dir.step(), -i), dir: dir})
			}
		}
		b.Rand.Shuffle(len(cands), func(i, j int) { cands[i], cands[j] = cands[j], cands[i] })

		for _, c := range cands {
			if st.canPlace(w, c.start, c.dir) {
				st.commit(w, c.start, c.dir)
				return true
			}
		}
	}
	return false
}

// canPlace checks bounds, letter agreement on crossings, that no crossing cell
// already carries an entry in dir, and that new letters touch nothing sideways
// or at either end.
func (st *build) canPlace(w string, start grid.Coord, dir Direction) bool {
	step := dir.step()
	side := dir.Perpendicular().step()
	fresh := 0
	for i := 0; i < len(w); i++ {
		c := start.Add(step, i)
		if !st.g.InBounds(c) {
			return false
		}
		cell := st.g.At(c)
		if cell.IsFilled() {
			if cell.Letter != w[i] || st.used[c]&dir.bit() != 0 {
				return false
			}
			continue
		}
		if st.g.Occupied(c.Add(side, 1)) || st.g.Occupied(c.Add(side, -1)) {
			return false
		}
		fresh++
	}
	if st.g.Occupied(start.Add(step, -1)) || st.g.Occupied(start.Add(step, len(w))) {
		return false
	}
	return fresh > 0
}

func (st *build) commit(w string, start grid.Coord, dir Direction) {
	clue := st.g.At(start).Clue
	if clue == 0 {
		clue = st.next
		st.next++
	}
	cells := dir.step().Cells(start, len(w))
	for i, c := range cells {
		cell := st.g.At(c)
		if !cell.IsFilled() {
			cell = grid.Letter(w[i])
		}
		if i == 0 {
			cell.Clue = clue
		}
		st.g.Set(c, cell)
		st.used[c] |= dir.bit()
	}
	st.pz.Placements = append(st.pz.Placements, Placement{
		Word:       w,
		Start:      start,
		Direction:  dir,
		ClueNumber: clue,
		Cells:      cells,
	})
}

// WordAt returns the index of the entry running through c in dir.
func (pz *Puzzle) WordAt(c grid.Coord, dir Direction) (int, bool) {
	for i, p := range pz.Placements {
		if p.Direction == dir && lo.Contains(p.Cells, c) {
			return i, true
		}
	}
	return -1, false
}

// Clues returns the entries in one direction ordered by clue number.
func (pz *Puzzle) Clues(dir Direction) []Placement {
	out := lo.Filter(pz.Placements, func(p Placement, _ int) bool { return p.Direction == dir })
	sort.SliceStable(out, func(i, j int) bool { return out[i].ClueNumber < out[j].ClueNumber })
	return out
}
