// internal/wordsearch/wordsearch.go
//
// Word-search puzzle generation.
// Responsibilities:
//   - Place words into an N×N grid along the eight compass directions.
//   - Allow overlaps only where the letters agree.
//   - Fill every remaining cell from a vowel-weighted filler pool.
//   - Match a straight-line selection against a placed word (forward or reversed).
//
// Placement is best-effort: a word that cannot be placed within the attempt
// budget is dropped and reported back to the caller.
package wordsearch

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
	// DefaultAttempts is the number of random (direction, start) trials per word.
	DefaultAttempts = 200
	// MinWords is the smallest eligible word list a puzzle can be built from.
	MinWords = 3
	// FillerPool doubles the common vowels so filler reads less like noise.
	FillerPool = "AABCDEEFGHIIJKLMNOOPQRSTUUVWXYZ"
)

var ErrInsufficientWords = errors.New("not enough eligible words for a word search")

// Placement records where one word sits on the grid.
type Placement struct {
	Word      string         `json:"word"`
	Start     grid.Coord     `json:"start"`
	Direction grid.Direction `json:"direction"`
	Cells     []grid.Coord   `json:"cells"`
}

// Puzzle is a filled grid plus the words hidden in it.
type Puzzle struct {
	Grid       *grid.Grid  `json:"grid"`
	Placements []Placement `json:"placements"`
	Dropped    []string    `json:"dropped,omitempty"`
}

// Placer generates puzzles. The zero Attempts value means DefaultAttempts.
type Placer struct {
	Attempts int
	Rand     *rand.Rand
}

// NewPlacer returns a placer with the default attempt budget.
func NewPlacer(rng *rand.Rand) *Placer {
	return &Placer{Attempts: DefaultAttempts, Rand: rng}
}

// Generate builds an n×n puzzle from candidates.
func (p *Placer) Generate(candidates []string, n int) (*Puzzle, error) {
	list := eligible(candidates, n)
	if len(list) < MinWords {
		return nil, ErrInsufficientWords
	}
	attempts := p.Attempts
	if attempts <= 0 {
		attempts = DefaultAttempts
	}

	g := grid.New(n, n, grid.Empty)
	pz := &Puzzle{Grid: g}
	for _, w := range list {
		pl, ok := p.place(g, w, attempts)
		if !ok {
			pz.Dropped = append(pz.Dropped, w)
			continue
		}
		pz.Placements = append(pz.Placements, pl)
	}
	p.fill(g)
	return pz, nil
}

// eligible upper-cases and filters the candidates, longest first.
func eligible(candidates []string, n int) []string {
	list := lo.FilterMap(candidates, func(w string, _ int) (string, bool) {
		w = strings.ToUpper(strings.TrimSpace(w))
		return w, words.IsAlpha(w) && len(w) <= n
	})
	sort.SliceStable(list, func(i, j int) bool { return len(list[i]) > len(list[j]) })
	return list
}

func (p *Placer) place(g *grid.Grid, w string, attempts int) (Placement, bool) {
	for i := 0; i < attempts; i++ {
		d := grid.Compass[p.Rand.Intn(len(grid.Compass))]
		start := grid.Coord{Row: p.Rand.Intn(g.Rows), Col: p.Rand.Intn(g.Cols)}
		cells := d.Cells(start, len(w))
		if !fits(g, w, cells) {
			continue
		}
		for k, c := range cells {
			g.Set(c, grid.Letter(w[k]))
		}
		return Placement{Word: w, Start: start, Direction: d, Cells: cells}, true
	}
	return Placement{}, false
}

// fits requires every cell in bounds and empty or already holding the same letter.
// A trial that would lie entirely on existing letters is refused.
func fits(g *grid.Grid, w string, cells []grid.Coord) bool {
	fresh := 0
	for k, c := range cells {
		if !g.InBounds(c) {
			return false
		}
		switch cell := g.At(c); cell.Kind {
		case grid.Empty:
			fresh++
		case grid.Filled:
			if cell.Letter != w[k] {
				return false
			}
		default:
			return false
		}
	}
	return fresh > 0
}

func (p *Placer) fill(g *grid.Grid) {
	g.Each(func(c grid.Coord, cell grid.Cell) {
		if cell.Kind == grid.Empty {
			g.Set(c, grid.Letter(FillerPool[p.Rand.Intn(len(FillerPool))]))
		}
	})
}

// Matches reports whether the letters read along a selection spell word
// forward or backward.
func Matches(selected, word string) bool {
	if len(selected) != len(word) || word == "" {
		return false
	}
	return strings.EqualFold(selected, word) || strings.EqualFold(selected, reverse(word))
}

// Find returns the index of the first placement whose word the letters along
// path spell, forward or reversed, skipping indices for which skip returns true.
// The selection direction need not agree with the placement direction.
func (pz *Puzzle) Find(path []grid.Coord, skip func(i int) bool) (int, bool) {
	if len(path) == 0 {
		return -1, false
	}
	selected := pz.Grid.Read(path)
	for i, pl := range pz.Placements {
		if skip != nil && skip(i) {
			continue
		}
		if Matches(selected, pl.Word) {
			return i, true
		}
	}
	return -1, false
}

func reverse(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}
