// internal/grid/grid.go
//
// Shared 2-D grid primitives for the word-search and crossword generators.
//
// A cell is an explicit tagged variant:
//   - Blocked: not part of the puzzle (crossword only).
//   - Empty:   no letter yet (word-search before filling).
//   - Filled:  one upper-case letter and an optional clue number.

package grid

import (
	"encoding/json"
	"fmt"
)

// Kind tags the variant held by a Cell.
type Kind uint8

const (
	Blocked Kind = iota
	Empty
	Filled
)

func (k Kind) String() string {
	switch k {
	case Blocked:
		return "blocked"
	case Empty:
		return "empty"
	case Filled:
		return "filled"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// MarshalText renders the kind by name.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText parses a kind name.
func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "blocked":
		*k = Blocked
	case "empty":
		*k = Empty
	case "filled":
		*k = Filled
	default:
		return fmt.Errorf("grid: unknown cell kind %q", b)
	}
	return nil
}

// Cell is a single grid square. Letter and Clue are meaningful only when Kind == Filled.
type Cell struct {
	Kind   Kind
	Letter byte
	Clue   int
}

// Letter builds a filled cell.
func Letter(b byte) Cell { return Cell{Kind: Filled, Letter: b} }

// IsFilled reports whether the cell holds a letter.
func (c Cell) IsFilled() bool { return c.Kind == Filled }

type cellJSON struct {
	Kind   Kind   `json:"kind"`
	Letter string `json:"letter,omitempty"`
	Clue   int    `json:"clue,omitempty"`
}

func (c Cell) MarshalJSON() ([]byte, error) {
	out := cellJSON{Kind: c.Kind}
	if c.Kind == Filled {
		out.Letter = string(c.Letter)
		out.Clue = c.Clue
	}
	return json.Marshal(out)
}

func (c *Cell) UnmarshalJSON(b []byte) error {
	var in cellJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*c = Cell{Kind: in.Kind}
	if in.Kind == Filled {
		if len(in.Letter) != 1 {
			return fmt.Errorf("grid: filled cell needs one letter, got %q", in.Letter)
		}
		c.Letter = in.Letter[0]
		c.Clue = in.Clue
	}
	return nil
}

// Coord addresses a cell.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Add returns c moved n steps along d.
func (c Coord) Add(d Direction, n int) Coord {
	return Coord{Row: c.Row + d.DRow*n, Col: c.Col + d.DCol*n}
}

// Grid is a rectangular matrix of cells.
type Grid struct {
	Rows  int      `json:"rows"`
	Cols  int      `json:"cols"`
	Cells [][]Cell `json:"cells"`
}

// New returns a rows×cols grid with every cell set to fill.
func New(rows, cols int, fill Kind) *Grid {
	cells := make([][]Cell, rows)
	for r := range cells {
		cells[r] = make([]Cell, cols)
		for c := range cells[r] {
			cells[r][c].Kind = fill
		}
	}
	return &Grid{Rows: rows, Cols: cols, Cells: cells}
}

// InBounds reports whether p lies on the grid.
func (g *Grid) InBounds(p Coord) bool {
	return p.Row >= 0 && p.Row < g.Rows && p.Col >= 0 && p.Col < g.Cols
}

// At returns the cell at p. Out-of-bounds coordinates read as Blocked.
func (g *Grid) At(p Coord) Cell {
	if !g.InBounds(p) {
		return Cell{Kind: Blocked}
	}
	return g.Cells[p.Row][p.Col]
}

// Occupied reports whether p is in bounds and holds a letter.
func (g *Grid) Occupied(p Coord) bool { return g.At(p).IsFilled() }

// Set writes a cell; out-of-bounds writes are ignored.
func (g *Grid) Set(p Coord, c Cell) {
	if g.InBounds(p) {
		g.Cells[p.Row][p.Col] = c
	}
}

// Read concatenates the letters along path. Non-filled cells read as '?'.
func (g *Grid) Read(path []Coord) string {
	b := make([]byte, len(path))
	for i, p := range path {
		c := g.At(p)
		if c.IsFilled() {
			b[i] = c.Letter
		} else {
			b[i] = '?'
		}
	}
	return string(b)
}

// Each visits every cell in reading order.
func (g *Grid) Each(fn func(p Coord, c Cell)) {
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			fn(Coord{Row: r, Col: c}, g.Cells[r][c])
		}
	}
}

// Count returns how many cells are of kind k.
func (g *Grid) Count(k Kind) int {
	n := 0
	g.Each(func(_ Coord, c Cell) {
		if c.Kind == k {
			n++
		}
	})
	return n
}

// Strings renders each row as text; '.' for empty and '#' for blocked cells.
func (g *Grid) Strings() []string {
	out := make([]string, g.Rows)
	for r := 0; r < g.Rows; r++ {
		row := make([]byte, g.Cols)
		for c := 0; c < g.Cols; c++ {
			switch cell := g.Cells[r][c]; cell.Kind {
			case Filled:
				row[c] = cell.Letter
			case Empty:
				row[c] = '.'
			default:
				row[c] = '#'
			}
		}
		out[r] = string(row)
	}
	return out
}
