// internal/grid/path.go
//
// Straight-line selections: the eight directions, BuildPath between two
// cells, and a Tracker for press/drag/release input.

package grid

// Direction is a unit step vector. Reverse senses are negated steps.
type Direction struct {
	DRow int    `json:"dRow"`
	DCol int    `json:"dCol"`
	Name string `json:"name"`
}

var (
	East      = Direction{0, 1, "east"}
	South     = Direction{1, 0, "south"}
	SouthEast = Direction{1, 1, "south-east"}
	NorthEast = Direction{-1, 1, "north-east"}
	West      = Direction{0, -1, "west"}
	North     = Direction{-1, 0, "north"}
	NorthWest = Direction{-1, -1, "north-west"}
	SouthWest = Direction{1, -1, "south-west"}
)

// Compass lists the eight placement directions: four axes, each forward and reversed.
var Compass = []Direction{East, South, SouthEast, NorthEast, West, North, NorthWest, SouthWest}

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	for _, c := range Compass {
		if c.DRow == -d.DRow && c.DCol == -d.DCol {
			return c
		}
	}
	return Direction{DRow: -d.DRow, DCol: -d.DCol}
}

// Cells returns the n cells starting at start along d.
func (d Direction) Cells(start Coord, n int) []Coord {
	out := make([]Coord, n)
	for i := range out {
		out[i] = start.Add(d, i)
	}
	return out
}

// BuildPath returns the straight line of cells from start to end inclusive.
// ok is false when end is not reachable along one of the eight compass directions.
func BuildPath(start, end Coord) (path []Coord, ok bool) {
	dr, dc := end.Row-start.Row, end.Col-start.Col
	if dr != 0 && dc != 0 && abs(dr) != abs(dc) {
		return nil, false
	}
	steps := max(abs(dr), abs(dc))
	d := Direction{DRow: sign(dr), DCol: sign(dc)}
	return d.Cells(start, steps+1), true
}

// Tracker follows a drag gesture and keeps the last valid selection path.
type Tracker struct {
	rows, cols int
	path       []Coord
}

// NewTracker bounds selections to a rows×cols grid. Zero bounds disable the check.
func NewTracker(rows, cols int) *Tracker { return &Tracker{rows: rows, cols: cols} }

// Begin starts a selection at p.
func (t *Tracker) Begin(p Coord) bool {
	if !t.inBounds(p) {
		t.path = nil
		return false
	}
	t.path = []Coord{p}
	return true
}

// Move rebuilds the path from the first cell to p.
// An invalid vector leaves the previous path untouched and returns false.
func (t *Tracker) Move(p Coord) bool {
	if len(t.path) == 0 || !t.inBounds(p) {
		return false
	}
	next, ok := BuildPath(t.path[0], p)
	if !ok {
		return false
	}
	t.path = next
	return true
}

// Path returns a copy of the current selection.
func (t *Tracker) Path() []Coord { return append([]Coord(nil), t.path...) }

// End finishes the gesture, returning the selection and clearing it.
func (t *Tracker) End() []Coord {
	p := t.path
	t.path = nil
	return p
}

func (t *Tracker) inBounds(p Coord) bool {
	if t.rows == 0 && t.cols == 0 {
		return true
	}
	return p.Row >= 0 && p.Row < t.rows && p.Col >= 0 && p.Col < t.cols
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
