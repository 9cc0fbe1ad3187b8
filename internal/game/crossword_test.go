package game

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/robalobadob/wordplay/internal/crossword"
	"github.com/robalobadob/wordplay/internal/grid"
	"github.com/robalobadob/wordplay/internal/progress"
)

var schoolWords = []string{"teacher", "water", "rabbit", "train", "eat", "tree"}

func newCrossword(t *testing.T, st progress.Store, seed int64) *Crossword {
	t.Helper()
	cw, err := NewCrossword(nil, st, Config{Level: "A1", Seed: seed, Words: vocab("A1", schoolWords...)})
	if err != nil {
		t.Fatal(err)
	}
	return cw
}

func fill(t *testing.T, cw *Crossword, p crossword.Placement) EntryResult {
	t.Helper()
	var res EntryResult
	for i, c := range p.Cells {
		if cw.entries[c.Row][c.Col] == p.Word[i] {
			continue // shared with an entry already filled
		}
		r, err := cw.Enter(context.Background(), c, string(p.Word[i]))
		if err != nil {
			t.Fatalf("Enter %v: %v", c, err)
		}
		if !r.Correct {
			t.Fatalf("Enter %c at %v marked wrong", p.Word[i], c)
		}
		if len(r.Completed) > 0 {
			res = r
		}
	}
	return res
}

func TestCrosswordSolve(t *testing.T) {
	st := memStore()
	cw := newCrossword(t, st, 5)
	pls := cw.puzzle.Placements
	if len(pls) < 2 {
		t.Fatalf("only %d placements", len(pls))
	}

	res := fill(t, cw, pls[0])
	if diff := cmp.Diff([]int{pls[0].ClueNumber}, res.Completed); diff != "" {
		t.Errorf("Completed mismatch:\n%s", diff)
	}
	if want := len(pls[0].Word)*15 + 150; res.Score != want {
		t.Errorf("Score %d, want %d", res.Score, want)
	}

	for i := 0; i < 4; i++ {
		cw.Tick()
	}
	for _, p := range pls[1:] {
		fill(t, cw, p)
	}
	if cw.State() != Complete {
		t.Fatalf("State %q, want complete", cw.State())
	}
	wantStats(t, st, progress.GameWordPuzzle, progress.Stats{
		"solved": 1, "totalScore": cw.Score(), "bestTime": 4, "gamesPlayed": 1,
	})
	if got := len(discovered(t, st, "A1")); got != len(pls) {
		t.Errorf("discovered %d, want %d", got, len(pls))
	}
}

func TestCrosswordBestTimeKeepsFastest(t *testing.T) {
	st := memStore()
	if err := st.UpdateGameStats(context.Background(), progress.GameWordPuzzle, progress.Stats{"bestTime": 2}); err != nil {
		t.Fatal(err)
	}
	cw := newCrossword(t, st, 9)
	cw.begin(context.Background())
	for i := 0; i < 30; i++ {
		cw.Tick()
	}
	for _, p := range cw.puzzle.Placements {
		if _, err := cw.RevealWord(context.Background(), p.ClueNumber, p.Direction); err != nil {
			t.Fatal(err)
		}
	}
	wantStats(t, st, progress.GameWordPuzzle, progress.Stats{"bestTime": 2, "solved": 1})
	if _, err := cw.Check(context.Background()); !errors.Is(err, ErrRoundOver) {
		t.Errorf("Check on a finished round err = %v, want ErrRoundOver", err)
	}
}

func TestCrosswordCheckStartsRound(t *testing.T) {
	cw := newCrossword(t, memStore(), 5)
	got, err := cw.Check(context.Background())
	if err != nil || len(got) != 0 {
		t.Fatalf("Check = %v, %v", got, err)
	}
	if cw.State() != InProgress {
		t.Errorf("State %q after Check, want in_progress", cw.State())
	}
}

func TestCrosswordWrongLetters(t *testing.T) {
	ctx := context.Background()
	cw := newCrossword(t, memStore(), 5)
	p := cw.puzzle.Placements[0]
	c := p.Cells[0]
	bad := "Q"
	if p.Word[0] == 'Q' {
		bad = "Z"
	}

	res, err := cw.Enter(ctx, c, bad)
	if err != nil {
		t.Fatal(err)
	}
	if res.Correct {
		t.Error("wrong letter reported correct")
	}
	wrong, err := cw.Check(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]grid.Coord{c}, wrong); diff != "" {
		t.Errorf("Check mismatch:\n%s", diff)
	}
	if _, err := cw.Enter(ctx, c, string(p.Word[0])); err != nil {
		t.Fatal(err)
	}
	if got, _ := cw.Check(ctx); len(got) != 0 {
		t.Errorf("Check = %v after correction", got)
	}
}

func TestCrosswordRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	cw := newCrossword(t, memStore(), 5)
	var blocked grid.Coord
	found := false
	cw.puzzle.Grid.Each(func(c grid.Coord, cell grid.Cell) {
		if !found && !cell.IsFilled() {
			blocked, found = c, true
		}
	})
	if !found {
		t.Fatal("grid has no unused cell")
	}
	if _, err := cw.Enter(ctx, blocked, "A"); !errors.Is(err, ErrInvalidCell) {
		t.Errorf("Enter on unused cell err = %v, want ErrInvalidCell", err)
	}
	if _, err := cw.Enter(ctx, grid.Coord{Row: -1, Col: 0}, "A"); !errors.Is(err, ErrInvalidCell) {
		t.Errorf("Enter out of bounds err = %v, want ErrInvalidCell", err)
	}
	if _, err := cw.Enter(ctx, cw.puzzle.Placements[0].Cells[0], "7"); !errors.Is(err, ErrInvalidSelection) {
		t.Errorf("Enter digit err = %v, want ErrInvalidSelection", err)
	}
	if _, err := cw.RevealWord(ctx, 99, crossword.Across); !errors.Is(err, ErrInvalidSelection) {
		t.Errorf("RevealWord unknown clue err = %v, want ErrInvalidSelection", err)
	}
}

func TestCrosswordRevealCostsHints(t *testing.T) {
	ctx := context.Background()
	cw := newCrossword(t, memStore(), 5)
	p := cw.puzzle.Placements[0]
	if _, err := cw.RevealLetter(ctx, p.Cells[0]); err != nil {
		t.Fatal(err)
	}
	if _, err := cw.RevealLetter(ctx, p.Cells[0]); err != nil {
		t.Fatal(err)
	}
	if cw.hints != 1 {
		t.Errorf("hints %d after revealing the same cell twice, want 1", cw.hints)
	}
	if _, err := cw.RevealWord(ctx, p.ClueNumber, p.Direction); err != nil {
		t.Fatal(err)
	}
	if want := 1 + len(p.Word); cw.hints != want {
		t.Errorf("hints %d, want %d", cw.hints, want)
	}
}
