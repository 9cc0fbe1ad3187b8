package game

import (
	"context"
	"errors"
	"testing"

	"github.com/robalobadob/wordplay/internal/grid"
	"github.com/robalobadob/wordplay/internal/progress"
)

var kitchenWords = []string{"kitchen", "garden", "window", "bread", "chair", "table"}

func newWordSearch(t *testing.T, st progress.Store, seed int64) *WordSearch {
	t.Helper()
	ws, err := NewWordSearch(nil, st, Config{Level: "A2", Seed: seed, Words: vocab("A2", kitchenWords...)})
	if err != nil {
		t.Fatal(err)
	}
	return ws
}

func TestWordSearchFindAll(t *testing.T) {
	ctx := context.Background()
	st := memStore()
	ws := newWordSearch(t, st, 7)
	pls := ws.puzzle.Placements

	first := pls[0]
	res, err := ws.Select(ctx, first.Cells[0], first.Cells[len(first.Cells)-1])
	if err != nil {
		t.Fatal(err)
	}
	if !res.Found || res.Word != first.Word {
		t.Fatalf("Select = %+v, want %s found", res, first.Word)
	}
	want := len(first.Word)*10 + 300
	if res.Score != want {
		t.Errorf("Score %d, want %d", res.Score, want)
	}

	// Same path again is not a new find.
	res, err = ws.Select(ctx, first.Cells[0], first.Cells[len(first.Cells)-1])
	if err != nil || res.Found {
		t.Errorf("reselect = %+v, %v; want not found", res, err)
	}

	for i := 0; i < 10; i++ {
		ws.Tick()
	}
	if _, err := ws.Hint(ctx); err != nil {
		t.Fatal(err)
	}

	// Second word is selected end to start.
	second := pls[1]
	res, err = ws.Select(ctx, second.Cells[len(second.Cells)-1], second.Cells[0])
	if err != nil {
		t.Fatal(err)
	}
	if !res.Found || res.Word != second.Word {
		t.Fatalf("reverse Select = %+v, want %s found", res, second.Word)
	}
	want += len(second.Word)*10 + 290 - 20
	if res.Score != want {
		t.Errorf("Score %d, want %d", res.Score, want)
	}

	for _, pl := range pls[2:] {
		if res, err = ws.Select(ctx, pl.Cells[0], pl.Cells[len(pl.Cells)-1]); err != nil || !res.Found {
			t.Fatalf("Select %s = %+v, %v", pl.Word, res, err)
		}
	}
	if ws.State() != Won {
		t.Fatalf("State %q, want won", ws.State())
	}
	if got := len(discovered(t, st, "A2")); got != len(pls) {
		t.Errorf("discovered %d words, want %d", got, len(pls))
	}
	wantStats(t, st, progress.GameWordSearch, progress.Stats{
		"gamesWon": 1, "totalTime": 10, "gamesPlayed": 1, "bestScore": ws.Score(),
	})

	if _, err := ws.Select(ctx, first.Cells[0], first.Cells[1]); !errors.Is(err, ErrRoundOver) {
		t.Errorf("select after win err = %v, want ErrRoundOver", err)
	}
}

func TestWordSearchRejectsOffLineSelection(t *testing.T) {
	ws := newWordSearch(t, memStore(), 3)
	_, err := ws.Select(context.Background(), grid.Coord{Row: 0, Col: 0}, grid.Coord{Row: 2, Col: 5})
	if !errors.Is(err, ErrInvalidSelection) {
		t.Fatalf("err = %v, want ErrInvalidSelection", err)
	}
	if ws.Score() != 0 {
		t.Errorf("Score %d after rejected selection", ws.Score())
	}
	if len(ws.tracker.Path()) != 0 {
		t.Error("rejected selection left a path behind")
	}
}

func TestWordSearchDragKeepsPathOnBadMove(t *testing.T) {
	ctx := context.Background()
	ws := newWordSearch(t, memStore(), 3)
	if err := ws.Press(ctx, grid.Coord{Row: 1, Col: 1}); err != nil {
		t.Fatal(err)
	}
	path, ok := ws.Drag(grid.Coord{Row: 1, Col: 4})
	if !ok || len(path) != 4 {
		t.Fatalf("Drag = %v, %v", path, ok)
	}
	path, ok = ws.Drag(grid.Coord{Row: 3, Col: 4})
	if ok || len(path) != 4 {
		t.Errorf("off-line Drag = %v, %v; want previous path kept", path, ok)
	}
}

func TestWordSearchScoreNeverNegative(t *testing.T) {
	ctx := context.Background()
	ws := newWordSearch(t, memStore(), 11)
	for i := 0; i < 30; i++ {
		if _, err := ws.Hint(ctx); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < 400; i++ {
		ws.Tick()
	}
	pl := ws.puzzle.Placements[0]
	res, err := ws.Select(ctx, pl.Cells[0], pl.Cells[len(pl.Cells)-1])
	if err != nil || !res.Found {
		t.Fatalf("Select = %+v, %v", res, err)
	}
	if res.Score != 0 {
		t.Errorf("Score %d, want 0", res.Score)
	}
}

func TestWordSearchNeedsWords(t *testing.T) {
	_, err := NewWordSearch(nil, memStore(), Config{Level: "A2", Words: vocab("A2", "bread", "chair")})
	if !errors.Is(err, ErrInsufficientWords) {
		t.Errorf("err = %v, want ErrInsufficientWords", err)
	}
}
