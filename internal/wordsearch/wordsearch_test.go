package wordsearch

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/robalobadob/wordplay/internal/grid"
)

var sample = []string{"kitchen", "garden", "window", "bread", "apple", "chair", "table"}

func TestGenerateInvariants(t *testing.T) {
	for seed := int64(1); seed <= 25; seed++ {
		p := NewPlacer(rand.New(rand.NewSource(seed)))
		pz, err := p.Generate(sample, 12)
		if err != nil {
			t.Fatalf("seed %d: Generate: %v", seed, err)
		}
		if got := len(pz.Placements) + len(pz.Dropped); got != len(sample) {
			t.Fatalf("seed %d: %d placed+dropped, want %d", seed, got, len(sample))
		}
		for _, pl := range pz.Placements {
			if len(pl.Cells) != len(pl.Word) {
				t.Errorf("seed %d: %s has %d cells", seed, pl.Word, len(pl.Cells))
			}
			for _, c := range pl.Cells {
				if !pz.Grid.InBounds(c) {
					t.Errorf("seed %d: %s cell %+v out of bounds", seed, pl.Word, c)
				}
			}
			if got := pz.Grid.Read(pl.Cells); got != pl.Word {
				t.Errorf("seed %d: grid reads %q along placement of %q", seed, got, pl.Word)
			}
		}
		if n := pz.Grid.Count(grid.Empty); n != 0 {
			t.Errorf("seed %d: %d cells left unfilled", seed, n)
		}
	}
}

func TestGenerateLongestFirst(t *testing.T) {
	pz, err := NewPlacer(rand.New(rand.NewSource(7))).Generate(sample, 12)
	if err != nil {
		t.Fatal(err)
	}
	if pz.Placements[0].Word != "KITCHEN" {
		t.Errorf("first placement %q, want KITCHEN", pz.Placements[0].Word)
	}
}

func TestFillerFromPool(t *testing.T) {
	pz, err := NewPlacer(rand.New(rand.NewSource(3))).Generate([]string{"cat", "dog", "owl"}, 12)
	if err != nil {
		t.Fatal(err)
	}
	pz.Grid.Each(func(c grid.Coord, cell grid.Cell) {
		if !strings.ContainsRune(FillerPool, rune(cell.Letter)) {
			t.Errorf("cell %+v holds %q outside the filler alphabet", c, cell.Letter)
		}
	})
}

func TestGenerateInsufficient(t *testing.T) {
	p := NewPlacer(rand.New(rand.NewSource(1)))
	_, err := p.Generate([]string{"cat", "ice-cream", "extraordinarily"}, 12)
	if !errors.Is(err, ErrInsufficientWords) {
		t.Errorf("err = %v, want ErrInsufficientWords", err)
	}
}

func TestPlacementExhaustedDropsWord(t *testing.T) {
	// A 3×3 grid holds at most three of five letter-disjoint words.
	p := &Placer{Attempts: 5, Rand: rand.New(rand.NewSource(11))}
	pz, err := p.Generate([]string{"abc", "def", "ghi", "jkl", "mno"}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(pz.Dropped) == 0 {
		t.Error("expected at least one dropped word on a crowded grid")
	}
	for _, pl := range pz.Placements {
		if got := pz.Grid.Read(pl.Cells); got != pl.Word {
			t.Errorf("grid reads %q along %q", got, pl.Word)
		}
	}
}

func TestMatches(t *testing.T) {
	cases := []struct {
		sel, word string
		want      bool
	}{
		{"CAT", "CAT", true},
		{"TAC", "CAT", true},
		{"cat", "CAT", true},
		{"CTA", "CAT", false},
		{"CA", "CAT", false},
		{"", "", false},
	}
	for _, tc := range cases {
		if got := Matches(tc.sel, tc.word); got != tc.want {
			t.Errorf("Matches(%q, %q) = %v, want %v", tc.sel, tc.word, got, tc.want)
		}
	}
}

func TestFindReverseSelection(t *testing.T) {
	pz, err := NewPlacer(rand.New(rand.NewSource(5))).Generate(sample, 12)
	if err != nil {
		t.Fatal(err)
	}
	pl := pz.Placements[1]
	rev := make([]grid.Coord, len(pl.Cells))
	for i, c := range pl.Cells {
		rev[len(rev)-1-i] = c
	}
	i, ok := pz.Find(rev, nil)
	if !ok || pz.Placements[i].Word != pl.Word {
		t.Fatalf("Find(reversed %s) = %d, %v", pl.Word, i, ok)
	}
	if _, ok := pz.Find(pl.Cells, func(j int) bool { return pz.Placements[j].Word == pl.Word }); ok {
		t.Error("Find should skip already-found placements")
	}
}
