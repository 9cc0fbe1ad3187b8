package anagram

import (
	"math/rand"
	"sort"
	"testing"
)

func TestScramblePreservesLetters(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, w := range []string{"letter", "banana", "journey", "ok"} {
		tiles := Scramble(w, rng)
		if len(tiles) != len(w) {
			t.Fatalf("%s: %d tiles", w, len(tiles))
		}
		ids := make([]int, len(tiles))
		for i, tl := range tiles {
			ids[i] = tl.ID
			if want := string(w[tl.ID] - 'a' + 'A'); tl.Letter != want {
				t.Errorf("%s: tile %d letter %q, want %q", w, tl.ID, tl.Letter, want)
			}
		}
		sort.Ints(ids)
		for i, id := range ids {
			if id != i {
				t.Fatalf("%s: tile ids %v are not a permutation", w, ids)
			}
		}
	}
}

func TestScrambleDiffers(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		tiles := Scramble("journey", rand.New(rand.NewSource(seed)))
		if Spell(tiles) == "JOURNEY" {
			t.Errorf("seed %d: scramble returned the unscrambled word", seed)
		}
	}
}

func TestScrambleSingleLetter(t *testing.T) {
	tiles := ScrambleN("a", rand.New(rand.NewSource(1)), 3)
	if len(tiles) != 1 || Spell(tiles) != "A" {
		t.Errorf("tiles = %+v", tiles)
	}
}
