package spellingbee

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
)

func TestScore(t *testing.T) {
	letters := "TACKLER"
	cases := []struct {
		word string
		want int
	}{
		{"cat", 3},
		{"tack", 1},
		{"clear", 5},
		{"tackler", 7 + PangramBonus},
		{"TACKLERS", 8 + PangramBonus},
	}
	for _, tc := range cases {
		if got := Score(tc.word, letters); got != tc.want {
			t.Errorf("Score(%q) = %d, want %d", tc.word, got, tc.want)
		}
	}
}

func TestGenerateWithPangramSeed(t *testing.T) {
	pool := []string{"kitchen", "chin", "thick", "kite", "tick", "nick", "ice-cream", "cat"}
	for seed := int64(1); seed <= 20; seed++ {
		h, err := Generate(pool, rand.New(rand.NewSource(seed)))
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if len(h.Letters) != HoneycombSize {
			t.Fatalf("seed %d: letters %q", seed, h.Letters)
		}
		if !strings.ContainsAny(h.Letters, "KITCHEN") {
			t.Errorf("seed %d: letters %q not drawn from the seed", seed, h.Letters)
		}
		total := 0
		for _, w := range h.ValidWords {
			if !strings.ContainsRune(w, rune(h.Center())) {
				t.Errorf("seed %d: %s lacks center %c", seed, w, h.Center())
			}
			for _, r := range w {
				if !strings.ContainsRune(h.Letters, r) {
					t.Errorf("seed %d: %s uses %c outside %s", seed, w, r, h.Letters)
				}
			}
			total += Score(w, h.Letters)
		}
		if total != h.MaxScore {
			t.Errorf("seed %d: MaxScore %d, sum %d", seed, h.MaxScore, total)
		}
		// KITCHEN is the only seed candidate, so it is always valid.
		if len(h.ValidWords) == 0 || h.ValidWords[0] != "KITCHEN" {
			t.Errorf("seed %d: ValidWords %v should start with KITCHEN", seed, h.ValidWords)
		}
	}
}

func TestGeneratePadsShortSeed(t *testing.T) {
	pool := []string{"book", "look", "cook", "hook", "nook"}
	h, err := Generate(pool, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	// BOOK is the first word with the most distinct letters (3): B, O, K.
	if h.Letters != "BOKRSTL" {
		t.Errorf("Letters = %q, want BOKRSTL", h.Letters)
	}
	if len(h.ValidWords) != 1 || h.ValidWords[0] != "BOOK" {
		t.Errorf("ValidWords = %v, want [BOOK]", h.ValidWords)
	}
}

func TestGenerateDedupesCaseInsensitively(t *testing.T) {
	pool := []string{"kitchen", "Kitchen", "KITCHEN", "chin", "thick"}
	h, err := Generate(pool, rand.New(rand.NewSource(4)))
	if err != nil {
		t.Fatal(err)
	}
	n := 0
	for _, w := range h.ValidWords {
		if w == "KITCHEN" {
			n++
		}
	}
	if n != 1 {
		t.Errorf("KITCHEN appears %d times in %v", n, h.ValidWords)
	}
}

func TestGenerateInsufficient(t *testing.T) {
	_, err := Generate([]string{"cat", "dog", "book", "look", "two words"}, rand.New(rand.NewSource(1)))
	if !errors.Is(err, ErrInsufficientWords) {
		t.Errorf("err = %v, want ErrInsufficientWords", err)
	}
}

func TestCheck(t *testing.T) {
	h := &Honeycomb{Letters: "TACKLER", ValidWords: []string{"TACK", "TACKLE", "TACKLER"}}
	found := map[string]bool{"TACK": true}
	has := func(w string) bool { return found[w] }

	cases := []struct {
		in   string
		want error
	}{
		{"cat", ErrTooShort},
		{"clear", ErrMissingCenter},
		{"tack", ErrAlreadyFound},
		{"latte", ErrNotInList},
		{"Tackle", nil},
	}
	for _, tc := range cases {
		_, err := h.Check(tc.in, has)
		if !errors.Is(err, tc.want) {
			t.Errorf("Check(%q) err = %v, want %v", tc.in, err, tc.want)
		}
	}
}

func TestRank(t *testing.T) {
	cases := []struct {
		score, max int
		want       string
	}{
		{0, 0, "Beginner"},
		{0, 100, "Beginner"},
		{5, 100, "Good Start"},
		{24, 100, "Solid"},
		{40, 100, "Great"},
		{69, 100, "Amazing"},
		{70, 100, "Genius"},
		{100, 100, "Queen Bee"},
	}
	for _, tc := range cases {
		if got := Rank(tc.score, tc.max); got != tc.want {
			t.Errorf("Rank(%d, %d) = %q, want %q", tc.score, tc.max, got, tc.want)
		}
	}
}

func TestHintAndShuffle(t *testing.T) {
	h := &Honeycomb{Letters: "TACKLER", ValidWords: []string{"TACK", "TACKLE"}}
	rng := rand.New(rand.NewSource(9))
	hint, ok := h.Hint(rng, func(w string) bool { return w == "TACK" })
	if !ok || hint != "TA" {
		t.Errorf("Hint = %q, %v", hint, ok)
	}
	if _, ok := h.Hint(rng, func(string) bool { return true }); ok {
		t.Error("Hint with everything found should report false")
	}
	h.Shuffle(rng)
	if h.Center() != 'T' || len(h.Letters) != HoneycombSize {
		t.Errorf("Shuffle moved the center: %q", h.Letters)
	}
}
