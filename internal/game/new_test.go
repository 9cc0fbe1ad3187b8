package game

import (
	"context"
	"errors"
	"testing"

	"github.com/robalobadob/wordplay/internal/words"
)

func testBank(t *testing.T) *words.Bank {
	t.Helper()
	return words.New(map[string][]words.Word{
		"A1": vocab("A1", schoolWords...),
		"B1": vocab("B1", beeWords...),
	}, 1)
}

func TestNewEveryMode(t *testing.T) {
	bank := testBank(t)
	for _, mode := range Modes {
		level := "A1"
		if mode == ModeSpellingBee {
			level = "B1"
		}
		r, err := New(mode, bank, memStore(), Config{Level: level, Seed: 1})
		if err != nil {
			t.Errorf("New(%s): %v", mode, err)
			continue
		}
		if r.Mode() != mode || r.Level() != level || r.State() != NotStarted || r.ID() == "" {
			t.Errorf("New(%s) = mode %s level %s state %s id %q", mode, r.Mode(), r.Level(), r.State(), r.ID())
		}
		if r.Snapshot() == nil {
			t.Errorf("New(%s) snapshot is nil", mode)
		}
	}
}

func TestNewRejects(t *testing.T) {
	bank := testBank(t)
	if _, err := New("hangman", bank, memStore(), Config{Level: "A1"}); err == nil {
		t.Error("unknown mode accepted")
	}
	r, err := New(ModeCrossword, bank, memStore(), Config{Level: "C2"})
	if !errors.Is(err, ErrInsufficientWords) {
		t.Errorf("empty level err = %v, want ErrInsufficientWords", err)
	}
	if r != nil {
		t.Errorf("failed New returned %#v, want nil interface", r)
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range Modes {
		if got, ok := ParseMode(string(m)); !ok || got != m {
			t.Errorf("ParseMode(%q) = %q, %v", m, got, ok)
		}
	}
	if _, ok := ParseMode("chess"); ok {
		t.Error("ParseMode accepted chess")
	}
}

func TestRoundIDsAreUnique(t *testing.T) {
	a, _ := NewWordGuess(nil, memStore(), Config{Level: "A1", Words: vocab("A1", "apple")})
	b, _ := NewWordGuess(nil, memStore(), Config{Level: "A1", Words: vocab("A1", "apple")})
	if a.ID() == b.ID() {
		t.Errorf("two rounds share id %q", a.ID())
	}
	if err := a.begin(context.Background()); err != nil {
		t.Fatal(err)
	}
	if a.State() != InProgress {
		t.Errorf("State %q after begin, want in_progress", a.State())
	}
}
