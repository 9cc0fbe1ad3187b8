package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/robalobadob/wordplay/internal/progress"
	"github.com/robalobadob/wordplay/internal/words"
)

var errBoom = errors.New("disk on fire")

// failingStore rejects every call, as a broken disk or database would.
type failingStore struct{}

func (failingStore) MarkDiscovered(context.Context, string, string) (bool, error) {
	return false, errBoom
}
func (failingStore) Discovered(context.Context, string) ([]string, error) { return nil, errBoom }
func (failingStore) GameStats(context.Context, string) (progress.Stats, error) {
	return nil, errBoom
}
func (failingStore) UpdateGameStats(context.Context, string, progress.Stats) error { return errBoom }
func (failingStore) Progress(context.Context) (progress.Progress, error) {
	return progress.Progress{}, errBoom
}
func (failingStore) Reset(context.Context) error { return errBoom }

func memStore() *progress.Profile { return progress.For(progress.NewMemory(), "tester") }

// vocab builds level words with ids like "b1-0".
func vocab(level string, texts ...string) []words.Word {
	out := make([]words.Word, len(texts))
	for i, t := range texts {
		out[i] = words.Word{
			ID:         fmt.Sprintf("%s-%d", strings.ToLower(level), i),
			Word:       t,
			Definition: "definition of " + t,
			Hint:       "hint for " + t,
			Level:      level,
		}
	}
	return out
}

func wantStats(t *testing.T, s progress.Store, game string, want progress.Stats) {
	t.Helper()
	got, err := s.GameStats(context.Background(), game)
	if err != nil {
		t.Fatalf("GameStats: %v", err)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s.%s = %d, want %d (all: %v)", game, k, got[k], v, got)
		}
	}
}

func discovered(t *testing.T, s progress.Store, level string) []string {
	t.Helper()
	ids, err := s.Discovered(context.Background(), level)
	if err != nil {
		t.Fatalf("Discovered: %v", err)
	}
	return ids
}
