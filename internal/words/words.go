// internal/words/words.go
//
// Leveled vocabulary dataset and the read-only word bank built on top of it.
//
// Responsibilities:
//   - Load the dataset from VOCAB_FILE or fall back to the embedded default.
//   - Expose words per level and random subsets (optionally excluding ids).
//   - Tolerate duplicate ids: lookups return the first match.
//
// Dataset shape (JSON):
//   { "A1": [ {"id": "...", "word": "...", "definition": "...", ...}, ... ], ... }
//
// Environment variables:
//   VOCAB_FILE=/path/to/vocabulary.json
//
// Initialization is run once (sync.Once); later calls return the first result.

package words

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/robalobadob/wordplay/assets"
)

// Word is a single vocabulary entry. Immutable once loaded.
type Word struct {
	ID         string `json:"id"`
	Word       string `json:"word"`
	Definition string `json:"definition"`
	Hint       string `json:"hint"`
	Example    string `json:"example"`
	Category   string `json:"category"`
	Level      string `json:"level"`
}

// Upper returns the word text upper-cased and trimmed, the form used on grids.
func (w Word) Upper() string { return strings.ToUpper(strings.TrimSpace(w.Word)) }

// Source is the word supply consumed by the game package.
type Source interface {
	WordsByLevel(level string) []Word
	RandomWord(level string, excludeIDs ...string) (Word, bool)
	RandomWords(level string, count int, excludeIDs ...string) []Word
}

// Bank is an in-memory Source over a leveled dataset.
// The random source is guarded so a Bank may be shared across requests.
type Bank struct {
	levels map[string][]Word
	order  []string

	mu  sync.Mutex
	rng *rand.Rand
}

// DefaultLevels is the CEFR ladder used by the dataset and progress store.
var DefaultLevels = []string{"A1", "A2", "B1", "B2", "C1", "C2"}

var (
	initOnce   sync.Once
	defaultBk  *Bank
	initialErr error
)

// Init loads the default bank exactly once.
// VOCAB_FILE overrides the embedded dataset.
func Init() error {
	initOnce.Do(func() {
		var (
			raw []byte
			err error
		)
		if path := os.Getenv("VOCAB_FILE"); path != "" {
			raw, err = os.ReadFile(path)
		} else {
			raw, err = assets.Vocabulary()
		}
		if err != nil {
			initialErr = fmt.Errorf("words: read dataset: %w", err)
			return
		}
		defaultBk, initialErr = Parse(raw, time.Now().UnixNano())
	})
	return initialErr
}

// Default returns the bank loaded by Init (nil if Init failed or was not called).
func Default() *Bank { return defaultBk }

// Load reads a JSON dataset from r.
func Load(r io.Reader, seed int64) (*Bank, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(raw, seed)
}

// Parse decodes a JSON dataset. Entries without a level inherit the key they are listed under.
func Parse(raw []byte, seed int64) (*Bank, error) {
	var levels map[string][]Word
	if err := json.Unmarshal(raw, &levels); err != nil {
		return nil, fmt.Errorf("words: decode dataset: %w", err)
	}
	for lvl, list := range levels {
		for i := range list {
			if list[i].Level == "" {
				list[i].Level = lvl
			}
		}
	}
	b := New(levels, seed)
	if b.Total() == 0 {
		return nil, errors.New("words: dataset is empty")
	}
	return b, nil
}

// New builds a bank from an in-memory dataset.
func New(levels map[string][]Word, seed int64) *Bank {
	b := &Bank{
		levels: levels,
		rng:    rand.New(rand.NewSource(seed)),
	}
	b.order = orderLevels(levels)
	return b
}

// orderLevels sorts known CEFR levels first, then any extra keys alphabetically.
func orderLevels(levels map[string][]Word) []string {
	rank := make(map[string]int, len(DefaultLevels))
	for i, l := range DefaultLevels {
		rank[l] = i
	}
	keys := lo.Keys(levels)
	sort.Slice(keys, func(i, j int) bool {
		ri, iok := rank[keys[i]]
		rj, jok := rank[keys[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}

// Levels returns the dataset's levels in ladder order.
func (b *Bank) Levels() []string { return append([]string(nil), b.order...) }

// WordsByLevel returns the level's words (empty for unknown levels).
func (b *Bank) WordsByLevel(level string) []Word {
	return append([]Word(nil), b.levels[level]...)
}

// RandomWord returns a uniformly random word of the level not in excludeIDs.
func (b *Bank) RandomWord(level string, excludeIDs ...string) (Word, bool) {
	available := b.available(level, excludeIDs)
	if len(available) == 0 {
		return Word{}, false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return available[b.rng.Intn(len(available))], true
}

// RandomWords returns up to count distinct random words of the level.
// Fewer are returned when the level cannot supply count words.
func (b *Bank) RandomWords(level string, count int, excludeIDs ...string) []Word {
	available := b.available(level, excludeIDs)
	b.mu.Lock()
	b.rng.Shuffle(len(available), func(i, j int) {
		available[i], available[j] = available[j], available[i]
	})
	b.mu.Unlock()
	if count < 0 {
		count = 0
	}
	return available[:min(count, len(available))]
}

func (b *Bank) available(level string, excludeIDs []string) []Word {
	return lo.Filter(b.levels[level], func(w Word, _ int) bool {
		return !lo.Contains(excludeIDs, w.ID)
	})
}

// WordByID finds a word across all levels. The first match wins.
func (b *Bank) WordByID(id string) (Word, bool) {
	for _, lvl := range b.order {
		if w, ok := lo.Find(b.levels[lvl], func(w Word) bool { return w.ID == id }); ok {
			return w, true
		}
	}
	return Word{}, false
}

// Total returns the number of entries across all levels.
func (b *Bank) Total() int {
	return lo.SumBy(b.order, func(lvl string) int { return len(b.levels[lvl]) })
}

// IsAlpha reports whether s is non-empty and all ASCII letters.
func IsAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}
