// internal/progress/progress.go
//
// Persisted learner progress: the discovered-word set per level and
// per-game summary statistics.
// Responsibilities:
//   - Define the Progress document and its JSON shape.
//   - Expose the narrow Store interface consumed by game rounds.
//   - Implement Store once on top of a pluggable Backend (memory, SQLite)
//     so the merge/idempotence rules live in one place.
//
// A Store is bound to one profile; there is no process-wide singleton.

package progress

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/samber/lo"

	"github.com/robalobadob/wordplay/internal/words"
)

// Game stat keys.
const (
	GameWordGuess   = "wordGuess"
	GameWordSearch  = "wordSearch"
	GameWordPuzzle  = "wordPuzzle"
	GameSpellingBee = "spellingBee"
	GameAnagram     = "anagram"
)

var ErrNoProfile = errors.New("progress: empty profile id")

// Stats is one game's counters. Missing keys read as zero.
type Stats map[string]int

// Progress is the whole persisted document for one profile.
type Progress struct {
	DiscoveredWords map[string][]string `json:"discoveredWords"`
	GameStats       map[string]Stats    `json:"gameStats"`
	Achievements    []string            `json:"achievements"`
	LastPlayed      *time.Time          `json:"lastPlayed"`
}

// Default returns an empty document with every default level present.
func Default() Progress {
	p := Progress{}
	p.normalize()
	return p
}

// normalize fills in missing maps and default levels after a decode.
func (p *Progress) normalize() {
	if p.DiscoveredWords == nil {
		p.DiscoveredWords = make(map[string][]string, len(words.DefaultLevels))
	}
	for _, lvl := range words.DefaultLevels {
		if p.DiscoveredWords[lvl] == nil {
			p.DiscoveredWords[lvl] = []string{}
		}
	}
	if p.GameStats == nil {
		p.GameStats = make(map[string]Stats)
	}
	if p.Achievements == nil {
		p.Achievements = []string{}
	}
}

func (p *Progress) markDiscovered(id, level string) bool {
	if lo.Contains(p.DiscoveredWords[level], id) {
		return false
	}
	p.DiscoveredWords[level] = append(p.DiscoveredWords[level], id)
	return true
}

func (p *Progress) mergeStats(game string, partial Stats) {
	cur := p.GameStats[game]
	if cur == nil {
		cur = Stats{}
	}
	for k, v := range partial {
		cur[k] = v
	}
	p.GameStats[game] = cur
}

// TotalDiscovered counts discovered ids across all levels.
func (p Progress) TotalDiscovered() int {
	return lo.SumBy(lo.Values(p.DiscoveredWords), func(ids []string) int { return len(ids) })
}

// Store is the per-profile persistence contract used by game rounds.
type Store interface {
	// MarkDiscovered records a word id; true only the first time.
	MarkDiscovered(ctx context.Context, wordID, level string) (bool, error)
	Discovered(ctx context.Context, level string) ([]string, error)
	GameStats(ctx context.Context, game string) (Stats, error)
	// UpdateGameStats shallow-merges partial into the game's counters.
	UpdateGameStats(ctx context.Context, game string, partial Stats) error
	Progress(ctx context.Context) (Progress, error)
	Reset(ctx context.Context) error
}

// Backend loads and stores whole documents. Update must be atomic per profile.
type Backend interface {
	Load(ctx context.Context, profileID string) (Progress, error)
	Update(ctx context.Context, profileID string, fn func(*Progress) error) error
	Delete(ctx context.Context, profileID string) error
}

// Profile is a Store bound to one profile id.
type Profile struct {
	backend Backend
	id      string
	now     func() time.Time
}

// For binds backend to profileID.
func For(backend Backend, profileID string) *Profile {
	return &Profile{backend: backend, id: profileID, now: time.Now}
}

func (s *Profile) ID() string { return s.id }

func (s *Profile) MarkDiscovered(ctx context.Context, wordID, level string) (bool, error) {
	if s.id == "" {
		return false, ErrNoProfile
	}
	var added bool
	err := s.backend.Update(ctx, s.id, func(p *Progress) error {
		added = p.markDiscovered(wordID, level)
		if added {
			s.touch(p)
		}
		return nil
	})
	return added, err
}

func (s *Profile) Discovered(ctx context.Context, level string) ([]string, error) {
	p, err := s.Progress(ctx)
	if err != nil {
		return nil, err
	}
	return append([]string{}, p.DiscoveredWords[level]...), nil
}

func (s *Profile) GameStats(ctx context.Context, game string) (Stats, error) {
	p, err := s.Progress(ctx)
	if err != nil {
		return nil, err
	}
	out := Stats{}
	for k, v := range p.GameStats[game] {
		out[k] = v
	}
	return out, nil
}

func (s *Profile) UpdateGameStats(ctx context.Context, game string, partial Stats) error {
	if s.id == "" {
		return ErrNoProfile
	}
	return s.backend.Update(ctx, s.id, func(p *Progress) error {
		p.mergeStats(game, partial)
		s.touch(p)
		return nil
	})
}

func (s *Profile) Progress(ctx context.Context) (Progress, error) {
	if s.id == "" {
		return Progress{}, ErrNoProfile
	}
	p, err := s.backend.Load(ctx, s.id)
	if err != nil {
		return Progress{}, err
	}
	p.normalize()
	return p, nil
}

func (s *Profile) Reset(ctx context.Context) error {
	if s.id == "" {
		return ErrNoProfile
	}
	return s.backend.Delete(ctx, s.id)
}

func (s *Profile) touch(p *Progress) {
	t := s.now().UTC()
	p.LastPlayed = &t
}

// Percent returns round(discovered/total*100), or 0 for an empty level.
func Percent(discovered, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(discovered) / float64(total) * 100))
}

// LevelProgress is the percentage of a level's words the profile has discovered.
func LevelProgress(ctx context.Context, s Store, src words.Source, level string) (int, error) {
	ids, err := s.Discovered(ctx, level)
	if err != nil {
		return 0, err
	}
	return Percent(len(ids), len(src.WordsByLevel(level))), nil
}

// LevelSummary is one row of the per-level overview.
type LevelSummary struct {
	Level      string `json:"level"`
	Discovered int    `json:"discovered"`
	Total      int    `json:"total"`
	Percent    int    `json:"percent"`
}

// Summary reports discovery per level in the given order.
func Summary(p Progress, src words.Source, levels []string) []LevelSummary {
	return lo.Map(levels, func(lvl string, _ int) LevelSummary {
		total := len(src.WordsByLevel(lvl))
		n := len(p.DiscoveredWords[lvl])
		return LevelSummary{Level: lvl, Discovered: n, Total: total, Percent: Percent(n, total)}
	})
}
