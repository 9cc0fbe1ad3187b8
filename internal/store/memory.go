// internal/store/memory.go
//
// In-memory registry of live game rounds.
// Rounds hold generated puzzles and answers, so they stay server-side and
// clients address them by id.
//
// Characteristics:
//   - Rounds are keyed by id; each profile has at most one live round per mode.
//     Saving a new one replaces the previous round.
//   - A single loop goroutine ticks every in-progress round once per interval
//     (one second by default) and sweeps the map: finished rounds are dropped
//     after a retention period, and rounds nobody touched within the idle TTL
//     (never started or abandoned) are dropped too.
//   - Access to a round is serialised by a per-round mutex (Update), so the
//     loop and HTTP handlers never interleave.
//   - An optional History records starts and finishes durably.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordplay/internal/game"
)

// ErrNotFound is returned for unknown ids and for rounds owned by another profile.
var ErrNotFound = errors.New("round not found")

const (
	DefaultRetention = 10 * time.Minute
	DefaultIdleTTL   = 30 * time.Minute
)

// History is a durable log of round starts and results.
type History interface {
	Started(ctx context.Context, profileID string, r game.Round) error
	Finished(ctx context.Context, r game.Round) error
}

type entry struct {
	mu         sync.Mutex
	round      game.Round
	profile    string
	started    time.Time
	touched    time.Time
	finishedAt time.Time // zero while the round is live
}

type slot struct {
	profile string
	mode    game.Mode
}

// Registry holds live rounds.
type Registry struct {
	mu        sync.RWMutex
	rounds    map[string]*entry
	active    map[slot]string
	interval  time.Duration
	retention time.Duration
	idle      time.Duration
	history   History
	now       func() time.Time
	stop      chan struct{}
	stopOnce  sync.Once
}

// Option configures a Registry.
type Option func(*Registry)

// WithTickInterval sets how often rounds are ticked (default one second).
func WithTickInterval(d time.Duration) Option {
	return func(r *Registry) { r.interval = d }
}

// WithRetention sets how long a finished round stays readable.
func WithRetention(d time.Duration) Option {
	return func(r *Registry) { r.retention = d }
}

// WithIdleTTL sets how long an unfinished round may go without updates.
func WithIdleTTL(d time.Duration) Option {
	return func(r *Registry) { r.idle = d }
}

// WithHistory records round starts and finishes in h.
func WithHistory(h History) Option {
	return func(r *Registry) { r.history = h }
}

// NewRegistry constructs an empty Registry and starts its loop. Call Close to stop it.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		rounds:    make(map[string]*entry),
		active:    make(map[slot]string),
		interval:  time.Second,
		retention: DefaultRetention,
		idle:      DefaultIdleTTL,
		now:       time.Now,
		stop:      make(chan struct{}),
	}
	for _, o := range opts {
		o(r)
	}
	go r.loop()
	return r
}

// Save registers round for profileID. Its clock runs once the round is in progress.
func (r *Registry) Save(ctx context.Context, profileID string, round game.Round) error {
	now := r.now()
	e := &entry{round: round, profile: profileID, started: now, touched: now}

	r.mu.Lock()
	key := slot{profile: profileID, mode: round.Mode()}
	if prev, ok := r.active[key]; ok {
		r.removeLocked(prev)
	}
	r.rounds[round.ID()] = e
	r.active[key] = round.ID()
	r.mu.Unlock()

	if r.history != nil {
		if err := r.history.Started(ctx, profileID, round); err != nil {
			log.Warn().Err(err).Str("round", round.ID()).Msg("record round start")
		}
	}
	return nil
}

func (r *Registry) loop() {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-r.stop:
			return
		case <-t.C:
			r.sweep()
		}
	}
}

// sweep ticks in-progress rounds and evicts expired ones.
func (r *Registry) sweep() {
	r.mu.RLock()
	entries := make(map[string]*entry, len(r.rounds))
	for id, e := range r.rounds {
		entries[id] = e
	}
	r.mu.RUnlock()

	now := r.now()
	var expired []string
	for id, e := range entries {
		e.mu.Lock()
		if e.round.State() == game.InProgress {
			e.round.Tick()
			r.finishLocked(context.Background(), id, e)
		}
		switch {
		case !e.finishedAt.IsZero():
			if now.Sub(e.finishedAt) >= r.retention {
				expired = append(expired, id)
			}
		case now.Sub(e.touched) >= r.idle:
			expired = append(expired, id)
		}
		e.mu.Unlock()
	}
	if len(expired) == 0 {
		return
	}

	r.mu.Lock()
	for _, id := range expired {
		if r.rounds[id] == entries[id] {
			r.removeLocked(id)
		}
	}
	r.mu.Unlock()
	log.Debug().Int("rounds", len(expired)).Msg("evicted rounds")
}

// finishLocked records the first terminal state of e. Callers hold e.mu.
func (r *Registry) finishLocked(ctx context.Context, id string, e *entry) {
	if !e.round.State().Terminal() || !e.finishedAt.IsZero() {
		return
	}
	e.finishedAt = r.now()
	if r.history != nil {
		if err := r.history.Finished(ctx, e.round); err != nil {
			log.Warn().Err(err).Str("round", id).Msg("record round result")
		}
	}
}

func (r *Registry) lookup(id, profileID string) (*entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.rounds[id]
	if !ok || (profileID != "" && e.profile != profileID) {
		return nil, ErrNotFound
	}
	return e, nil
}

// Get returns the round with id. An empty profileID skips the owner check.
func (r *Registry) Get(ctx context.Context, id, profileID string) (game.Round, error) {
	e, err := r.lookup(id, profileID)
	if err != nil {
		return nil, err
	}
	return e.round, nil
}

// Update runs fn with exclusive access to the round. When fn leaves the round
// in a terminal state, the clock stops and the result goes to History once.
func (r *Registry) Update(ctx context.Context, id, profileID string, fn func(game.Round) error) error {
	e, err := r.lookup(id, profileID)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.touched = r.now()
	ferr := fn(e.round)
	r.finishLocked(ctx, id, e)
	return ferr
}

// Delete forgets the round.
func (r *Registry) Delete(ctx context.Context, id, profileID string) error {
	if _, err := r.lookup(id, profileID); err != nil {
		return err
	}
	r.mu.Lock()
	r.removeLocked(id)
	r.mu.Unlock()
	return nil
}

func (r *Registry) removeLocked(id string) {
	e, ok := r.rounds[id]
	if !ok {
		return
	}
	delete(r.rounds, id)
	key := slot{profile: e.profile, mode: e.round.Mode()}
	if r.active[key] == id {
		delete(r.active, key)
	}
}

// Current returns the id of profileID's live round in mode.
func (r *Registry) Current(profileID string, mode game.Mode) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.active[slot{profile: profileID, mode: mode}]
	return id, ok
}

// Active lists the live round ids of profileID, oldest first.
func (r *Registry) Active(profileID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	type item struct {
		id      string
		started time.Time
	}
	var items []item
	for key, id := range r.active {
		if key.profile == profileID {
			items = append(items, item{id: id, started: r.rounds[id].started})
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].started.Before(items[j].started) })
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.id
	}
	return out
}

// Close stops the loop and forgets every round.
func (r *Registry) Close() {
	r.stopOnce.Do(func() { close(r.stop) })
	r.mu.Lock()
	defer r.mu.Unlock()
	for id := range r.rounds {
		r.removeLocked(id)
	}
}
