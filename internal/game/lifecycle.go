// internal/game/lifecycle.go
//
// Shared round lifecycle.
// Every mode embeds base: id, level, looplab/fsm state
// (not_started → in_progress → won | lost | complete), the per-round seeded
// rng, the elapsed-seconds clock and score/hint counters.
// The first move starts a round; moves on a finished round get ErrRoundOver.

package game

import (
	"context"
	"math/rand"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
	"github.com/rs/zerolog/log"
)

const (
	evStart    = "start"
	evWin      = "win"
	evLose     = "lose"
	evComplete = "complete"
)

func transitions() fsm.Events {
	return fsm.Events{
		{Name: evStart, Src: []string{string(NotStarted)}, Dst: string(InProgress)},
		{Name: evWin, Src: []string{string(InProgress)}, Dst: string(Won)},
		{Name: evLose, Src: []string{string(InProgress)}, Dst: string(Lost)},
		{Name: evComplete, Src: []string{string(InProgress)}, Dst: string(Complete)},
	}
}

// base holds the state every round shares: identity, lifecycle, timer,
// score and hint counters, and the progress recorder.
type base struct {
	id      string
	mode    Mode
	level   string
	fsm     *fsm.FSM
	rng     *rand.Rand
	rec     recorder
	elapsed int
	score   int
	hints   int
}

func newBase(mode Mode, cfg Config, rec recorder) base {
	b := base{
		id:    uuid.NewString(),
		mode:  mode,
		level: cfg.Level,
		rng:   rand.New(rand.NewSource(cfg.Seed)),
		rec:   rec,
	}
	b.fsm = fsm.NewFSM(string(NotStarted), transitions(), fsm.Callbacks{
		"enter_state": func(_ context.Context, e *fsm.Event) {
			log.Debug().Str("round", b.id).Str("mode", string(mode)).
				Str("from", e.Src).Str("to", e.Dst).Msg("round state")
		},
	})
	return b
}

func (b *base) ID() string    { return b.id }
func (b *base) Mode() Mode    { return b.mode }
func (b *base) Level() string { return b.level }
func (b *base) State() State  { return State(b.fsm.Current()) }
func (b *base) Score() int    { return b.score }
func (b *base) Elapsed() int  { return b.elapsed }

func (b *base) Tick() {
	if b.State() == InProgress {
		b.elapsed++
	}
}

// begin rejects input on a finished round and starts a fresh one.
func (b *base) begin(ctx context.Context) error {
	switch st := b.State(); {
	case st.Terminal():
		return ErrRoundOver
	case st == NotStarted:
		return b.fsm.Event(ctx, evStart)
	}
	return nil
}

func (b *base) finish(ctx context.Context, event string) {
	if err := b.fsm.Event(ctx, event); err != nil {
		log.Error().Err(err).Str("round", b.id).Str("event", event).Msg("state transition")
	}
}

// addScore applies delta and keeps the running score at or above zero.
func (b *base) addScore(delta int) {
	b.score = max(0, b.score+delta)
}
