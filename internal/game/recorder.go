// internal/game/recorder.go
//
// Progress writes made by rounds. Failures are logged and never end a round.

package game

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/robalobadob/wordplay/internal/progress"
	"github.com/robalobadob/wordplay/internal/words"
)

// recorder forwards discoveries and end-of-round stats to the progress store.
// Failures are logged and swallowed so gameplay never stalls on storage.
type recorder struct {
	store progress.Store
	round string
}

func (r recorder) discover(ctx context.Context, w words.Word) {
	if r.store == nil {
		return
	}
	if _, err := r.store.MarkDiscovered(ctx, w.ID, w.Level); err != nil {
		log.Warn().Err(err).Str("round", r.round).Str("word", w.ID).Msg("mark discovered failed")
	}
}

// flush reads the game's current counters and writes back the fields
// returned by update, merged shallowly.
func (r recorder) flush(ctx context.Context, game string, update func(prev progress.Stats) progress.Stats) {
	if r.store == nil {
		return
	}
	prev, err := r.store.GameStats(ctx, game)
	if err != nil {
		log.Warn().Err(err).Str("round", r.round).Str("game", game).Msg("read stats failed")
		prev = progress.Stats{}
	}
	if err := r.store.UpdateGameStats(ctx, game, update(prev)); err != nil {
		log.Warn().Err(err).Str("round", r.round).Str("game", game).Msg("update stats failed")
	}
}

// wordIndex maps upper-cased text to the first dataset entry spelling it.
type wordIndex map[string]words.Word

func indexWords(list []words.Word) wordIndex {
	idx := make(wordIndex, len(list))
	for _, w := range list {
		if _, ok := idx[w.Upper()]; !ok {
			idx[w.Upper()] = w
		}
	}
	return idx
}

// texts returns the distinct upper-cased spellings in list order.
func texts(list []words.Word) []string {
	return lo.Uniq(lo.Map(list, func(w words.Word, _ int) string { return w.Upper() }))
}

// draw returns cfg.Words when preset, else count random words of the level.
func draw(src words.Source, cfg Config, count int) []words.Word {
	if len(cfg.Words) > 0 {
		return cfg.Words
	}
	if src == nil {
		return nil
	}
	return src.RandomWords(cfg.Level, count)
}
