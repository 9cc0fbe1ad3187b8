// internal/daily/daily.go
//
// Daily challenge: every profile gets the same puzzle per date and mode.
// The puzzle seed is HMAC-SHA256(salt, "YYYY-MM-DD|mode"), so it cannot be
// predicted without DAILY_SALT but is stable for the whole UTC day.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"math/rand"
	"time"

	"github.com/robalobadob/wordplay/internal/words"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns the deterministic puzzle seed for date and mode.
func Seed(date time.Time, salt, mode string) int64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date) + "|" + mode))
	sum := h.Sum(nil)
	// first 8 bytes, sign bit cleared
	return int64(binary.BigEndian.Uint64(sum[:8]) >> 1)
}

// Pick returns count words from list in an order fixed by seed. count <= 0
// or count >= len(list) returns the whole list, shuffled.
func Pick(list []words.Word, count int, seed int64) []words.Word {
	out := append([]words.Word(nil), list...)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	if count > 0 && count < len(out) {
		out = out[:count]
	}
	return out
}
