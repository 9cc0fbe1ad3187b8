// internal/spellingbee/spellingbee.go
//
// Spelling-bee honeycomb generation and scoring.
// Responsibilities:
//   - Pick a pangram seed and derive the 7 honeycomb letters (1 center + 6 outer).
//   - Compute the valid-word set: eligible words containing the center letter
//     and built only from honeycomb letters (letters may repeat).
//   - Score words (4 letters = 1, else length, pangram +7) and validate submissions.
//   - Rank a score against the puzzle maximum.
package spellingbee

import (
	"errors"
	"math/rand"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/zyedidia/generic/mapset"

	"github.com/robalobadob/wordplay/internal/words"
)

const (
	MinWordLength = 4
	// MinEligible is the smallest eligible pool a honeycomb is built from.
	MinEligible   = 5
	HoneycombSize = 7
	PangramBonus  = 7

	padding = "RSTLNEDCM"
)

var (
	ErrInsufficientWords = errors.New("not enough words for a spelling bee")
	ErrTooShort          = errors.New("too short")
	ErrMissingCenter     = errors.New("missing center letter")
	ErrAlreadyFound      = errors.New("already found")
	ErrNotInList         = errors.New("not in word list")
)

// Honeycomb is a generated puzzle. Letters are upper case; Letters[0] is the center.
type Honeycomb struct {
	Letters    string   `json:"letters"`
	ValidWords []string `json:"validWords"`
	MaxScore   int      `json:"maxScore"`
}

// Center is the mandatory letter.
func (h *Honeycomb) Center() byte { return h.Letters[0] }

// Outer returns the six surrounding letters.
func (h *Honeycomb) Outer() string { return h.Letters[1:] }

// Generate builds a honeycomb from candidates.
func Generate(candidates []string, rng *rand.Rand) (*Honeycomb, error) {
	eligible := lo.FilterMap(candidates, func(w string, _ int) (string, bool) {
		w = strings.ToUpper(strings.TrimSpace(w))
		return w, len(w) >= MinWordLength && words.IsAlpha(w)
	})
	if len(eligible) < MinEligible {
		return nil, ErrInsufficientWords
	}

	letters := pickLetters(pangramSeed(eligible, rng), rng)
	h := &Honeycomb{Letters: letters}

	allowed := mapset.New[byte]()
	for i := 0; i < len(letters); i++ {
		allowed.Put(letters[i])
	}
	seen := mapset.New[string]()
	for _, w := range eligible {
		if seen.Has(w) || strings.IndexByte(w, h.Center()) < 0 {
			continue
		}
		if !usesOnly(w, allowed) {
			continue
		}
		seen.Put(w)
		h.ValidWords = append(h.ValidWords, w)
		h.MaxScore += Score(w, letters)
	}
	return h, nil
}

// pangramSeed picks uniformly among words with at least 7 distinct letters,
// else the word with the most distinct letters (first one on ties).
func pangramSeed(eligible []string, rng *rand.Rand) string {
	rich := lo.Filter(eligible, func(w string, _ int) bool { return len(distinct(w)) >= HoneycombSize })
	if len(rich) > 0 {
		return rich[rng.Intn(len(rich))]
	}
	return lo.MaxBy(eligible, func(a, b string) bool { return len(distinct(a)) > len(distinct(b)) })
}

// pickLetters chooses 7 letters from seed, padding from a consonant list when
// the seed is short of distinct letters. The first letter becomes the center.
func pickLetters(seed string, rng *rand.Rand) string {
	uniq := distinct(seed)
	if len(uniq) >= HoneycombSize {
		rng.Shuffle(len(uniq), func(i, j int) { uniq[i], uniq[j] = uniq[j], uniq[i] })
		return string(uniq[:HoneycombSize])
	}
	for i := 0; i < len(padding) && len(uniq) < HoneycombSize; i++ {
		if !lo.Contains(uniq, padding[i]) {
			uniq = append(uniq, padding[i])
		}
	}
	return string(uniq)
}

func distinct(w string) []byte { return lo.Uniq([]byte(strings.ToUpper(w))) }

func usesOnly(w string, allowed mapset.Set[byte]) bool {
	for i := 0; i < len(w); i++ {
		if !allowed.Has(w[i]) {
			return false
		}
	}
	return true
}

// Score returns the points for word given the honeycomb letters.
// Four-letter words score 1, longer words their length, and a word using
// every honeycomb letter earns PangramBonus on top.
func Score(word, letters string) int {
	if len(word) == MinWordLength {
		return 1
	}
	points := len(word)
	if IsPangram(word, letters) {
		points += PangramBonus
	}
	return points
}

// IsPangram reports whether word uses every letter in letters at least once.
func IsPangram(word, letters string) bool {
	if letters == "" {
		return false
	}
	w := strings.ToUpper(word)
	for i := 0; i < len(letters); i++ {
		if strings.IndexByte(w, upper(letters[i])) < 0 {
			return false
		}
	}
	return true
}

// Check validates a submission against the honeycomb. found reports whether a
// word (upper case) was already accepted this round. On success it returns the
// canonical upper-case word.
func (h *Honeycomb) Check(input string, found func(string) bool) (string, error) {
	w := strings.ToUpper(strings.TrimSpace(input))
	switch {
	case len(w) < MinWordLength:
		return "", ErrTooShort
	case strings.IndexByte(w, h.Center()) < 0:
		return "", ErrMissingCenter
	case found != nil && found(w):
		return "", ErrAlreadyFound
	case !lo.Contains(h.ValidWords, w):
		return "", ErrNotInList
	}
	return w, nil
}

// Hint returns the first two letters of a random word not yet found.
func (h *Honeycomb) Hint(rng *rand.Rand, found func(string) bool) (string, bool) {
	remaining := lo.Filter(h.ValidWords, func(w string, _ int) bool { return found == nil || !found(w) })
	if len(remaining) == 0 {
		return "", false
	}
	w := remaining[rng.Intn(len(remaining))]
	return w[:min(2, len(w))], true
}

// Shuffle reorders the outer letters; the center stays first.
func (h *Honeycomb) Shuffle(rng *rand.Rand) {
	outer := []byte(h.Outer())
	rng.Shuffle(len(outer), func(i, j int) { outer[i], outer[j] = outer[j], outer[i] })
	h.Letters = string(h.Center()) + string(outer)
}

type rank struct {
	pct  float64
	name string
}

var ranks = []rank{
	{100, "Queen Bee"},
	{70, "Genius"},
	{50, "Amazing"},
	{40, "Great"},
	{25, "Nice"},
	{15, "Solid"},
	{5, "Good Start"},
	{0, "Beginner"},
}

// Rank names the score's position on the ladder relative to maxScore.
func Rank(score, maxScore int) string {
	if maxScore <= 0 {
		return "Beginner"
	}
	pct := float64(score) / float64(maxScore) * 100
	i := sort.Search(len(ranks), func(i int) bool { return pct >= ranks[i].pct })
	if i == len(ranks) {
		return "Beginner"
	}
	return ranks[i].name
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}
