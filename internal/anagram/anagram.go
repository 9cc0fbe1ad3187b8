// internal/anagram/anagram.go
//
// Letter-tile scrambling for the anagram mode.
// Each tile keeps the index of its letter in the unscrambled word, so
// repeated letters stay individually selectable.
package anagram

import (
	"math/rand"
	"strings"
)

// DefaultRetries bounds the re-shuffles spent avoiding an unscrambled result.
const DefaultRetries = 10

// Tile is one letter of the scrambled word.
type Tile struct {
	ID     int    `json:"id"`
	Letter string `json:"letter"`
}

// Scramble shuffles the upper-cased word into tiles.
func Scramble(word string, rng *rand.Rand) []Tile {
	return ScrambleN(word, rng, DefaultRetries)
}

// ScrambleN is Scramble with an explicit retry budget. One- and two-letter
// words (or words of one repeated letter) may come back unchanged.
func ScrambleN(word string, rng *rand.Rand, retries int) []Tile {
	w := strings.ToUpper(word)
	tiles := make([]Tile, len(w))
	for i := 0; i < len(w); i++ {
		tiles[i] = Tile{ID: i, Letter: w[i : i+1]}
	}
	Shuffle(tiles, rng)
	for n := 0; n < retries && Spell(tiles) == w; n++ {
		Shuffle(tiles, rng)
	}
	return tiles
}

// Shuffle reorders tiles in place (Fisher–Yates).
func Shuffle(tiles []Tile, rng *rand.Rand) {
	for i := len(tiles) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		tiles[i], tiles[j] = tiles[j], tiles[i]
	}
}

// Spell concatenates the tile letters.
func Spell(tiles []Tile) string {
	var b strings.Builder
	for _, t := range tiles {
		b.WriteString(t.Letter)
	}
	return b.String()
}
