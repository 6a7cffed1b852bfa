package randomizer

import (
	"math/rand/v2"
	"strconv"

	"github.com/cespare/xxhash"
)

// ParseSeed turns a user supplied seed string into a seed value. Strings
// that look like a shared seed code (base 36, as FormatSeed prints) decode
// to the same value everywhere; anything else is hashed, so named seeds
// like "race night" work too.
func ParseSeed(s string) uint64 {
	if v, err := strconv.ParseUint(s, 36, 64); err == nil {
		return v
	}
	return xxhash.Sum64String(s)
}

// FormatSeed renders a seed as the shareable code ParseSeed accepts.
func FormatSeed(seed uint64) string {
	return strconv.FormatUint(seed, 36)
}

// NewSeed returns a fresh random seed.
func NewSeed() uint64 {
	return rand.Uint64()
}
