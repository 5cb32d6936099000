package bullscows

import (
	"fmt"
	"math/rand/v2"

	"github.com/rocketscienceinc/bullscows-backend/internal/apperror"
)

// Length is the number of digits in a secret and in a guess.
const Length = 4

// Secret is the hidden value of a round. Digits are pairwise distinct.
type Secret [Length]byte

// Guess is a player's submission. Digits may repeat.
type Guess [Length]byte

func (that Secret) String() string {
	return digitsString(that[:])
}

func (that Guess) String() string {
	return digitsString(that[:])
}

// NewSecret draws Length digits without replacement from 0..9.
func NewSecret(rnd *rand.Rand) Secret {
	pool := [10]byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	var secret Secret
	for i := range secret {
		// partial Fisher-Yates: pick from the untouched tail
		j := i + rnd.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
		secret[i] = pool[i]
	}

	return secret
}

// ParseGuess - converts a 4-character numeric string into a Guess.
func ParseGuess(raw string) (Guess, error) {
	var guess Guess

	if len(raw) != Length {
		return guess, fmt.Errorf("%w: got %q", apperror.ErrInvalidGuess, raw)
	}

	for i := 0; i < Length; i++ {
		c := raw[i]
		if c < '0' || c > '9' {
			return guess, fmt.Errorf("%w: got %q", apperror.ErrInvalidGuess, raw)
		}
		guess[i] = c - '0'
	}

	return guess, nil
}

func digitsString(digits []byte) string {
	out := make([]byte, len(digits))
	for i, d := range digits {
		out[i] = '0' + d
	}
	return string(out)
}
