package bullscows

import (
	"errors"
	"fmt"
)

// Policy selects how digits outside their exact position are counted.
type Policy string

const (
	// Permissive counts every non-exact guess digit that occurs anywhere in the secret,
	// so repeated guess digits may each match the same secret digit.
	Permissive Policy = "permissive"
	// Strict consumes each unmatched secret digit at most once.
	Strict Policy = "strict"
)

var ErrUnknownPolicy = errors.New("unknown scoring policy")

// ParsePolicy - maps a config value onto a Policy. Empty means Permissive.
func ParsePolicy(raw string) (Policy, error) {
	switch Policy(raw) {
	case "", Permissive:
		return Permissive, nil
	case Strict:
		return Strict, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownPolicy, raw)
	}
}

// Score is the outcome of a guess: exact hits ("A") and misplaced digits ("B").
type Score struct {
	Exact   int `json:"exact"`
	Present int `json:"present"`
}

// String renders the conventional xAyB notation.
func (that Score) String() string {
	return fmt.Sprintf("%dA%dB", that.Exact, that.Present)
}

// IsWin is the sole win condition; Present is irrelevant.
func (that Score) IsWin() bool {
	return that.Exact == Length
}

// Evaluate - scores guess against secret under the given policy.
func Evaluate(guess Guess, secret Secret, policy Policy) Score {
	if policy == Strict {
		return evaluateStrict(guess, secret)
	}

	return evaluatePermissive(guess, secret)
}

func evaluatePermissive(guess Guess, secret Secret) Score {
	var score Score

	for i := range guess {
		if guess[i] == secret[i] {
			score.Exact++
			continue
		}

		if secret.contains(guess[i]) {
			score.Present++
		}
	}

	return score
}

// evaluateStrict is the two-pass variant: exact positions first, then presents
// against the remaining secret digits.
func evaluateStrict(guess Guess, secret Secret) Score {
	var (
		score  Score
		counts [10]int
		hit    [Length]bool
	)

	for i := range guess {
		if guess[i] == secret[i] {
			score.Exact++
			hit[i] = true
		} else {
			counts[secret[i]]++
		}
	}

	for i := range guess {
		if hit[i] {
			continue
		}
		if counts[guess[i]] > 0 {
			score.Present++
			counts[guess[i]]--
		}
	}

	return score
}

func (that Secret) contains(digit byte) bool {
	for _, d := range that {
		if d == digit {
			return true
		}
	}
	return false
}
