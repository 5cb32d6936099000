package bullscows

import (
	"math/rand/v2"
	"testing"

	"github.com/rocketscienceinc/bullscows-backend/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustGuess(t *testing.T, raw string) Guess {
	t.Helper()

	guess, err := ParseGuess(raw)
	require.NoError(t, err)

	return guess
}

func mustSecret(t *testing.T, raw string) Secret {
	t.Helper()

	return Secret(mustGuess(t, raw))
}

func TestNewSecret(t *testing.T) {
	t.Run("Digits are pairwise distinct", func(t *testing.T) {
		// Given: a seeded source
		rnd := rand.New(rand.NewPCG(1, 2))

		for n := 0; n < 5000; n++ {
			// When: a secret is generated
			secret := NewSecret(rnd)

			// Then: no digit repeats and every digit is in range
			var seen [10]bool
			for _, d := range secret {
				require.Less(t, d, byte(10))
				require.False(t, seen[d], "repeated digit in %s", secret)
				seen[d] = true
			}
		}
	})

	t.Run("Every digit appears in every position", func(t *testing.T) {
		// Given: a seeded source
		rnd := rand.New(rand.NewPCG(3, 4))
		var positions [Length][10]int

		// When: many secrets are generated
		for n := 0; n < 5000; n++ {
			secret := NewSecret(rnd)
			for i, d := range secret {
				positions[i][d]++
			}
		}

		// Then: sampling covers the whole digit range at each position
		for i := range positions {
			for d := range positions[i] {
				assert.Positive(t, positions[i][d], "digit %d never at position %d", d, i)
			}
		}
	})
}

func TestParseGuess(t *testing.T) {
	t.Run("Accepts four digits with repeats", func(t *testing.T) {
		guess, err := ParseGuess("1122")

		require.NoError(t, err)
		assert.Equal(t, Guess{1, 1, 2, 2}, guess)
		assert.Equal(t, "1122", guess.String())
	})

	for _, raw := range []string{"", "123", "12345", "12a4", " 123", "-123"} {
		t.Run("Rejects "+raw, func(t *testing.T) {
			_, err := ParseGuess(raw)

			assert.ErrorIs(t, err, apperror.ErrInvalidGuess)
		})
	}
}

func TestEvaluate(t *testing.T) {
	t.Run("Two exact two present", func(t *testing.T) {
		// Given: secret 1234 and guess 1243
		secret := mustSecret(t, "1234")
		guess := mustGuess(t, "1243")

		// When: scoring
		score := Evaluate(guess, secret, Permissive)

		// Then: the result is 2A2B
		assert.Equal(t, Score{Exact: 2, Present: 2}, score)
		assert.Equal(t, "2A2B", score.String())
		assert.False(t, score.IsWin())
	})

	t.Run("Permissive counts repeated digits independently", func(t *testing.T) {
		// Given: secret 1234 and a guess with repeated digits
		secret := mustSecret(t, "1234")
		guess := mustGuess(t, "1122")

		// When: scoring permissively
		score := Evaluate(guess, secret, Permissive)

		// Then: every non-exact digit that occurs in the secret is present
		assert.Equal(t, "1A3B", score.String())
	})

	t.Run("Strict consumes secret digits once", func(t *testing.T) {
		// Given: the same secret and guess
		secret := mustSecret(t, "1234")
		guess := mustGuess(t, "1122")

		// When: scoring strictly
		score := Evaluate(guess, secret, Strict)

		// Then: the second 2 finds no unmatched 2 left in the secret
		assert.Equal(t, "1A1B", score.String())
	})

	t.Run("Exact match wins under both policies", func(t *testing.T) {
		secret := mustSecret(t, "9053")
		guess := mustGuess(t, "9053")

		for _, policy := range []Policy{Permissive, Strict} {
			score := Evaluate(guess, secret, policy)

			assert.Equal(t, "4A0B", score.String())
			assert.True(t, score.IsWin())
		}
	})

	t.Run("No common digits", func(t *testing.T) {
		score := Evaluate(mustGuess(t, "5678"), mustSecret(t, "1234"), Permissive)

		assert.Equal(t, "0A0B", score.String())
	})
}

func TestEvaluate_Bounds(t *testing.T) {
	// Given: a seeded source of secrets and guesses
	rnd := rand.New(rand.NewPCG(7, 8))

	for n := 0; n < 5000; n++ {
		secret := NewSecret(rnd)

		var guess Guess
		for i := range guess {
			guess[i] = byte(rnd.IntN(10))
		}

		// When: scoring under both policies
		permissive := Evaluate(guess, secret, Permissive)
		strict := Evaluate(guess, secret, Strict)

		// Then: counters stay within range and a win means positional equality
		for _, score := range []Score{permissive, strict} {
			require.GreaterOrEqual(t, score.Exact, 0)
			require.LessOrEqual(t, score.Exact, Length)
			require.GreaterOrEqual(t, score.Present, 0)
			require.LessOrEqual(t, score.Present, Length)
			require.Equal(t, Guess(secret) == guess, score.IsWin())
		}

		require.LessOrEqual(t, strict.Exact+strict.Present, Length)
		require.Equal(t, permissive.Exact, strict.Exact)
		require.GreaterOrEqual(t, permissive.Present, strict.Present)
	}
}

func TestParsePolicy(t *testing.T) {
	policy, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, Permissive, policy)

	policy, err = ParsePolicy("strict")
	require.NoError(t, err)
	assert.Equal(t, Strict, policy)

	_, err = ParsePolicy("lenient")
	assert.ErrorIs(t, err, ErrUnknownPolicy)
}

func TestDealer(t *testing.T) {
	// Given: a seeded dealer
	dealer := NewSeededDealer(Strict, rand.New(rand.NewPCG(5, 6)))

	// When: dealing first turns for two players
	for n := 0; n < 100; n++ {
		turn := dealer.FirstTurn(2)

		// Then: the index is always a valid member index
		require.Contains(t, []int{0, 1}, turn)
	}

	// And: the configured policy is applied
	assert.Equal(t, "1A1B", dealer.Score(mustGuess(t, "1122"), mustSecret(t, "1234")).String())
}
