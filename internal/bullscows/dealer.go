package bullscows

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Dealer owns the per-process randomness used to start rounds and the scoring policy.
type Dealer struct {
	mu     sync.Mutex
	rnd    *rand.Rand
	policy Policy
}

func NewDealer(policy Policy) *Dealer {
	seed := uint64(time.Now().UnixNano())
	return NewSeededDealer(policy, rand.New(rand.NewPCG(seed, seed>>1))) //nolint: gosec // game randomness, not crypto
}

// NewSeededDealer is used by tests to get reproducible rounds.
func NewSeededDealer(policy Policy, rnd *rand.Rand) *Dealer {
	return &Dealer{
		rnd:    rnd,
		policy: policy,
	}
}

func (that *Dealer) Secret() Secret {
	that.mu.Lock()
	defer that.mu.Unlock()

	return NewSecret(that.rnd)
}

// FirstTurn - picks the index of the member who guesses first.
func (that *Dealer) FirstTurn(members int) int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.rnd.IntN(members)
}

func (that *Dealer) Score(guess Guess, secret Secret) Score {
	return Evaluate(guess, secret, that.policy)
}
