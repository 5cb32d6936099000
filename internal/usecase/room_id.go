package usecase

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const roomIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// IDGenerator returns a candidate room id. The manager retries on collision.
type IDGenerator func() (string, error)

// NewRoomIDGenerator - short lowercase base-36 ids, enough for a process-local namespace.
func NewRoomIDGenerator(length int) IDGenerator {
	return func() (string, error) {
		out := make([]byte, length)
		limit := big.NewInt(int64(len(roomIDAlphabet)))

		for i := range out {
			n, err := rand.Int(rand.Reader, limit)
			if err != nil {
				return "", fmt.Errorf("failed to read random bytes: %w", err)
			}
			out[i] = roomIDAlphabet[n.Int64()]
		}

		return string(out), nil
	}
}
