// Package labcode issues the short share codes students use to join a lab.
package labcode

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Defaults for Allocate
const (
	DefaultLength      = 6
	DefaultMaxAttempts = 10
)

// ErrExhausted means every attempt collided with an existing code
var ErrExhausted = errors.New("failed to generate unique lab code after multiple attempts")

// Checker reports whether a lab code is already taken
type Checker interface {
	CodeExists(ctx context.Context, code string) (bool, error)
}

// Generate returns a random uppercase-alphanumeric code of the given length
func Generate(length int) (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = alphabet[n.Int64()]
	}
	return string(code), nil
}

// Allocate generates codes until one is free or maxAttempts are exhausted.
// Once half the attempts have failed, each further attempt uses a longer
// code; the escalation never resets. The read check is only an optimization:
// the lab_code unique key is what actually prevents a concurrent duplicate.
func Allocate(ctx context.Context, checker Checker, length, maxAttempts int) (string, error) {
	for attempts := 0; attempts < maxAttempts; attempts++ {
		code, err := Generate(length)
		if err != nil {
			return "", err
		}

		taken, err := checker.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}

		if attempts+1 >= maxAttempts/2 {
			length++
		}
	}
	return "", ErrExhausted
}
