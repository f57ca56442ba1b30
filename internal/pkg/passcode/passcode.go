// Package passcode generates short numeric one-time codes.
package passcode

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Length is the number of digits in a generated passcode.
const Length = 6

var maxExclusive = big.NewInt(1000000)

// Generator produces one-time passcodes.
type Generator interface {
	Generate() (string, error)
}

// Numeric generates uniformly random 6-digit codes, zero-padded.
type Numeric struct{}

// NewNumeric returns a Numeric passcode generator.
func NewNumeric() *Numeric {
	return &Numeric{}
}

// Generate returns a new 6-digit code in the range 000000-999999.
func (Numeric) Generate() (string, error) {
	n, err := rand.Int(rand.Reader, maxExclusive)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%06d", n.Int64()), nil
}
