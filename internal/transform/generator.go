package transform

import (
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/tamathecxder/randomail"
)

// Generator is the source of every random choice the transformer makes.
// Tests inject a scripted implementation to assert exact output.
type Generator interface {
	// IntN returns a value in [0, n).
	IntN(n int) int
	// Float64 returns a value in [0.0, 1.0).
	Float64() float64
	// ID returns a token used to build locally unique entry identifiers.
	ID() string
	// Email returns a syntactically valid placeholder email address.
	Email() string
}

// RandGenerator is the production Generator.
type RandGenerator struct{}

func NewRandGenerator() *RandGenerator {
	return &RandGenerator{}
}

func (RandGenerator) IntN(n int) int {
	return rand.IntN(n) //nolint:gosec // mock data, not security sensitive
}

func (RandGenerator) Float64() float64 {
	return rand.Float64() //nolint:gosec // mock data, not security sensitive
}

func (RandGenerator) ID() string {
	return uuid.NewString()
}

func (RandGenerator) Email() string {
	return randomail.GenerateRandomEmail()
}

// IntBetween returns a value in [lo, hi] drawn from gen.
func IntBetween(gen Generator, lo, hi int) int {
	if hi <= lo {
		return lo
	}

	return lo + gen.IntN(hi-lo+1)
}
