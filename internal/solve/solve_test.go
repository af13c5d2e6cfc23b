package solve_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tomascorrea/money-warp/internal/solve"
)

func TestBrentFindsKnownRoot(t *testing.T) {
	f := func(x float64) float64 { return x*x - 4 }
	root, err := solve.Brent(f, 0, 10, 1e-9)
	assert.NoError(t, err)
	assert.InDelta(t, 2.0, root, 1e-6)
}

func TestBrentRejectsNoSignChange(t *testing.T) {
	f := func(x float64) float64 { return x*x + 1 }
	_, err := solve.Brent(f, 0, 10, 1e-9)
	assert.Error(t, err)
}

func TestBracketExpandsUntilSignChange(t *testing.T) {
	f := func(x float64) float64 { return x - 50 }
	a, b, err := solve.Bracket(f, 0, 1, 20)
	assert.NoError(t, err)
	assert.True(t, a <= 50 && b >= 50)
}

func TestBracketGivesUpPastMaxExpansions(t *testing.T) {
	f := func(x float64) float64 { return math.Exp(x) + 1 }
	_, _, err := solve.Bracket(f, 0, 1, 3)
	assert.Error(t, err)
}
