package testutil

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// AssertDecimalEqual fails the test when want and got differ, printing both
// in fixed-point form to make off-by-a-penny failures readable.
func AssertDecimalEqual(t *testing.T, want, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, want.Equal(got),
		"want %s, got %s %v", want.StringFixed(2), got.StringFixed(2), msgAndArgs)
}

// AssertDecimalWithin fails the test when got differs from want by more than tol.
func AssertDecimalWithin(t *testing.T, want, got, tol decimal.Decimal) {
	t.Helper()
	diff := want.Sub(got).Abs()
	assert.True(t, diff.LessThanOrEqual(tol),
		"want %s ± %s, got %s (diff %s)", want.StringFixed(2), tol.String(), got.StringFixed(2), diff.String())
}
