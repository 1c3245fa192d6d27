package schedule

import (
	"github.com/shopspring/decimal"

	"github.com/awhitwam/whit-lend-sub010/internal/domain/valueobject"
)

// policyContext is everything a policy may consult when deciding the
// principal portion of one row.
type policyContext struct {
	period        int
	duration      int
	periodRate    decimal.Decimal
	// startPrincipal is the scheduled running principal at the start of the
	// period, after prior rows' principal and mid-period capital events.
	startPrincipal decimal.Decimal
	// interest is the period's accrued interest, unrounded.
	interest decimal.Decimal
	// ledgerEndPrincipal is the ledger-replayed principal at the period end,
	// used for balloon settlement.
	ledgerEndPrincipal decimal.Decimal
}

func (c policyContext) isFinal() bool { return c.period == c.duration }

// rowPolicy decides the principal due for one schedule row. The policy set
// is fixed and exhaustive; there is no runtime registration.
type rowPolicy interface {
	principalDue(c policyContext) decimal.Decimal
}

// policyFor maps an interest type to its policy.
func policyFor(t valueobject.InterestType) rowPolicy {
	switch {
	case t.Equal(valueobject.InterestTypeFlat):
		return flatPolicy{}
	case t.Equal(valueobject.InterestTypeReducing):
		return reducingPolicy{}
	default:
		// Interest-Only and Rolled-Up share the balloon shape; they differ
		// only in how interest is originated upstream.
		return balloonPolicy{}
	}
}

// flatPolicy never schedules principal. Flat-rate loans are interest-only
// by construction, with interest charged on the original principal.
type flatPolicy struct{}

func (flatPolicy) principalDue(policyContext) decimal.Decimal { return decimal.Zero }

// reducingPolicy is the amortizing annuity. The payment is recomputed each
// period from the current principal and the periods remaining, so mid-term
// capital events re-shape the tail instead of breaking the formula.
type reducingPolicy struct{}

func (reducingPolicy) principalDue(c policyContext) decimal.Decimal {
	if !c.startPrincipal.IsPositive() {
		return decimal.Zero
	}
	remaining := c.duration - c.period + 1
	if remaining < 1 {
		remaining = 1
	}

	var payment decimal.Decimal
	if c.periodRate.IsZero() {
		payment = c.startPrincipal.Div(decimal.NewFromInt(int64(remaining)))
	} else {
		// P * r * (1+r)^n / ((1+r)^n - 1)
		factor := decimal.NewFromInt(1).Add(c.periodRate).Pow(decimal.NewFromInt(int64(remaining)))
		payment = c.startPrincipal.Mul(c.periodRate).Mul(factor).Div(factor.Sub(decimal.NewFromInt(1)))
	}

	due := payment.Sub(c.interest)
	if due.IsNegative() {
		return decimal.Zero
	}
	if due.GreaterThan(c.startPrincipal) {
		return c.startPrincipal
	}
	return due
}

// balloonPolicy schedules no principal until the final period, which
// settles whatever the ledger says is still outstanding.
type balloonPolicy struct{}

func (balloonPolicy) principalDue(c policyContext) decimal.Decimal {
	if !c.isFinal() {
		return decimal.Zero
	}
	return c.ledgerEndPrincipal
}
