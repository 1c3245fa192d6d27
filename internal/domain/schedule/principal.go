// Package schedule implements the amortization schedule engine: ledger
// replay of outstanding principal, the segmented period interest walk, the
// four interest-type policies, the auto-extend duration policy and the row
// generator that ties them together. Everything here is pure arithmetic
// over explicit inputs; persistence and locking live in the use case layer.
package schedule

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/awhitwam/whit-lend-sub010/internal/domain/model"
)

// dateOnly strips the time-of-day component. All date comparisons in the
// engine happen at day granularity in UTC.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween counts whole days from a to b. Both arguments must already be
// day-truncated.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}

// firstOfMonth returns the first day of t's calendar month.
func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// PrincipalAt derives the outstanding principal as of date by replaying the
// capital transactions dated strictly before it: disbursements add, a
// repayment subtracts its principal component. The result is floored at
// zero. The ledger is the source of truth; no stored running total is
// consulted.
//
// Soft-deleted transactions are skipped so that corrected postings drop out
// of the replay.
func PrincipalAt(original decimal.Decimal, transactions []model.Transaction, date time.Time) decimal.Decimal {
	cutoff := dateOnly(date)
	principal := original
	for _, txn := range transactions {
		if txn.IsDeleted() || !txn.IsCapital() {
			continue
		}
		if !dateOnly(txn.EffectiveDate()).Before(cutoff) {
			continue
		}
		principal = principal.Add(txn.CapitalDelta())
	}
	if principal.IsNegative() {
		return decimal.Zero
	}
	return principal
}
