package schedule

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/awhitwam/whit-lend-sub010/internal/domain/model"
	"github.com/awhitwam/whit-lend-sub010/internal/domain/valueobject"
	"github.com/awhitwam/whit-lend-sub010/pkg/money"
)

// Input is everything the generator reads. It is a snapshot of loan terms
// plus the ordered, non-deleted transaction history; the generator never
// touches storage or ambient state.
type Input struct {
	LoanID        uuid.UUID
	Principal     decimal.Decimal
	StartDate     time.Time
	AnnualRatePct decimal.Decimal
	InterestType  valueobject.InterestType
	BillingPeriod valueobject.BillingPeriod
	Alignment     valueobject.InterestAlignment
	Method        valueobject.CalculationMethod
	Transactions  []model.Transaction
}

// Result is the full replacement row set plus the interest aggregate.
type Result struct {
	Rows          []model.ScheduleRow
	TotalInterest decimal.Decimal
}

var (
	ErrInvalidPrincipal = errors.New("principal must be positive")
	ErrInvalidDuration  = errors.New("duration must be positive")
)

// Generate computes the complete schedule for periodCount periods. The same
// input always yields the same rows, so regeneration can blindly replace
// whatever is persisted.
//
// Two principal figures run through the walk. The scheduled running
// principal steps down by each row's principal due as well as by mid-period
// capital events, and is the base the reducing annuity amortizes against.
// The ledger principal is replayed fresh at every boundary and is what the
// balance column and balloon settlements report, so displayed balances
// always match ledger truth even when the amortization is an estimate.
func Generate(in Input, periodCount int) (Result, error) {
	if !in.Principal.IsPositive() {
		return Result{}, ErrInvalidPrincipal
	}
	if periodCount <= 0 {
		return Result{}, ErrInvalidDuration
	}

	boundaries := PeriodBoundaries(in.StartDate, in.BillingPeriod, in.Alignment, periodCount)
	timeline := BuildTimeline(in.Transactions, boundaries)
	policy := policyFor(in.InterestType)
	dailyRate := DailyRate(in.AnnualRatePct)
	periodRate := periodicRate(in.AnnualRatePct, in.BillingPeriod)

	scheduled := PrincipalAt(in.Principal, in.Transactions, boundaries[0])

	// A monthly-first schedule opens with a stub covering start date to end
	// of month; that stub is always charged on its actual days.
	stubFirst := in.Alignment.IsMonthlyFirst() && in.BillingPeriod.IsMonthly() &&
		dateOnly(in.StartDate).Day() != 1

	rows := make([]model.ScheduleRow, 0, periodCount)
	totalInterest := decimal.Zero

	for i := 1; i <= periodCount; i++ {
		start, end := boundaries[i-1], boundaries[i]

		basis := accrualBasis{dailyRate: dailyRate}
		if in.InterestType.Equal(valueobject.InterestTypeFlat) {
			original := in.Principal
			basis.flatPrincipal = &original
		}
		if in.Method.IsMonthlyFixed() && in.BillingPeriod.IsMonthly() && !(i == 1 && stubFirst) {
			fixed := normalizedMonthDays
			basis.fixedDays = &fixed
		}

		accrued := accruePeriod(basis, start, end, scheduled, capitalInWindow(timeline, start, end))

		ledgerEnd := PrincipalAt(in.Principal, in.Transactions, end)
		due := policy.principalDue(policyContext{
			period:             i,
			duration:           periodCount,
			periodRate:         periodRate,
			startPrincipal:     scheduled,
			interest:           accrued.interest,
			ledgerEndPrincipal: ledgerEnd,
		})

		rows = append(rows, model.NewScheduleRow(
			in.LoanID,
			i,
			end,
			money.RoundCents(due),
			money.RoundCents(accrued.interest),
			money.RoundCents(ledgerEnd),
			accrued.days.Round(4),
			money.RoundCents(scheduled),
		))
		totalInterest = totalInterest.Add(money.RoundCents(accrued.interest))

		scheduled = accrued.endPrincipal.Sub(due)
		if scheduled.IsNegative() {
			scheduled = decimal.Zero
		}
	}

	return Result{Rows: rows, TotalInterest: totalInterest}, nil
}

// periodicRate converts the annual percentage rate to a per-period decimal
// rate for the annuity formula.
func periodicRate(annualRatePct decimal.Decimal, period valueobject.BillingPeriod) decimal.Decimal {
	periods := decimal.NewFromInt(52)
	if period.IsMonthly() {
		periods = decimal.NewFromInt(12)
	}
	return annualRatePct.Div(decimal.NewFromInt(100)).Div(periods)
}
