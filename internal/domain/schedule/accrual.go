package schedule

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	daysPerYear = decimal.NewFromInt(365)
	// normalizedMonthDays is the fixed day count charged per monthly period
	// under the monthly-fixed calculation method, 365/12.
	normalizedMonthDays = decimal.NewFromInt(365).Div(decimal.NewFromInt(12))
)

// DailyRate converts an annual percentage rate to a decimal per-day rate on
// an actual/365 basis.
func DailyRate(annualRatePct decimal.Decimal) decimal.Decimal {
	return annualRatePct.Div(decimal.NewFromInt(100)).Div(daysPerYear)
}

// accrualBasis carries the per-loan knobs of the interest walk.
type accrualBasis struct {
	dailyRate decimal.Decimal
	// flatPrincipal, when set, pins every segment's base to the original
	// principal so repayments never reduce the charge.
	flatPrincipal *decimal.Decimal
	// fixedDays, when set, replaces the calendar day count of the period
	// with a normalized weight, pro-rated across segments by actual days.
	fixedDays *decimal.Decimal
}

// periodAccrual is the outcome of one period's segment walk.
type periodAccrual struct {
	// interest is unrounded; rounding happens only at the row boundary.
	interest decimal.Decimal
	// days is the total day weight the interest was accrued over.
	days decimal.Decimal
	// endPrincipal is the walked principal after every capital event in the
	// period, floored at zero.
	endPrincipal decimal.Decimal
}

// accruePeriod walks the period [start, end) segment by segment. Each
// capital event closes the running segment, accrues interest on it and
// steps the principal by the event's signed amount. The final segment runs
// to the period end.
func accruePeriod(
	basis accrualBasis,
	start, end time.Time,
	startPrincipal decimal.Decimal,
	capital []Event,
) periodAccrual {
	actualDays := decimal.NewFromInt(int64(daysBetween(start, end)))

	// Weight per calendar day. Under a fixed day count the period charges
	// fixedDays in total, so each calendar day carries fixedDays/actual.
	dayWeight := decimal.NewFromInt(1)
	totalDays := actualDays
	if basis.fixedDays != nil && actualDays.IsPositive() {
		dayWeight = basis.fixedDays.Div(actualDays)
		totalDays = *basis.fixedDays
	}

	interest := decimal.Zero
	principal := startPrincipal
	segmentStart := start

	accrue := func(until time.Time) {
		segDays := decimal.NewFromInt(int64(daysBetween(segmentStart, until)))
		if !segDays.IsPositive() {
			return
		}
		base := principal
		if basis.flatPrincipal != nil {
			base = *basis.flatPrincipal
		}
		interest = interest.Add(base.Mul(basis.dailyRate).Mul(segDays.Mul(dayWeight)))
	}

	for _, ev := range capital {
		accrue(ev.Date)
		segmentStart = ev.Date
		principal = principal.Add(ev.Amount)
		if principal.IsNegative() {
			principal = decimal.Zero
		}
	}
	accrue(end)

	return periodAccrual{
		interest:     interest,
		days:         totalDays,
		endPrincipal: principal,
	}
}
