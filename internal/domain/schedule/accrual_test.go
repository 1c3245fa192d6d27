package schedule

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/awhitwam/whit-lend-sub010/pkg/testutil"
)

func TestAccruePeriodSingleSegment(t *testing.T) {
	// April 2024, 30 days, 10% p.a. on 5000.
	basis := accrualBasis{dailyRate: DailyRate(decimal.NewFromInt(10))}
	got := accruePeriod(basis, testutil.Date(2024, 4, 1), testutil.Date(2024, 5, 1), decimal.NewFromInt(5000), nil)

	want := decimal.NewFromInt(5000).Mul(basis.dailyRate).Mul(decimal.NewFromInt(30))
	testutil.AssertDecimalEqual(t, want, got.interest)
	assert.True(t, got.days.Equal(decimal.NewFromInt(30)))
	assert.True(t, got.endPrincipal.Equal(decimal.NewFromInt(5000)))
}

func TestAccruePeriodSegmentWalk(t *testing.T) {
	// 5000 outstanding at period start, 2000 principal repaid on day 15 of
	// a 30-day period at 10% p.a.: 14 days on 5000, then 16 days on 3000.
	rate := DailyRate(decimal.NewFromInt(10))
	basis := accrualBasis{dailyRate: rate}
	capital := []Event{{
		Date:   testutil.Date(2024, 4, 15),
		Kind:   EventCapitalRepayment,
		Amount: decimal.NewFromInt(-2000),
	}}

	got := accruePeriod(basis, testutil.Date(2024, 4, 1), testutil.Date(2024, 5, 1), decimal.NewFromInt(5000), capital)

	want := decimal.NewFromInt(5000).Mul(rate).Mul(decimal.NewFromInt(14)).
		Add(decimal.NewFromInt(3000).Mul(rate).Mul(decimal.NewFromInt(16)))
	testutil.AssertDecimalEqual(t, want, got.interest)
	assert.True(t, got.endPrincipal.Equal(decimal.NewFromInt(3000)))
}

func TestAccruePeriodClampsNegativePrincipal(t *testing.T) {
	rate := DailyRate(decimal.NewFromInt(10))
	basis := accrualBasis{dailyRate: rate}
	capital := []Event{{
		Date:   testutil.Date(2024, 4, 11),
		Kind:   EventCapitalRepayment,
		Amount: decimal.NewFromInt(-2000),
	}}

	got := accruePeriod(basis, testutil.Date(2024, 4, 1), testutil.Date(2024, 5, 1), decimal.NewFromInt(1000), capital)

	// Overpayment floors the walked principal, so the tail segment accrues
	// nothing.
	want := decimal.NewFromInt(1000).Mul(rate).Mul(decimal.NewFromInt(10))
	testutil.AssertDecimalEqual(t, want, got.interest)
	assert.True(t, got.endPrincipal.IsZero())
}

func TestAccruePeriodFlatBaseIgnoresEvents(t *testing.T) {
	rate := DailyRate(decimal.NewFromInt(12))
	original := decimal.NewFromInt(10000)
	basis := accrualBasis{dailyRate: rate, flatPrincipal: &original}
	capital := []Event{{
		Date:   testutil.Date(2024, 4, 15),
		Kind:   EventCapitalRepayment,
		Amount: decimal.NewFromInt(-9000),
	}}

	got := accruePeriod(basis, testutil.Date(2024, 4, 1), testutil.Date(2024, 5, 1), decimal.NewFromInt(10000), capital)

	want := original.Mul(rate).Mul(decimal.NewFromInt(30))
	testutil.AssertDecimalEqual(t, want, got.interest)
}

func TestAccruePeriodFixedDays(t *testing.T) {
	// A 31-day January charged on the normalized 365/12 basis.
	rate := DailyRate(decimal.NewFromInt(12))
	fixed := normalizedMonthDays
	basis := accrualBasis{dailyRate: rate, fixedDays: &fixed}

	got := accruePeriod(basis, testutil.Date(2024, 1, 1), testutil.Date(2024, 2, 1), decimal.NewFromInt(10000), nil)

	// 10000 * 0.12/365 * 365/12 = 100 exactly.
	testutil.AssertDecimalWithin(t, decimal.NewFromInt(100), got.interest, decimal.NewFromFloat(0.0000001))
	assert.True(t, got.days.Equal(fixed))
}

func TestAccruePeriodFixedDaysProratesSegments(t *testing.T) {
	// Mid-period repayment under the fixed basis: segments carry
	// fixedDays/actualDays weight per calendar day so the period still
	// charges 365/12 days in total.
	rate := DailyRate(decimal.NewFromInt(12))
	fixed := normalizedMonthDays
	basis := accrualBasis{dailyRate: rate, fixedDays: &fixed}
	capital := []Event{{
		Date:   testutil.Date(2024, 4, 16),
		Kind:   EventCapitalRepayment,
		Amount: decimal.NewFromInt(-5000),
	}}

	got := accruePeriod(basis, testutil.Date(2024, 4, 1), testutil.Date(2024, 5, 1), decimal.NewFromInt(10000), capital)

	weight := fixed.Div(decimal.NewFromInt(30))
	want := decimal.NewFromInt(10000).Mul(rate).Mul(decimal.NewFromInt(15).Mul(weight)).
		Add(decimal.NewFromInt(5000).Mul(rate).Mul(decimal.NewFromInt(15).Mul(weight)))
	testutil.AssertDecimalWithin(t, want, got.interest, decimal.NewFromFloat(0.0000001))
}
