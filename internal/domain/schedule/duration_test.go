package schedule

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/awhitwam/whit-lend-sub010/internal/domain/valueobject"
	"github.com/awhitwam/whit-lend-sub010/pkg/testutil"
)

func TestResolveDurationOverrideIsVerbatim(t *testing.T) {
	got := ResolveDuration(DurationInput{
		Current:      12,
		Original:     12,
		AutoExtend:   true,
		InterestType: valueobject.InterestTypeReducing,
		Period:       valueobject.BillingPeriodMonthly,
		StartDate:    testutil.Date(2022, 1, 1),
		Outstanding:  decimal.NewFromInt(5000),
		Now:          testutil.Date(2024, 1, 1),
		Override:     4,
	})
	assert.Equal(t, 4, got, "an explicit override may shorten and is never extended")
}

func TestResolveDurationSettledLoanKeepsCurrent(t *testing.T) {
	got := ResolveDuration(DurationInput{
		Current:      12,
		Original:     12,
		InterestType: valueobject.InterestTypeReducing,
		Period:       valueobject.BillingPeriodMonthly,
		StartDate:    testutil.Date(2020, 1, 1),
		Outstanding:  decimal.NewFromFloat(0.01),
		Now:          testutil.Date(2024, 1, 1),
	})
	assert.Equal(t, 12, got, "a penny or less outstanding does not extend")
}

func TestResolveDurationExtendsWhileCarrying(t *testing.T) {
	// 400 days after start with principal outstanding: ceil(400/30.44)=14
	// elapsed periods plus the amortizing pad of 3.
	got := ResolveDuration(DurationInput{
		Current:      6,
		Original:     6,
		AutoExtend:   true,
		InterestType: valueobject.InterestTypeReducing,
		Period:       valueobject.BillingPeriodMonthly,
		StartDate:    testutil.Date(2023, 1, 1),
		Outstanding:  decimal.NewFromInt(4000),
		Now:          testutil.Date(2023, 1, 1).AddDate(0, 0, 400),
	})
	assert.Equal(t, 17, got)
	assert.Greater(t, got, 6)
}

func TestResolveDurationBalloonPad(t *testing.T) {
	in := DurationInput{
		Current:      6,
		Original:     6,
		InterestType: valueobject.InterestTypeInterestOnly,
		Period:       valueobject.BillingPeriodMonthly,
		StartDate:    testutil.Date(2023, 1, 1),
		Outstanding:  decimal.NewFromInt(4000),
		Now:          testutil.Date(2023, 1, 1).AddDate(0, 0, 400),
	}
	assert.Equal(t, 20, ResolveDuration(in), "balloon types pad by 6 periods")
}

func TestResolveDurationWeekly(t *testing.T) {
	got := ResolveDuration(DurationInput{
		Current:      8,
		Original:     8,
		InterestType: valueobject.InterestTypeReducing,
		Period:       valueobject.BillingPeriodWeekly,
		StartDate:    testutil.Date(2024, 1, 1),
		Outstanding:  decimal.NewFromInt(500),
		Now:          testutil.Date(2024, 1, 1).AddDate(0, 0, 100),
	})
	// ceil(100/7)=15 elapsed weeks + 3.
	assert.Equal(t, 18, got)
}

func TestResolveDurationEndDate(t *testing.T) {
	end := testutil.Date(2025, 1, 1)
	got := ResolveDuration(DurationInput{
		Current:      12,
		Original:     12,
		InterestType: valueobject.InterestTypeReducing,
		Period:       valueobject.BillingPeriodMonthly,
		StartDate:    testutil.Date(2024, 1, 1),
		Outstanding:  decimal.Zero,
		Now:          testutil.Date(2024, 2, 1),
		EndDate:      &end,
	})
	// 366 days to cover: ceil(366/30.44)=13.
	assert.Equal(t, 13, got)
}

func TestResolveDurationMonotonic(t *testing.T) {
	in := DurationInput{
		Current:      24,
		Original:     12,
		AutoExtend:   true,
		InterestType: valueobject.InterestTypeReducing,
		Period:       valueobject.BillingPeriodMonthly,
		StartDate:    testutil.Date(2024, 1, 1),
		Outstanding:  decimal.NewFromInt(100),
		Now:          testutil.Date(2024, 3, 1),
	}
	assert.Equal(t, 24, ResolveDuration(in), "never drops below the current duration")
}

func TestResolveDurationAutoExtendFloorsAtOriginal(t *testing.T) {
	got := ResolveDuration(DurationInput{
		Current:      3,
		Original:     12,
		AutoExtend:   true,
		InterestType: valueobject.InterestTypeReducing,
		Period:       valueobject.BillingPeriodMonthly,
		StartDate:    testutil.Date(2024, 1, 1),
		Outstanding:  decimal.Zero,
		Now:          testutil.Date(2024, 1, 15),
	})
	assert.Equal(t, 12, got)
}
