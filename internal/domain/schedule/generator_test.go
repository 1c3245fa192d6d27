package schedule

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awhitwam/whit-lend-sub010/internal/domain/model"
	"github.com/awhitwam/whit-lend-sub010/internal/domain/valueobject"
	"github.com/awhitwam/whit-lend-sub010/pkg/testutil"
)

func reducingInput(method valueobject.CalculationMethod, txns []model.Transaction) Input {
	return Input{
		LoanID:        testutil.TestLoanID,
		Principal:     decimal.NewFromInt(10000),
		StartDate:     testutil.Date(2024, 1, 1),
		AnnualRatePct: decimal.NewFromInt(12),
		InterestType:  valueobject.InterestTypeReducing,
		BillingPeriod: valueobject.BillingPeriodMonthly,
		Alignment:     valueobject.InterestAlignmentStandard,
		Method:        method,
		Transactions:  txns,
	}
}

func TestGenerateReducingMonthlyFixed(t *testing.T) {
	res, err := Generate(reducingInput(valueobject.CalculationMethodMonthlyFixed, nil), 12)
	require.NoError(t, err)
	require.Len(t, res.Rows, 12)

	// 10000 * 0.12/365 * 365/12 = 100.00 exactly on the normalized basis.
	testutil.AssertDecimalEqual(t, decimal.NewFromFloat(100.00), res.Rows[0].InterestAmount)
	testutil.AssertDecimalEqual(t, decimal.NewFromFloat(788.49), res.Rows[0].PrincipalAmount)

	// Interest descends as the annuity retires principal.
	for i := 1; i < 12; i++ {
		assert.True(t, res.Rows[i].InterestAmount.LessThan(res.Rows[i-1].InterestAmount),
			"row %d interest should be below row %d", i+1, i)
	}

	// The rows amortize the whole principal.
	sum := decimal.Zero
	for _, row := range res.Rows {
		sum = sum.Add(row.PrincipalAmount)
	}
	testutil.AssertDecimalWithin(t, decimal.NewFromInt(10000), sum, decimal.NewFromFloat(0.10))

	// Installments are 1-based and contiguous; due dates step monthly.
	for i, row := range res.Rows {
		assert.Equal(t, i+1, row.Installment)
		assert.Equal(t, testutil.Date(2024, 1, 1).AddDate(0, i+1, 0), row.DueDate)
	}
}

func TestGenerateReducingDaily(t *testing.T) {
	res, err := Generate(reducingInput(valueobject.CalculationMethodDaily, nil), 12)
	require.NoError(t, err)
	require.Len(t, res.Rows, 12)

	// January has 31 days: 10000 * 0.12/365 * 31.
	testutil.AssertDecimalEqual(t, decimal.NewFromFloat(101.92), res.Rows[0].InterestAmount)

	sum := decimal.Zero
	for _, row := range res.Rows {
		sum = sum.Add(row.PrincipalAmount)
	}
	testutil.AssertDecimalWithin(t, decimal.NewFromInt(10000), sum, decimal.NewFromFloat(0.50))
}

func TestGenerateZeroRateReducing(t *testing.T) {
	in := reducingInput(valueobject.CalculationMethodDaily, nil)
	in.Principal = decimal.NewFromInt(1200)
	in.AnnualRatePct = decimal.Zero

	res, err := Generate(in, 12)
	require.NoError(t, err)

	for _, row := range res.Rows {
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(100), row.PrincipalAmount)
		assert.True(t, row.InterestAmount.IsZero())
	}
	assert.True(t, res.TotalInterest.IsZero())
}

func TestGenerateBalanceMatchesLedger(t *testing.T) {
	txns := []model.Transaction{
		mustTxn(t, valueobject.TransactionTypeRepayment, 3000, 3000, testutil.Date(2024, 3, 15)),
	}
	res, err := Generate(reducingInput(valueobject.CalculationMethodDaily, txns), 6)
	require.NoError(t, err)

	in := reducingInput(valueobject.CalculationMethodDaily, txns)
	for _, row := range res.Rows {
		want := PrincipalAt(in.Principal, txns, row.DueDate).Round(2)
		testutil.AssertDecimalEqual(t, want, row.Balance, "row", row.Installment)
		assert.False(t, row.Balance.IsNegative())
	}

	// Rows 1 and 2 close before the repayment, the rest after it.
	testutil.AssertDecimalEqual(t, decimal.NewFromInt(10000), res.Rows[0].Balance)
	testutil.AssertDecimalEqual(t, decimal.NewFromInt(10000), res.Rows[1].Balance)
	testutil.AssertDecimalEqual(t, decimal.NewFromInt(7000), res.Rows[2].Balance)
}

func TestGenerateFlatInvariant(t *testing.T) {
	txns := []model.Transaction{
		mustTxn(t, valueobject.TransactionTypeRepayment, 5000, 5000, testutil.Date(2024, 3, 15)),
	}
	in := reducingInput(valueobject.CalculationMethodDaily, txns)
	in.InterestType = valueobject.InterestTypeFlat

	res, err := Generate(in, 6)
	require.NoError(t, err)

	rate := DailyRate(decimal.NewFromInt(12))
	for i, row := range res.Rows {
		assert.True(t, row.PrincipalAmount.IsZero(), "flat rows never schedule principal")

		// Interest is always charged on the original principal regardless
		// of the repayment.
		days := decimal.NewFromInt(int64(daysBetween(
			testutil.Date(2024, 1, 1).AddDate(0, i, 0),
			testutil.Date(2024, 1, 1).AddDate(0, i+1, 0),
		)))
		want := decimal.NewFromInt(10000).Mul(rate).Mul(days).Round(2)
		testutil.AssertDecimalEqual(t, want, row.InterestAmount, "row", i+1)
	}

	// The balance column still tracks the ledger.
	testutil.AssertDecimalEqual(t, decimal.NewFromInt(5000), res.Rows[5].Balance)
}

func TestGenerateBalloonInvariant(t *testing.T) {
	txns := []model.Transaction{
		mustTxn(t, valueobject.TransactionTypeRepayment, 3000, 3000, testutil.Date(2024, 5, 20)),
	}
	for _, it := range []valueobject.InterestType{
		valueobject.InterestTypeInterestOnly,
		valueobject.InterestTypeRolledUp,
	} {
		in := reducingInput(valueobject.CalculationMethodDaily, txns)
		in.InterestType = it

		res, err := Generate(in, 12)
		require.NoError(t, err)
		require.Len(t, res.Rows, 12)

		for _, row := range res.Rows[:11] {
			assert.True(t, row.PrincipalAmount.IsZero(), "%s rows before the last", it)
		}
		// The balloon settles what the ledger says is outstanding.
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(7000), res.Rows[11].PrincipalAmount)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(7000), res.Rows[11].Balance)

		// Interest drops once the repayment lands.
		assert.True(t, res.Rows[5].InterestAmount.LessThan(res.Rows[3].InterestAmount))
	}
}

func TestGenerateMonthlyFirstStub(t *testing.T) {
	in := Input{
		LoanID:        testutil.TestLoanID,
		Principal:     decimal.NewFromInt(10000),
		StartDate:     testutil.Date(2024, 1, 15),
		AnnualRatePct: decimal.NewFromInt(12),
		InterestType:  valueobject.InterestTypeInterestOnly,
		BillingPeriod: valueobject.BillingPeriodMonthly,
		Alignment:     valueobject.InterestAlignmentMonthlyFirst,
		Method:        valueobject.CalculationMethodDaily,
	}

	res, err := Generate(in, 3)
	require.NoError(t, err)
	require.Len(t, res.Rows, 3)

	// Stub: 15 Jan to 1 Feb, 17 days pro-rated.
	assert.Equal(t, testutil.Date(2024, 2, 1), res.Rows[0].DueDate)
	testutil.AssertDecimalEqual(t, decimal.NewFromInt(17), res.Rows[0].CalculationDays)
	testutil.AssertDecimalEqual(t, decimal.NewFromFloat(55.89), res.Rows[0].InterestAmount)

	// Then calendar months: February 2024 has 29 days.
	assert.Equal(t, testutil.Date(2024, 3, 1), res.Rows[1].DueDate)
	testutil.AssertDecimalEqual(t, decimal.NewFromFloat(95.34), res.Rows[1].InterestAmount)
	assert.Equal(t, testutil.Date(2024, 4, 1), res.Rows[2].DueDate)
}

func TestGenerateMonthlyFirstStubKeepsActualDaysUnderFixedMethod(t *testing.T) {
	in := Input{
		LoanID:        testutil.TestLoanID,
		Principal:     decimal.NewFromInt(10000),
		StartDate:     testutil.Date(2024, 1, 15),
		AnnualRatePct: decimal.NewFromInt(12),
		InterestType:  valueobject.InterestTypeInterestOnly,
		BillingPeriod: valueobject.BillingPeriodMonthly,
		Alignment:     valueobject.InterestAlignmentMonthlyFirst,
		Method:        valueobject.CalculationMethodMonthlyFixed,
	}

	res, err := Generate(in, 3)
	require.NoError(t, err)

	// The stub is charged on actual days, later rows on the normalized month.
	testutil.AssertDecimalEqual(t, decimal.NewFromFloat(55.89), res.Rows[0].InterestAmount)
	testutil.AssertDecimalEqual(t, decimal.NewFromFloat(100.00), res.Rows[1].InterestAmount)
	testutil.AssertDecimalEqual(t, decimal.NewFromFloat(100.00), res.Rows[2].InterestAmount)
}

func TestGenerateSegmentWalkScenario(t *testing.T) {
	// 5000 at start, 2000 principal repaid on day 15 of a 30-day period at
	// 10% p.a.: interest = 5000*r*14 + 3000*r*16.
	txns := []model.Transaction{
		mustTxn(t, valueobject.TransactionTypeRepayment, 2000, 2000, testutil.Date(2024, 4, 15)),
	}
	in := Input{
		LoanID:        testutil.TestLoanID,
		Principal:     decimal.NewFromInt(5000),
		StartDate:     testutil.Date(2024, 4, 1),
		AnnualRatePct: decimal.NewFromInt(10),
		InterestType:  valueobject.InterestTypeReducing,
		BillingPeriod: valueobject.BillingPeriodMonthly,
		Alignment:     valueobject.InterestAlignmentStandard,
		Method:        valueobject.CalculationMethodDaily,
		Transactions:  txns,
	}

	res, err := Generate(in, 1)
	require.NoError(t, err)

	rate := DailyRate(decimal.NewFromInt(10))
	want := decimal.NewFromInt(5000).Mul(rate).Mul(decimal.NewFromInt(14)).
		Add(decimal.NewFromInt(3000).Mul(rate).Mul(decimal.NewFromInt(16))).Round(2)
	testutil.AssertDecimalEqual(t, want, res.Rows[0].InterestAmount)
}

func TestGenerateIdempotent(t *testing.T) {
	txns := []model.Transaction{
		mustTxn(t, valueobject.TransactionTypeDisbursement, 2000, 0, testutil.Date(2024, 2, 10)),
		mustTxn(t, valueobject.TransactionTypeRepayment, 3000, 2800, testutil.Date(2024, 4, 2)),
	}
	in := reducingInput(valueobject.CalculationMethodDaily, txns)

	first, err := Generate(in, 12)
	require.NoError(t, err)
	second, err := Generate(in, 12)
	require.NoError(t, err)

	require.Len(t, second.Rows, len(first.Rows))
	for i := range first.Rows {
		a, b := first.Rows[i], second.Rows[i]
		assert.Equal(t, a.Installment, b.Installment)
		assert.Equal(t, a.DueDate, b.DueDate)
		testutil.AssertDecimalEqual(t, a.PrincipalAmount, b.PrincipalAmount)
		testutil.AssertDecimalEqual(t, a.InterestAmount, b.InterestAmount)
		testutil.AssertDecimalEqual(t, a.TotalDue, b.TotalDue)
		testutil.AssertDecimalEqual(t, a.Balance, b.Balance)
		testutil.AssertDecimalEqual(t, a.CalculationDays, b.CalculationDays)
		testutil.AssertDecimalEqual(t, a.CalculationPrincipalStart, b.CalculationPrincipalStart)
	}
	testutil.AssertDecimalEqual(t, first.TotalInterest, second.TotalInterest)
}

func TestGenerateValidation(t *testing.T) {
	in := reducingInput(valueobject.CalculationMethodDaily, nil)

	_, err := Generate(in, 0)
	assert.ErrorIs(t, err, ErrInvalidDuration)

	in.Principal = decimal.Zero
	_, err = Generate(in, 12)
	assert.ErrorIs(t, err, ErrInvalidPrincipal)
}
