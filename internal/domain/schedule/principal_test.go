package schedule

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awhitwam/whit-lend-sub010/internal/domain/model"
	"github.com/awhitwam/whit-lend-sub010/internal/domain/valueobject"
	"github.com/awhitwam/whit-lend-sub010/pkg/testutil"
)

func mustTxn(t *testing.T, txType valueobject.TransactionType, amount, principalApplied float64, date time.Time) model.Transaction {
	t.Helper()
	txn, err := model.NewTransaction(
		testutil.TestTenantID, testutil.TestLoanID,
		txType,
		decimal.NewFromFloat(amount),
		decimal.NewFromFloat(principalApplied),
		decimal.Zero,
		date, "", date,
	)
	require.NoError(t, err)
	return txn
}

func TestPrincipalAtReplaysLedger(t *testing.T) {
	original := decimal.NewFromInt(10000)
	txns := []model.Transaction{
		mustTxn(t, valueobject.TransactionTypeDisbursement, 2000, 0, testutil.Date(2024, 2, 10)),
		mustTxn(t, valueobject.TransactionTypeRepayment, 3500, 3000, testutil.Date(2024, 3, 5)),
	}

	// Before any transaction.
	got := PrincipalAt(original, txns, testutil.Date(2024, 2, 1))
	assert.True(t, got.Equal(decimal.NewFromInt(10000)))

	// Transactions dated on the query date are excluded; the comparison is
	// strictly before.
	got = PrincipalAt(original, txns, testutil.Date(2024, 2, 10))
	assert.True(t, got.Equal(decimal.NewFromInt(10000)))

	got = PrincipalAt(original, txns, testutil.Date(2024, 2, 11))
	assert.True(t, got.Equal(decimal.NewFromInt(12000)))

	// Only the principal component of a repayment reduces the balance.
	got = PrincipalAt(original, txns, testutil.Date(2024, 3, 6))
	assert.True(t, got.Equal(decimal.NewFromInt(9000)))
}

func TestPrincipalAtDayGranularity(t *testing.T) {
	original := decimal.NewFromInt(1000)
	txn := mustTxn(t, valueobject.TransactionTypeRepayment, 400, 400, time.Date(2024, 3, 5, 23, 30, 0, 0, time.UTC))

	got := PrincipalAt(original, []model.Transaction{txn}, time.Date(2024, 3, 6, 0, 1, 0, 0, time.UTC))
	assert.True(t, got.Equal(decimal.NewFromInt(600)), "time of day is stripped before comparing")
}

func TestPrincipalAtFlooredAtZero(t *testing.T) {
	original := decimal.NewFromInt(1000)
	txns := []model.Transaction{
		mustTxn(t, valueobject.TransactionTypeRepayment, 1500, 1500, testutil.Date(2024, 2, 1)),
	}
	got := PrincipalAt(original, txns, testutil.Date(2024, 3, 1))
	assert.True(t, got.IsZero())
}

func TestPrincipalAtSkipsDeletedAndNonCapital(t *testing.T) {
	original := decimal.NewFromInt(1000)

	deleted, err := mustTxn(t, valueobject.TransactionTypeRepayment, 500, 500, testutil.Date(2024, 2, 1)).
		Delete(testutil.Date(2024, 2, 2))
	require.NoError(t, err)

	fee := mustTxn(t, valueobject.TransactionTypeFee, 50, 0, testutil.Date(2024, 2, 1))

	got := PrincipalAt(original, []model.Transaction{deleted, fee}, testutil.Date(2024, 3, 1))
	assert.True(t, got.Equal(decimal.NewFromInt(1000)))
}
