package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/awhitwam/whit-lend-sub010/internal/domain/valueobject"
)

// ScheduleRow is an immutable value object representing one installment in a
// repayment schedule. Rows are written as a full replacement set on every
// regeneration, so there are no in-place mutators.
type ScheduleRow struct {
	ID          uuid.UUID
	LoanID      uuid.UUID
	Installment int
	DueDate     time.Time

	PrincipalAmount decimal.Decimal
	InterestAmount  decimal.Decimal
	TotalDue        decimal.Decimal

	// Balance is the ledger-derived outstanding principal at the end of the
	// period, independent of the scheduled amortization.
	Balance decimal.Decimal

	// CalculationDays is the day weight the period's interest was accrued
	// over. Fractional under the normalized-month basis.
	CalculationDays decimal.Decimal

	// CalculationPrincipalStart is the principal the accrual started from at
	// the beginning of the period.
	CalculationPrincipalStart decimal.Decimal

	Status        valueobject.RowStatus
	PrincipalPaid decimal.Decimal
	InterestPaid  decimal.Decimal
}

// NewScheduleRow builds a pending row with a fresh identifier.
func NewScheduleRow(
	loanID uuid.UUID,
	installment int,
	dueDate time.Time,
	principalAmount, interestAmount, balance decimal.Decimal,
	calculationDays, calculationPrincipalStart decimal.Decimal,
) ScheduleRow {
	return ScheduleRow{
		ID:                        uuid.New(),
		LoanID:                    loanID,
		Installment:               installment,
		DueDate:                   dueDate,
		PrincipalAmount:           principalAmount,
		InterestAmount:            interestAmount,
		TotalDue:                  principalAmount.Add(interestAmount),
		Balance:                   balance,
		CalculationDays:           calculationDays,
		CalculationPrincipalStart: calculationPrincipalStart,
		Status:                    valueobject.RowStatusPending,
		PrincipalPaid:             decimal.Zero,
		InterestPaid:              decimal.Zero,
	}
}
