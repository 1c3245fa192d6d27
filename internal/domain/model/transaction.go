package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/awhitwam/whit-lend-sub010/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Transaction aggregate
// ---------------------------------------------------------------------------

// Transaction is a ledger posting against a loan. Transactions are
// append-only; a correction soft-deletes the original rather than editing
// it, so replay stays deterministic.
type Transaction struct {
	id               uuid.UUID
	tenantID         uuid.UUID
	loanID           uuid.UUID
	txType           valueobject.TransactionType
	amount           decimal.Decimal
	principalApplied decimal.Decimal
	interestApplied  decimal.Decimal
	effectiveDate    time.Time
	reference        string
	deletedAt        *time.Time
	createdAt        time.Time
}

// NewTransaction records a ledger posting. For repayments the split of the
// amount into principal and interest is decided by the caller; replay only
// trusts principalApplied.
func NewTransaction(
	tenantID, loanID uuid.UUID,
	txType valueobject.TransactionType,
	amount, principalApplied, interestApplied decimal.Decimal,
	effectiveDate time.Time,
	reference string,
	now time.Time,
) (Transaction, error) {
	if tenantID == uuid.Nil {
		return Transaction{}, errors.New("tenant ID is required")
	}
	if loanID == uuid.Nil {
		return Transaction{}, errors.New("loan ID is required")
	}
	if txType.IsZero() {
		return Transaction{}, errors.New("transaction type is required")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return Transaction{}, errors.New("amount must be positive")
	}
	if principalApplied.IsNegative() || interestApplied.IsNegative() {
		return Transaction{}, errors.New("applied amounts must not be negative")
	}
	if txType.IsRepayment() && principalApplied.Add(interestApplied).GreaterThan(amount) {
		return Transaction{}, errors.New("applied amounts exceed the transaction amount")
	}
	if effectiveDate.IsZero() {
		return Transaction{}, errors.New("effective date is required")
	}

	return Transaction{
		id:               uuid.New(),
		tenantID:         tenantID,
		loanID:           loanID,
		txType:           txType,
		amount:           amount,
		principalApplied: principalApplied,
		interestApplied:  interestApplied,
		effectiveDate:    effectiveDate,
		reference:        reference,
		createdAt:        now,
	}, nil
}

// ReconstructTransaction rebuilds a Transaction from persistence.
func ReconstructTransaction(
	id, tenantID, loanID uuid.UUID,
	txType valueobject.TransactionType,
	amount, principalApplied, interestApplied decimal.Decimal,
	effectiveDate time.Time,
	reference string,
	deletedAt *time.Time,
	createdAt time.Time,
) Transaction {
	return Transaction{
		id:               id,
		tenantID:         tenantID,
		loanID:           loanID,
		txType:           txType,
		amount:           amount,
		principalApplied: principalApplied,
		interestApplied:  interestApplied,
		effectiveDate:    effectiveDate,
		reference:        reference,
		deletedAt:        deletedAt,
		createdAt:        createdAt,
	}
}

// Delete soft-deletes the transaction. Deleted transactions are excluded
// from replay on the next regeneration.
func (t Transaction) Delete(now time.Time) (Transaction, error) {
	if t.deletedAt != nil {
		return t, errors.New("transaction is already deleted")
	}
	next := t
	next.deletedAt = &now
	return next, nil
}

// IsCapital reports whether the transaction moves principal.
func (t Transaction) IsCapital() bool {
	return t.txType.IsCapital()
}

// CapitalDelta is the signed principal movement: the full amount for a
// disbursement, the negated principal portion for a repayment, zero for
// anything else.
func (t Transaction) CapitalDelta() decimal.Decimal {
	switch {
	case t.txType.IsDisbursement():
		return t.amount
	case t.txType.IsRepayment():
		return t.principalApplied.Neg()
	default:
		return decimal.Zero
	}
}

func (t Transaction) ID() uuid.UUID                         { return t.id }
func (t Transaction) TenantID() uuid.UUID                   { return t.tenantID }
func (t Transaction) LoanID() uuid.UUID                     { return t.loanID }
func (t Transaction) Type() valueobject.TransactionType     { return t.txType }
func (t Transaction) Amount() decimal.Decimal               { return t.amount }
func (t Transaction) PrincipalApplied() decimal.Decimal     { return t.principalApplied }
func (t Transaction) InterestApplied() decimal.Decimal      { return t.interestApplied }
func (t Transaction) EffectiveDate() time.Time              { return t.effectiveDate }
func (t Transaction) Reference() string                     { return t.reference }
func (t Transaction) DeletedAt() *time.Time                 { return t.deletedAt }
func (t Transaction) IsDeleted() bool                       { return t.deletedAt != nil }
func (t Transaction) CreatedAt() time.Time                  { return t.createdAt }
