package valueobject

import "fmt"

// TransactionType classifies a ledger transaction against a loan. Only
// disbursements and repayments move capital; fees are recorded for audit
// but never change the outstanding principal.
type TransactionType struct {
	value string
}

const (
	transactionTypeDisbursement = "DISBURSEMENT"
	transactionTypeRepayment    = "REPAYMENT"
	transactionTypeFee          = "FEE"
)

var (
	TransactionTypeDisbursement = TransactionType{value: transactionTypeDisbursement}
	TransactionTypeRepayment    = TransactionType{value: transactionTypeRepayment}
	TransactionTypeFee          = TransactionType{value: transactionTypeFee}
)

// NewTransactionType creates a TransactionType from a raw string.
func NewTransactionType(s string) (TransactionType, error) {
	switch s {
	case transactionTypeDisbursement:
		return TransactionTypeDisbursement, nil
	case transactionTypeRepayment:
		return TransactionTypeRepayment, nil
	case transactionTypeFee:
		return TransactionTypeFee, nil
	default:
		return TransactionType{}, fmt.Errorf("invalid transaction type: %q", s)
	}
}

func (t TransactionType) String() string { return t.value }

func (t TransactionType) IsZero() bool { return t.value == "" }

func (t TransactionType) Equal(other TransactionType) bool { return t.value == other.value }

// IsCapital reports whether transactions of this type move principal.
func (t TransactionType) IsCapital() bool {
	return t.value == transactionTypeDisbursement || t.value == transactionTypeRepayment
}

// IsDisbursement reports whether the type adds to the outstanding principal.
func (t TransactionType) IsDisbursement() bool { return t.value == transactionTypeDisbursement }

// IsRepayment reports whether the type reduces the outstanding principal.
func (t TransactionType) IsRepayment() bool { return t.value == transactionTypeRepayment }
