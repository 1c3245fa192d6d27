package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// CreateProductRequest carries the data for a new loan product template.
type CreateProductRequest struct {
	TenantID          uuid.UUID       `json:"tenant_id"`
	Name              string          `json:"name"`
	AnnualRatePct     decimal.Decimal `json:"annual_rate_pct"`
	InterestType      string          `json:"interest_type"`
	BillingPeriod     string          `json:"billing_period"`
	InterestAlignment string          `json:"interest_alignment"`
	CalculationMethod string          `json:"calculation_method"`
	DefaultDuration   int             `json:"default_duration"`
	AutoExtend        bool            `json:"auto_extend"`
	ExitFee           decimal.Decimal `json:"exit_fee"`
}

// OriginateLoanRequest carries the data needed to create a loan from a
// product and produce its first schedule.
type OriginateLoanRequest struct {
	TenantID   uuid.UUID       `json:"tenant_id"`
	ProductID  uuid.UUID       `json:"product_id"`
	BorrowerID uuid.UUID       `json:"borrower_id"`
	Principal  decimal.Decimal `json:"principal"`
	Currency   string          `json:"currency"`
	StartDate  time.Time       `json:"start_date"`
	// Duration overrides the product default when positive.
	Duration   int  `json:"duration,omitempty"`
	AutoExtend bool `json:"auto_extend,omitempty"`
}

// RegenerateScheduleRequest asks for a full schedule rebuild.
type RegenerateScheduleRequest struct {
	TenantID uuid.UUID `json:"tenant_id"`
	LoanID   uuid.UUID `json:"loan_id"`
	// Duration, when positive, is used verbatim and may shorten.
	Duration int `json:"duration,omitempty"`
	// EndDate, when set, extends the schedule to cover at least up to it.
	EndDate *time.Time `json:"end_date,omitempty"`
	// SkipDisbursement excludes disbursement transactions from the ledger
	// replay, for callers whose recorded disbursement duplicates the
	// original principal.
	SkipDisbursement bool `json:"skip_disbursement,omitempty"`
}

// RecordTransactionRequest posts a ledger transaction against a loan.
type RecordTransactionRequest struct {
	TenantID         uuid.UUID       `json:"tenant_id"`
	LoanID           uuid.UUID       `json:"loan_id"`
	Type             string          `json:"type"`
	Amount           decimal.Decimal `json:"amount"`
	PrincipalApplied decimal.Decimal `json:"principal_applied"`
	InterestApplied  decimal.Decimal `json:"interest_applied"`
	EffectiveDate    time.Time       `json:"effective_date"`
	Reference        string          `json:"reference,omitempty"`
}

// DeleteTransactionRequest soft-deletes a posted transaction.
type DeleteTransactionRequest struct {
	TenantID      uuid.UUID `json:"tenant_id"`
	TransactionID uuid.UUID `json:"transaction_id"`
}

// GetLoanRequest identifies a loan to retrieve.
type GetLoanRequest struct {
	TenantID uuid.UUID `json:"tenant_id"`
	LoanID   uuid.UUID `json:"loan_id"`
}

// GetScheduleRequest identifies a loan whose schedule to retrieve.
type GetScheduleRequest struct {
	TenantID uuid.UUID `json:"tenant_id"`
	LoanID   uuid.UUID `json:"loan_id"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// ProductResponse is the external representation of a loan product.
type ProductResponse struct {
	ID                uuid.UUID       `json:"id"`
	TenantID          uuid.UUID       `json:"tenant_id"`
	Name              string          `json:"name"`
	AnnualRatePct     decimal.Decimal `json:"annual_rate_pct"`
	InterestType      string          `json:"interest_type"`
	BillingPeriod     string          `json:"billing_period"`
	InterestAlignment string          `json:"interest_alignment"`
	CalculationMethod string          `json:"calculation_method"`
	DefaultDuration   int             `json:"default_duration"`
	AutoExtend        bool            `json:"auto_extend"`
	ExitFee           decimal.Decimal `json:"exit_fee"`
	CreatedAt         time.Time       `json:"created_at"`
}

// LoanResponse is the external representation of a loan.
type LoanResponse struct {
	ID                uuid.UUID       `json:"id"`
	TenantID          uuid.UUID       `json:"tenant_id"`
	ProductID         uuid.UUID       `json:"product_id"`
	BorrowerID        uuid.UUID       `json:"borrower_id"`
	Principal         decimal.Decimal `json:"principal"`
	Currency          string          `json:"currency"`
	StartDate         time.Time       `json:"start_date"`
	Duration          int             `json:"duration"`
	AnnualRatePct     decimal.Decimal `json:"annual_rate_pct"`
	InterestType      string          `json:"interest_type"`
	BillingPeriod     string          `json:"billing_period"`
	InterestAlignment string          `json:"interest_alignment"`
	CalculationMethod string          `json:"calculation_method"`
	AutoExtend        bool            `json:"auto_extend"`
	ExitFee           decimal.Decimal `json:"exit_fee"`
	TotalInterest     decimal.Decimal `json:"total_interest"`
	TotalRepayable    decimal.Decimal `json:"total_repayable"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ScheduleRowResponse represents a single repayment schedule row.
type ScheduleRowResponse struct {
	Installment               int             `json:"installment"`
	DueDate                   time.Time       `json:"due_date"`
	PrincipalAmount           decimal.Decimal `json:"principal_amount"`
	InterestAmount            decimal.Decimal `json:"interest_amount"`
	TotalDue                  decimal.Decimal `json:"total_due"`
	Balance                   decimal.Decimal `json:"balance"`
	CalculationDays           decimal.Decimal `json:"calculation_days"`
	CalculationPrincipalStart decimal.Decimal `json:"calculation_principal_start"`
	Status                    string          `json:"status"`
}

// ScheduleSummary carries the loan-level aggregates of a regeneration.
type ScheduleSummary struct {
	TotalInterest  decimal.Decimal `json:"total_interest"`
	TotalRepayable decimal.Decimal `json:"total_repayable"`
	Outstanding    decimal.Decimal `json:"outstanding"`
	Duration       int             `json:"duration"`
}

// ScheduleResponse is the result of a regeneration or origination.
type ScheduleResponse struct {
	Loan     LoanResponse          `json:"loan"`
	Schedule []ScheduleRowResponse `json:"schedule"`
	Summary  ScheduleSummary       `json:"summary"`
}

// TransactionResponse is the external representation of a ledger transaction.
type TransactionResponse struct {
	ID               uuid.UUID       `json:"id"`
	LoanID           uuid.UUID       `json:"loan_id"`
	Type             string          `json:"type"`
	Amount           decimal.Decimal `json:"amount"`
	PrincipalApplied decimal.Decimal `json:"principal_applied"`
	InterestApplied  decimal.Decimal `json:"interest_applied"`
	EffectiveDate    time.Time       `json:"effective_date"`
	Reference        string          `json:"reference,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}
