package event

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/awhitwam/whit-lend-sub010/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

// ---------------------------------------------------------------------------
// Loan events
// ---------------------------------------------------------------------------

// LoanOriginated is raised when a loan is created from a product template.
type LoanOriginated struct {
	events.BaseEvent
}

type loanOriginatedPayload struct {
	ProductID      uuid.UUID       `json:"product_id"`
	BorrowerID     uuid.UUID       `json:"borrower_id"`
	Principal      decimal.Decimal `json:"principal"`
	Currency       string          `json:"currency"`
	AnnualRatePct  decimal.Decimal `json:"annual_rate_pct"`
	InterestType   string          `json:"interest_type"`
	BillingPeriod  string          `json:"billing_period"`
	StartDate      time.Time       `json:"start_date"`
	DurationPeriods int            `json:"duration_periods"`
}

func NewLoanOriginated(
	loanID, tenantID, productID, borrowerID uuid.UUID,
	principal decimal.Decimal, currency string,
	annualRatePct decimal.Decimal,
	interestType, billingPeriod string,
	startDate time.Time, durationPeriods int,
) LoanOriginated {
	payload, _ := json.Marshal(loanOriginatedPayload{
		ProductID:       productID,
		BorrowerID:      borrowerID,
		Principal:       principal,
		Currency:        currency,
		AnnualRatePct:   annualRatePct,
		InterestType:    interestType,
		BillingPeriod:   billingPeriod,
		StartDate:       startDate,
		DurationPeriods: durationPeriods,
	})
	return LoanOriginated{
		BaseEvent: events.NewBaseEvent("lending.loan.originated", loanID, "Loan", tenantID, payload),
	}
}

// TransactionRecorded is raised when a ledger transaction is posted to a loan.
type TransactionRecorded struct {
	events.BaseEvent
}

type transactionRecordedPayload struct {
	TransactionID    uuid.UUID       `json:"transaction_id"`
	Type             string          `json:"type"`
	Amount           decimal.Decimal `json:"amount"`
	PrincipalApplied decimal.Decimal `json:"principal_applied"`
	InterestApplied  decimal.Decimal `json:"interest_applied"`
	EffectiveDate    time.Time       `json:"effective_date"`
}

func NewTransactionRecorded(
	loanID, tenantID, transactionID uuid.UUID,
	txType string,
	amount, principalApplied, interestApplied decimal.Decimal,
	effectiveDate time.Time,
) TransactionRecorded {
	payload, _ := json.Marshal(transactionRecordedPayload{
		TransactionID:    transactionID,
		Type:             txType,
		Amount:           amount,
		PrincipalApplied: principalApplied,
		InterestApplied:  interestApplied,
		EffectiveDate:    effectiveDate,
	})
	return TransactionRecorded{
		BaseEvent: events.NewBaseEvent("lending.transaction.recorded", loanID, "Loan", tenantID, payload),
	}
}

// ScheduleRegenerated is raised after a schedule has been rebuilt and the
// replacement rows committed.
type ScheduleRegenerated struct {
	events.BaseEvent
}

type scheduleRegeneratedPayload struct {
	RowCount        int             `json:"row_count"`
	DurationPeriods int             `json:"duration_periods"`
	TotalInterest   decimal.Decimal `json:"total_interest"`
	TotalRepayable  decimal.Decimal `json:"total_repayable"`
	Outstanding     decimal.Decimal `json:"outstanding"`
}

func NewScheduleRegenerated(
	loanID, tenantID uuid.UUID,
	rowCount, durationPeriods int,
	totalInterest, totalRepayable, outstanding decimal.Decimal,
) ScheduleRegenerated {
	payload, _ := json.Marshal(scheduleRegeneratedPayload{
		RowCount:        rowCount,
		DurationPeriods: durationPeriods,
		TotalInterest:   totalInterest,
		TotalRepayable:  totalRepayable,
		Outstanding:     outstanding,
	})
	return ScheduleRegenerated{
		BaseEvent: events.NewBaseEvent("lending.schedule.regenerated", loanID, "Loan", tenantID, payload),
	}
}
