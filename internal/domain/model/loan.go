package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/awhitwam/whit-lend-sub010/internal/domain/event"
	"github.com/awhitwam/whit-lend-sub010/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Loan aggregate root
// ---------------------------------------------------------------------------

// Loan is an immutable aggregate. Mutations return a new copy.
//
// The rate, interest type, cadence and fee fields are snapshots taken from
// the product at origination. The schedule engine reads the loan alone and
// never consults the product again.
type Loan struct {
	id                uuid.UUID
	tenantID          uuid.UUID
	productID         uuid.UUID
	borrowerID        uuid.UUID
	principal         decimal.Decimal
	currency          string
	startDate         time.Time
	durationPeriods   int
	annualRatePct     decimal.Decimal
	interestType      valueobject.InterestType
	billingPeriod     valueobject.BillingPeriod
	interestAlignment valueobject.InterestAlignment
	calculationMethod valueobject.CalculationMethod
	autoExtend        bool
	exitFee           decimal.Decimal
	totalInterest     decimal.Decimal
	totalRepayable    decimal.Decimal
	version           int
	createdAt         time.Time
	updatedAt         time.Time
	domainEvents      []event.DomainEvent
}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

// NewLoan originates a loan from a product template. There are no ledger
// transactions yet; the original principal is the replay baseline.
func NewLoan(
	tenantID, borrowerID uuid.UUID,
	product LoanProduct,
	principal decimal.Decimal,
	currency string,
	startDate time.Time,
	durationPeriods int,
	autoExtend bool,
	now time.Time,
) (Loan, error) {
	if tenantID == uuid.Nil {
		return Loan{}, errors.New("tenant ID is required")
	}
	if borrowerID == uuid.Nil {
		return Loan{}, errors.New("borrower ID is required")
	}
	if principal.LessThanOrEqual(decimal.Zero) {
		return Loan{}, errors.New("principal must be positive")
	}
	if currency == "" {
		return Loan{}, errors.New("currency is required")
	}
	if startDate.IsZero() {
		return Loan{}, errors.New("start date is required")
	}
	if durationPeriods <= 0 {
		durationPeriods = product.DefaultDuration()
	}
	if durationPeriods <= 0 {
		return Loan{}, errors.New("duration must be positive")
	}

	id := uuid.New()
	loan := Loan{
		id:                id,
		tenantID:          tenantID,
		productID:         product.ID(),
		borrowerID:        borrowerID,
		principal:         principal,
		currency:          currency,
		startDate:         startDate,
		durationPeriods:   durationPeriods,
		annualRatePct:     product.AnnualRatePct(),
		interestType:      product.InterestType(),
		billingPeriod:     product.BillingPeriod(),
		interestAlignment: product.InterestAlignment(),
		calculationMethod: product.CalculationMethod(),
		autoExtend:        autoExtend || product.AutoExtend(),
		exitFee:           product.ExitFee(),
		totalInterest:     decimal.Zero,
		totalRepayable:    decimal.Zero,
		version:           1,
		createdAt:         now,
		updatedAt:         now,
	}

	loan.domainEvents = append(loan.domainEvents, event.NewLoanOriginated(
		id, tenantID, product.ID(), borrowerID,
		principal, currency,
		product.AnnualRatePct(),
		product.InterestType().String(), product.BillingPeriod().String(),
		startDate, durationPeriods,
	))

	return loan, nil
}

// ReconstructLoan rebuilds a Loan aggregate from persistence.
func ReconstructLoan(
	id, tenantID, productID, borrowerID uuid.UUID,
	principal decimal.Decimal,
	currency string,
	startDate time.Time,
	durationPeriods int,
	annualRatePct decimal.Decimal,
	interestType valueobject.InterestType,
	billingPeriod valueobject.BillingPeriod,
	interestAlignment valueobject.InterestAlignment,
	calculationMethod valueobject.CalculationMethod,
	autoExtend bool,
	exitFee decimal.Decimal,
	totalInterest, totalRepayable decimal.Decimal,
	version int,
	createdAt, updatedAt time.Time,
) Loan {
	return Loan{
		id:                id,
		tenantID:          tenantID,
		productID:         productID,
		borrowerID:        borrowerID,
		principal:         principal,
		currency:          currency,
		startDate:         startDate,
		durationPeriods:   durationPeriods,
		annualRatePct:     annualRatePct,
		interestType:      interestType,
		billingPeriod:     billingPeriod,
		interestAlignment: interestAlignment,
		calculationMethod: calculationMethod,
		autoExtend:        autoExtend,
		exitFee:           exitFee,
		totalInterest:     totalInterest,
		totalRepayable:    totalRepayable,
		version:           version,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
	}
}

// ---------------------------------------------------------------------------
// State transitions
// ---------------------------------------------------------------------------

// WithScheduleResult records the outcome of a schedule regeneration and
// emits ScheduleRegenerated. Duration monotonicity is enforced by the
// duration policy, not here; an explicit caller override may shorten.
func (l Loan) WithScheduleResult(
	durationPeriods, rowCount int,
	totalInterest, totalRepayable, outstanding decimal.Decimal,
	now time.Time,
) (Loan, error) {
	if durationPeriods <= 0 {
		return l, errors.New("duration must be positive")
	}

	next := l
	next.durationPeriods = durationPeriods
	next.totalInterest = totalInterest
	next.totalRepayable = totalRepayable
	next.updatedAt = now
	next.domainEvents = copyEvents(l.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewScheduleRegenerated(
		l.id, l.tenantID, rowCount, durationPeriods, totalInterest, totalRepayable, outstanding,
	))
	return next, nil
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (l Loan) ID() uuid.UUID                                      { return l.id }
func (l Loan) TenantID() uuid.UUID                                { return l.tenantID }
func (l Loan) ProductID() uuid.UUID                               { return l.productID }
func (l Loan) BorrowerID() uuid.UUID                              { return l.borrowerID }
func (l Loan) Principal() decimal.Decimal                         { return l.principal }
func (l Loan) Currency() string                                   { return l.currency }
func (l Loan) StartDate() time.Time                               { return l.startDate }
func (l Loan) DurationPeriods() int                               { return l.durationPeriods }
func (l Loan) AnnualRatePct() decimal.Decimal                     { return l.annualRatePct }
func (l Loan) InterestType() valueobject.InterestType             { return l.interestType }
func (l Loan) BillingPeriod() valueobject.BillingPeriod           { return l.billingPeriod }
func (l Loan) InterestAlignment() valueobject.InterestAlignment   { return l.interestAlignment }
func (l Loan) CalculationMethod() valueobject.CalculationMethod   { return l.calculationMethod }
func (l Loan) AutoExtend() bool                                   { return l.autoExtend }
func (l Loan) ExitFee() decimal.Decimal                           { return l.exitFee }
func (l Loan) TotalInterest() decimal.Decimal                     { return l.totalInterest }
func (l Loan) TotalRepayable() decimal.Decimal                    { return l.totalRepayable }
func (l Loan) Version() int                                       { return l.version }
func (l Loan) CreatedAt() time.Time                               { return l.createdAt }
func (l Loan) UpdatedAt() time.Time                               { return l.updatedAt }
func (l Loan) DomainEvents() []event.DomainEvent                  { return l.domainEvents }

// ClearEvents returns a copy with an empty event list.
func (l Loan) ClearEvents() Loan {
	next := l
	next.domainEvents = nil
	return next
}

func copyEvents(in []event.DomainEvent) []event.DomainEvent {
	if in == nil {
		return nil
	}
	out := make([]event.DomainEvent, len(in))
	copy(out, in)
	return out
}
