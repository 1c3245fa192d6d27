package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/awhitwam/whit-lend-sub010/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// LoanProduct aggregate root
// ---------------------------------------------------------------------------

// LoanProduct is the template a loan is originated from. Its fields are
// snapshotted onto the loan at origination; later product edits never touch
// existing loans.
type LoanProduct struct {
	id                uuid.UUID
	tenantID          uuid.UUID
	name              string
	annualRatePct     decimal.Decimal
	interestType      valueobject.InterestType
	billingPeriod     valueobject.BillingPeriod
	interestAlignment valueobject.InterestAlignment
	calculationMethod valueobject.CalculationMethod
	defaultDuration   int
	autoExtend        bool
	exitFee           decimal.Decimal
	version           int
	createdAt         time.Time
	updatedAt         time.Time
}

// NewLoanProduct creates a product template.
func NewLoanProduct(
	tenantID uuid.UUID,
	name string,
	annualRatePct decimal.Decimal,
	interestType valueobject.InterestType,
	billingPeriod valueobject.BillingPeriod,
	interestAlignment valueobject.InterestAlignment,
	calculationMethod valueobject.CalculationMethod,
	defaultDuration int,
	autoExtend bool,
	exitFee decimal.Decimal,
	now time.Time,
) (LoanProduct, error) {
	if tenantID == uuid.Nil {
		return LoanProduct{}, errors.New("tenant ID is required")
	}
	if name == "" {
		return LoanProduct{}, errors.New("product name is required")
	}
	if annualRatePct.IsNegative() {
		return LoanProduct{}, errors.New("annual rate must not be negative")
	}
	if interestType.IsZero() || billingPeriod.IsZero() || interestAlignment.IsZero() || calculationMethod.IsZero() {
		return LoanProduct{}, errors.New("interest type, billing period, alignment and calculation method are required")
	}
	if defaultDuration <= 0 {
		return LoanProduct{}, errors.New("default duration must be positive")
	}
	if exitFee.IsNegative() {
		return LoanProduct{}, errors.New("exit fee must not be negative")
	}

	return LoanProduct{
		id:                uuid.New(),
		tenantID:          tenantID,
		name:              name,
		annualRatePct:     annualRatePct,
		interestType:      interestType,
		billingPeriod:     billingPeriod,
		interestAlignment: interestAlignment,
		calculationMethod: calculationMethod,
		defaultDuration:   defaultDuration,
		autoExtend:        autoExtend,
		exitFee:           exitFee,
		version:           1,
		createdAt:         now,
		updatedAt:         now,
	}, nil
}

// ReconstructLoanProduct rebuilds a LoanProduct aggregate from persistence.
func ReconstructLoanProduct(
	id, tenantID uuid.UUID,
	name string,
	annualRatePct decimal.Decimal,
	interestType valueobject.InterestType,
	billingPeriod valueobject.BillingPeriod,
	interestAlignment valueobject.InterestAlignment,
	calculationMethod valueobject.CalculationMethod,
	defaultDuration int,
	autoExtend bool,
	exitFee decimal.Decimal,
	version int,
	createdAt, updatedAt time.Time,
) LoanProduct {
	return LoanProduct{
		id:                id,
		tenantID:          tenantID,
		name:              name,
		annualRatePct:     annualRatePct,
		interestType:      interestType,
		billingPeriod:     billingPeriod,
		interestAlignment: interestAlignment,
		calculationMethod: calculationMethod,
		defaultDuration:   defaultDuration,
		autoExtend:        autoExtend,
		exitFee:           exitFee,
		version:           version,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
	}
}

func (p LoanProduct) ID() uuid.UUID                                      { return p.id }
func (p LoanProduct) TenantID() uuid.UUID                                { return p.tenantID }
func (p LoanProduct) Name() string                                       { return p.name }
func (p LoanProduct) AnnualRatePct() decimal.Decimal                     { return p.annualRatePct }
func (p LoanProduct) InterestType() valueobject.InterestType             { return p.interestType }
func (p LoanProduct) BillingPeriod() valueobject.BillingPeriod           { return p.billingPeriod }
func (p LoanProduct) InterestAlignment() valueobject.InterestAlignment   { return p.interestAlignment }
func (p LoanProduct) CalculationMethod() valueobject.CalculationMethod   { return p.calculationMethod }
func (p LoanProduct) DefaultDuration() int                               { return p.defaultDuration }
func (p LoanProduct) AutoExtend() bool                                   { return p.autoExtend }
func (p LoanProduct) ExitFee() decimal.Decimal                           { return p.exitFee }
func (p LoanProduct) Version() int                                       { return p.version }
func (p LoanProduct) CreatedAt() time.Time                               { return p.createdAt }
func (p LoanProduct) UpdatedAt() time.Time                               { return p.updatedAt }
