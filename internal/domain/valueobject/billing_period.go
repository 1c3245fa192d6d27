package valueobject

import "fmt"

// BillingPeriod is the repayment cadence of a loan schedule.
type BillingPeriod struct {
	value string
}

const (
	billingPeriodMonthly = "MONTHLY"
	billingPeriodWeekly  = "WEEKLY"
)

var (
	BillingPeriodMonthly = BillingPeriod{value: billingPeriodMonthly}
	BillingPeriodWeekly  = BillingPeriod{value: billingPeriodWeekly}
)

// NewBillingPeriod creates a BillingPeriod from a raw string.
func NewBillingPeriod(s string) (BillingPeriod, error) {
	switch s {
	case billingPeriodMonthly:
		return BillingPeriodMonthly, nil
	case billingPeriodWeekly:
		return BillingPeriodWeekly, nil
	default:
		return BillingPeriod{}, fmt.Errorf("invalid billing period: %q", s)
	}
}

func (p BillingPeriod) String() string { return p.value }

func (p BillingPeriod) IsZero() bool { return p.value == "" }

func (p BillingPeriod) Equal(other BillingPeriod) bool { return p.value == other.value }

// IsMonthly reports whether the cadence is calendar-monthly.
func (p BillingPeriod) IsMonthly() bool { return p.value == billingPeriodMonthly }
