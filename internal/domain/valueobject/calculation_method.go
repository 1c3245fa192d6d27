package valueobject

import "fmt"

// CalculationMethod selects the day-count basis for interest accrual.
// Daily counts the actual days in each period; monthly-fixed charges a
// normalized month of 365/12 days regardless of the calendar length.
type CalculationMethod struct {
	value string
}

const (
	calculationMethodDaily        = "DAILY"
	calculationMethodMonthlyFixed = "MONTHLY_FIXED"
)

var (
	CalculationMethodDaily        = CalculationMethod{value: calculationMethodDaily}
	CalculationMethodMonthlyFixed = CalculationMethod{value: calculationMethodMonthlyFixed}
)

// NewCalculationMethod creates a CalculationMethod from a raw string.
func NewCalculationMethod(s string) (CalculationMethod, error) {
	switch s {
	case calculationMethodDaily:
		return CalculationMethodDaily, nil
	case calculationMethodMonthlyFixed:
		return CalculationMethodMonthlyFixed, nil
	default:
		return CalculationMethod{}, fmt.Errorf("invalid calculation method: %q", s)
	}
}

func (m CalculationMethod) String() string { return m.value }

func (m CalculationMethod) IsZero() bool { return m.value == "" }

func (m CalculationMethod) Equal(other CalculationMethod) bool { return m.value == other.value }

// IsMonthlyFixed reports whether the normalized-month basis applies.
func (m CalculationMethod) IsMonthlyFixed() bool { return m.value == calculationMethodMonthlyFixed }
