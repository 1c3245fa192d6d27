package valueobject

import "fmt"

// InterestAlignment controls how due dates are anchored for monthly loans.
// Standard alignment steps whole periods from the start date; monthly-first
// inserts a pro-rated stub period so that subsequent rows land on the first
// of each calendar month.
type InterestAlignment struct {
	value string
}

const (
	interestAlignmentStandard     = "STANDARD"
	interestAlignmentMonthlyFirst = "MONTHLY_FIRST"
)

var (
	InterestAlignmentStandard     = InterestAlignment{value: interestAlignmentStandard}
	InterestAlignmentMonthlyFirst = InterestAlignment{value: interestAlignmentMonthlyFirst}
)

// NewInterestAlignment creates an InterestAlignment from a raw string.
func NewInterestAlignment(s string) (InterestAlignment, error) {
	switch s {
	case interestAlignmentStandard:
		return InterestAlignmentStandard, nil
	case interestAlignmentMonthlyFirst:
		return InterestAlignmentMonthlyFirst, nil
	default:
		return InterestAlignment{}, fmt.Errorf("invalid interest alignment: %q", s)
	}
}

func (a InterestAlignment) String() string { return a.value }

func (a InterestAlignment) IsZero() bool { return a.value == "" }

func (a InterestAlignment) Equal(other InterestAlignment) bool { return a.value == other.value }

// IsMonthlyFirst reports whether calendar-month anchoring applies.
func (a InterestAlignment) IsMonthlyFirst() bool { return a.value == interestAlignmentMonthlyFirst }
