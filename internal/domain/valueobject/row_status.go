package valueobject

import "fmt"

// RowStatus is the settlement state of a single schedule row.
type RowStatus struct {
	value string
}

const (
	rowStatusPending = "PENDING"
	rowStatusPartial = "PARTIAL"
	rowStatusPaid    = "PAID"
)

var (
	RowStatusPending = RowStatus{value: rowStatusPending}
	RowStatusPartial = RowStatus{value: rowStatusPartial}
	RowStatusPaid    = RowStatus{value: rowStatusPaid}
)

// NewRowStatus creates a RowStatus from a raw string.
func NewRowStatus(s string) (RowStatus, error) {
	switch s {
	case rowStatusPending:
		return RowStatusPending, nil
	case rowStatusPartial:
		return RowStatusPartial, nil
	case rowStatusPaid:
		return RowStatusPaid, nil
	default:
		return RowStatus{}, fmt.Errorf("invalid row status: %q", s)
	}
}

func (s RowStatus) String() string { return s.value }

func (s RowStatus) IsZero() bool { return s.value == "" }

func (s RowStatus) Equal(other RowStatus) bool { return s.value == other.value }
