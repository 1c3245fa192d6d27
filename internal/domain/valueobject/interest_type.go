package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// InterestType – immutable value object
// ---------------------------------------------------------------------------

// InterestType selects the amortization mathematics for a loan. It is fixed
// for the life of the loan; there are no transitions between types.
type InterestType struct {
	value string
}

const (
	interestTypeFlat         = "FLAT"
	interestTypeReducing     = "REDUCING"
	interestTypeInterestOnly = "INTEREST_ONLY"
	interestTypeRolledUp     = "ROLLED_UP"
)

var (
	InterestTypeFlat         = InterestType{value: interestTypeFlat}
	InterestTypeReducing     = InterestType{value: interestTypeReducing}
	InterestTypeInterestOnly = InterestType{value: interestTypeInterestOnly}
	InterestTypeRolledUp     = InterestType{value: interestTypeRolledUp}
)

var validInterestTypes = map[string]InterestType{
	interestTypeFlat:         InterestTypeFlat,
	interestTypeReducing:     InterestTypeReducing,
	interestTypeInterestOnly: InterestTypeInterestOnly,
	interestTypeRolledUp:     InterestTypeRolledUp,
}

// NewInterestType creates an InterestType from a raw string.
func NewInterestType(s string) (InterestType, error) {
	v, ok := validInterestTypes[s]
	if !ok {
		return InterestType{}, fmt.Errorf("invalid interest type: %q", s)
	}
	return v, nil
}

// String returns the string representation of the type.
func (t InterestType) String() string { return t.value }

// IsZero returns true if the type has not been initialised.
func (t InterestType) IsZero() bool { return t.value == "" }

// Equal returns true when both types carry the same value.
func (t InterestType) Equal(other InterestType) bool { return t.value == other.value }

// IsBalloon reports whether the type settles all principal in the final
// period. Interest-Only and Rolled-Up differ only in how the upstream
// origination compounds interest, not in schedule shape.
func (t InterestType) IsBalloon() bool {
	return t.value == interestTypeInterestOnly || t.value == interestTypeRolledUp
}
