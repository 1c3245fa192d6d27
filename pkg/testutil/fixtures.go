package testutil

import (
	"time"

	"github.com/google/uuid"
)

// Fixed UUIDs for deterministic testing.
var (
	TestTenantID   = uuid.MustParse("00000000-0000-0000-0000-000000000010")
	TestLoanID     = uuid.MustParse("00000000-0000-0000-0000-000000000020")
	TestProductID  = uuid.MustParse("00000000-0000-0000-0000-000000000030")
	TestBorrowerID = uuid.MustParse("00000000-0000-0000-0000-000000000040")
)

// Date returns a UTC calendar date with no time-of-day component, the shape
// every engine computation expects.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
