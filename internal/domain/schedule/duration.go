package schedule

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/awhitwam/whit-lend-sub010/internal/domain/valueobject"
)

// averageMonthDays is the mean Gregorian month length used to convert
// elapsed days into elapsed monthly periods.
const averageMonthDays = 30.44

// DurationInput carries everything the duration policy looks at.
type DurationInput struct {
	// Current is the loan's duration going into this regeneration.
	Current int
	// Original is the duration the loan was configured with at origination.
	Original int
	AutoExtend   bool
	InterestType valueobject.InterestType
	Period       valueobject.BillingPeriod
	StartDate    time.Time
	// Outstanding is the ledger principal as of Now.
	Outstanding decimal.Decimal
	Now         time.Time

	// Override, when positive, is used verbatim with no extension. It is
	// the one path that may shorten a schedule.
	Override int
	// EndDate, when set, extends the schedule to cover at least up to it.
	EndDate *time.Time
}

// ResolveDuration decides how many periods the regenerated schedule must
// cover. Except under an explicit override the result never drops below the
// current duration, so schedules are never silently shortened.
func ResolveDuration(in DurationInput) int {
	if in.Override > 0 {
		return in.Override
	}

	duration := in.Current
	if duration < 1 {
		duration = 1
	}

	if in.EndDate != nil {
		if covered := periodsToCover(in.StartDate, *in.EndDate, in.Period); covered > duration {
			duration = covered
		}
	}

	carrying := in.Outstanding.GreaterThan(decimal.NewFromFloat(0.01))
	if carrying || in.AutoExtend {
		elapsed := periodsToCover(in.StartDate, in.Now, in.Period)
		pad := 3
		if in.InterestType.IsBalloon() {
			pad = 6
		}
		if target := elapsed + pad; target > duration {
			duration = target
		}
	}

	if in.AutoExtend && in.Original > duration {
		duration = in.Original
	}

	return duration
}

// periodsToCover converts the day span from start to date into a whole
// number of periods, rounding up.
func periodsToCover(start, date time.Time, period valueobject.BillingPeriod) int {
	days := daysBetween(dateOnly(start), dateOnly(date))
	if days <= 0 {
		return 0
	}
	per := 7.0
	if period.IsMonthly() {
		per = averageMonthDays
	}
	return int(math.Ceil(float64(days) / per))
}
