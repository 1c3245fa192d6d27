package schedule

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/awhitwam/whit-lend-sub010/internal/domain/model"
	"github.com/awhitwam/whit-lend-sub010/internal/domain/valueobject"
)

// EventKind discriminates timeline events.
type EventKind string

const (
	EventDisbursement     EventKind = "disbursement"
	EventCapitalRepayment EventKind = "capital_repayment"
	EventScheduleDue      EventKind = "schedule_due"
)

// Event is one entry in the merged loan timeline: either a capital movement
// from the ledger or a period boundary marker.
type Event struct {
	Date   time.Time
	Kind   EventKind
	// Amount is the signed principal delta for capital events, zero for
	// due markers.
	Amount decimal.Decimal
	// PeriodNumber is set on due markers only, 1-based.
	PeriodNumber int
}

// IsCapital reports whether the event moves principal.
func (e Event) IsCapital() bool {
	return e.Kind == EventDisbursement || e.Kind == EventCapitalRepayment
}

// PeriodBoundaries returns periodCount+1 day-truncated boundary dates.
// boundaries[0] is the start date; period i spans
// [boundaries[i-1], boundaries[i]).
//
// Standard alignment steps whole periods from the start date. Monthly-first
// alignment anchors every boundary after the start to the first of a
// calendar month, which yields a pro-rated stub first period whenever the
// start date is not the 1st.
func PeriodBoundaries(
	start time.Time,
	period valueobject.BillingPeriod,
	alignment valueobject.InterestAlignment,
	periodCount int,
) []time.Time {
	start = dateOnly(start)
	boundaries := make([]time.Time, periodCount+1)
	boundaries[0] = start

	monthlyFirst := alignment.IsMonthlyFirst() && period.IsMonthly()
	for i := 1; i <= periodCount; i++ {
		switch {
		case monthlyFirst:
			boundaries[i] = firstOfMonth(start).AddDate(0, i, 0)
		case period.IsMonthly():
			boundaries[i] = start.AddDate(0, i, 0)
		default:
			boundaries[i] = start.AddDate(0, 0, 7*i)
		}
	}
	return boundaries
}

// BuildTimeline merges the loan's capital transactions with the schedule's
// period boundary markers into one stream sorted ascending by date. On equal
// dates capital events sort before due markers, so a movement dated exactly
// on a boundary is visible before the boundary closes.
func BuildTimeline(transactions []model.Transaction, boundaries []time.Time) []Event {
	events := make([]Event, 0, len(transactions)+len(boundaries))

	for _, txn := range transactions {
		if txn.IsDeleted() || !txn.IsCapital() {
			continue
		}
		kind := EventCapitalRepayment
		if txn.Type().IsDisbursement() {
			kind = EventDisbursement
		}
		events = append(events, Event{
			Date:   dateOnly(txn.EffectiveDate()),
			Kind:   kind,
			Amount: txn.CapitalDelta(),
		})
	}

	for i := 1; i < len(boundaries); i++ {
		events = append(events, Event{
			Date:         boundaries[i],
			Kind:         EventScheduleDue,
			PeriodNumber: i,
		})
	}

	sort.SliceStable(events, func(a, b int) bool {
		if !events[a].Date.Equal(events[b].Date) {
			return events[a].Date.Before(events[b].Date)
		}
		return events[a].IsCapital() && !events[b].IsCapital()
	})
	return events
}

// capitalInWindow selects the capital events with start <= date < end. An
// event dated exactly on a period's closing boundary belongs to the next
// period; it opens that period's segment walk at day offset zero.
func capitalInWindow(events []Event, start, end time.Time) []Event {
	var out []Event
	for _, ev := range events {
		if !ev.IsCapital() {
			continue
		}
		if ev.Date.Before(start) || !ev.Date.Before(end) {
			continue
		}
		out = append(out, ev)
	}
	return out
}
