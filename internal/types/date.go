package types

import (
	"time"

	ierr "github.com/clientdesk/clientdesk/internal/errors"
)

// NextBillingDate calculates the next billing date from the subscription start
// date and its billing cycle. Day-based cycles use exact day arithmetic, so
// DAILY is always +24h on the calendar and WEEKLY always +7 days. Calendar
// increments (monthly, quarterly, yearly) clamp to the last valid day of the
// target month, so January 31 + 1 month is February 29 on a leap year and
// February 28 otherwise.
// ONE_TIME cycles have no next billing date and return nil.
func NextBillingDate(start time.Time, cycle BillingCycle) (*time.Time, error) {
	var next time.Time

	switch cycle {
	case BILLING_CYCLE_DAILY:
		next = start.AddDate(0, 0, 1)
	case BILLING_CYCLE_WEEKLY:
		next = start.AddDate(0, 0, 7)
	case BILLING_CYCLE_MONTHLY:
		next = AddClampedDate(start, 0, 1)
	case BILLING_CYCLE_QUARTERLY:
		next = AddClampedDate(start, 0, 3)
	case BILLING_CYCLE_YEARLY:
		next = AddClampedDate(start, 1, 0)
	case BILLING_CYCLE_ONE_TIME:
		return nil, nil
	default:
		return nil, ierr.NewError("invalid billing cycle").
			WithHintf("Unknown billing cycle: %s", cycle).
			Mark(ierr.ErrValidation)
	}

	return &next, nil
}

// AddClampedDate adds the given years and months to t, clamping the day of
// month to the last valid day of the target month instead of rolling over the
// way time.AddDate does (January 31 + 1 month = March 2/3).
func AddClampedDate(t time.Time, years, months int) time.Time {
	y, m, d := t.Date()
	h, min, sec := t.Clock()

	newY := y + years
	newM := time.Month(int(m) + months)

	// Normalize the month into [1, 12], carrying into the year.
	for newM > 12 {
		newM -= 12
		newY++
	}
	for newM < 1 {
		newM += 12
		newY--
	}

	// Last valid day of the target month.
	lastDay := time.Date(newY, newM+1, 0, 0, 0, 0, 0, t.Location()).Day()

	newD := d
	if newD > lastDay {
		newD = lastDay
	}

	return time.Date(newY, newM, newD, h, min, sec, t.Nanosecond(), t.Location())
}
