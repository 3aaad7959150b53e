package app

import (
	"context"
	"fmt"
	"time"

	"ko_lake_villa/internal/adapters/observability"
	"ko_lake_villa/internal/domain"
	"ko_lake_villa/internal/pricing"
)

const availabilityWindow = 3

// NextWeekdaysAvailability answers the availability offer's question: are the
// next three days (tomorrow onward) all weekdays, and is the category free of
// booking inquiries across them.
type NextWeekdaysAvailability struct {
	bookings domain.BookingRepository
	rules    func() pricing.RuleTable
	timeout  time.Duration
	loc      *time.Location
	now      func() time.Time
}

// NewNextWeekdaysAvailability uses rules for the weekday set so a reloaded
// table is honoured. A zero timeout disables the per-call deadline.
func NewNextWeekdaysAvailability(b domain.BookingRepository, rules func() pricing.RuleTable, timeout time.Duration, loc *time.Location) *NextWeekdaysAvailability {
	if loc == nil {
		loc = time.UTC
	}
	return &NextWeekdaysAvailability{bookings: b, rules: rules, timeout: timeout, loc: loc, now: time.Now}
}

func (a *NextWeekdaysAvailability) CheckAvailability(ctx context.Context, c domain.RoomCategory) (bool, error) {
	n := a.now().In(a.loc)
	today := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, a.loc)
	from := today.AddDate(0, 0, 1)
	to := today.AddDate(0, 0, 1+availabilityWindow)

	t := a.rules()
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		if !t.IsWeekday(d) {
			observability.ObserveAvailability("closed")
			return false, nil
		}
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	booked, err := a.bookings.CountOverlapping(ctx, c, from, to)
	if err != nil {
		observability.ObserveAvailability("error")
		return false, fmt.Errorf("availability for %s: %w", c, err)
	}
	if booked > 0 {
		observability.ObserveAvailability("booked")
		return false, nil
	}
	observability.ObserveAvailability("available")
	return true, nil
}
