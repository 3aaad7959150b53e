package app

import "time"

func (a *NextWeekdaysAvailability) SetClock(now func() time.Time) { a.now = now }
func (s *QuoteService) SetClock(now func() time.Time) { s.now = now }
func (s *BookingService) SetClock(now func() time.Time) { s.now = now }
