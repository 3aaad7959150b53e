package pricing

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"ko_lake_villa/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// AvailabilityFunc adapts a plain function to domain.AvailabilityChecker.
type AvailabilityFunc func(ctx context.Context, c domain.RoomCategory) (bool, error)

func (f AvailabilityFunc) CheckAvailability(ctx context.Context, c domain.RoomCategory) (bool, error) {
	return f(ctx, c)
}

// AlwaysAvailable is the placeholder checker used when no reservations
// backend is wired.
var AlwaysAvailable = AvailabilityFunc(func(context.Context, domain.RoomCategory) (bool, error) {
	return true, nil
})

// Engine prices stays against a RuleTable. It holds no per-call state and is
// safe for concurrent use; the rule table can be swapped at runtime.
type Engine struct {
	avail domain.AvailabilityChecker
	rules atomic.Pointer[RuleTable]
	log   zerolog.Logger
}

type Option func(*Engine)

func WithRules(t RuleTable) Option {
	return func(e *Engine) { e.rules.Store(&t) }
}

func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

func New(checker domain.AvailabilityChecker, opts ...Option) *Engine {
	e := &Engine{avail: checker, log: zerolog.Nop()}
	def := DefaultRules()
	e.rules.Store(&def)
	for _, o := range opts {
		o(e)
	}
	return e
}

func (e *Engine) Rules() RuleTable { return *e.rules.Load() }

// SetRules validates t and makes it the table for subsequent calls.
func (e *Engine) SetRules(t RuleTable) error {
	if err := t.Validate(); err != nil {
		return err
	}
	e.rules.Store(&t)
	return nil
}

// stayFacts is everything the offer predicates look at.
type stayFacts struct {
	nights      int
	dates       []time.Time
	allWeekdays bool
	anyWeekend  bool
	available   bool
}

type qualification struct {
	availability bool
	midweek      bool
}

func (e *Engine) assess(ctx context.Context, t RuleTable, stay domain.StayRequest) (stayFacts, error) {
	if !stay.CheckOut.After(stay.CheckIn) {
		return stayFacts{}, fmt.Errorf("%w: check-in %s, check-out %s",
			domain.ErrInvalidRange, stay.CheckIn.Format(time.DateOnly), stay.CheckOut.Format(time.DateOnly))
	}
	if !stay.RoomCategory.Valid() {
		return stayFacts{}, fmt.Errorf("%w: unknown room category %q", domain.ErrInvalidInput, stay.RoomCategory)
	}

	f := stayFacts{
		nights:      nightsBetween(stay.CheckIn, stay.CheckOut),
		dates:       stayDates(stay.CheckIn, stay.CheckOut),
		allWeekdays: true,
	}
	for _, d := range f.dates {
		if !t.IsWeekday(d) {
			f.allWeekdays = false
		}
		if t.IsWeekend(d) {
			f.anyWeekend = true
		}
	}
	f.available = e.checkAvailability(ctx, stay.RoomCategory)
	return f, nil
}

// checkAvailability never fails the caller: an error or a missing checker
// means the availability offer is not granted.
func (e *Engine) checkAvailability(ctx context.Context, c domain.RoomCategory) bool {
	if e.avail == nil {
		return false
	}
	ok, err := e.avail.CheckAvailability(ctx, c)
	if err != nil {
		e.log.Warn().Err(err).Str("category", string(c)).Msg("availability check failed; offer withheld")
		return false
	}
	return ok
}

func qualify(t RuleTable, f stayFacts) qualification {
	return qualification{
		availability: offerApplies(t.Availability, f),
		midweek:      offerApplies(t.MidweekBonus, f),
	}
}

func offerApplies(o Offer, f stayFacts) bool {
	switch {
	case !o.Enabled:
		return false
	case f.nights < o.MinNights:
		return false
	case o.RequireAvailability && !f.available:
		return false
	case o.RequireAllWeekdays && !f.allWeekdays:
		return false
	case o.RequireNoWeekend && f.anyWeekend:
		return false
	}
	return true
}

// nightDiscount picks the single effective percentage for a night.
func (t RuleTable) nightDiscount(q qualification, night int) (decimal.Decimal, []string) {
	a := q.availability && night >= t.Availability.FromNight
	b := q.midweek && night >= t.MidweekBonus.FromNight
	switch {
	case a && b:
		return t.CombinedPercent, []string{t.CombinedNightLabel}
	case a:
		return t.Availability.Percent, []string{t.Availability.NightLabel}
	case b:
		return t.MidweekBonus.Percent, []string{t.MidweekBonus.NightLabel}
	}
	return decimal.Zero, []string{}
}

// CalculatePricing prices every night of the stay and totals the result.
func (e *Engine) CalculatePricing(ctx context.Context, stay domain.StayRequest) (domain.PricingResult, error) {
	t := e.Rules()
	if !stay.NightlyBaseRate.IsPositive() {
		return domain.PricingResult{}, fmt.Errorf("%w: nightly base rate must be positive, got %s",
			domain.ErrInvalidInput, stay.NightlyBaseRate)
	}
	f, err := e.assess(ctx, t, stay)
	if err != nil {
		return domain.PricingResult{}, err
	}
	q := qualify(t, f)

	res := domain.PricingResult{
		OriginalTotal:      decimal.Zero,
		DiscountedTotal:    decimal.Zero,
		AppliedOfferLabels: []string{},
		Nights:             f.nights,
		LineItems:          make([]domain.NightlyLineItem, 0, len(f.dates)),
	}
	base := stay.NightlyBaseRate
	for i, d := range f.dates {
		night := i + 1
		pct, labels := t.nightDiscount(q, night)
		rate := base.Mul(hundred.Sub(pct)).Div(hundred)

		res.OriginalTotal = res.OriginalTotal.Add(base)
		res.DiscountedTotal = res.DiscountedTotal.Add(rate)
		res.LineItems = append(res.LineItems, domain.NightlyLineItem{
			NightIndex:            night,
			Date:                  d,
			DayOfWeek:             d.Weekday().String(),
			BaseRate:              base,
			DiscountedRate:        rate,
			AppliedDiscountLabels: labels,
		})
	}

	if q.availability {
		res.AppliedOfferLabels = append(res.AppliedOfferLabels, t.Availability.Label)
	}
	if q.midweek {
		res.AppliedOfferLabels = append(res.AppliedOfferLabels, t.MidweekBonus.Label)
	}

	res.TotalDiscount = res.OriginalTotal.Sub(res.DiscountedTotal)
	res.DiscountPercent = decimal.Zero
	if res.OriginalTotal.IsPositive() {
		res.DiscountPercent = res.TotalDiscount.Mul(hundred).Div(res.OriginalTotal).Round(2)
	}

	e.log.Debug().
		Str("category", string(stay.RoomCategory)).
		Int("nights", res.Nights).
		Strs("offers", res.AppliedOfferLabels).
		Str("total", res.DiscountedTotal.StringFixed(2)).
		Msg("stay priced")
	return res, nil
}

// CheckOfferEligibility reports which offers a stay qualifies for and how the
// guest could qualify for more. It shares its predicates with CalculatePricing.
func (e *Engine) CheckOfferEligibility(ctx context.Context, stay domain.StayRequest) (domain.EligibilityAdvice, error) {
	t := e.Rules()
	f, err := e.assess(ctx, t, stay)
	if err != nil {
		return domain.EligibilityAdvice{}, err
	}
	q := qualify(t, f)

	adv := domain.EligibilityAdvice{
		AvailabilityOfferEligible: q.availability,
		MidweekBonusEligible:      q.midweek,
		Recommendations:           []string{},
	}

	av, mb := t.Availability, t.MidweekBonus
	if av.Enabled && f.available && f.nights < av.MinNights {
		need := av.MinNights - f.nights
		adv.Recommendations = append(adv.Recommendations,
			fmt.Sprintf("Add %d more %s to qualify for %s%% weekday offer!", need, plural(need, "night"), av.Percent))
	}
	if mb.Enabled && f.nights == mb.MinNights-1 && f.allWeekdays && !f.anyWeekend {
		rec := fmt.Sprintf("Add 1 more night for additional %s%% bonus", mb.Percent)
		if q.availability {
			rec += fmt.Sprintf(" (%s%% total discount)", t.CombinedPercent)
		}
		adv.Recommendations = append(adv.Recommendations, rec+"!")
	}
	if f.anyWeekend {
		adv.Recommendations = append(adv.Recommendations, "Choose weekdays only for special pricing offers!")
	}
	return adv, nil
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// nightsBetween rounds partial days up, so a late check-out still counts a night.
func nightsBetween(in, out time.Time) int {
	const day = 24 * time.Hour
	d := out.Sub(in)
	n := int(d / day)
	if d%day != 0 {
		n++
	}
	return n
}

// stayDates lists every date from check-in up to, not including, check-out.
func stayDates(in, out time.Time) []time.Time {
	var dates []time.Time
	for d := in; d.Before(out); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}
