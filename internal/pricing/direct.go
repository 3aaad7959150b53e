package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

// DirectPolicy sets how far below the third-party platform a direct booking
// is priced.
type DirectPolicy struct {
	DiscountPercent   decimal.Decimal // standard direct-booking discount
	LastMinutePercent decimal.Decimal // applies when check-in is close
	LastMinuteDays    int
}

func DefaultDirectPolicy() DirectPolicy {
	return DirectPolicy{
		DiscountPercent:   decimal.NewFromInt(10),
		LastMinutePercent: decimal.NewFromInt(15),
		LastMinuteDays:    3,
	}
}

type DirectQuote struct {
	PlatformRate     decimal.Decimal `json:"platformRate"`
	DirectRate       decimal.Decimal `json:"directRate"`
	Savings          decimal.Decimal `json:"savings"`
	DiscountPercent  decimal.Decimal `json:"discountPercent"`
	Label            string          `json:"label"`
	DaysUntilCheckIn int             `json:"daysUntilCheckIn"`
}

// CompareDirect prices a direct booking against the platform rate. Check-in
// and now are compared as calendar dates in check-in's location.
func CompareDirect(platformRate decimal.Decimal, checkIn, now time.Time, p DirectPolicy) DirectQuote {
	days := daysUntil(now, checkIn)
	if days <= p.LastMinuteDays {
		q := directQuote(platformRate, p.LastMinutePercent, "Last-Minute Ko Lake Villa Deal")
		q.DaysUntilCheckIn = days
		return q
	}
	q := StandardDirect(platformRate, p)
	q.DaysUntilCheckIn = days
	return q
}

// StandardDirect is the comparison when no check-in date is known.
func StandardDirect(platformRate decimal.Decimal, p DirectPolicy) DirectQuote {
	return directQuote(platformRate, p.DiscountPercent, "Direct Booking Discount")
}

func directQuote(platformRate, pct decimal.Decimal, name string) DirectQuote {
	direct := platformRate.Mul(hundred.Sub(pct)).Div(hundred).Round(2)
	return DirectQuote{
		PlatformRate:    platformRate,
		DirectRate:      direct,
		Savings:         platformRate.Sub(direct),
		DiscountPercent: pct,
		Label:           name + " (" + pct.String() + "% off)",
	}
}

// DirectRate is the standing direct rate for a platform rate, rounded to a
// whole currency unit the way published room rates are.
func DirectRate(platformRate decimal.Decimal, p DirectPolicy) decimal.Decimal {
	return platformRate.Mul(hundred.Sub(p.DiscountPercent)).Div(hundred).Round(0)
}

func daysUntil(now, checkIn time.Time) int {
	n := now.In(checkIn.Location())
	// civil dates compared in UTC so DST transitions cannot skew the count
	from := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(checkIn.Year(), checkIn.Month(), checkIn.Day(), 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from) / (24 * time.Hour))
}
