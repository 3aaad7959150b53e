package pricing_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"ko_lake_villa/internal/pricing"
)

func TestCompareDirect(t *testing.T) {
	now := time.Date(2024, time.March, 10, 22, 30, 0, 0, time.UTC)
	platform := decimal.NewFromInt(200)

	tests := []struct {
		name      string
		checkIn   time.Time
		wantRate  string
		wantLabel string
		wantDays  int
	}{
		{"far out", now.AddDate(0, 0, 10), "180.00", "Direct Booking Discount (10% off)", 10},
		{"boundary is last minute", time.Date(2024, time.March, 13, 0, 0, 0, 0, time.UTC), "170.00", "Last-Minute Ko Lake Villa Deal (15% off)", 3},
		{"tomorrow morning", time.Date(2024, time.March, 11, 9, 0, 0, 0, time.UTC), "170.00", "Last-Minute Ko Lake Villa Deal (15% off)", 1},
		{"four days", time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC), "180.00", "Direct Booking Discount (10% off)", 4},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := pricing.CompareDirect(platform, tc.checkIn, now, pricing.DefaultDirectPolicy())
			assert.Equal(t, tc.wantRate, q.DirectRate.StringFixed(2))
			assert.Equal(t, tc.wantLabel, q.Label)
			assert.Equal(t, tc.wantDays, q.DaysUntilCheckIn)
			assert.True(t, q.Savings.Equal(platform.Sub(q.DirectRate)))
		})
	}
}

func TestCompareDirect_CalendarDaysInCheckInZone(t *testing.T) {
	colombo := time.FixedZone("Asia/Colombo", 5*3600+1800)
	// 20:00 UTC is already the next day in Colombo
	now := time.Date(2024, time.March, 10, 20, 0, 0, 0, time.UTC)
	checkIn := time.Date(2024, time.March, 15, 14, 0, 0, 0, colombo)

	q := pricing.CompareDirect(decimal.NewFromInt(100), checkIn, now, pricing.DefaultDirectPolicy())
	assert.Equal(t, 4, q.DaysUntilCheckIn)
	assert.Equal(t, "90.00", q.DirectRate.StringFixed(2))
}

func TestDirectRate_RoundsToWholeUnit(t *testing.T) {
	p := pricing.DefaultDirectPolicy()
	assert.Equal(t, "300", pricing.DirectRate(decimal.NewFromInt(333), p).String())
	assert.Equal(t, "45", pricing.DirectRate(decimal.NewFromInt(50), p).String())
}
