package pricing_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ko_lake_villa/internal/pricing"
)

func TestDefaultRules_Valid(t *testing.T) {
	r := pricing.DefaultRules()
	require.NoError(t, r.Validate())

	assert.True(t, r.IsWeekday(day(1)))
	assert.True(t, r.IsWeekday(day(4)))
	assert.True(t, r.IsWeekend(day(5)))
	assert.True(t, r.IsWeekend(day(6)))
	// Sunday
	assert.False(t, r.IsWeekday(day(7)))
	assert.False(t, r.IsWeekend(day(7)))
}

func TestParseRules_PartialOverrideKeepsDefaults(t *testing.T) {
	r, err := pricing.ParseRules([]byte(`
availability_offer:
  percent: 12
combined_percent: "17.5"
`))
	require.NoError(t, err)

	def := pricing.DefaultRules()
	assert.True(t, r.Availability.Percent.Equal(decimal.NewFromInt(12)))
	assert.Equal(t, def.Availability.Label, r.Availability.Label)
	assert.Equal(t, def.Availability.MinNights, r.Availability.MinNights)
	assert.True(t, r.Availability.RequireAvailability)
	assert.True(t, r.CombinedPercent.Equal(decimal.RequireFromString("17.5")))
	assert.Equal(t, def.MidweekBonus, r.MidweekBonus)
	assert.Equal(t, def.Weekdays, r.Weekdays)
}

func TestParseRules_DayNames(t *testing.T) {
	r, err := pricing.ParseRules([]byte(`
weekdays: [Sun, monday, TUE, wed, thu]
weekend: [friday, saturday]
`))
	require.NoError(t, err)
	assert.Equal(t, []time.Weekday{time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday}, r.Weekdays)
	assert.True(t, r.IsWeekday(day(7)))
}

func TestParseRules_Rejects(t *testing.T) {
	tests := map[string]string{
		"unknown day":     "weekdays: [funday]\n",
		"percent too big": "midweek_bonus:\n  percent: 101\n",
		"negative":        "combined_percent: -1\n",
		"overlap":         "weekend: [thursday, friday]\n",
		"min nights":      "availability_offer:\n  min_nights: 0\n",
		"empty label":     "midweek_bonus:\n  label: \"\"\n",
		"not yaml":        "weekdays: [monday\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			r, err := pricing.ParseRules([]byte(doc))
			require.Error(t, err)
			assert.Equal(t, pricing.DefaultRules(), r)
		})
	}
}

func TestLoadRules_MissingFile(t *testing.T) {
	_, err := pricing.LoadRules(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadRules_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("midweek_bonus:\n  enabled: false\n"), 0o600))

	r, err := pricing.LoadRules(path)
	require.NoError(t, err)
	assert.False(t, r.MidweekBonus.Enabled)
	assert.True(t, r.Availability.Enabled)
}
