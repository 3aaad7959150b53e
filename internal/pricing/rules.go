package pricing

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Offer is one named, independently toggleable discount rule.
type Offer struct {
	Enabled bool            `yaml:"enabled"`
	Label   string          `yaml:"label"`
	Percent decimal.Decimal `yaml:"percent"`
	// NightLabel is attached to every line item the offer discounts.
	NightLabel string `yaml:"night_label"`
	MinNights  int    `yaml:"min_nights"`
	// FromNight is the first 1-based night the offer discounts.
	FromNight int `yaml:"from_night"`
	// RequireAvailability gates the offer on the injected availability check.
	RequireAvailability bool `yaml:"require_availability"`
	// RequireAllWeekdays: every stayed date must be a weekday.
	RequireAllWeekdays bool `yaml:"require_all_weekdays"`
	// RequireNoWeekend: no stayed date may be a weekend day.
	RequireNoWeekend bool `yaml:"require_no_weekend"`
}

// RuleTable holds every number and day set the engine uses.
//
// Weekday and weekend sets are not complementary: Sunday sits in neither, so
// it breaks "all weekdays" without counting as weekend encroachment.
type RuleTable struct {
	Weekdays []time.Weekday
	Weekend  []time.Weekday

	Availability Offer
	MidweekBonus Offer

	// Combined replaces the availability percent on nights the midweek bonus
	// also covers. It is never stacked on an already discounted price.
	CombinedPercent    decimal.Decimal
	CombinedNightLabel string
}

func DefaultRules() RuleTable {
	return RuleTable{
		Weekdays: []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday},
		Weekend:  []time.Weekday{time.Friday, time.Saturday},
		Availability: Offer{
			Enabled:             true,
			Label:               "Next 3 Weekdays Availability Offer (Min 2 nights)",
			Percent:             decimal.NewFromInt(15),
			NightLabel:          "Next 3 Weekdays Offer: 15% off",
			MinNights:           2,
			FromNight:           1,
			RequireAvailability: true,
			RequireAllWeekdays:  true,
		},
		MidweekBonus: Offer{
			Enabled:            true,
			Label:              "3+ Night Midweek Bonus (Additional 5% for nights 3+)",
			Percent:            decimal.NewFromInt(5),
			NightLabel:         "3+ Night Midweek Bonus: 5% off",
			MinNights:          3,
			FromNight:          3,
			RequireAllWeekdays: true,
			RequireNoWeekend:   true,
		},
		CombinedPercent:    decimal.NewFromInt(20),
		CombinedNightLabel: "Combined Midweek Offer: 20% off (15% + 5% bonus)",
	}
}

func (t RuleTable) IsWeekday(d time.Time) bool { return containsDay(t.Weekdays, d.Weekday()) }
func (t RuleTable) IsWeekend(d time.Time) bool { return containsDay(t.Weekend, d.Weekday()) }

func containsDay(set []time.Weekday, wd time.Weekday) bool {
	for _, d := range set {
		if d == wd {
			return true
		}
	}
	return false
}

func (t RuleTable) Validate() error {
	var errs []error
	hundred := decimal.NewFromInt(100)
	checkPct := func(name string, p decimal.Decimal) {
		if p.IsNegative() || p.GreaterThan(hundred) {
			errs = append(errs, fmt.Errorf("%s: percent %s out of range 0..100", name, p))
		}
	}
	checkPct("availability_offer", t.Availability.Percent)
	checkPct("midweek_bonus", t.MidweekBonus.Percent)
	checkPct("combined_percent", t.CombinedPercent)

	for name, o := range map[string]Offer{"availability_offer": t.Availability, "midweek_bonus": t.MidweekBonus} {
		if o.MinNights < 1 {
			errs = append(errs, fmt.Errorf("%s: min_nights must be >= 1", name))
		}
		if o.FromNight < 1 {
			errs = append(errs, fmt.Errorf("%s: from_night must be >= 1", name))
		}
		if strings.TrimSpace(o.Label) == "" {
			errs = append(errs, fmt.Errorf("%s: label must not be empty", name))
		}
	}
	for _, wd := range t.Weekdays {
		if containsDay(t.Weekend, wd) {
			errs = append(errs, fmt.Errorf("%s is both weekday and weekend", wd))
		}
	}
	return errors.Join(errs...)
}

// fileRules is the YAML shape; days are written as names ("monday").
type fileRules struct {
	Weekdays           []string         `yaml:"weekdays"`
	Weekend            []string         `yaml:"weekend"`
	Availability       *Offer           `yaml:"availability_offer"`
	MidweekBonus       *Offer           `yaml:"midweek_bonus"`
	CombinedPercent    *decimal.Decimal `yaml:"combined_percent"`
	CombinedNightLabel *string          `yaml:"combined_night_label"`
}

// LoadRules reads a YAML override on top of DefaultRules. Keys absent from the
// file keep their default.
func LoadRules(path string) (RuleTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultRules(), err
	}
	return ParseRules(data)
}

func ParseRules(data []byte) (RuleTable, error) {
	t := DefaultRules()
	// decode straight into the defaults so partial offers keep their other fields
	fr := fileRules{
		Availability:       &t.Availability,
		MidweekBonus:       &t.MidweekBonus,
		CombinedPercent:    &t.CombinedPercent,
		CombinedNightLabel: &t.CombinedNightLabel,
	}
	if err := yaml.Unmarshal(data, &fr); err != nil {
		return DefaultRules(), fmt.Errorf("pricing rules: %w", err)
	}
	if fr.Weekdays != nil {
		days, err := parseDays(fr.Weekdays)
		if err != nil {
			return DefaultRules(), err
		}
		t.Weekdays = days
	}
	if fr.Weekend != nil {
		days, err := parseDays(fr.Weekend)
		if err != nil {
			return DefaultRules(), err
		}
		t.Weekend = days
	}
	if err := t.Validate(); err != nil {
		return DefaultRules(), fmt.Errorf("pricing rules: %w", err)
	}
	return t, nil
}

func parseDays(names []string) ([]time.Weekday, error) {
	out := make([]time.Weekday, 0, len(names))
	for _, n := range names {
		wd, ok := weekdayByName[strings.ToLower(strings.TrimSpace(n))]
		if !ok {
			return nil, fmt.Errorf("pricing rules: unknown day %q", n)
		}
		out = append(out, wd)
	}
	return out, nil
}

var weekdayByName = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
	"wednesday": time.Wednesday, "thursday": time.Thursday, "friday": time.Friday,
	"saturday": time.Saturday,
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday, "wed": time.Wednesday,
	"thu": time.Thursday, "fri": time.Friday, "sat": time.Saturday,
}
