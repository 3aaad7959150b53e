package app

import (
	"slices"

	"ko_lake_villa/internal/domain"
	"ko_lake_villa/internal/pricing"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

// offerKey names the offer combination a quote received, for metrics.
func offerKey(t pricing.RuleTable, res domain.PricingResult) string {
	avail := slices.Contains(res.AppliedOfferLabels, t.Availability.Label)
	mid := slices.Contains(res.AppliedOfferLabels, t.MidweekBonus.Label)
	switch {
	case avail && mid:
		return "combined"
	case avail:
		return "availability"
	case mid:
		return "midweek"
	}
	return "none"
}

// mediaChanged reports whether persisting n over raw would alter the stored row.
func mediaChanged(raw domain.RawMediaRecord, n domain.NormalizedMediaRecord) bool {
	return deref(raw.Title) != n.Title ||
		deref(raw.Description) != n.Description ||
		raw.Category != n.Category ||
		raw.MediaType != n.MediaType
}

func normPage(pg domain.PageQuery) domain.PageQuery {
	if pg.Limit <= 0 {
		pg.Limit = defaultPageLimit
	}
	if pg.Limit > maxPageLimit {
		pg.Limit = maxPageLimit
	}
	if pg.Offset < 0 {
		pg.Offset = 0
	}
	return pg
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
