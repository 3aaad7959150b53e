package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type RoomCategory string

const (
	RoomVilla RoomCategory = "villa"
	RoomSuite RoomCategory = "suite"
	RoomRoom  RoomCategory = "room"
)

func (c RoomCategory) Valid() bool {
	switch c {
	case RoomVilla, RoomSuite, RoomRoom:
		return true
	}
	return false
}

// StayRequest is built per pricing call and never persisted.
type StayRequest struct {
	CheckIn         time.Time       `json:"checkIn"`
	CheckOut        time.Time       `json:"checkOut"`
	RoomCategory    RoomCategory    `json:"roomCategory"`
	NightlyBaseRate decimal.Decimal `json:"nightlyBaseRate"`
}

type NightlyLineItem struct {
	NightIndex            int             `json:"nightIndex"`
	Date                  time.Time       `json:"date"`
	DayOfWeek             string          `json:"dayOfWeek"`
	BaseRate              decimal.Decimal `json:"baseRate"`
	DiscountedRate        decimal.Decimal `json:"discountedRate"`
	AppliedDiscountLabels []string        `json:"appliedDiscountLabels"`
}

type PricingResult struct {
	OriginalTotal      decimal.Decimal   `json:"originalTotal"`
	DiscountedTotal    decimal.Decimal   `json:"discountedTotal"`
	TotalDiscount      decimal.Decimal   `json:"totalDiscount"`
	DiscountPercent    decimal.Decimal   `json:"discountPercent"`
	AppliedOfferLabels []string          `json:"appliedOfferLabels"`
	Nights             int               `json:"nights"`
	LineItems          []NightlyLineItem `json:"lineItems"`
}

type EligibilityAdvice struct {
	AvailabilityOfferEligible bool     `json:"availabilityOfferEligible"`
	MidweekBonusEligible      bool     `json:"midweekBonusEligible"`
	Recommendations           []string `json:"recommendations"`
}

// Room is a bookable unit with its direct nightly rate and the rate the same
// unit is listed at on the third-party platform.
type Room struct {
	Code         string          `json:"code"` // KNP, KNP1, ...
	Name         string          `json:"name"`
	Category     RoomCategory    `json:"category"`
	DirectRate   decimal.Decimal `json:"directRate"`
	PlatformRate decimal.Decimal `json:"platformRate"`
	Capacity     int             `json:"capacity"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}
