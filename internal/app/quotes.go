package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"ko_lake_villa/internal/adapters/observability"
	"ko_lake_villa/internal/domain"
	"ko_lake_villa/internal/pricing"
)

const roomsCacheKey = "rooms:v1"

// StayQuery is a quote request; a nil NightlyBaseRate means "use the room's
// direct rate".
type StayQuery struct {
	CheckIn         time.Time
	CheckOut        time.Time
	RoomCategory    domain.RoomCategory
	NightlyBaseRate *decimal.Decimal
}

// StayInput is the wire form of a quote request.
type StayInput struct {
	CheckIn         string           `json:"checkIn" validate:"required,datetime=2006-01-02"`
	CheckOut        string           `json:"checkOut" validate:"required,datetime=2006-01-02"`
	RoomCategory    string           `json:"roomCategory" validate:"required"`
	NightlyBaseRate *decimal.Decimal `json:"nightlyBaseRate,omitempty"`
}

// Query validates the input's shape. Range and category checks are left to
// the pricing engine.
func (in StayInput) Query() (StayQuery, error) {
	if err := validateStruct(in); err != nil {
		return StayQuery{}, err
	}
	checkIn, _ := time.Parse(dateLayout, in.CheckIn)
	checkOut, _ := time.Parse(dateLayout, in.CheckOut)
	return StayQuery{
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		RoomCategory:    domain.RoomCategory(in.RoomCategory),
		NightlyBaseRate: in.NightlyBaseRate,
	}, nil
}

// RoomOffer pairs a room with how its direct price compares to the platform.
type RoomOffer struct {
	domain.Room
	Direct pricing.DirectQuote `json:"direct"`
}

type QuoteService struct {
	engine   *pricing.Engine
	rooms    domain.RoomRepository
	cache    domain.Cache
	cacheTTL time.Duration
	policy   pricing.DirectPolicy
	now      func() time.Time
}

func NewQuoteService(e *pricing.Engine, rooms domain.RoomRepository, c domain.Cache, ttl time.Duration, p pricing.DirectPolicy) *QuoteService {
	return &QuoteService{engine: e, rooms: rooms, cache: c, cacheTTL: ttl, policy: p, now: time.Now}
}

func (s *QuoteService) stay(ctx context.Context, q StayQuery) (domain.StayRequest, error) {
	st := domain.StayRequest{CheckIn: q.CheckIn, CheckOut: q.CheckOut, RoomCategory: q.RoomCategory}
	if q.NightlyBaseRate != nil {
		st.NightlyBaseRate = *q.NightlyBaseRate
		return st, nil
	}
	if !q.RoomCategory.Valid() {
		return st, fmt.Errorf("%w: unknown room category %q", domain.ErrInvalidInput, q.RoomCategory)
	}
	rm, err := s.rooms.GetRoomByCategory(ctx, q.RoomCategory)
	if err != nil {
		return st, fmt.Errorf("base rate for %s: %w", q.RoomCategory, err)
	}
	st.NightlyBaseRate = rm.DirectRate
	return st, nil
}

func (s *QuoteService) Quote(ctx context.Context, q StayQuery) (domain.PricingResult, error) {
	st, err := s.stay(ctx, q)
	if err != nil {
		return domain.PricingResult{}, err
	}
	res, err := s.engine.CalculatePricing(ctx, st)
	if err != nil {
		return domain.PricingResult{}, err
	}
	observability.ObserveQuote(offerKey(s.engine.Rules(), res))
	return res, nil
}

func (s *QuoteService) Eligibility(ctx context.Context, q StayQuery) (domain.EligibilityAdvice, error) {
	st := domain.StayRequest{CheckIn: q.CheckIn, CheckOut: q.CheckOut, RoomCategory: q.RoomCategory}
	return s.engine.CheckOfferEligibility(ctx, st)
}

// Rooms lists every room with its direct-booking comparison. Without a
// check-in date the standard direct discount is shown.
func (s *QuoteService) Rooms(ctx context.Context, checkIn *time.Time) ([]RoomOffer, error) {
	var rooms []domain.Room
	if ok, _ := s.cache.Get(ctx, roomsCacheKey, &rooms); !ok {
		var err error
		rooms, err = s.rooms.ListRooms(ctx)
		if err != nil {
			return nil, err
		}
		_ = s.cache.Set(ctx, roomsCacheKey, rooms, int(s.cacheTTL.Seconds()))
	}

	now := s.now()
	out := make([]RoomOffer, 0, len(rooms))
	for _, rm := range rooms {
		dq := pricing.StandardDirect(rm.PlatformRate, s.policy)
		if checkIn != nil {
			dq = pricing.CompareDirect(rm.PlatformRate, *checkIn, now, s.policy)
		}
		out = append(out, RoomOffer{Room: rm, Direct: dq})
	}
	return out, nil
}

// QuoteOrZero prices a stay for a booking snapshot; a category without a
// room row yields a zero total instead of an error.
func (s *QuoteService) QuoteOrZero(ctx context.Context, q StayQuery) (decimal.Decimal, error) {
	res, err := s.Quote(ctx, q)
	if errors.Is(err, domain.ErrNotFound) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return res.DiscountedTotal.Round(2), nil
}
