package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"ko_lake_villa/internal/domain"
	"ko_lake_villa/internal/pricing"
)

// RateSyncService keeps room rates in line with what the booking platform
// advertises: the platform rate is copied and the direct rate derived from it.
type RateSyncService struct {
	channel domain.ChannelClient
	rooms   domain.RoomRepository
	cache   domain.Cache
	policy  pricing.DirectPolicy
	log     zerolog.Logger
}

func NewRateSyncService(ch domain.ChannelClient, rooms domain.RoomRepository, c domain.Cache, p pricing.DirectPolicy, l zerolog.Logger) *RateSyncService {
	return &RateSyncService{channel: ch, rooms: rooms, cache: c, policy: p, log: l}
}

// Codes lists the room codes known to storage.
func (s *RateSyncService) Codes(ctx context.Context) ([]string, error) {
	rooms, err := s.rooms.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, r.Code)
	}
	return out, nil
}

// SyncRoom refreshes one room. A listing the platform does not know is
// logged and skipped.
func (s *RateSyncService) SyncRoom(ctx context.Context, code string) error {
	if s.channel == nil {
		return errors.New("rate sync: no channel client configured")
	}
	platform, err := s.channel.GetNightlyRate(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.log.Warn().Str("room", code).Msg("listing not found on channel, skipped")
			return nil
		}
		return fmt.Errorf("fetch rate for %s: %w", code, err)
	}
	_, err = s.SetPlatformRate(ctx, code, platform, nil)
	return err
}

// SetPlatformRate stores a new platform rate for a room. The direct rate is
// derived from the policy unless one is given.
func (s *RateSyncService) SetPlatformRate(ctx context.Context, code string, platform decimal.Decimal, direct *decimal.Decimal) (decimal.Decimal, error) {
	if !platform.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: platform rate must be positive, got %s", domain.ErrInvalidInput, platform)
	}
	d := pricing.DirectRate(platform, s.policy)
	if direct != nil {
		if !direct.IsPositive() {
			return decimal.Zero, fmt.Errorf("%w: direct rate must be positive, got %s", domain.ErrInvalidInput, *direct)
		}
		d = *direct
	}
	if err := s.rooms.UpdateRoomRates(ctx, code, d, platform); err != nil {
		return decimal.Zero, fmt.Errorf("update rates for %s: %w", code, err)
	}
	if err := s.cache.Del(ctx, roomsCacheKey); err != nil {
		s.log.Warn().Err(err).Msg("rooms cache not invalidated")
	}
	s.log.Info().
		Str("room", code).
		Str("platform", platform.StringFixed(2)).
		Str("direct", d.StringFixed(2)).
		Msg("room rates updated")
	return d, nil
}
