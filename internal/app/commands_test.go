package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ko_lake_villa/internal/app"
	"ko_lake_villa/internal/domain"
	"ko_lake_villa/internal/pricing"
)

func TestSyncRoom_DerivesDirectRate(t *testing.T) {
	rooms := seededRooms()
	cache := &fakeCache{}
	ch := &fakeChannel{rates: map[string]decimal.Decimal{"KNP1": decimal.NewFromInt(130)}}
	s := app.NewRateSyncService(ch, rooms, cache, pricing.DefaultDirectPolicy(), zerolog.Nop())

	require.NoError(t, s.SyncRoom(context.Background(), "KNP1"))
	assert.Equal(t, "130", rooms.rooms[1].PlatformRate.String())
	assert.Equal(t, "117", rooms.rooms[1].DirectRate.String())
	assert.Contains(t, cache.dels, "rooms:v1")
}

func TestSyncRoom_UnknownListingSkipped(t *testing.T) {
	rooms := seededRooms()
	s := app.NewRateSyncService(&fakeChannel{}, rooms, &fakeCache{}, pricing.DefaultDirectPolicy(), zerolog.Nop())

	require.NoError(t, s.SyncRoom(context.Background(), "KNP6"))
	assert.Equal(t, "250", rooms.rooms[3].PlatformRate.String())
}

func TestSyncRoom_ChannelFailure(t *testing.T) {
	boom := errors.New("remote 503")
	s := app.NewRateSyncService(&fakeChannel{err: boom}, seededRooms(), &fakeCache{}, pricing.DefaultDirectPolicy(), zerolog.Nop())

	assert.ErrorIs(t, s.SyncRoom(context.Background(), "KNP"), boom)
}

func TestSetPlatformRate(t *testing.T) {
	rooms := seededRooms()
	s := app.NewRateSyncService(nil, rooms, &fakeCache{}, pricing.DefaultDirectPolicy(), zerolog.Nop())
	ctx := context.Background()

	direct := decimal.NewFromInt(60)
	d, err := s.SetPlatformRate(ctx, "KNP3", decimal.NewFromInt(72), &direct)
	require.NoError(t, err)
	assert.True(t, d.Equal(direct))
	assert.Equal(t, "60", rooms.rooms[2].DirectRate.String())

	_, err = s.SetPlatformRate(ctx, "KNP3", decimal.Zero, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = s.SetPlatformRate(ctx, "NOPE", decimal.NewFromInt(10), nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Error(t, s.SyncRoom(ctx, "KNP3"))

	codes, err := s.Codes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"KNP", "KNP1", "KNP3", "KNP6"}, codes)
}
