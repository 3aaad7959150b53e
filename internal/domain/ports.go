package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// AvailabilityChecker reports whether a room category is free over the next
// three weekdays. Implementations own their latency and timeout behaviour.
type AvailabilityChecker interface {
	CheckAvailability(ctx context.Context, category RoomCategory) (bool, error)
}

type GalleryRepository interface {
	// Write paths
	CreateMedia(ctx context.Context, m RawMediaRecord) (int64, error)
	UpdateMedia(ctx context.Context, m RawMediaRecord) error
	DeleteMedia(ctx context.Context, id int64) error

	// Read paths
	GetMedia(ctx context.Context, id int64) (RawMediaRecord, error)
	ListMedia(ctx context.Context) ([]RawMediaRecord, error)
}

type RoomRepository interface {
	ListRooms(ctx context.Context) ([]Room, error)
	GetRoomByCategory(ctx context.Context, c RoomCategory) (Room, error)
	UpdateRoomRates(ctx context.Context, code string, direct, platform decimal.Decimal) error
}

type BookingRepository interface {
	CreateInquiry(ctx context.Context, b BookingInquiry) (int64, error)
	ListInquiries(ctx context.Context, pg PageQuery) ([]BookingInquiry, error)
	MarkInquiryProcessed(ctx context.Context, id int64) error
	// CountOverlapping counts inquiries for a category whose stay overlaps [from, to).
	CountOverlapping(ctx context.Context, c RoomCategory, from, to time.Time) (int, error)

	CreateContact(ctx context.Context, m ContactMessage) (int64, error)
	ListContacts(ctx context.Context, pg PageQuery) ([]ContactMessage, error)
	MarkContactRead(ctx context.Context, id int64) error
}

// ChannelClient fetches the nightly rate a listing is advertised at on the
// third-party booking platform.
type ChannelClient interface {
	GetNightlyRate(ctx context.Context, listingCode string) (decimal.Decimal, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
