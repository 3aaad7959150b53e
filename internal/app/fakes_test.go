package app_test

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"ko_lake_villa/internal/domain"
)

// fakeCache stores JSON like the Redis adapter, so cached values are copies.
type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	c.dels = append(c.dels, key)
	return nil
}

type fakeRooms struct {
	rooms   []domain.Room
	listErr error
}

func (f *fakeRooms) ListRooms(ctx context.Context) ([]domain.Room, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return slices.Clone(f.rooms), nil
}

func (f *fakeRooms) GetRoomByCategory(ctx context.Context, c domain.RoomCategory) (domain.Room, error) {
	var best *domain.Room
	for i := range f.rooms {
		r := &f.rooms[i]
		if r.Category == c && (best == nil || r.DirectRate.LessThan(best.DirectRate)) {
			best = r
		}
	}
	if best == nil {
		return domain.Room{}, domain.ErrNotFound
	}
	return *best, nil
}

func (f *fakeRooms) UpdateRoomRates(ctx context.Context, code string, direct, platform decimal.Decimal) error {
	for i := range f.rooms {
		if f.rooms[i].Code == code {
			f.rooms[i].DirectRate = direct
			f.rooms[i].PlatformRate = platform
			return nil
		}
	}
	return domain.ErrNotFound
}

func seededRooms() *fakeRooms {
	room := func(code, name string, c domain.RoomCategory, direct, platform int64) domain.Room {
		return domain.Room{
			Code: code, Name: name, Category: c,
			DirectRate: decimal.NewFromInt(direct), PlatformRate: decimal.NewFromInt(platform),
		}
	}
	return &fakeRooms{rooms: []domain.Room{
		room("KNP", "Entire Villa", domain.RoomVilla, 388, 431),
		room("KNP1", "Master Family Suite", domain.RoomSuite, 107, 119),
		room("KNP3", "Triple/Twin Room", domain.RoomRoom, 63, 70),
		room("KNP6", "Group Room", domain.RoomRoom, 225, 250),
	}}
}

type fakeGallery struct {
	rows   map[int64]domain.RawMediaRecord
	nextID int64
}

func newFakeGallery(rows ...domain.RawMediaRecord) *fakeGallery {
	g := &fakeGallery{rows: map[int64]domain.RawMediaRecord{}}
	for _, r := range rows {
		g.rows[r.ID] = r
		g.nextID = max(g.nextID, r.ID)
	}
	return g
}

func (g *fakeGallery) CreateMedia(ctx context.Context, m domain.RawMediaRecord) (int64, error) {
	g.nextID++
	m.ID = g.nextID
	g.rows[m.ID] = m
	return m.ID, nil
}

func (g *fakeGallery) UpdateMedia(ctx context.Context, m domain.RawMediaRecord) error {
	if _, ok := g.rows[m.ID]; !ok {
		return domain.ErrNotFound
	}
	g.rows[m.ID] = m
	return nil
}

func (g *fakeGallery) DeleteMedia(ctx context.Context, id int64) error {
	if _, ok := g.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(g.rows, id)
	return nil
}

func (g *fakeGallery) GetMedia(ctx context.Context, id int64) (domain.RawMediaRecord, error) {
	m, ok := g.rows[id]
	if !ok {
		return domain.RawMediaRecord{}, domain.ErrNotFound
	}
	return m, nil
}

func (g *fakeGallery) ListMedia(ctx context.Context) ([]domain.RawMediaRecord, error) {
	out := make([]domain.RawMediaRecord, 0, len(g.rows))
	for _, m := range g.rows {
		out = append(out, m)
	}
	slices.SortFunc(out, func(a, b domain.RawMediaRecord) int { return int(a.ID - b.ID) })
	return out, nil
}

type fakeBookings struct {
	inquiries []domain.BookingInquiry
	contacts  []domain.ContactMessage
	lastPage  domain.PageQuery

	overlapping int
	overlapErr  error
	overlapWait bool
	from, to    time.Time
	calls       int
}

func (f *fakeBookings) CreateInquiry(ctx context.Context, b domain.BookingInquiry) (int64, error) {
	b.ID = int64(len(f.inquiries) + 1)
	f.inquiries = append(f.inquiries, b)
	return b.ID, nil
}

func (f *fakeBookings) ListInquiries(ctx context.Context, pg domain.PageQuery) ([]domain.BookingInquiry, error) {
	f.lastPage = pg
	return f.inquiries, nil
}

func (f *fakeBookings) MarkInquiryProcessed(ctx context.Context, id int64) error {
	if id < 1 || int(id) > len(f.inquiries) {
		return domain.ErrNotFound
	}
	f.inquiries[id-1].Processed = true
	return nil
}

func (f *fakeBookings) CountOverlapping(ctx context.Context, c domain.RoomCategory, from, to time.Time) (int, error) {
	f.calls++
	f.from, f.to = from, to
	if f.overlapWait {
		<-ctx.Done()
		return 0, ctx.Err()
	}
	return f.overlapping, f.overlapErr
}

func (f *fakeBookings) CreateContact(ctx context.Context, m domain.ContactMessage) (int64, error) {
	m.ID = int64(len(f.contacts) + 1)
	f.contacts = append(f.contacts, m)
	return m.ID, nil
}

func (f *fakeBookings) ListContacts(ctx context.Context, pg domain.PageQuery) ([]domain.ContactMessage, error) {
	f.lastPage = pg
	return f.contacts, nil
}

func (f *fakeBookings) MarkContactRead(ctx context.Context, id int64) error {
	if id < 1 || int(id) > len(f.contacts) {
		return domain.ErrNotFound
	}
	f.contacts[id-1].Read = true
	return nil
}

type fakeChannel struct {
	rates map[string]decimal.Decimal
	err   error
}

func (f *fakeChannel) GetNightlyRate(ctx context.Context, code string) (decimal.Decimal, error) {
	if f.err != nil {
		return decimal.Zero, f.err
	}
	r, ok := f.rates[code]
	if !ok {
		return decimal.Zero, domain.ErrNotFound
	}
	return r, nil
}

func ptr[T any](v T) *T { return &v }

// day returns 2024-01-n; January 1st 2024 is a Monday.
func day(n int) time.Time { return time.Date(2024, time.January, n, 0, 0, 0, 0, time.UTC) }
