package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"ko_lake_villa/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// Repo implements the room, gallery and booking repositories on one pool.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// rowsOrMissing turns a zero-row UPDATE/DELETE into ErrNotFound unless the row
// exists (MySQL reports 0 affected rows when nothing changed).
func (r *Repo) rowsOrMissing(ctx context.Context, res sql.Result, existsSQL string, key any) error {
	n, err := res.RowsAffected()
	if err != nil || n > 0 {
		return err
	}
	var one int
	if err := r.db.QueryRowContext(ctx, existsSQL, key).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

// ---- rooms ----

type scanner interface{ Scan(dest ...any) error }

func scanRoom(s scanner) (domain.Room, error) {
	var rm domain.Room
	var cat string
	if err := s.Scan(&rm.Code, &rm.Name, &cat, &rm.DirectRate, &rm.PlatformRate, &rm.Capacity, &rm.UpdatedAt); err != nil {
		return domain.Room{}, err
	}
	rm.Category = domain.RoomCategory(cat)
	return rm, nil
}

func (r *Repo) ListRooms(ctx context.Context) ([]domain.Room, error) {
	rows, err := r.db.QueryContext(ctx, listRoomsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Room
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

func (r *Repo) GetRoomByCategory(ctx context.Context, c domain.RoomCategory) (domain.Room, error) {
	rm, err := scanRoom(r.db.QueryRowContext(ctx, getRoomByCategorySQL, string(c)))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Room{}, domain.ErrNotFound
	}
	return rm, err
}

func (r *Repo) UpdateRoomRates(ctx context.Context, code string, direct, platform decimal.Decimal) error {
	res, err := r.db.ExecContext(ctx, updateRoomRatesSQL, direct, platform, code)
	if err != nil {
		return err
	}
	return r.rowsOrMissing(ctx, res, roomExistsSQL, code)
}

// ---- gallery ----

func mediaArgs(m domain.RawMediaRecord) []any {
	mt := m.MediaType
	if mt == "" {
		mt = domain.MediaImage
	}
	return []any{m.URL, valStr(m.Title), valStr(m.Description), m.Category, string(mt), valStr(m.Tags), m.Featured, m.SortOrder}
}

func (r *Repo) CreateMedia(ctx context.Context, m domain.RawMediaRecord) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertMediaSQL, mediaArgs(m)...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) UpdateMedia(ctx context.Context, m domain.RawMediaRecord) error {
	res, err := r.db.ExecContext(ctx, updateMediaSQL, append(mediaArgs(m), m.ID)...)
	if err != nil {
		return err
	}
	return r.rowsOrMissing(ctx, res, mediaExistsSQL, m.ID)
}

func (r *Repo) DeleteMedia(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, deleteMediaSQL, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanMedia(s scanner) (domain.RawMediaRecord, error) {
	var m domain.RawMediaRecord
	var title, desc, tags sql.NullString
	var mt string
	if err := s.Scan(&m.ID, &m.URL, &title, &desc, &m.Category, &mt, &tags, &m.Featured, &m.SortOrder); err != nil {
		return domain.RawMediaRecord{}, err
	}
	m.Title, m.Description, m.Tags = strPtr(title), strPtr(desc), strPtr(tags)
	m.MediaType = domain.MediaType(mt)
	return m, nil
}

func (r *Repo) GetMedia(ctx context.Context, id int64) (domain.RawMediaRecord, error) {
	m, err := scanMedia(r.db.QueryRowContext(ctx, getMediaSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.RawMediaRecord{}, domain.ErrNotFound
	}
	return m, err
}

func (r *Repo) ListMedia(ctx context.Context) ([]domain.RawMediaRecord, error) {
	rows, err := r.db.QueryContext(ctx, listMediaSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RawMediaRecord
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ---- booking inquiries ----

func dateOnly(t time.Time) string { return t.Format(time.DateOnly) }

func (r *Repo) CreateInquiry(ctx context.Context, b domain.BookingInquiry) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertInquirySQL,
		b.Reference,
		dateOnly(b.CheckIn),
		dateOnly(b.CheckOut),
		b.Guests,
		string(b.RoomCategory),
		b.Name,
		b.Email,
		valStr(b.SpecialRequests),
		b.QuotedTotal,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) ListInquiries(ctx context.Context, pg domain.PageQuery) ([]domain.BookingInquiry, error) {
	rows, err := r.db.QueryContext(ctx, listInquiriesSQL, pg.Limit, pg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.BookingInquiry
	for rows.Next() {
		var b domain.BookingInquiry
		var cat string
		var special sql.NullString
		if err := rows.Scan(
			&b.ID, &b.Reference, &b.CheckIn, &b.CheckOut, &b.Guests, &cat,
			&b.Name, &b.Email, &special, &b.QuotedTotal, &b.Processed, &b.CreatedAt,
		); err != nil {
			return nil, err
		}
		b.RoomCategory = domain.RoomCategory(cat)
		b.SpecialRequests = strPtr(special)
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repo) MarkInquiryProcessed(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, markInquiryProcessedSQL, id)
	if err != nil {
		return err
	}
	return r.rowsOrMissing(ctx, res, inquiryExistsSQL, id)
}

func (r *Repo) CountOverlapping(ctx context.Context, c domain.RoomCategory, from, to time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, countOverlappingSQL, string(c), dateOnly(to), dateOnly(from)).Scan(&n)
	return n, err
}

// ---- contact messages ----

func (r *Repo) CreateContact(ctx context.Context, m domain.ContactMessage) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertContactSQL, m.Name, m.Email, m.Subject, m.Message)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) ListContacts(ctx context.Context, pg domain.PageQuery) ([]domain.ContactMessage, error) {
	rows, err := r.db.QueryContext(ctx, listContactsSQL, pg.Limit, pg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ContactMessage
	for rows.Next() {
		var m domain.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.Read, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *Repo) MarkContactRead(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, markContactReadSQL, id)
	if err != nil {
		return err
	}
	return r.rowsOrMissing(ctx, res, contactExistsSQL, id)
}
