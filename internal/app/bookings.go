package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"ko_lake_villa/internal/domain"
)

const dateLayout = "2006-01-02"

type InquiryInput struct {
	CheckIn         string  `json:"checkIn" validate:"required,datetime=2006-01-02"`
	CheckOut        string  `json:"checkOut" validate:"required,datetime=2006-01-02"`
	Guests          int     `json:"guests" validate:"min=1,max=18"`
	RoomCategory    string  `json:"roomCategory" validate:"required,oneof=villa suite room"`
	Name            string  `json:"name" validate:"required,max=120"`
	Email           string  `json:"email" validate:"required,email,max=254"`
	SpecialRequests *string `json:"specialRequests" validate:"omitempty,max=2000"`
}

type ContactInput struct {
	Name    string `json:"name" validate:"required,max=120"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

// BookingService records booking inquiries and contact messages. Inquiries
// carry a snapshot of the quote the guest saw.
type BookingService struct {
	repo   domain.BookingRepository
	quotes *QuoteService
	log    zerolog.Logger
	now    func() time.Time
}

func NewBookingService(r domain.BookingRepository, q *QuoteService, l zerolog.Logger) *BookingService {
	return &BookingService{repo: r, quotes: q, log: l, now: time.Now}
}

func (s *BookingService) CreateInquiry(ctx context.Context, in InquiryInput) (domain.BookingInquiry, error) {
	if err := validateStruct(in); err != nil {
		return domain.BookingInquiry{}, err
	}
	checkIn, _ := time.Parse(dateLayout, in.CheckIn)
	checkOut, _ := time.Parse(dateLayout, in.CheckOut)
	if !checkOut.After(checkIn) {
		return domain.BookingInquiry{}, domain.ErrInvalidRange
	}

	b := domain.BookingInquiry{
		Reference:       uuid.NewString(),
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Guests:          in.Guests,
		RoomCategory:    domain.RoomCategory(in.RoomCategory),
		Name:            in.Name,
		Email:           in.Email,
		SpecialRequests: in.SpecialRequests,
	}
	total, err := s.quotes.QuoteOrZero(ctx, StayQuery{CheckIn: checkIn, CheckOut: checkOut, RoomCategory: b.RoomCategory})
	if err != nil {
		s.log.Warn().Err(err).Str("reference", b.Reference).Msg("inquiry stored without quote")
	}
	b.QuotedTotal = total

	id, err := s.repo.CreateInquiry(ctx, b)
	if err != nil {
		return domain.BookingInquiry{}, err
	}
	b.ID = id
	b.CreatedAt = s.now().UTC()
	s.log.Info().
		Str("reference", b.Reference).
		Str("category", in.RoomCategory).
		Str("quoted", total.StringFixed(2)).
		Msg("booking inquiry received")
	return b, nil
}

func (s *BookingService) Inquiries(ctx context.Context, pg domain.PageQuery) ([]domain.BookingInquiry, error) {
	return s.repo.ListInquiries(ctx, normPage(pg))
}

func (s *BookingService) MarkProcessed(ctx context.Context, id int64) error {
	return s.repo.MarkInquiryProcessed(ctx, id)
}

func (s *BookingService) CreateContact(ctx context.Context, in ContactInput) (domain.ContactMessage, error) {
	if err := validateStruct(in); err != nil {
		return domain.ContactMessage{}, err
	}
	m := domain.ContactMessage{Name: in.Name, Email: in.Email, Subject: in.Subject, Message: in.Message}
	id, err := s.repo.CreateContact(ctx, m)
	if err != nil {
		return domain.ContactMessage{}, err
	}
	m.ID = id
	m.CreatedAt = s.now().UTC()
	return m, nil
}

func (s *BookingService) Contacts(ctx context.Context, pg domain.PageQuery) ([]domain.ContactMessage, error) {
	return s.repo.ListContacts(ctx, normPage(pg))
}

func (s *BookingService) MarkRead(ctx context.Context, id int64) error {
	return s.repo.MarkContactRead(ctx, id)
}
