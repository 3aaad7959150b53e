package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingInquiry struct {
	ID              int64           `json:"id"`
	Reference       string          `json:"reference"`
	CheckIn         time.Time       `json:"checkIn"`
	CheckOut        time.Time       `json:"checkOut"`
	Guests          int             `json:"guests"`
	RoomCategory    RoomCategory    `json:"roomCategory"`
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	SpecialRequests *string         `json:"specialRequests,omitempty"`
	QuotedTotal     decimal.Decimal `json:"quotedTotal"`
	Processed       bool            `json:"processed"`
	CreatedAt       time.Time       `json:"createdAt"`
}

type ContactMessage struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

type PageQuery struct {
	Limit  int
	Offset int
}
