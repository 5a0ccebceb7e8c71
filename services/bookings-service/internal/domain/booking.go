package domain

import (
	"errors"
	"time"
)

var (
	ErrBookingNotFound     = errors.New("booking not found")
	ErrEventNotFound       = errors.New("event not found")
	ErrInsufficientTickets = errors.New("not enough tickets available")
)

const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
)

// Booking is authoritative here. UserEmail and EventTitle are denormalized at
// creation so downstream consumers never need a round trip.
type Booking struct {
	ID         string `gorm:"primaryKey"`
	EventID    string `gorm:"index"`
	UserID     string `gorm:"index"`
	UserEmail  string
	EventTitle string
	Quantity   int
	TotalPrice float64 // fixed at creation from price × quantity, never recomputed
	Status     string  `gorm:"index"` // PENDING|CONFIRMED
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Event is this service's replica of an event owned by the events service,
// kept converged through event.* messages. The id is the cross-service one.
type Event struct {
	ID               string `gorm:"primaryKey"`
	Title            string
	Description      string
	Price            float64
	Date             time.Time
	AvailableTickets int
	OrganizerID      string
	CreatedAt        time.Time
}
