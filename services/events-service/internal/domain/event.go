package domain

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("event not found")

type Event struct {
	ID               string `gorm:"primaryKey"`
	Title            string
	Description      string
	Price            float64
	Date             time.Time `gorm:"index"`
	AvailableTickets int
	OrganizerID      string `gorm:"index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
