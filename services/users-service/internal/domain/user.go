package domain

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("user not found")

type User struct {
	ID        string `gorm:"primaryKey"`
	Email     string `gorm:"uniqueIndex"`
	Password  string // bcrypt hash
	Firstname string
	Lastname  string
	Role      string `gorm:"index"` // USER|ORGANIZER|ADMIN
	CreatedAt time.Time
	UpdatedAt time.Time
}
