package domain

import "errors"

var ErrNotFound = errors.New("auth user not found")

// AuthUser is this service's replica of a user owned by the users service.
// The id always comes from the user.created payload, never generated here.
type AuthUser struct {
	ID       string `gorm:"primaryKey"`
	Email    string `gorm:"uniqueIndex"`
	Password string // bcrypt hash, mirrored for login verification
	Role     string
}
