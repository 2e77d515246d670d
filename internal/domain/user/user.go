package user

import (
	"time"
)

type User struct {
	ID          int64
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Avatar      string
	City        string
	State       string
	DOB         string
	// PasswordHash is a bcrypt hash; the plaintext never leaves the service.
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the mutable, non-credential slice of a user.
type Profile struct {
	FirstName   string
	LastName    string
	Avatar      string
	City        string
	State       string
	DOB         string
	PhoneNumber string
}
