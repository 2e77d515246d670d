package user

import (
	"context"
)

type Repository interface {
	// Save persists a new user. Returns apperrors.ErrDuplicate when the
	// email is already registered.
	Save(ctx context.Context, u *User) (*User, error)

	GetByID(ctx context.Context, userID int64) (*User, error)

	GetByEmail(ctx context.Context, email string) (*User, error)

	GetByPhoneNumber(ctx context.Context, phoneNumber string) (*User, error)

	UpdateProfile(ctx context.Context, userID int64, p Profile) (*User, error)
}
