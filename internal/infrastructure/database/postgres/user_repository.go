package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"lending-engine/internal/domain/user"
	"lending-engine/internal/pkg/apperrors"
)

type UserRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ user.Repository = (*UserRepository)(nil)

func NewUserRepository(db DBPool, logger *slog.Logger) *UserRepository {
	return &UserRepository{db: db, logger: logger.With("component", "UserRepository")}
}

const userColumns = `id, first_name, last_name, email, phone_number, COALESCE(avatar, ''), COALESCE(city, ''), COALESCE(state, ''), COALESCE(dob, ''), password_hash, created_at, updated_at`

func scanUser(row pgx.Row, u *user.User) error {
	return row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PhoneNumber,
		&u.Avatar, &u.City, &u.State, &u.DOB, &u.PasswordHash,
		&u.CreatedAt, &u.UpdatedAt,
	)
}

func (r *UserRepository) Save(ctx context.Context, u *user.User) (*user.User, error) {
	query := `
        INSERT INTO users (first_name, last_name, email, phone_number, avatar, city, state, dob, password_hash, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
        RETURNING ` + userColumns

	var saved user.User
	err := scanUser(r.db.QueryRow(ctx, query,
		u.FirstName, u.LastName, u.Email, u.PhoneNumber, u.Avatar, u.City, u.State, u.DOB, u.PasswordHash,
	), &saved)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to save user", "email", u.Email, "error", err)
		return nil, translateDBError(err, r.logger)
	}
	r.logger.InfoContext(ctx, "User saved", "user_id", saved.ID)
	return &saved, nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.getOne(ctx, query, userID)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.getOne(ctx, query, email)
}

func (r *UserRepository) GetByPhoneNumber(ctx context.Context, phoneNumber string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE phone_number = $1`
	return r.getOne(ctx, query, phoneNumber)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*user.User, error) {
	var u user.User
	err := scanUser(r.db.QueryRow(ctx, query, arg), &u)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get user", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return &u, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, userID int64, p user.Profile) (*user.User, error) {
	query := `
        UPDATE users
        SET first_name = $2, last_name = $3, avatar = $4, city = $5, state = $6, dob = $7, phone_number = $8, updated_at = NOW()
        WHERE id = $1
        RETURNING ` + userColumns

	var updated user.User
	err := scanUser(r.db.QueryRow(ctx, query,
		userID, p.FirstName, p.LastName, p.Avatar, p.City, p.State, p.DOB, p.PhoneNumber,
	), &updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to update profile", "user_id", userID, "error", err)
		return nil, translateDBError(err, r.logger)
	}
	r.logger.InfoContext(ctx, "Profile updated", "user_id", userID)
	return &updated, nil
}
