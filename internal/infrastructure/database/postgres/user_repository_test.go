package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"

	"lending-engine/internal/domain/user"
	"lending-engine/internal/pkg/apperrors"
)

func setupUserRepo(t *testing.T) (context.Context, *UserRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to open a stub database connection: %v", err)
	}

	ctx := context.Background()
	repo := NewUserRepository(mockPool, logger)

	return ctx, repo, mockPool
}

func userRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "first_name", "last_name", "email", "phone_number",
		"avatar", "city", "state", "dob", "password_hash", "created_at", "updated_at",
	})
}

func TestUserRepositorySave(t *testing.T) {
	ctx, repo, mockPool := setupUserRepo(t)
	defer mockPool.Close()

	now := time.Now()
	newUser := &user.User{
		FirstName:    "Ada",
		LastName:     "Eze",
		Email:        "ada@example.com",
		PhoneNumber:  "+2348012345678",
		PasswordHash: "$2a$10$hash",
	}

	t.Run("successful save", func(t *testing.T) {
		mockPool.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
			WithArgs(newUser.FirstName, newUser.LastName, newUser.Email, newUser.PhoneNumber,
				newUser.Avatar, newUser.City, newUser.State, newUser.DOB, newUser.PasswordHash).
			WillReturnRows(userRows().AddRow(
				int64(1), "Ada", "Eze", "ada@example.com", "+2348012345678",
				"", "", "", "", "$2a$10$hash", now, now,
			))

		saved, err := repo.Save(ctx, newUser)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), saved.ID)
		assert.Equal(t, "ada@example.com", saved.Email)
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})

	t.Run("duplicate email", func(t *testing.T) {
		mockPool.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
			WithArgs(newUser.FirstName, newUser.LastName, newUser.Email, newUser.PhoneNumber,
				newUser.Avatar, newUser.City, newUser.State, newUser.DOB, newUser.PasswordHash).
			WillReturnError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "users_email_key"})

		saved, err := repo.Save(ctx, newUser)
		assert.Nil(t, saved)
		assert.ErrorIs(t, err, apperrors.ErrDuplicate)
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})
}

func TestUserRepositoryGetByEmail(t *testing.T) {
	ctx, repo, mockPool := setupUserRepo(t)
	defer mockPool.Close()

	now := time.Now()

	t.Run("found", func(t *testing.T) {
		mockPool.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE email = $1`)).
			WithArgs("ada@example.com").
			WillReturnRows(userRows().AddRow(
				int64(1), "Ada", "Eze", "ada@example.com", "+2348012345678",
				"", "Lagos", "LA", "1990-01-01", "$2a$10$hash", now, now,
			))

		u, err := repo.GetByEmail(ctx, "ada@example.com")
		assert.NoError(t, err)
		assert.Equal(t, "Lagos", u.City)
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})

	t.Run("not found", func(t *testing.T) {
		mockPool.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE email = $1`)).
			WithArgs("ghost@example.com").
			WillReturnRows(userRows())

		u, err := repo.GetByEmail(ctx, "ghost@example.com")
		assert.Nil(t, u)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})
}

func TestUserRepositoryUpdateProfile(t *testing.T) {
	ctx, repo, mockPool := setupUserRepo(t)
	defer mockPool.Close()

	now := time.Now()
	profile := user.Profile{
		FirstName:   "Ada",
		LastName:    "Obi",
		Avatar:      "https://cdn.example.com/a.png",
		City:        "Abuja",
		State:       "FC",
		DOB:         "1990-01-01",
		PhoneNumber: "+2348098765432",
	}

	t.Run("successful update", func(t *testing.T) {
		mockPool.ExpectQuery(regexp.QuoteMeta(`UPDATE users`)).
			WithArgs(int64(1), profile.FirstName, profile.LastName, profile.Avatar,
				profile.City, profile.State, profile.DOB, profile.PhoneNumber).
			WillReturnRows(userRows().AddRow(
				int64(1), "Ada", "Obi", "ada@example.com", "+2348098765432",
				profile.Avatar, "Abuja", "FC", "1990-01-01", "$2a$10$hash", now, now,
			))

		u, err := repo.UpdateProfile(ctx, 1, profile)
		assert.NoError(t, err)
		assert.Equal(t, "Obi", u.LastName)
		assert.Equal(t, "Abuja", u.City)
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})

	t.Run("user missing", func(t *testing.T) {
		mockPool.ExpectQuery(regexp.QuoteMeta(`UPDATE users`)).
			WithArgs(int64(9), profile.FirstName, profile.LastName, profile.Avatar,
				profile.City, profile.State, profile.DOB, profile.PhoneNumber).
			WillReturnRows(userRows())

		u, err := repo.UpdateProfile(ctx, 9, profile)
		assert.Nil(t, u)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})
}
