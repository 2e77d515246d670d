package user

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"lending-engine/internal/pkg/apperrors"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

type UserService interface {
	Onboard(ctx context.Context, u *User, password string) (*User, error)

	// Authenticate resolves dataField as an email or phone number and
	// verifies the password against the stored hash.
	Authenticate(ctx context.Context, dataField, password string) (*User, error)

	// VerifyPassword re-checks an already authenticated user's password, as
	// required before account creation and loan requests.
	VerifyPassword(ctx context.Context, userID int64, password string) (bool, error)

	Get(ctx context.Context, userID int64) (*User, error)

	UpdateProfile(ctx context.Context, userID int64, p Profile) (*User, error)
}

var _ UserService = (*userService)(nil)

type userService struct {
	repo   Repository
	logger *slog.Logger
}

func NewUserService(repo Repository, logger *slog.Logger) UserService {
	if repo == nil {
		panic("user repository cannot be nil")
	}
	return &userService{
		repo:   repo,
		logger: logger.With(slog.String("component", "userService")),
	}
}

func (s *userService) Onboard(ctx context.Context, u *User, password string) (*User, error) {
	s.logger.InfoContext(ctx, "Onboarding user")

	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Email == "" {
		return nil, apperrors.NewValidationError("email", "must not be empty")
	}
	if len(password) < 8 {
		return nil, apperrors.NewValidationError("password", "must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to hash password", slog.Any("error", err))
		return nil, fmt.Errorf("%w: could not hash password: %v", apperrors.ErrInternalServer, err)
	}
	u.PasswordHash = string(hash)

	created, err := s.repo.Save(ctx, u)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to save user", slog.Any("error", err))
		return nil, err
	}

	s.logger.InfoContext(ctx, "User onboarded", "userID", created.ID)
	return created, nil
}

func (s *userService) Authenticate(ctx context.Context, dataField, password string) (*User, error) {
	dataField = strings.TrimSpace(dataField)

	var (
		u   *User
		err error
	)
	if phonePattern.MatchString(dataField) {
		u, err = s.repo.GetByPhoneNumber(ctx, dataField)
	} else {
		u, err = s.repo.GetByEmail(ctx, strings.ToLower(dataField))
	}
	if err != nil {
		s.logger.WarnContext(ctx, "Authentication lookup failed", slog.Any("error", err))
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		s.logger.WarnContext(ctx, "Password mismatch", "userID", u.ID)
		return nil, fmt.Errorf("%w: password incorrect", apperrors.ErrUnauthorized)
	}
	return u, nil
}

func (s *userService) VerifyPassword(ctx context.Context, userID int64, password string) (bool, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil, nil
}

func (s *userService) Get(ctx context.Context, userID int64) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *userService) UpdateProfile(ctx context.Context, userID int64, p Profile) (*User, error) {
	u, err := s.repo.UpdateProfile(ctx, userID, p)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to update profile", "userID", userID, slog.Any("error", err))
		return nil, err
	}
	s.logger.InfoContext(ctx, "Profile updated", "userID", userID)
	return u, nil
}
