package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"lending-engine/internal/api/handler/dto"
	"lending-engine/internal/config"
	"lending-engine/internal/domain/user"
	"lending-engine/internal/pkg/apperrors"
)

type AuthHandler struct {
	users  user.UserService
	cfg    config.AuthConfig
	logger *slog.Logger
}

func NewAuthHandler(users user.UserService, cfg config.AuthConfig, l *slog.Logger) *AuthHandler {
	if users == nil {
		panic("user service cannot be nil")
	}
	return &AuthHandler{
		users:  users,
		cfg:    cfg,
		logger: l.With("component", "AuthHandler"),
	}
}

// Login handles POST /auth/login
// @Summary Authenticate and obtain a bearer token
// @Description Verifies the password for the user identified by email or phone number and issues a JWT whose subject is the user id.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login payload (dataField is an email or phone number)"
// @Success 200 {object} dto.TokenResponse "Token issued"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 401 {object} dto.ErrorResponse "Unknown user or wrong password"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode login request", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	u, err := h.users.Authenticate(r.Context(), req.DataField, req.Password)
	if err != nil {
		// Unknown users and wrong passwords look the same to the caller.
		if !apperrors.Retryable(err) {
			err = fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
		}
		respondError(w, err)
		return
	}

	ttl := h.cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	expiresAt := time.Now().Add(ttl)
	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(u.ID, 10),
		"exp": expiresAt.Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(h.cfg.JWTSecret))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to sign token", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: could not issue token", apperrors.ErrInternalServer))
		return
	}

	h.logger.InfoContext(r.Context(), "User authenticated", "userID", u.ID)
	respondJSON(w, http.StatusOK, dto.TokenResponse{
		Token:     fmt.Sprintf("Bearer %s", tokenString),
		ExpiresAt: expiresAt,
		User:      dto.NewUserResponse(u),
	})
}
