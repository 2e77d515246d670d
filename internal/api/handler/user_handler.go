package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"lending-engine/internal/api/handler/dto"
	"lending-engine/internal/domain/user"
	"lending-engine/internal/pkg/apperrors"
)

type UserHandler struct {
	users  user.UserService
	logger *slog.Logger
}

func NewUserHandler(users user.UserService, l *slog.Logger) *UserHandler {
	if users == nil {
		panic("user service cannot be nil")
	}
	return &UserHandler{
		users:  users,
		logger: l.With("component", "UserHandler"),
	}
}

// Onboard handles POST /users
// @Summary Register a new user
// @Description Creates a user record with a bcrypt password hash. The email must not already be registered.
// @Tags Users
// @Accept json
// @Produce json
// @Param request body dto.OnboardUserRequest true "Onboarding payload"
// @Success 201 {object} dto.UserResponse "User successfully registered"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users [post]
func (h *UserHandler) Onboard(w http.ResponseWriter, r *http.Request) {
	var req dto.OnboardUserRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	created, err := h.users.Onboard(r.Context(), req.ToDomain(), req.Password)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to onboard user", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "User onboarded", "userID", created.ID)
	respondJSON(w, http.StatusCreated, dto.NewUserResponse(created))
}

// GetMe handles GET /users/me
// @Summary Retrieve the authenticated user's profile
// @Tags Users
// @Produce json
// @Success 200 {object} dto.UserResponse "Profile retrieved"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid credentials"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/me [get]
// @Security BearerAuth
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	u, err := h.users.Get(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewUserResponse(u))
}

// UpdateProfile handles PUT /users/me/profile
// @Summary Update the authenticated user's profile
// @Description Replaces the mutable, non-credential profile fields.
// @Tags Users
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Profile payload"
// @Success 200 {object} dto.UserResponse "Profile updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid credentials"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/me/profile [put]
// @Security BearerAuth
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	updated, err := h.users.UpdateProfile(r.Context(), userID, req.ToProfile())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewUserResponse(updated))
}
