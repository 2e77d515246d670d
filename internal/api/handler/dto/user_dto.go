package dto

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"lending-engine/internal/domain/user"
)

type OnboardUserRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
	Avatar      string `json:"avatar,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	DOB         string `json:"dob,omitempty"`
}

func (r *OnboardUserRequest) Validate() error {
	if strings.TrimSpace(r.FirstName) == "" || strings.TrimSpace(r.LastName) == "" {
		return fmt.Errorf("firstName and lastName cannot be empty")
	}
	if strings.TrimSpace(r.Email) == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if len(r.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}

func (r *OnboardUserRequest) ToDomain() *user.User {
	return &user.User{
		FirstName:   strings.TrimSpace(r.FirstName),
		LastName:    strings.TrimSpace(r.LastName),
		Email:       strings.TrimSpace(r.Email),
		PhoneNumber: strings.TrimSpace(r.PhoneNumber),
		Avatar:      r.Avatar,
		City:        r.City,
		State:       r.State,
		DOB:         r.DOB,
	}
}

// LoginRequest carries either an email or a phone number in dataField.
type LoginRequest struct {
	DataField string `json:"dataField"`
	Password  string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	if strings.TrimSpace(r.DataField) == "" || r.Password == "" {
		return fmt.Errorf("dataField and password are required")
	}
	return nil
}

type UpdateProfileRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Avatar      string `json:"avatar"`
	City        string `json:"city"`
	State       string `json:"state"`
	DOB         string `json:"dob"`
	PhoneNumber string `json:"phoneNumber"`
}

func (r *UpdateProfileRequest) ToProfile() user.Profile {
	return user.Profile{
		FirstName:   strings.TrimSpace(r.FirstName),
		LastName:    strings.TrimSpace(r.LastName),
		Avatar:      r.Avatar,
		City:        r.City,
		State:       r.State,
		DOB:         r.DOB,
		PhoneNumber: strings.TrimSpace(r.PhoneNumber),
	}
}

type UserResponse struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber"`
	Avatar      string    `json:"avatar,omitempty"`
	City        string    `json:"city,omitempty"`
	State       string    `json:"state,omitempty"`
	DOB         string    `json:"dob,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func NewUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:          strconv.FormatInt(u.ID, 10),
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Avatar:      u.Avatar,
		City:        u.City,
		State:       u.State,
		DOB:         u.DOB,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

type TokenResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}
