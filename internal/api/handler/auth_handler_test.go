package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"lending-engine/internal/api/handler/dto"
	"lending-engine/internal/config"
	"lending-engine/internal/domain/user"
	"lending-engine/internal/pkg/apperrors"
)

func authTestConfig() config.AuthConfig {
	return config.AuthConfig{
		Enabled:   true,
		JWTSecret: "unit-test-secret",
		TokenTTL:  time.Hour,
	}
}

func TestAuthHandlerLogin(t *testing.T) {
	t.Run("issues a token whose subject is the user id", func(t *testing.T) {
		mockUsers := new(MockUserService)
		h := NewAuthHandler(mockUsers, authTestConfig(), testLogger)

		mockUsers.On("Authenticate", mock.Anything, "ada@example.com", "s3cretpass").
			Return(&user.User{ID: 7, Email: "ada@example.com"}, nil)

		body := `{"dataField":"ada@example.com","password":"s3cretpass"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
		rec := httptest.NewRecorder()

		h.Login(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp dto.TokenResponse
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.True(t, strings.HasPrefix(resp.Token, "Bearer "))
		assert.Equal(t, "7", resp.User.ID)

		parsed, err := jwt.Parse(strings.TrimPrefix(resp.Token, "Bearer "), func(*jwt.Token) (interface{}, error) {
			return []byte("unit-test-secret"), nil
		})
		assert.NoError(t, err)
		sub, err := parsed.Claims.GetSubject()
		assert.NoError(t, err)
		assert.Equal(t, strconv.FormatInt(7, 10), sub)
	})

	t.Run("wrong password and unknown user are indistinguishable", func(t *testing.T) {
		mockUsers := new(MockUserService)
		h := NewAuthHandler(mockUsers, authTestConfig(), testLogger)

		mockUsers.On("Authenticate", mock.Anything, "ada@example.com", "wrongpass").
			Return(nil, apperrors.ErrUnauthorized)
		mockUsers.On("Authenticate", mock.Anything, "ghost@example.com", "s3cretpass").
			Return(nil, apperrors.ErrNotFound)

		for _, body := range []string{
			`{"dataField":"ada@example.com","password":"wrongpass"}`,
			`{"dataField":"ghost@example.com","password":"s3cretpass"}`,
		} {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
			rec := httptest.NewRecorder()

			h.Login(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			var resp dto.ErrorResponse
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Contains(t, resp.Error.Message, "invalid credentials")
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		mockUsers := new(MockUserService)
		h := NewAuthHandler(mockUsers, authTestConfig(), testLogger)

		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"dataField":""}`))
		rec := httptest.NewRecorder()

		h.Login(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockUsers.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything, mock.Anything)
	})
}
