package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"lending-engine/internal/api/handler/dto"
	"lending-engine/internal/domain/account"
	"lending-engine/internal/domain/user"
	"lending-engine/internal/pkg/apperrors"
)

type AccountHandler struct {
	accounts account.AccountService
	users    user.UserService
	logger   *slog.Logger
}

func NewAccountHandler(accounts account.AccountService, users user.UserService, l *slog.Logger) *AccountHandler {
	if accounts == nil || users == nil {
		panic("account handler dependencies cannot be nil")
	}
	return &AccountHandler{
		accounts: accounts,
		users:    users,
		logger:   l.With("component", "AccountHandler"),
	}
}

func getBankIDFromURL(r *http.Request) (string, error) {
	bankID := chi.URLParam(r, "bankID")
	if bankID == "" {
		return "", fmt.Errorf("%w: bankID not found in URL path", apperrors.ErrInvalidArgument)
	}
	return bankID, nil
}

// CreateAccount handles POST /accounts
// @Summary Open an account for the authenticated user
// @Description Re-verifies the password, seeds the default bank sub-balances, and seals a freshly generated BVN into the account. The plaintext BVN is returned exactly once.
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body dto.CreateAccountRequest true "Password confirmation payload"
// @Success 201 {object} dto.CreateAccountResponse "Account opened"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 401 {object} dto.ErrorResponse "Missing credentials or wrong password"
// @Failure 409 {object} dto.ErrorResponse "User already has an account"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /accounts [post]
// @Security BearerAuth
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.CreateAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	ok, err := h.users.VerifyPassword(r.Context(), userID, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	if !ok {
		h.logger.WarnContext(r.Context(), "Password confirmation failed", "userID", userID)
		respondError(w, fmt.Errorf("%w: password incorrect", apperrors.ErrUnauthorized))
		return
	}

	created, err := h.accounts.Create(r.Context(), userID, nil)
	if err != nil {
		respondError(w, err)
		return
	}

	bvn, err := h.accounts.RevealIdentity(r.Context(), created.ID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to reveal identity for new account", "accountID", created.ID, slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Account created", "accountID", created.ID, "userID", userID)
	respondJSON(w, http.StatusCreated, dto.CreateAccountResponse{
		AccountResponse: dto.NewAccountResponse(created),
		BVN:             bvn,
	})
}

// GetAccount handles GET /accounts/me
// @Summary Retrieve the authenticated user's account
// @Description Returns the account with all bank sub-balances. The BVN is never included.
// @Tags Accounts
// @Produce json
// @Success 200 {object} dto.AccountResponse "Account retrieved"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid credentials"
// @Failure 404 {object} dto.ErrorResponse "No account for this user"
// @Router /accounts/me [get]
// @Security BearerAuth
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	acct, err := h.accounts.GetByCustomer(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewAccountResponse(acct))
}

// Credit handles POST /accounts/me/banks/{bankID}/credits
// @Summary Top up a bank sub-balance
// @Description Adds the given amount to the named sub-balance. Negative amounts are rejected.
// @Tags Accounts
// @Accept json
// @Produce json
// @Param bankID path string true "Bank ID"
// @Param request body dto.CreditRequest true "Credit payload"
// @Success 200 {object} dto.SubBalanceResponse "Sub-balance after the credit"
// @Failure 400 {object} dto.ErrorResponse "Invalid amount or unknown bank"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid credentials"
// @Failure 404 {object} dto.ErrorResponse "No account for this user"
// @Router /accounts/me/banks/{bankID}/credits [post]
// @Security BearerAuth
func (h *AccountHandler) Credit(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	bankID, err := getBankIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.CreditRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	amountMinor, err := dto.ParseAmountMinor(req.Amount)
	if err != nil {
		respondError(w, err)
		return
	}

	acct, err := h.accounts.GetByCustomer(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}

	bal, err := h.accounts.Credit(r.Context(), acct.ID, bankID, amountMinor)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewSubBalanceResponse(bal))
}

// RevealIdentity handles GET /accounts/me/identity
// @Summary Reveal the sealed BVN
// @Description Decrypts and returns the account's identity token for its owner.
// @Tags Accounts
// @Produce json
// @Success 200 {object} dto.IdentityResponse "Identity revealed"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid credentials"
// @Failure 404 {object} dto.ErrorResponse "No account for this user"
// @Router /accounts/me/identity [get]
// @Security BearerAuth
func (h *AccountHandler) RevealIdentity(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	acct, err := h.accounts.GetByCustomer(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}

	bvn, err := h.accounts.RevealIdentity(r.Context(), acct.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.IdentityResponse{BVN: bvn})
}
