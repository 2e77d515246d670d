package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"lending-engine/internal/api/handler/dto"
	"lending-engine/internal/api/middleware"
	"lending-engine/internal/domain/loan"
	"lending-engine/internal/domain/user"
	"lending-engine/internal/pkg/apperrors"
	"lending-engine/internal/settlement"
)

type LoanHandler struct {
	ledger      loan.LedgerService
	users       user.UserService
	coordinator *settlement.Coordinator
	logger      *slog.Logger
}

func NewLoanHandler(ledger loan.LedgerService, users user.UserService, coordinator *settlement.Coordinator, l *slog.Logger) *LoanHandler {
	if ledger == nil || users == nil || coordinator == nil {
		panic("loan handler dependencies cannot be nil")
	}
	return &LoanHandler{
		ledger:      ledger,
		users:       users,
		coordinator: coordinator,
		logger:      l.With("component", "LoanHandler"),
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("no request body")
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	if payload == nil {
		w.WriteHeader(status)
		return
	}
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":{"message":"Internal server error"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, err error) {
	status, code, message, field := http.StatusInternalServerError, "", "An unexpected error occurred.", ""
	var validationError *apperrors.ValidationError
	var appErr *apperrors.AppError

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		status, message = http.StatusNotFound, "Resource not found."
	case errors.Is(err, apperrors.ErrInvalidArgument), errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrInvalidAmount), errors.Is(err, apperrors.ErrUnknownBank):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		status, code, message = http.StatusUnprocessableEntity, "INSUFFICIENT_FUNDS", err.Error()
	case errors.Is(err, apperrors.ErrLimitExceeded), errors.Is(err, apperrors.ErrAlreadyPaid),
		errors.Is(err, apperrors.ErrDuplicate):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, apperrors.ErrIdentityMismatch), errors.Is(err, apperrors.ErrUnauthorized):
		status, message = http.StatusUnauthorized, err.Error()
	case errors.Is(err, apperrors.ErrForbidden):
		status, message = http.StatusForbidden, err.Error()
	case errors.Is(err, apperrors.ErrPartiallyApplied):
		// The debit landed but the paid flag did not; the caller must retry
		// the finalize, never the whole payment.
		status, code, message = http.StatusConflict, "PARTIALLY_APPLIED", err.Error()
	case errors.Is(err, apperrors.ErrTransient):
		status, code, message = http.StatusServiceUnavailable, "TRANSIENT", err.Error()
	case errors.As(err, &validationError):
		status, message, field = http.StatusBadRequest, validationError.Message, validationError.Field
	case errors.As(err, &appErr):
		message = appErr.Error()
	default:
		slog.Default().Error("Unhandled internal error", "error", err)
	}

	resp := dto.ErrorResponse{
		Error: dto.ErrorDetail{
			Code:    code,
			Message: message,
			Field:   field,
		},
	}
	respondJSON(w, status, resp)
}

func callerID(r *http.Request) (int64, error) {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return 0, fmt.Errorf("%w: no authenticated user", apperrors.ErrUnauthorized)
	}
	return id, nil
}

func getLoanIDFromURL(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "loanID")
	if idStr == "" {
		return 0, fmt.Errorf("%w: loanID not found in URL path", apperrors.ErrInvalidArgument)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid loanID format in URL path: %s", apperrors.ErrInvalidArgument, idStr)
	}
	return id, nil
}

// RequestLoan handles POST /loans
// @Summary Request a new loan
// @Description Creates a loan for the authenticated customer after re-verifying the password and the supplied BVN. The repayment deadline is three months from today.
// @Tags Loans
// @Accept json
// @Produce json
// @Param request body dto.RequestLoanRequest true "Loan request payload"
// @Success 201 {object} dto.LoanResponse "Loan successfully created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 401 {object} dto.ErrorResponse "Password or BVN does not match the customer's identity"
// @Failure 409 {object} dto.ErrorResponse "Unpaid loan limit reached"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans [post]
// @Security BearerAuth
func (h *LoanHandler) RequestLoan(w http.ResponseWriter, r *http.Request) {
	customerID, err := callerID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.RequestLoanRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	principalMinor, err := dto.ParseAmountMinor(req.Amount)
	if err != nil {
		respondError(w, err)
		return
	}

	ok, err := h.users.VerifyPassword(r.Context(), customerID, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	if !ok {
		h.logger.WarnContext(r.Context(), "Password confirmation failed", "customerID", customerID)
		respondError(w, fmt.Errorf("%w: password incorrect", apperrors.ErrUnauthorized))
		return
	}

	created, err := h.ledger.RequestLoan(r.Context(), customerID, principalMinor, req.BVN)
	if err != nil {
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Loan created", "loanID", created.ID, "customerID", customerID)
	respondJSON(w, http.StatusCreated, dto.NewLoanResponse(created))
}

// ListLoans handles GET /loans
// @Summary List the caller's loans
// @Description Returns every loan belonging to the authenticated customer, newest first.
// @Tags Loans
// @Produce json
// @Success 200 {array} dto.LoanResponse "Loans retrieved"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans [get]
// @Security BearerAuth
func (h *LoanHandler) ListLoans(w http.ResponseWriter, r *http.Request) {
	customerID, err := callerID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	loans, err := h.ledger.ListForCustomer(r.Context(), customerID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to list loans", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := make([]dto.LoanResponse, len(loans))
	for i := range loans {
		resp[i] = dto.NewLoanResponse(&loans[i])
	}
	respondJSON(w, http.StatusOK, resp)
}

// GetLoan handles GET /loans/{loanID}
// @Summary Retrieve one loan
// @Description Returns a single loan. Loans belonging to other customers are reported as not found.
// @Tags Loans
// @Produce json
// @Param loanID path int true "Loan ID"
// @Success 200 {object} dto.LoanResponse "Loan retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/{loanID} [get]
// @Security BearerAuth
func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	customerID, err := callerID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	loanID, err := getLoanIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	l, err := h.ledger.Get(r.Context(), loanID)
	if err != nil {
		respondError(w, err)
		return
	}
	if l.CustomerID != customerID {
		respondError(w, fmt.Errorf("%w: loan %d", apperrors.ErrNotFound, loanID))
		return
	}

	respondJSON(w, http.StatusOK, dto.NewLoanResponse(l))
}

// PayLoan handles POST /loans/{loanID}/payments
// @Summary Settle a loan
// @Description Debits the chosen sub-balance for the full amount payable and marks the loan paid. The two effects become visible together or not at all.
// @Tags Loans
// @Accept json
// @Produce json
// @Param loanID path int true "Loan ID"
// @Param request body dto.PayLoanRequest true "Settlement payload naming the paying bank"
// @Success 200 {object} dto.SettlementResponse "Loan settled"
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID, payload, or unknown bank"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 409 {object} dto.ErrorResponse "Loan already paid, or debited but awaiting finalize retry"
// @Failure 422 {object} dto.ErrorResponse "Insufficient funds in the chosen sub-balance"
// @Failure 503 {object} dto.ErrorResponse "A concurrent settlement attempt holds the claim"
// @Router /loans/{loanID}/payments [post]
// @Security BearerAuth
func (h *LoanHandler) PayLoan(w http.ResponseWriter, r *http.Request) {
	customerID, err := callerID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	loanID, err := getLoanIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.PayLoanRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	result, err := h.coordinator.PayLoan(r.Context(), customerID, loanID, req.BankID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewSettlementResponse(loanID, result))
}

// RetryPayment handles POST /loans/{loanID}/payments/retry
// @Summary Retry the finalize step of a settlement
// @Description Re-runs only the paid-flag write for a settlement whose debit already committed. Idempotent for settled loans. Never debits again.
// @Tags Loans
// @Produce json
// @Param loanID path int true "Loan ID"
// @Success 200 {object} dto.SettlementResponse "Settlement finalized"
// @Failure 400 {object} dto.ErrorResponse "Settlement is not awaiting finalize"
// @Failure 404 {object} dto.ErrorResponse "No settlement claim for this loan"
// @Failure 409 {object} dto.ErrorResponse "Finalize failed again; the gap remains"
// @Failure 503 {object} dto.ErrorResponse "The settlement is still debiting"
// @Router /loans/{loanID}/payments/retry [post]
// @Security BearerAuth
func (h *LoanHandler) RetryPayment(w http.ResponseWriter, r *http.Request) {
	loanID, err := getLoanIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	result, err := h.coordinator.RetryFinalize(r.Context(), loanID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewSettlementResponse(loanID, result))
}

// ListReconciliation handles GET /settlements/reconciliation
// @Summary List settlements awaiting reconciliation
// @Description Returns the settlements whose debit committed but whose loan is not yet marked paid.
// @Tags Settlements
// @Produce json
// @Success 200 {array} dto.ReconciliationEntryResponse "Pending reconciliations"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /settlements/reconciliation [get]
// @Security BearerAuth
func (h *LoanHandler) ListReconciliation(w http.ResponseWriter, r *http.Request) {
	pending, err := h.coordinator.ListPendingReconciliation(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to list pending reconciliation", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := make([]dto.ReconciliationEntryResponse, len(pending))
	for i := range pending {
		resp[i] = dto.NewReconciliationEntryResponse(&pending[i])
	}
	respondJSON(w, http.StatusOK, resp)
}
