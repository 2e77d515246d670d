package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("resource not found")

	ErrDuplicate = errors.New("resource already exists")

	ErrInvalidArgument = errors.New("invalid argument")

	ErrValidation = errors.New("validation failed")

	ErrInvalidAmount = errors.New("invalid amount")

	ErrInsufficientFunds = errors.New("insufficient funds")

	ErrUnknownBank = errors.New("bank not present on account")

	ErrLimitExceeded = errors.New("too many outstanding loans")

	ErrIdentityMismatch = errors.New("identity verification failed")

	ErrAlreadyPaid = errors.New("loan is already paid")

	// ErrPartiallyApplied marks a settlement whose debit committed but whose
	// finalize step did not. It must never be reported as success and must
	// never trigger a second debit; only the finalize step may be retried.
	ErrPartiallyApplied = errors.New("settlement partially applied, reconciliation required")

	ErrTransient = errors.New("transient failure, safe to retry")

	ErrDatabase = errors.New("database error")

	ErrInternalServer = errors.New("internal server error")

	ErrUnauthorized = errors.New("unauthorized")

	ErrForbidden = errors.New("forbidden")
)

// Retryable reports whether the caller may retry the whole operation with the
// same arguments. Business-rule rejections are final and never retryable.
func Retryable(err error) bool {
	return errors.Is(err, ErrTransient)
}

type ValidationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

func NewValidationError(field, message string) error {

	return fmt.Errorf("%w: %w", ErrValidation, &ValidationError{Field: field, Message: message})
}

type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func WrapDatabaseError(cause error, message string) error {
	return &AppError{
		Code:    "DB_ERROR",
		Message: message,
		Cause:   fmt.Errorf("%w: %w", ErrDatabase, cause),
	}
}
