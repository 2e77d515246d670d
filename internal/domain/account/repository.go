package account

import (
	"context"
)

// Repository owns Account persistence. The balance mutations are conditional
// updates pushed down to the store so a debit can never be torn apart by a
// concurrent writer on the same sub-balance.
type Repository interface {
	// CreateAccount persists the account with its seeded sub-balances.
	// Returns apperrors.ErrDuplicate when the customer already has one.
	CreateAccount(ctx context.Context, acct *Account) (*Account, error)

	GetByID(ctx context.Context, accountID int64) (*Account, error)

	GetByCustomerID(ctx context.Context, customerID int64) (*Account, error)

	// GetSubBalance returns apperrors.ErrUnknownBank when the bank id is not
	// present on the account.
	GetSubBalance(ctx context.Context, accountID int64, bankID string) (*SubBalance, error)

	// CreditSubBalance atomically adds amountMinor to the sub-balance.
	CreditSubBalance(ctx context.Context, accountID int64, bankID string, amountMinor int64) (*SubBalance, error)

	// DebitSubBalance atomically subtracts amountMinor, but only when the
	// current balance covers it. Returns apperrors.ErrInsufficientFunds when
	// it does not, apperrors.ErrUnknownBank when the bank id is absent.
	DebitSubBalance(ctx context.Context, accountID int64, bankID string, amountMinor int64) (*SubBalance, error)
}
