package loan

import (
	"context"
	"time"
)

// Repository owns Loan persistence. The two lifecycle mutations, accrual and
// settlement, are conditional updates so that overlapping sweeps and
// concurrent settlements resolve to exactly one winner inside the store.
type Repository interface {
	CreateLoan(ctx context.Context, l *Loan) (*Loan, error)

	GetLoanByID(ctx context.Context, loanID int64) (*Loan, error)

	ListByCustomer(ctx context.Context, customerID int64) ([]Loan, error)

	CountUnpaidByCustomer(ctx context.Context, customerID int64) (int, error)

	ListUnpaidIDs(ctx context.Context) ([]int64, error)

	// ApplyAccrual adds penaltyMinor to the loan's total payable, but only
	// when the loan is still unpaid and has not already accrued for
	// accruedOn. Returns false when the conditional update matched no row.
	ApplyAccrual(ctx context.Context, loanID int64, penaltyMinor int64, accruedOn time.Time) (bool, error)

	// MarkPaid flips loanPaid to true and records the settling bank name,
	// but only when the loan is still unpaid. Returns
	// apperrors.ErrAlreadyPaid when the flag was already set and
	// apperrors.ErrNotFound when the loan does not exist.
	MarkPaid(ctx context.Context, loanID int64, settlingBankName string) (*Loan, error)
}
