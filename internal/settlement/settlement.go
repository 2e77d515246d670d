package settlement

import (
	"context"
	"time"
)

// State is a settlement's position in the
// Validating → Debiting → Finalizing → Settled machine. Rejected and
// PartiallyApplied are the failure exits: Rejected left no side effect,
// PartiallyApplied means the debit committed but finalize did not.
type State string

const (
	StateValidating       State = "VALIDATING"
	StateDebiting         State = "DEBITING"
	StateFinalizing       State = "FINALIZING"
	StateSettled          State = "SETTLED"
	StateRejected         State = "REJECTED"
	StatePartiallyApplied State = "PARTIALLY_APPLIED"
)

// DebitStaleAfter is how long a claim may sit in Debiting before the attempt
// holding it is presumed dead and the claim becomes recoverable through the
// finalize retry path.
const DebitStaleAfter = 5 * time.Minute

// Settlement is the persisted claim for one loan's repayment. Its loan id is
// unique, which is what makes settlement per-loan exclusive: at most one
// in-flight claim can exist, and retries are keyed by loan id.
type Settlement struct {
	LoanID      int64
	AccountID   int64
	BankID      string
	BankName    string
	AmountMinor int64
	State       State
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Repository persists settlement claims. The claim transitions are
// conditional updates; a stale transition matches no row and is reported as
// such rather than silently overwriting a newer state.
type Repository interface {
	// Claim inserts a pending settlement for the loan, taking over an
	// earlier rejected claim if one exists. When an active claim is already
	// present it returns that claim together with apperrors.ErrDuplicate.
	Claim(ctx context.Context, s *Settlement) (*Settlement, error)

	GetByLoanID(ctx context.Context, loanID int64) (*Settlement, error)

	// Transition moves the claim from one state to another. Returns
	// apperrors.ErrNotFound when no claim for the loan is in the from state.
	Transition(ctx context.Context, loanID int64, from, to State) error

	// UpdateAmount refreshes the claimed amount while the claim is still
	// debiting, after a re-read of the total payable under the claim.
	UpdateAmount(ctx context.Context, loanID int64, amountMinor int64) error

	// Release removes a claim that produced no side effect, so the loan can
	// be settled by a later attempt.
	Release(ctx context.Context, loanID int64) error

	// ListPartiallyApplied returns the loans awaiting reconciliation:
	// partially applied claims plus claims stranded in Debiting for longer
	// than DebitStaleAfter.
	ListPartiallyApplied(ctx context.Context) ([]Settlement, error)
}
