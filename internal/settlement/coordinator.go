package settlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"lending-engine/internal/domain/account"
	"lending-engine/internal/domain/loan"
	"lending-engine/internal/event"
	"lending-engine/internal/infrastructure/monitoring"
	"lending-engine/internal/pkg/apperrors"
)

const (
	finalizeAttempts = 3
	finalizeBackoff  = 100 * time.Millisecond
)

// AccountStore is the slice of the account service the coordinator debits
// through.
type AccountStore interface {
	GetByCustomer(ctx context.Context, customerID int64) (*account.Account, error)
	Debit(ctx context.Context, accountID int64, bankID string, amountMinor int64) (*account.SubBalance, error)
}

// Ledger is the slice of the loan ledger the coordinator finalizes through.
type Ledger interface {
	Get(ctx context.Context, loanID int64) (*loan.Loan, error)
	MarkPaid(ctx context.Context, loanID int64, settlingBankName string) (*loan.Loan, error)
}

// Result is the terminal outcome of one settlement attempt.
type Result struct {
	State       State
	Loan        *loan.Loan
	BankName    string
	AmountMinor int64
	// Balance is the debited sub-balance after the debit, when one happened.
	Balance *account.SubBalance
}

// Coordinator drives a repayment through its state machine. The debit and
// the paid flag must become visible together: a rejected settlement leaves
// no side effect, and a debit whose finalize failed is surfaced as
// PartiallyApplied and retried by loan id, never re-debited.
type Coordinator struct {
	accounts AccountStore
	ledger   Ledger
	claims   Repository
	pub      event.Publisher
	logger   *slog.Logger
}

func NewCoordinator(accounts AccountStore, ledger Ledger, claims Repository, pub event.Publisher, logger *slog.Logger) *Coordinator {
	if accounts == nil || ledger == nil || claims == nil {
		panic("coordinator dependencies cannot be nil")
	}
	if pub == nil {
		pub = event.NoopPublisher{}
	}
	return &Coordinator{
		accounts: accounts,
		ledger:   ledger,
		claims:   claims,
		pub:      pub,
		logger:   logger.With(slog.String("component", "settlementCoordinator")),
	}
}

// PayLoan settles the loan by debiting the chosen sub-balance for the full
// amount payable and marking the loan paid.
func (c *Coordinator) PayLoan(ctx context.Context, customerID, loanID int64, bankID string) (*Result, error) {
	logCtx := c.logger.With(slog.Int64("loanID", loanID), slog.Int64("customerID", customerID))

	// Validating: no side effects until everything checks out.
	l, err := c.ledger.Get(ctx, loanID)
	if err != nil {
		return rejected(err)
	}
	if l.CustomerID != customerID {
		logCtx.WarnContext(ctx, "Loan does not belong to caller")
		return rejected(fmt.Errorf("%w: loan %d", apperrors.ErrNotFound, loanID))
	}
	if l.LoanPaid {
		return rejected(fmt.Errorf("%w: loan %d", apperrors.ErrAlreadyPaid, loanID))
	}

	acct, err := c.accounts.GetByCustomer(ctx, customerID)
	if err != nil {
		return rejected(err)
	}
	bank, ok := acct.FindBank(bankID)
	if !ok {
		return rejected(fmt.Errorf("%w: bank %q", apperrors.ErrUnknownBank, bankID))
	}

	// The ledger's total payable is authoritative; the caller only picks
	// which sub-balance settles it.
	amount := l.TotalPayableMinor

	claim, err := c.claims.Claim(ctx, &Settlement{
		LoanID:      loanID,
		AccountID:   acct.ID,
		BankID:      bankID,
		BankName:    bank.BankName,
		AmountMinor: amount,
		State:       StateDebiting,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) && claim != nil {
			return c.resolveExistingClaim(ctx, logCtx, claim)
		}
		return rejected(err)
	}

	// Debiting: exactly one debit, then a determinate outcome. The total
	// payable is re-read under the claim so an accrual landing after the
	// validating read cannot settle the loan short.
	fresh, err := c.ledger.Get(ctx, loanID)
	if err != nil {
		if relErr := c.claims.Release(ctx, loanID); relErr != nil {
			logCtx.ErrorContext(ctx, "Failed to release settlement claim", slog.Any("error", relErr))
		}
		return rejected(err)
	}
	if fresh.TotalPayableMinor != amount {
		logCtx.InfoContext(ctx, "Total payable changed since validation", "claimed", amount, "current", fresh.TotalPayableMinor)
		amount = fresh.TotalPayableMinor
		claim.AmountMinor = amount
		if updErr := c.claims.UpdateAmount(ctx, loanID, amount); updErr != nil {
			logCtx.ErrorContext(ctx, "Failed to record refreshed settlement amount", slog.Any("error", updErr))
		}
	}

	debited, err := c.accounts.Debit(ctx, acct.ID, bankID, amount)
	if err != nil {
		if relErr := c.claims.Release(ctx, loanID); relErr != nil {
			logCtx.ErrorContext(ctx, "Failed to release rejected settlement claim", slog.Any("error", relErr))
		}
		monitoring.RecordSettlement("rejected")
		logCtx.WarnContext(ctx, "Settlement rejected at debit", slog.Any("error", err))
		return rejected(err)
	}

	if err := c.claims.Transition(ctx, loanID, StateDebiting, StateFinalizing); err != nil {
		// The debit is committed; finalize must still run to a determinate
		// outcome, so a claim bookkeeping failure is logged, not returned.
		logCtx.ErrorContext(ctx, "Failed to record finalizing state", slog.Any("error", err))
	}
	claim.State = StateFinalizing

	return c.finalize(ctx, logCtx, claim, debited)
}

// RetryFinalize re-runs only the finalize step for a settlement whose debit
// already committed. It is idempotent: a settled loan returns Settled. A
// claim stranded in Debiting past DebitStaleAfter is taken over and
// finalized; a fresher one is reported transient.
func (c *Coordinator) RetryFinalize(ctx context.Context, loanID int64) (*Result, error) {
	logCtx := c.logger.With(slog.Int64("loanID", loanID))

	claim, err := c.claims.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	switch claim.State {
	case StateSettled:
		l, err := c.ledger.Get(ctx, loanID)
		if err != nil {
			return nil, err
		}
		return &Result{State: StateSettled, Loan: l, BankName: claim.BankName, AmountMinor: claim.AmountMinor}, nil
	case StateFinalizing, StatePartiallyApplied:
		return c.finalize(ctx, logCtx, claim, nil)
	case StateDebiting:
		if time.Since(claim.UpdatedAt) < DebitStaleAfter {
			return nil, fmt.Errorf("%w: settlement for loan %d is still debiting", apperrors.ErrTransient, loanID)
		}
		// The attempt holding this claim died between its debit and the
		// state write. Take the claim over; the conditional transition
		// loses to an attempt that is in fact still alive.
		if trErr := c.claims.Transition(ctx, loanID, StateDebiting, StateFinalizing); trErr != nil {
			return nil, fmt.Errorf("%w: settlement for loan %d was taken over concurrently", apperrors.ErrTransient, loanID)
		}
		claim.State = StateFinalizing
		logCtx.WarnContext(ctx, "Recovering settlement stranded mid-debit", "stale_for", time.Since(claim.UpdatedAt).String())
		return c.finalize(ctx, logCtx, claim, nil)
	default:
		return nil, fmt.Errorf("%w: settlement for loan %d is %s, not awaiting finalize",
			apperrors.ErrInvalidArgument, loanID, claim.State)
	}
}

// ListPendingReconciliation exposes the settlements stuck between debit and
// finalize.
func (c *Coordinator) ListPendingReconciliation(ctx context.Context) ([]Settlement, error) {
	return c.claims.ListPartiallyApplied(ctx)
}

func (c *Coordinator) finalize(ctx context.Context, logCtx *slog.Logger, claim *Settlement, debited *account.SubBalance) (*Result, error) {
	var (
		settled *loan.Loan
		err     error
	)
	for attempt := 1; attempt <= finalizeAttempts; attempt++ {
		settled, err = c.ledger.MarkPaid(ctx, claim.LoanID, claim.BankName)
		if err == nil {
			break
		}
		if errors.Is(err, apperrors.ErrAlreadyPaid) {
			// A previous finalize for this claim already landed.
			settled, err = c.ledger.Get(ctx, claim.LoanID)
			break
		}
		if !apperrors.Retryable(err) && !errors.Is(err, apperrors.ErrDatabase) {
			break
		}
		logCtx.WarnContext(ctx, "Finalize attempt failed, retrying", "attempt", attempt, slog.Any("error", err))
		select {
		case <-ctx.Done():
			err = fmt.Errorf("%w: %v", apperrors.ErrTransient, ctx.Err())
		case <-time.After(time.Duration(attempt) * finalizeBackoff):
			continue
		}
		break
	}

	if err != nil {
		if trErr := c.claims.Transition(ctx, claim.LoanID, claim.State, StatePartiallyApplied); trErr != nil {
			logCtx.ErrorContext(ctx, "Failed to record partially applied state", slog.Any("error", trErr))
		}
		monitoring.RecordSettlement("partially_applied")
		monitoring.Business.ReconciliationGap.Inc()
		logCtx.ErrorContext(ctx, "RECONCILIATION ALERT: debit committed but loan not marked paid", slog.Any("error", err))

		if pubErr := c.pub.PublishReconciliationRequired(ctx, event.ReconciliationRequiredEvent{
			LoanID:      claim.LoanID,
			AccountID:   claim.AccountID,
			BankID:      claim.BankID,
			AmountMinor: claim.AmountMinor,
			Timestamp:   time.Now(),
		}); pubErr != nil {
			logCtx.ErrorContext(ctx, "Failed to publish reconciliation event", slog.Any("error", pubErr))
		}

		return &Result{State: StatePartiallyApplied, BankName: claim.BankName, AmountMinor: claim.AmountMinor, Balance: debited},
			fmt.Errorf("%w: loan %d debited but not finalized: %v", apperrors.ErrPartiallyApplied, claim.LoanID, err)
	}

	if trErr := c.claims.Transition(ctx, claim.LoanID, claim.State, StateSettled); trErr != nil {
		logCtx.ErrorContext(ctx, "Failed to record settled state", slog.Any("error", trErr))
	}
	if claim.State == StatePartiallyApplied {
		monitoring.Business.ReconciliationGap.Dec()
	}
	monitoring.RecordSettlement("settled")
	logCtx.InfoContext(ctx, "Settlement complete", "bank", claim.BankName, "amount", claim.AmountMinor)

	if pubErr := c.pub.PublishLoanSettled(ctx, event.LoanSettledEvent{
		LoanID:      claim.LoanID,
		CustomerID:  settled.CustomerID,
		Bank:        claim.BankName,
		AmountMinor: claim.AmountMinor,
		Timestamp:   time.Now(),
	}); pubErr != nil {
		logCtx.ErrorContext(ctx, "Failed to publish settled event", slog.Any("error", pubErr))
	}

	return &Result{
		State:       StateSettled,
		Loan:        settled,
		BankName:    claim.BankName,
		AmountMinor: claim.AmountMinor,
		Balance:     debited,
	}, nil
}

func (c *Coordinator) resolveExistingClaim(ctx context.Context, logCtx *slog.Logger, claim *Settlement) (*Result, error) {
	switch claim.State {
	case StateSettled:
		return rejected(fmt.Errorf("%w: loan %d", apperrors.ErrAlreadyPaid, claim.LoanID))
	case StateFinalizing, StatePartiallyApplied:
		logCtx.WarnContext(ctx, "Settlement already debited, finalize must be retried instead")
		return &Result{State: StatePartiallyApplied, BankName: claim.BankName, AmountMinor: claim.AmountMinor},
			fmt.Errorf("%w: loan %d awaits finalize retry", apperrors.ErrPartiallyApplied, claim.LoanID)
	default:
		// A concurrent attempt holds the claim; its outcome is not known
		// yet, so the caller retries rather than double-debits.
		return rejected(fmt.Errorf("%w: settlement for loan %d is in flight", apperrors.ErrTransient, claim.LoanID))
	}
}

func rejected(err error) (*Result, error) {
	return &Result{State: StateRejected}, err
}
