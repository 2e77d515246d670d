package loan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"lending-engine/internal/infrastructure/monitoring"
	"lending-engine/internal/pkg/apperrors"
)

// IdentityVerifier is the slice of the account store the ledger depends on
// for BVN verification during a loan request.
type IdentityVerifier interface {
	VerifyCustomerIdentity(ctx context.Context, customerID int64, candidate string) (bool, error)
}

// AccrualSummary reports the outcome of one daily sweep. Failures on single
// loans are counted, not raised; the sweep is best effort.
type AccrualSummary struct {
	Scanned int
	Applied int
	Skipped int
	Errors  int
}

type LedgerService interface {
	RequestLoan(ctx context.Context, customerID int64, principalMinor int64, identityCandidate string) (*Loan, error)

	// Accrue runs the daily sweep for the given calendar date. Running it
	// twice for the same date charges each loan at most once.
	Accrue(ctx context.Context, today time.Time) (AccrualSummary, error)

	MarkPaid(ctx context.Context, loanID int64, settlingBankName string) (*Loan, error)

	Get(ctx context.Context, loanID int64) (*Loan, error)

	ListForCustomer(ctx context.Context, customerID int64) ([]Loan, error)
}

var _ LedgerService = (*ledgerService)(nil)

type ledgerService struct {
	repo     Repository
	identity IdentityVerifier
	logger   *slog.Logger
}

func NewLedgerService(repo Repository, identity IdentityVerifier, logger *slog.Logger) LedgerService {
	if repo == nil || identity == nil {
		panic("ledger service dependencies cannot be nil")
	}
	return &ledgerService{
		repo:     repo,
		identity: identity,
		logger:   logger.With(slog.String("component", "ledgerService")),
	}
}

func (s *ledgerService) RequestLoan(ctx context.Context, customerID int64, principalMinor int64, identityCandidate string) (*Loan, error) {
	s.logger.InfoContext(ctx, "Loan requested", "customerID", customerID, "principal", principalMinor)

	match, err := s.identity.VerifyCustomerIdentity(ctx, customerID, identityCandidate)
	if err != nil {
		s.logger.ErrorContext(ctx, "Identity verification unavailable", "customerID", customerID, slog.Any("error", err))
		return nil, fmt.Errorf("failed to verify identity: %w", err)
	}
	if !match {
		s.logger.WarnContext(ctx, "Identity verification rejected loan request", "customerID", customerID)
		return nil, fmt.Errorf("%w: BVN does not match", apperrors.ErrIdentityMismatch)
	}

	unpaid, err := s.repo.CountUnpaidByCustomer(ctx, customerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to count unpaid loans", "customerID", customerID, slog.Any("error", err))
		return nil, fmt.Errorf("failed to count unpaid loans: %w", err)
	}
	if unpaid >= MaxUnpaidLoans {
		s.logger.WarnContext(ctx, "Unpaid loan cap reached", "customerID", customerID, "unpaid", unpaid)
		return nil, fmt.Errorf("%w: customer %d already has %d unpaid loans", apperrors.ErrLimitExceeded, customerID, unpaid)
	}

	l, err := NewLoan(customerID, principalMinor, time.Now())
	if err != nil {
		return nil, err
	}

	created, err := s.repo.CreateLoan(ctx, l)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to save loan", "customerID", customerID, slog.Any("error", err))
		return nil, fmt.Errorf("failed to save loan: %w", err)
	}

	s.logger.InfoContext(ctx, "Loan created", "loanID", created.ID, "customerID", customerID, "deadline", created.Deadline.Format(time.DateOnly))
	return created, nil
}

func (s *ledgerService) Accrue(ctx context.Context, today time.Time) (AccrualSummary, error) {
	day := DateUTC(today)
	logCtx := s.logger.With(slog.String("accrualDate", day.Format(time.DateOnly)))
	logCtx.InfoContext(ctx, "Starting accrual sweep")

	ids, err := s.repo.ListUnpaidIDs(ctx)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to list unpaid loans, aborting sweep", slog.Any("error", err))
		return AccrualSummary{}, fmt.Errorf("cannot run accrual sweep: %w", err)
	}

	summary := AccrualSummary{Scanned: len(ids)}
	for _, id := range ids {
		// Each loan commits independently; an interrupted sweep leaves the
		// already-processed loans accrued and the rest untouched.
		if ctxErr := ctx.Err(); ctxErr != nil {
			logCtx.WarnContext(ctx, "Accrual sweep interrupted", "remaining", summary.Scanned-summary.Applied-summary.Skipped-summary.Errors)
			return summary, ctxErr
		}

		if err := s.accrueOne(ctx, id, day, &summary); err != nil {
			logCtx.ErrorContext(ctx, "Accrual failed for loan", "loanID", id, slog.Any("error", err))
			summary.Errors++
			monitoring.RecordAccrual("error")
		}
	}

	logCtx.InfoContext(ctx, "Accrual sweep finished",
		"scanned", summary.Scanned,
		"applied", summary.Applied,
		"skipped", summary.Skipped,
		"errors", summary.Errors,
	)
	return summary, nil
}

func (s *ledgerService) accrueOne(ctx context.Context, loanID int64, day time.Time, summary *AccrualSummary) error {
	l, err := s.repo.GetLoanByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			summary.Skipped++
			return nil
		}
		return err
	}

	if l.LoanPaid || !l.Overdue(day) {
		summary.Skipped++
		monitoring.RecordAccrual("not_due")
		return nil
	}

	applied, err := s.repo.ApplyAccrual(ctx, loanID, l.PenaltyFor(day), day)
	if err != nil {
		return err
	}
	if !applied {
		// Another sweep already charged this loan for the same date, or the
		// loan was settled in between. Either way there is nothing to add.
		summary.Skipped++
		monitoring.RecordAccrual("deduped")
		return nil
	}

	summary.Applied++
	monitoring.RecordAccrual("applied")
	return nil
}

func (s *ledgerService) MarkPaid(ctx context.Context, loanID int64, settlingBankName string) (*Loan, error) {
	if settlingBankName == "" {
		return nil, fmt.Errorf("%w: settling bank name cannot be empty", apperrors.ErrInvalidArgument)
	}

	l, err := s.repo.MarkPaid(ctx, loanID, settlingBankName)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to mark loan paid", "loanID", loanID, slog.Any("error", err))
		return nil, err
	}

	s.logger.InfoContext(ctx, "Loan marked paid", "loanID", loanID, "bank", settlingBankName)
	return l, nil
}

func (s *ledgerService) Get(ctx context.Context, loanID int64) (*Loan, error) {
	return s.repo.GetLoanByID(ctx, loanID)
}

func (s *ledgerService) ListForCustomer(ctx context.Context, customerID int64) ([]Loan, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}
