package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"lending-engine/internal/domain/loan"
	"lending-engine/internal/infrastructure/monitoring"
	"lending-engine/internal/pkg/apperrors"
)

type LoanRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ loan.Repository = (*LoanRepository)(nil)

func NewLoanRepository(db DBPool, logger *slog.Logger) *LoanRepository {
	return &LoanRepository{db: db, logger: logger.With("component", "LoanRepository")}
}

const loanColumns = `id, customer_id, amount_minor, deadline, total_payable_minor, loan_paid, COALESCE(bank, ''), last_accrued_on, created_at, updated_at`

func scanLoan(row pgx.Row, l *loan.Loan) error {
	return row.Scan(
		&l.ID, &l.CustomerID, &l.AmountMinor, &l.Deadline, &l.TotalPayableMinor,
		&l.LoanPaid, &l.Bank, &l.LastAccruedOn, &l.CreatedAt, &l.UpdatedAt,
	)
}

func (r *LoanRepository) CreateLoan(ctx context.Context, newLoan *loan.Loan) (*loan.Loan, error) {
	query := `
        INSERT INTO loans (customer_id, amount_minor, deadline, total_payable_minor, loan_paid, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
        RETURNING ` + loanColumns

	var created loan.Loan
	err := scanLoan(r.db.QueryRow(ctx, query,
		newLoan.CustomerID, newLoan.AmountMinor, newLoan.Deadline, newLoan.TotalPayableMinor, newLoan.LoanPaid,
	), &created)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert loan", "customer_id", newLoan.CustomerID, "error", err)
		return nil, translateDBError(err, r.logger)
	}

	r.logger.InfoContext(ctx, "Loan created in DB", "loan_id", created.ID)
	return &created, nil
}

func (r *LoanRepository) GetLoanByID(ctx context.Context, loanID int64) (*loan.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`

	status := "success"
	startTime := time.Now()

	var l loan.Loan
	err := scanLoan(r.db.QueryRow(ctx, query, loanID), &l)
	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("GetLoanByID", status, time.Since(startTime))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Loan not found", "loan_id", loanID)
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get loan by ID", "loan_id", loanID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return &l, nil
}

func (r *LoanRepository) ListByCustomer(ctx context.Context, customerID int64) ([]loan.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE customer_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query customer loans", "customer_id", customerID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	loans := make([]loan.Loan, 0)
	for rows.Next() {
		var l loan.Loan
		if err := scanLoan(rows, &l); err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan loan row", "customer_id", customerID, "error", err)
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		loans = append(loans, l)
	}
	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating loan rows", "customer_id", customerID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return loans, nil
}

func (r *LoanRepository) CountUnpaidByCustomer(ctx context.Context, customerID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM loans WHERE customer_id = $1 AND loan_paid = FALSE`
	err := r.db.QueryRow(ctx, query, customerID).Scan(&count)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to count unpaid loans", "customer_id", customerID, "error", err)
		return 0, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return count, nil
}

func (r *LoanRepository) ListUnpaidIDs(ctx context.Context) ([]int64, error) {
	logCtx := r.logger.With(slog.String("operation", "ListUnpaidIDs"))

	query := `SELECT id FROM loans WHERE loan_paid = FALSE ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to query unpaid loan IDs", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query unpaid loans: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	loanIDs := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			logCtx.ErrorContext(ctx, "Failed to scan unpaid loan ID row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed scanning unpaid loan ID: %w", apperrors.ErrDatabase, err)
		}
		loanIDs = append(loanIDs, id)
	}
	if err = rows.Err(); err != nil {
		logCtx.ErrorContext(ctx, "Error iterating unpaid loan ID rows", slog.Any("error", err))
		return nil, fmt.Errorf("%w: error iterating unpaid loan IDs: %w", apperrors.ErrDatabase, err)
	}

	logCtx.DebugContext(ctx, "Finished listing unpaid loan IDs", slog.Int("count", len(loanIDs)))
	return loanIDs, nil
}

// ApplyAccrual pushes the once-per-day guard into the store: the penalty
// lands only when the loan is unpaid and has not yet accrued for accruedOn.
func (r *LoanRepository) ApplyAccrual(ctx context.Context, loanID int64, penaltyMinor int64, accruedOn time.Time) (bool, error) {
	query := `
        UPDATE loans
        SET total_payable_minor = total_payable_minor + $2, last_accrued_on = $3, updated_at = NOW()
        WHERE id = $1 AND loan_paid = FALSE
          AND (last_accrued_on IS NULL OR last_accrued_on < $3)`

	status := "success"
	startTime := time.Now()

	cmdTag, err := r.db.Exec(ctx, query, loanID, penaltyMinor, accruedOn)
	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("ApplyAccrual", status, time.Since(startTime))

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to apply accrual", "loan_id", loanID, "error", err)
		return false, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return cmdTag.RowsAffected() == 1, nil
}

// MarkPaid is the single winner election for a loan's settlement: the
// loan_paid guard in the WHERE clause lets exactly one caller through.
func (r *LoanRepository) MarkPaid(ctx context.Context, loanID int64, settlingBankName string) (*loan.Loan, error) {
	query := `
        UPDATE loans
        SET loan_paid = TRUE, bank = $2, updated_at = NOW()
        WHERE id = $1 AND loan_paid = FALSE
        RETURNING ` + loanColumns

	status := "success"
	startTime := time.Now()

	var l loan.Loan
	err := scanLoan(r.db.QueryRow(ctx, query, loanID, settlingBankName), &l)
	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("MarkPaid", status, time.Since(startTime))

	if err == nil {
		r.logger.InfoContext(ctx, "Loan marked paid in DB", "loan_id", loanID, "bank", settlingBankName)
		return &l, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		r.logger.ErrorContext(ctx, "Failed to mark loan paid", "loan_id", loanID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	// No unpaid row matched: either the loan is gone or another settlement
	// already won.
	if _, lookupErr := r.GetLoanByID(ctx, loanID); lookupErr != nil {
		return nil, lookupErr
	}
	return nil, fmt.Errorf("%w: loan %d", apperrors.ErrAlreadyPaid, loanID)
}
