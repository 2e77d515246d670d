package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"lending-engine/internal/pkg/apperrors"
	"lending-engine/internal/settlement"
)

type SettlementRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ settlement.Repository = (*SettlementRepository)(nil)

func NewSettlementRepository(db DBPool, logger *slog.Logger) *SettlementRepository {
	return &SettlementRepository{db: db, logger: logger.With("component", "SettlementRepository")}
}

const settlementColumns = `loan_id, account_id, bank_id, bank_name, amount_minor, state, created_at, updated_at`

func scanSettlement(row pgx.Row, s *settlement.Settlement) error {
	return row.Scan(
		&s.LoanID, &s.AccountID, &s.BankID, &s.BankName, &s.AmountMinor, &s.State, &s.CreatedAt, &s.UpdatedAt,
	)
}

// Claim takes the per-loan settlement slot. The loan_id primary key makes
// the insert a mutual exclusion point; a rejected leftover may be taken
// over, any other existing claim is returned alongside ErrDuplicate.
func (r *SettlementRepository) Claim(ctx context.Context, s *settlement.Settlement) (*settlement.Settlement, error) {
	query := `
        INSERT INTO settlements (loan_id, account_id, bank_id, bank_name, amount_minor, state, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
        ON CONFLICT (loan_id) DO UPDATE
        SET account_id = EXCLUDED.account_id,
            bank_id = EXCLUDED.bank_id,
            bank_name = EXCLUDED.bank_name,
            amount_minor = EXCLUDED.amount_minor,
            state = EXCLUDED.state,
            updated_at = NOW()
        WHERE settlements.state = $7
        RETURNING ` + settlementColumns

	var claimed settlement.Settlement
	err := scanSettlement(r.db.QueryRow(ctx, query,
		s.LoanID, s.AccountID, s.BankID, s.BankName, s.AmountMinor, s.State, settlement.StateRejected,
	), &claimed)
	if err == nil {
		r.logger.InfoContext(ctx, "Settlement claimed", "loan_id", claimed.LoanID, "state", claimed.State)
		return &claimed, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		r.logger.ErrorContext(ctx, "Failed to claim settlement", "loan_id", s.LoanID, "error", err)
		return nil, translateDBError(err, r.logger)
	}

	// The slot is held by an active claim; hand it back so the coordinator
	// can decide what the caller should observe.
	existing, lookupErr := r.GetByLoanID(ctx, s.LoanID)
	if lookupErr != nil {
		return nil, lookupErr
	}
	return existing, fmt.Errorf("%w: settlement for loan %d already claimed", apperrors.ErrDuplicate, s.LoanID)
}

func (r *SettlementRepository) GetByLoanID(ctx context.Context, loanID int64) (*settlement.Settlement, error) {
	query := `SELECT ` + settlementColumns + ` FROM settlements WHERE loan_id = $1`

	var s settlement.Settlement
	err := scanSettlement(r.db.QueryRow(ctx, query, loanID), &s)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get settlement", "loan_id", loanID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return &s, nil
}

func (r *SettlementRepository) Transition(ctx context.Context, loanID int64, from, to settlement.State) error {
	query := `UPDATE settlements SET state = $3, updated_at = NOW() WHERE loan_id = $1 AND state = $2`

	cmdTag, err := r.db.Exec(ctx, query, loanID, from, to)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to transition settlement", "loan_id", loanID, "from", from, "to", to, "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	if cmdTag.RowsAffected() != 1 {
		r.logger.WarnContext(ctx, "Settlement transition matched no row", "loan_id", loanID, "from", from, "to", to)
		return fmt.Errorf("%w: settlement for loan %d not in state %s", apperrors.ErrNotFound, loanID, from)
	}
	r.logger.InfoContext(ctx, "Settlement transitioned", "loan_id", loanID, "from", from, "to", to)
	return nil
}

func (r *SettlementRepository) UpdateAmount(ctx context.Context, loanID int64, amountMinor int64) error {
	query := `UPDATE settlements SET amount_minor = $2, updated_at = NOW() WHERE loan_id = $1 AND state = $3`

	cmdTag, err := r.db.Exec(ctx, query, loanID, amountMinor, settlement.StateDebiting)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update settlement amount", "loan_id", loanID, "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	if cmdTag.RowsAffected() != 1 {
		r.logger.WarnContext(ctx, "Settlement amount update matched no debiting claim", "loan_id", loanID)
		return fmt.Errorf("%w: no debiting settlement for loan %d", apperrors.ErrNotFound, loanID)
	}
	return nil
}

func (r *SettlementRepository) Release(ctx context.Context, loanID int64) error {
	query := `DELETE FROM settlements WHERE loan_id = $1 AND state NOT IN ($2, $3)`

	cmdTag, err := r.db.Exec(ctx, query, loanID, settlement.StateSettled, settlement.StatePartiallyApplied)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to release settlement claim", "loan_id", loanID, "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Release matched no claim", "loan_id", loanID)
	}
	return nil
}

// ListPartiallyApplied also surfaces claims stranded in Debiting by a dead
// attempt, so reconciliation sees every committed debit without a finalize.
func (r *SettlementRepository) ListPartiallyApplied(ctx context.Context) ([]settlement.Settlement, error) {
	query := `
        SELECT ` + settlementColumns + ` FROM settlements
        WHERE state = $1 OR (state = $2 AND updated_at < $3)
        ORDER BY updated_at`

	staleBefore := time.Now().Add(-settlement.DebitStaleAfter)
	rows, err := r.db.Query(ctx, query, settlement.StatePartiallyApplied, settlement.StateDebiting, staleBefore)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query partially applied settlements", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	out := make([]settlement.Settlement, 0)
	for rows.Next() {
		var s settlement.Settlement
		if err := scanSettlement(rows, &s); err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan settlement row", "error", err)
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		out = append(out, s)
	}
	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating settlement rows", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return out, nil
}
