package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"lending-engine/internal/domain/account"
	"lending-engine/internal/infrastructure/monitoring"
	"lending-engine/internal/pkg/apperrors"
)

type AccountRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ account.Repository = (*AccountRepository)(nil)

func NewAccountRepository(db DBPool, logger *slog.Logger) *AccountRepository {
	return &AccountRepository{db: db, logger: logger.With("component", "AccountRepository")}
}

func (r *AccountRepository) CreateAccount(ctx context.Context, acct *account.Account) (*account.Account, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to begin transaction", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			r.logger.ErrorContext(ctx, "Failed to rollback transaction", "error", rbErr)
		}
	}()

	accountSQL := `
        INSERT INTO accounts (customer_id, bvn_cipher, created_at, updated_at)
        VALUES ($1, $2, NOW(), NOW())
        RETURNING id, customer_id, bvn_cipher, created_at, updated_at`

	var created account.Account
	err = tx.QueryRow(ctx, accountSQL, acct.CustomerID, acct.BVNCipher).Scan(
		&created.ID, &created.CustomerID, &created.BVNCipher, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert account", "customer_id", acct.CustomerID, "error", err)
		return nil, translateDBError(err, r.logger)
	}

	bankSQL := `
        INSERT INTO account_banks (account_id, bank_id, bank_name, balance_minor, created_at, updated_at)
        VALUES ($1, $2, $3, $4, NOW(), NOW())`

	batch := &pgx.Batch{}
	for _, b := range acct.Banks {
		batch.Queue(bankSQL, created.ID, b.BankID, b.BankName, b.BalanceMinor)
	}
	results := tx.SendBatch(ctx, batch)
	for i := range acct.Banks {
		if _, err = results.Exec(); err != nil {
			results.Close()
			r.logger.ErrorContext(ctx, "Failed executing bank batch insert", "error", err, "entry_index", i, "account_id", created.ID)
			return nil, fmt.Errorf("%w: failed inserting sub-balance %d: %w", apperrors.ErrDatabase, i+1, err)
		}
	}
	if err = results.Close(); err != nil {
		r.logger.ErrorContext(ctx, "Failed closing bank batch results", "error", err, "account_id", created.ID)
		return nil, fmt.Errorf("%w: closing batch results failed: %w", apperrors.ErrDatabase, err)
	}

	if err = tx.Commit(ctx); err != nil {
		r.logger.ErrorContext(ctx, "Failed to commit transaction", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	created.Banks = acct.Banks
	r.logger.InfoContext(ctx, "Account created in DB", "account_id", created.ID, "num_banks", len(created.Banks))
	return &created, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, accountID int64) (*account.Account, error) {
	return r.getAccount(ctx, `SELECT id, customer_id, bvn_cipher, created_at, updated_at FROM accounts WHERE id = $1`, accountID)
}

func (r *AccountRepository) GetByCustomerID(ctx context.Context, customerID int64) (*account.Account, error) {
	return r.getAccount(ctx, `SELECT id, customer_id, bvn_cipher, created_at, updated_at FROM accounts WHERE customer_id = $1`, customerID)
}

func (r *AccountRepository) getAccount(ctx context.Context, query string, arg any) (*account.Account, error) {
	status := "success"
	startTime := time.Now()

	var acct account.Account
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&acct.ID, &acct.CustomerID, &acct.BVNCipher, &acct.CreatedAt, &acct.UpdatedAt,
	)
	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("GetAccount", status, time.Since(startTime))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Account not found")
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get account", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	banks, err := r.listBanks(ctx, acct.ID)
	if err != nil {
		return nil, err
	}
	acct.Banks = banks
	return &acct, nil
}

func (r *AccountRepository) listBanks(ctx context.Context, accountID int64) ([]account.SubBalance, error) {
	query := `
        SELECT bank_id, bank_name, balance_minor, created_at, updated_at
        FROM account_banks
        WHERE account_id = $1
        ORDER BY created_at, bank_id`

	rows, err := r.db.Query(ctx, query, accountID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query sub-balances", "account_id", accountID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	banks := make([]account.SubBalance, 0)
	for rows.Next() {
		var b account.SubBalance
		if err := rows.Scan(&b.BankID, &b.BankName, &b.BalanceMinor, &b.CreatedAt, &b.UpdatedAt); err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan sub-balance row", "account_id", accountID, "error", err)
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		banks = append(banks, b)
	}
	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating sub-balance rows", "account_id", accountID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return banks, nil
}

func (r *AccountRepository) GetSubBalance(ctx context.Context, accountID int64, bankID string) (*account.SubBalance, error) {
	query := `
        SELECT bank_id, bank_name, balance_minor, created_at, updated_at
        FROM account_banks
        WHERE account_id = $1 AND bank_id = $2`

	var b account.SubBalance
	err := r.db.QueryRow(ctx, query, accountID, bankID).Scan(
		&b.BankID, &b.BankName, &b.BalanceMinor, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Sub-balance not found", "account_id", accountID, "bank_id", bankID)
			return nil, fmt.Errorf("%w: bank %q", apperrors.ErrUnknownBank, bankID)
		}
		r.logger.ErrorContext(ctx, "Failed to get sub-balance", "account_id", accountID, "bank_id", bankID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return &b, nil
}

func (r *AccountRepository) CreditSubBalance(ctx context.Context, accountID int64, bankID string, amountMinor int64) (*account.SubBalance, error) {
	query := `
        UPDATE account_banks
        SET balance_minor = balance_minor + $3, updated_at = NOW()
        WHERE account_id = $1 AND bank_id = $2
        RETURNING bank_id, bank_name, balance_minor, created_at, updated_at`

	status := "success"
	startTime := time.Now()

	var b account.SubBalance
	err := r.db.QueryRow(ctx, query, accountID, bankID, amountMinor).Scan(
		&b.BankID, &b.BankName, &b.BalanceMinor, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("CreditSubBalance", status, time.Since(startTime))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: bank %q", apperrors.ErrUnknownBank, bankID)
		}
		r.logger.ErrorContext(ctx, "Failed to credit sub-balance", "account_id", accountID, "bank_id", bankID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return &b, nil
}

// DebitSubBalance is the single atomic check-and-subtract for a sub-balance.
// The balance guard lives in the WHERE clause, so no interleaved writer can
// drive the balance negative.
func (r *AccountRepository) DebitSubBalance(ctx context.Context, accountID int64, bankID string, amountMinor int64) (*account.SubBalance, error) {
	query := `
        UPDATE account_banks
        SET balance_minor = balance_minor - $3, updated_at = NOW()
        WHERE account_id = $1 AND bank_id = $2 AND balance_minor >= $3
        RETURNING bank_id, bank_name, balance_minor, created_at, updated_at`

	status := "success"
	startTime := time.Now()

	var b account.SubBalance
	err := r.db.QueryRow(ctx, query, accountID, bankID, amountMinor).Scan(
		&b.BankID, &b.BankName, &b.BalanceMinor, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("DebitSubBalance", status, time.Since(startTime))

	if err == nil {
		return &b, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		r.logger.ErrorContext(ctx, "Failed to debit sub-balance", "account_id", accountID, "bank_id", bankID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	// The guarded update matched nothing: distinguish a missing bank from an
	// uncovered amount.
	if _, lookupErr := r.GetSubBalance(ctx, accountID, bankID); lookupErr != nil {
		return nil, lookupErr
	}
	r.logger.WarnContext(ctx, "Debit rejected, balance does not cover amount", "account_id", accountID, "bank_id", bankID, "amount", amountMinor)
	return nil, fmt.Errorf("%w: bank %q cannot cover %d", apperrors.ErrInsufficientFunds, bankID, amountMinor)
}
