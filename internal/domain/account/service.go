package account

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"

	"lending-engine/internal/pkg/apperrors"
	"lending-engine/internal/pkg/vault"
)

// AccountService is the AccountStore boundary: it exclusively owns account
// rows and their sub-balances. No other component mutates balances.
type AccountService interface {
	Create(ctx context.Context, customerID int64, seedBanks []SubBalance) (*Account, error)

	GetByCustomer(ctx context.Context, customerID int64) (*Account, error)

	FindSubBalance(ctx context.Context, accountID int64, bankID string) (*SubBalance, error)

	Credit(ctx context.Context, accountID int64, bankID string, amountMinor int64) (*SubBalance, error)

	Debit(ctx context.Context, accountID int64, bankID string, amountMinor int64) (*SubBalance, error)

	// VerifyCustomerIdentity compares a candidate BVN against the sealed one.
	VerifyCustomerIdentity(ctx context.Context, customerID int64, candidate string) (bool, error)

	RevealIdentity(ctx context.Context, accountID int64) (string, error)
}

var _ AccountService = (*accountService)(nil)

type accountService struct {
	repo   Repository
	vault  *vault.Vault
	logger *slog.Logger
}

func NewAccountService(repo Repository, v *vault.Vault, logger *slog.Logger) AccountService {
	if repo == nil || v == nil {
		panic("account service dependencies cannot be nil")
	}
	return &accountService{
		repo:   repo,
		vault:  v,
		logger: logger.With(slog.String("component", "accountService")),
	}
}

func (s *accountService) Create(ctx context.Context, customerID int64, seedBanks []SubBalance) (*Account, error) {
	s.logger.InfoContext(ctx, "Creating account", "customerID", customerID)

	if len(seedBanks) == 0 {
		seedBanks = DefaultSeedBanks()
	}
	if err := ValidateSeedBanks(seedBanks); err != nil {
		s.logger.WarnContext(ctx, "Seed bank validation failed", slog.Any("error", err))
		return nil, err
	}

	bvn, err := newBVN()
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to generate identity token", slog.Any("error", err))
		return nil, fmt.Errorf("%w: could not generate identity token: %v", apperrors.ErrInternalServer, err)
	}
	cipher, err := s.vault.Encrypt(bvn)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to encrypt identity token", slog.Any("error", err))
		return nil, fmt.Errorf("%w: could not encrypt identity token: %v", apperrors.ErrInternalServer, err)
	}

	acct := &Account{
		CustomerID: customerID,
		Banks:      seedBanks,
		BVNCipher:  cipher.Token(),
	}

	created, err := s.repo.CreateAccount(ctx, acct)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to save account", "customerID", customerID, slog.Any("error", err))
		return nil, err
	}

	s.logger.InfoContext(ctx, "Account created", "accountID", created.ID, "customerID", customerID, "banks", len(created.Banks))
	return created, nil
}

func (s *accountService) GetByCustomer(ctx context.Context, customerID int64) (*Account, error) {
	return s.repo.GetByCustomerID(ctx, customerID)
}

func (s *accountService) FindSubBalance(ctx context.Context, accountID int64, bankID string) (*SubBalance, error) {
	return s.repo.GetSubBalance(ctx, accountID, bankID)
}

func (s *accountService) Credit(ctx context.Context, accountID int64, bankID string, amountMinor int64) (*SubBalance, error) {
	if amountMinor < 0 {
		s.logger.WarnContext(ctx, "Rejected negative credit", "accountID", accountID, "bankID", bankID, "amount", amountMinor)
		return nil, fmt.Errorf("%w: credit amount must not be negative", apperrors.ErrInvalidAmount)
	}

	bal, err := s.repo.CreditSubBalance(ctx, accountID, bankID, amountMinor)
	if err != nil {
		s.logger.ErrorContext(ctx, "Credit failed", "accountID", accountID, "bankID", bankID, slog.Any("error", err))
		return nil, err
	}
	s.logger.InfoContext(ctx, "Sub-balance credited", "accountID", accountID, "bankID", bankID, "amount", amountMinor)
	return bal, nil
}

func (s *accountService) Debit(ctx context.Context, accountID int64, bankID string, amountMinor int64) (*SubBalance, error) {
	if amountMinor < 0 {
		s.logger.WarnContext(ctx, "Rejected negative debit", "accountID", accountID, "bankID", bankID, "amount", amountMinor)
		return nil, fmt.Errorf("%w: debit amount must not be negative", apperrors.ErrInvalidAmount)
	}

	bal, err := s.repo.DebitSubBalance(ctx, accountID, bankID, amountMinor)
	if err != nil {
		s.logger.WarnContext(ctx, "Debit failed", "accountID", accountID, "bankID", bankID, "amount", amountMinor, slog.Any("error", err))
		return nil, err
	}
	s.logger.InfoContext(ctx, "Sub-balance debited", "accountID", accountID, "bankID", bankID, "amount", amountMinor, "newBalance", bal.BalanceMinor)
	return bal, nil
}

func (s *accountService) VerifyCustomerIdentity(ctx context.Context, customerID int64, candidate string) (bool, error) {
	acct, err := s.repo.GetByCustomerID(ctx, customerID)
	if err != nil {
		return false, err
	}
	return s.vault.Wrap(acct.BVNCipher).Matches(candidate), nil
}

func (s *accountService) RevealIdentity(ctx context.Context, accountID int64) (string, error) {
	acct, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		return "", err
	}

	plaintext, err := s.vault.Wrap(acct.BVNCipher).Reveal()
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to reveal identity token", "accountID", accountID, slog.Any("error", err))
		return "", err
	}
	return plaintext, nil
}

func newBVN() (string, error) {
	max := big.NewInt(1_000_000_000_000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("BVN-%012d", n), nil
}
