package account

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"lending-engine/internal/pkg/apperrors"
)

// SubBalance is one named bank entry within a customer's account. Balances
// are integers in the minor currency unit; they never go negative.
type SubBalance struct {
	BankID       string
	BankName     string
	BalanceMinor int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Account struct {
	ID         int64
	CustomerID int64
	Banks      []SubBalance
	// BVNCipher is the opaque encrypted identity token. The plaintext is
	// only ever reconstructed through the vault.
	BVNCipher string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FindBank locates a sub-balance by its unique bank id.
func (a *Account) FindBank(bankID string) (*SubBalance, bool) {
	for i := range a.Banks {
		if a.Banks[i].BankID == bankID {
			return &a.Banks[i], true
		}
	}
	return nil, false
}

// DefaultSeedBanks returns the opening sub-balances for a new account.
func DefaultSeedBanks() []SubBalance {
	return []SubBalance{
		{BankID: uuid.NewString(), BankName: "Bank of America", BalanceMinor: 7_000_000},
		{BankID: uuid.NewString(), BankName: "Guarantee Trust Bank", BalanceMinor: 170_000_000},
		{BankID: uuid.NewString(), BankName: "United Bank of Africa", BalanceMinor: 8_000_000_000},
	}
}

// ValidateSeedBanks enforces the account invariants at creation time: every
// bank id unique within the account, every balance non-negative.
func ValidateSeedBanks(banks []SubBalance) error {
	if len(banks) == 0 {
		return fmt.Errorf("%w: account requires at least one sub-balance", apperrors.ErrInvalidArgument)
	}

	seen := make(map[string]struct{}, len(banks))
	for _, b := range banks {
		if b.BankID == "" {
			return fmt.Errorf("%w: sub-balance is missing a bank id", apperrors.ErrInvalidArgument)
		}
		if _, dup := seen[b.BankID]; dup {
			return fmt.Errorf("%w: duplicate bank id %q within account", apperrors.ErrInvalidArgument, b.BankID)
		}
		seen[b.BankID] = struct{}{}
		if b.BalanceMinor < 0 {
			return fmt.Errorf("%w: sub-balance %q cannot open negative", apperrors.ErrInvalidAmount, b.BankID)
		}
	}
	return nil
}
