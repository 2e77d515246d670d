package dto

import (
	"fmt"
	"strconv"
	"time"

	"lending-engine/internal/domain/account"
)

type CreateAccountRequest struct {
	// Password re-confirms the authenticated user before an account is
	// opened.
	Password string `json:"password"`
}

func (r *CreateAccountRequest) Validate() error {
	if r.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

type CreditRequest struct {
	Amount string `json:"amount"`
}

func (r *CreditRequest) Validate() error {
	if r.Amount == "" {
		return fmt.Errorf("amount is required")
	}
	if _, err := ParseAmountMinor(r.Amount); err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	return nil
}

type SubBalanceResponse struct {
	BankID   string `json:"bankId"`
	BankName string `json:"bankName"`
	Balance  string `json:"balance"`
}

func NewSubBalanceResponse(b *account.SubBalance) SubBalanceResponse {
	return SubBalanceResponse{
		BankID:   b.BankID,
		BankName: b.BankName,
		Balance:  FormatAmountMinor(b.BalanceMinor),
	}
}

type AccountResponse struct {
	ID         string               `json:"id"`
	CustomerID string               `json:"customerId"`
	Banks      []SubBalanceResponse `json:"banks"`
	CreatedAt  time.Time            `json:"createdAt"`
	UpdatedAt  time.Time            `json:"updatedAt"`
}

func NewAccountResponse(a *account.Account) AccountResponse {
	banks := make([]SubBalanceResponse, len(a.Banks))
	for i := range a.Banks {
		banks[i] = NewSubBalanceResponse(&a.Banks[i])
	}
	return AccountResponse{
		ID:         strconv.FormatInt(a.ID, 10),
		CustomerID: strconv.FormatInt(a.CustomerID, 10),
		Banks:      banks,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

// CreateAccountResponse includes the plaintext identity token exactly once,
// at creation time. Later reads go through the reveal endpoint.
type CreateAccountResponse struct {
	AccountResponse
	BVN string `json:"bvn"`
}

type IdentityResponse struct {
	BVN string `json:"bvn"`
}
