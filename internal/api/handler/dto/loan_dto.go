package dto

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"lending-engine/internal/domain/loan"
	"lending-engine/internal/settlement"
)

type RequestLoanRequest struct {
	Amount string `json:"amount"`
	// Password and BVN re-verify the borrower on every loan request.
	Password string `json:"password"`
	BVN      string `json:"bvn"`
}

func (r *RequestLoanRequest) Validate() error {
	if r.Amount == "" {
		return fmt.Errorf("amount is required")
	}
	minor, err := ParseAmountMinor(r.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	if minor <= 0 {
		return fmt.Errorf("amount must be greater than zero")
	}
	if r.Password == "" {
		return fmt.Errorf("password is required")
	}
	if strings.TrimSpace(r.BVN) == "" {
		return fmt.Errorf("bvn is required")
	}
	return nil
}

type PayLoanRequest struct {
	BankID string `json:"bankId"`
}

func (r *PayLoanRequest) Validate() error {
	if strings.TrimSpace(r.BankID) == "" {
		return fmt.Errorf("bankId is required")
	}
	return nil
}

type LoanResponse struct {
	ID            string    `json:"id"`
	CustomerID    string    `json:"customerId"`
	Amount        string    `json:"amount"`
	TotalPayable  string    `json:"totalPayable"`
	Deadline      string    `json:"deadline"`
	LoanPaid      bool      `json:"loanPaid"`
	Bank          string    `json:"bank,omitempty"`
	LastAccruedOn *string   `json:"lastAccruedOn,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func NewLoanResponse(l *loan.Loan) LoanResponse {
	resp := LoanResponse{
		ID:           strconv.FormatInt(l.ID, 10),
		CustomerID:   strconv.FormatInt(l.CustomerID, 10),
		Amount:       FormatAmountMinor(l.AmountMinor),
		TotalPayable: FormatAmountMinor(l.TotalPayableMinor),
		Deadline:     l.Deadline.Format(time.DateOnly),
		LoanPaid:     l.LoanPaid,
		Bank:         l.Bank,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
	if l.LastAccruedOn != nil {
		day := l.LastAccruedOn.Format(time.DateOnly)
		resp.LastAccruedOn = &day
	}
	return resp
}

type SettlementResponse struct {
	LoanID  string        `json:"loanId"`
	State   string        `json:"state"`
	Bank    string        `json:"bank,omitempty"`
	Amount  string        `json:"amount"`
	Loan    *LoanResponse `json:"loan,omitempty"`
	Balance *string       `json:"remainingBalance,omitempty"`
}

func NewSettlementResponse(loanID int64, res *settlement.Result) SettlementResponse {
	resp := SettlementResponse{
		LoanID: strconv.FormatInt(loanID, 10),
		State:  string(res.State),
		Bank:   res.BankName,
		Amount: FormatAmountMinor(res.AmountMinor),
	}
	if res.Loan != nil {
		l := NewLoanResponse(res.Loan)
		resp.Loan = &l
	}
	if res.Balance != nil {
		bal := FormatAmountMinor(res.Balance.BalanceMinor)
		resp.Balance = &bal
	}
	return resp
}

type ReconciliationEntryResponse struct {
	LoanID    string    `json:"loanId"`
	AccountID string    `json:"accountId"`
	BankID    string    `json:"bankId"`
	Amount    string    `json:"amount"`
	State     string    `json:"state"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewReconciliationEntryResponse(s *settlement.Settlement) ReconciliationEntryResponse {
	return ReconciliationEntryResponse{
		LoanID:    strconv.FormatInt(s.LoanID, 10),
		AccountID: strconv.FormatInt(s.AccountID, 10),
		BankID:    s.BankID,
		Amount:    FormatAmountMinor(s.AmountMinor),
		State:     string(s.State),
		UpdatedAt: s.UpdatedAt,
	}
}

type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
