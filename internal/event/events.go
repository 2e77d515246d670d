package event

import (
	"context"
	"time"
)

type LoanSettledEvent struct {
	LoanID      int64     `json:"loanId"`
	CustomerID  int64     `json:"customerId"`
	Bank        string    `json:"bank"`
	AmountMinor int64     `json:"amountMinor"`
	Timestamp   time.Time `json:"timestamp"`
}

// ReconciliationRequiredEvent is the alert for a partially applied
// settlement: the debit committed but the loan was not marked paid.
type ReconciliationRequiredEvent struct {
	LoanID      int64     `json:"loanId"`
	AccountID   int64     `json:"accountId"`
	BankID      string    `json:"bankId"`
	AmountMinor int64     `json:"amountMinor"`
	Timestamp   time.Time `json:"timestamp"`
}

type Publisher interface {
	PublishLoanSettled(ctx context.Context, event LoanSettledEvent) error
	PublishReconciliationRequired(ctx context.Context, event ReconciliationRequiredEvent) error
}

// NoopPublisher is used when the broker is disabled in configuration.
type NoopPublisher struct{}

func (NoopPublisher) PublishLoanSettled(context.Context, LoanSettledEvent) error { return nil }

func (NoopPublisher) PublishReconciliationRequired(context.Context, ReconciliationRequiredEvent) error {
	return nil
}
