package loan

import (
	"fmt"
	"time"

	"lending-engine/internal/pkg/apperrors"
)

const (
	// DeadlineMonths is added to the request date to produce the deadline.
	DeadlineMonths = 3

	// DailyPenaltyMinor is the per-outstanding-day penalty rate.
	DailyPenaltyMinor = 1000

	// MaxUnpaidLoans caps how many unpaid loans a customer may hold at once.
	MaxUnpaidLoans = 3
)

type Loan struct {
	ID         int64
	CustomerID int64
	// AmountMinor is the principal in minor currency units.
	AmountMinor int64
	// Deadline is a calendar date; its time of day is ignored.
	Deadline time.Time
	// TotalPayableMinor starts equal to the principal and only grows.
	TotalPayableMinor int64
	LoanPaid          bool
	// Bank holds the name of the sub-balance that settled the loan, set once
	// by settlement.
	Bank string
	// LastAccruedOn is the calendar date of the most recent applied accrual.
	// It makes the daily sweep idempotent per loan per day.
	LastAccruedOn *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewLoan(customerID, principalMinor int64, today time.Time) (*Loan, error) {
	if principalMinor <= 0 {
		return nil, fmt.Errorf("%w: principal must be positive", apperrors.ErrInvalidAmount)
	}
	if today.IsZero() {
		today = time.Now()
	}
	day := DateUTC(today)

	return &Loan{
		CustomerID:        customerID,
		AmountMinor:       principalMinor,
		Deadline:          day.AddDate(0, DeadlineMonths, 0),
		TotalPayableMinor: principalMinor,
		LoanPaid:          false,
	}, nil
}

// DateUTC truncates a timestamp to its UTC calendar date.
func DateUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Overdue reports whether the loan's deadline is strictly before today. A
// loan exactly at its deadline is not overdue.
func (l *Loan) Overdue(today time.Time) bool {
	return DateUTC(l.Deadline).Before(DateUTC(today))
}

// OutstandingDays is the number of whole calendar days between the deadline
// and today, zero when the loan is not overdue.
func (l *Loan) OutstandingDays(today time.Time) int64 {
	if !l.Overdue(today) {
		return 0
	}
	return int64(DateUTC(today).Sub(DateUTC(l.Deadline)) / (24 * time.Hour))
}

// PenaltyFor is the penalty one accrual run adds for the given day.
func (l *Loan) PenaltyFor(today time.Time) int64 {
	return l.OutstandingDays(today) * DailyPenaltyMinor
}
