package loan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lending-engine/internal/pkg/apperrors"
)

func TestNewLoan(t *testing.T) {
	today := time.Date(2026, 1, 10, 15, 30, 0, 0, time.UTC)

	t.Run("deadline is three months out", func(t *testing.T) {
		l, err := NewLoan(7, 500000, today)

		assert.NoError(t, err)
		assert.Equal(t, time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC), l.Deadline)
		assert.Equal(t, int64(500000), l.TotalPayableMinor)
		assert.False(t, l.LoanPaid)
	})

	t.Run("principal must be positive", func(t *testing.T) {
		_, err := NewLoan(7, 0, today)
		assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)

		_, err = NewLoan(7, -100, today)
		assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
	})

	t.Run("time of day does not shift the deadline", func(t *testing.T) {
		morning, _ := NewLoan(7, 1000, time.Date(2026, 1, 10, 0, 0, 1, 0, time.UTC))
		night, _ := NewLoan(7, 1000, time.Date(2026, 1, 10, 23, 59, 59, 0, time.UTC))
		assert.Equal(t, morning.Deadline, night.Deadline)
	})
}

func TestOverdue(t *testing.T) {
	l := &Loan{Deadline: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)}

	assert.False(t, l.Overdue(time.Date(2024, 1, 9, 12, 0, 0, 0, time.UTC)))
	// The deadline day itself is still on time.
	assert.False(t, l.Overdue(time.Date(2024, 1, 10, 23, 59, 59, 0, time.UTC)))
	assert.True(t, l.Overdue(time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)))
}

func TestPenaltyFor(t *testing.T) {
	l := &Loan{Deadline: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)}

	t.Run("not yet overdue", func(t *testing.T) {
		assert.Equal(t, int64(0), l.PenaltyFor(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("three days past the deadline", func(t *testing.T) {
		today := time.Date(2024, 1, 13, 8, 0, 0, 0, time.UTC)
		assert.Equal(t, int64(3), l.OutstandingDays(today))
		assert.Equal(t, int64(3*DailyPenaltyMinor), l.PenaltyFor(today))
	})

	t.Run("same date in another zone", func(t *testing.T) {
		// 2024-01-13 23:00 UTC+10 is still 2024-01-13 13:00 UTC.
		zone := time.FixedZone("UTC+10", 10*3600)
		today := time.Date(2024, 1, 13, 23, 0, 0, 0, zone)
		assert.Equal(t, int64(3*DailyPenaltyMinor), l.PenaltyFor(today))
	})
}

func TestDateUTC(t *testing.T) {
	zone := time.FixedZone("UTC-5", -5*3600)
	t1 := time.Date(2024, 1, 10, 22, 0, 0, 0, zone)

	assert.Equal(t, time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC), DateUTC(t1))
}
