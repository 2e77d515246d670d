package batch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"lending-engine/internal/domain/loan"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

type MockLedgerService struct {
	mock.Mock
}

func (_m *MockLedgerService) RequestLoan(ctx context.Context, customerID int64, principalMinor int64, identityCandidate string) (*loan.Loan, error) {
	ret := _m.Called(ctx, customerID, principalMinor, identityCandidate)

	var r0 *loan.Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*loan.Loan)
	}
	return r0, ret.Error(1)
}

func (_m *MockLedgerService) Accrue(ctx context.Context, today time.Time) (loan.AccrualSummary, error) {
	ret := _m.Called(ctx, today)
	return ret.Get(0).(loan.AccrualSummary), ret.Error(1)
}

func (_m *MockLedgerService) MarkPaid(ctx context.Context, loanID int64, settlingBankName string) (*loan.Loan, error) {
	ret := _m.Called(ctx, loanID, settlingBankName)

	var r0 *loan.Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*loan.Loan)
	}
	return r0, ret.Error(1)
}

func (_m *MockLedgerService) Get(ctx context.Context, loanID int64) (*loan.Loan, error) {
	ret := _m.Called(ctx, loanID)

	var r0 *loan.Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*loan.Loan)
	}
	return r0, ret.Error(1)
}

func (_m *MockLedgerService) ListForCustomer(ctx context.Context, customerID int64) ([]loan.Loan, error) {
	ret := _m.Called(ctx, customerID)

	var r0 []loan.Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]loan.Loan)
	}
	return r0, ret.Error(1)
}

func TestAccrualJobRun(t *testing.T) {
	ctx := context.Background()

	t.Run("clean sweep", func(t *testing.T) {
		mockLedger := new(MockLedgerService)
		job := NewAccrualJob(mockLedger, logger)

		mockLedger.On("Accrue", ctx, mock.AnythingOfType("time.Time")).
			Return(loan.AccrualSummary{Scanned: 5, Applied: 2, Skipped: 3}, nil)

		err := job.Run(ctx)

		assert.NoError(t, err)
		mockLedger.AssertExpectations(t)
	})

	t.Run("per-loan errors fail the run", func(t *testing.T) {
		mockLedger := new(MockLedgerService)
		job := NewAccrualJob(mockLedger, logger)

		mockLedger.On("Accrue", ctx, mock.AnythingOfType("time.Time")).
			Return(loan.AccrualSummary{Scanned: 5, Applied: 3, Errors: 2}, nil)

		err := job.Run(ctx)

		assert.Error(t, err)
	})

	t.Run("aborted sweep", func(t *testing.T) {
		mockLedger := new(MockLedgerService)
		job := NewAccrualJob(mockLedger, logger)

		mockLedger.On("Accrue", ctx, mock.AnythingOfType("time.Time")).
			Return(loan.AccrualSummary{}, errors.New("cannot list unpaid loans"))

		err := job.Run(ctx)

		assert.Error(t, err)
	})
}
