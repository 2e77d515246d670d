package account

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"lending-engine/internal/pkg/apperrors"
	"lending-engine/internal/pkg/vault"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, nil))

type MockRepository struct {
	mock.Mock
}

func (_m *MockRepository) CreateAccount(ctx context.Context, acct *Account) (*Account, error) {
	ret := _m.Called(ctx, acct)

	var r0 *Account
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Account)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) GetByID(ctx context.Context, accountID int64) (*Account, error) {
	ret := _m.Called(ctx, accountID)

	var r0 *Account
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Account)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) GetByCustomerID(ctx context.Context, customerID int64) (*Account, error) {
	ret := _m.Called(ctx, customerID)

	var r0 *Account
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Account)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) GetSubBalance(ctx context.Context, accountID int64, bankID string) (*SubBalance, error) {
	ret := _m.Called(ctx, accountID, bankID)

	var r0 *SubBalance
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*SubBalance)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) CreditSubBalance(ctx context.Context, accountID int64, bankID string, amountMinor int64) (*SubBalance, error) {
	ret := _m.Called(ctx, accountID, bankID, amountMinor)

	var r0 *SubBalance
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*SubBalance)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) DebitSubBalance(ctx context.Context, accountID int64, bankID string, amountMinor int64) (*SubBalance, error) {
	ret := _m.Called(ctx, accountID, bankID, amountMinor)

	var r0 *SubBalance
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*SubBalance)
	}
	return r0, ret.Error(1)
}

func newTestVault(t *testing.T) *vault.Vault {
	t.Helper()
	v, err := vault.New("unit-test-secret")
	if err != nil {
		t.Fatalf("failed to build vault: %v", err)
	}
	return v
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("seeds default banks when none given", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewAccountService(mockRepo, newTestVault(t), logger)

		mockRepo.On("CreateAccount", ctx, mock.MatchedBy(func(a *Account) bool {
			return a.CustomerID == 7 && len(a.Banks) == 3 && a.BVNCipher != ""
		})).Return(&Account{ID: 1, CustomerID: 7}, nil)

		created, err := service.Create(ctx, 7, nil)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), created.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("rejects negative opening balance", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewAccountService(mockRepo, newTestVault(t), logger)

		seed := []SubBalance{{BankID: "bank-a", BankName: "Bank of America", BalanceMinor: -1}}
		created, err := service.Create(ctx, 7, seed)

		assert.Nil(t, created)
		assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
		mockRepo.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything)
	})

	t.Run("rejects duplicate bank ids", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewAccountService(mockRepo, newTestVault(t), logger)

		seed := []SubBalance{
			{BankID: "bank-a", BankName: "Bank of America", BalanceMinor: 100},
			{BankID: "bank-a", BankName: "Guarantee Trust Bank", BalanceMinor: 200},
		}
		created, err := service.Create(ctx, 7, seed)

		assert.Nil(t, created)
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	})
}

func TestCredit(t *testing.T) {
	ctx := context.Background()

	t.Run("adds to the sub-balance", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewAccountService(mockRepo, newTestVault(t), logger)

		mockRepo.On("CreditSubBalance", ctx, int64(1), "bank-a", int64(2500)).
			Return(&SubBalance{BankID: "bank-a", BalanceMinor: 7500}, nil)

		bal, err := service.Credit(ctx, 1, "bank-a", 2500)

		assert.NoError(t, err)
		assert.Equal(t, int64(7500), bal.BalanceMinor)
		mockRepo.AssertExpectations(t)
	})

	t.Run("zero credit is allowed", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewAccountService(mockRepo, newTestVault(t), logger)

		mockRepo.On("CreditSubBalance", ctx, int64(1), "bank-a", int64(0)).
			Return(&SubBalance{BankID: "bank-a", BalanceMinor: 5000}, nil)

		bal, err := service.Credit(ctx, 1, "bank-a", 0)

		assert.NoError(t, err)
		assert.Equal(t, int64(5000), bal.BalanceMinor)
	})

	t.Run("negative credit is rejected", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewAccountService(mockRepo, newTestVault(t), logger)

		bal, err := service.Credit(ctx, 1, "bank-a", -100)

		assert.Nil(t, bal)
		assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
		mockRepo.AssertNotCalled(t, "CreditSubBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDebit(t *testing.T) {
	ctx := context.Background()

	t.Run("covered debit lowers the balance", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewAccountService(mockRepo, newTestVault(t), logger)

		mockRepo.On("DebitSubBalance", ctx, int64(1), "bank-a", int64(4000)).
			Return(&SubBalance{BankID: "bank-a", BalanceMinor: 1000}, nil)

		bal, err := service.Debit(ctx, 1, "bank-a", 4000)

		assert.NoError(t, err)
		assert.Equal(t, int64(1000), bal.BalanceMinor)
		mockRepo.AssertExpectations(t)
	})

	t.Run("insufficient funds surfaces unchanged", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewAccountService(mockRepo, newTestVault(t), logger)

		mockRepo.On("DebitSubBalance", ctx, int64(1), "bank-a", int64(6000)).
			Return(nil, apperrors.ErrInsufficientFunds)

		bal, err := service.Debit(ctx, 1, "bank-a", 6000)

		assert.Nil(t, bal)
		assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)
	})

	t.Run("unknown bank surfaces unchanged", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewAccountService(mockRepo, newTestVault(t), logger)

		mockRepo.On("DebitSubBalance", ctx, int64(1), "ghost", int64(100)).
			Return(nil, apperrors.ErrUnknownBank)

		bal, err := service.Debit(ctx, 1, "ghost", 100)

		assert.Nil(t, bal)
		assert.ErrorIs(t, err, apperrors.ErrUnknownBank)
	})

	t.Run("negative debit is rejected", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewAccountService(mockRepo, newTestVault(t), logger)

		bal, err := service.Debit(ctx, 1, "bank-a", -1)

		assert.Nil(t, bal)
		assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
		mockRepo.AssertNotCalled(t, "DebitSubBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestVerifyCustomerIdentity(t *testing.T) {
	ctx := context.Background()
	v := newTestVault(t)

	cipher, err := v.Encrypt("BVN-000123456789")
	if err != nil {
		t.Fatalf("failed to encrypt test token: %v", err)
	}

	t.Run("matching candidate", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewAccountService(mockRepo, v, logger)

		mockRepo.On("GetByCustomerID", ctx, int64(7)).
			Return(&Account{ID: 1, CustomerID: 7, BVNCipher: cipher.Token()}, nil)

		match, err := service.VerifyCustomerIdentity(ctx, 7, "BVN-000123456789")

		assert.NoError(t, err)
		assert.True(t, match)
	})

	t.Run("wrong candidate", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewAccountService(mockRepo, v, logger)

		mockRepo.On("GetByCustomerID", ctx, int64(7)).
			Return(&Account{ID: 1, CustomerID: 7, BVNCipher: cipher.Token()}, nil)

		match, err := service.VerifyCustomerIdentity(ctx, 7, "BVN-999999999999")

		assert.NoError(t, err)
		assert.False(t, match)
	})

	t.Run("no account", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewAccountService(mockRepo, v, logger)

		mockRepo.On("GetByCustomerID", ctx, int64(9)).Return(nil, apperrors.ErrNotFound)

		match, err := service.VerifyCustomerIdentity(ctx, 9, "BVN-000123456789")

		assert.False(t, match)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestRevealIdentity(t *testing.T) {
	ctx := context.Background()
	v := newTestVault(t)

	cipher, err := v.Encrypt("BVN-000123456789")
	if err != nil {
		t.Fatalf("failed to encrypt test token: %v", err)
	}

	mockRepo := new(MockRepository)
	service := NewAccountService(mockRepo, v, logger)

	mockRepo.On("GetByID", ctx, int64(1)).
		Return(&Account{ID: 1, BVNCipher: cipher.Token()}, nil)

	plaintext, err := service.RevealIdentity(ctx, 1)

	assert.NoError(t, err)
	assert.Equal(t, "BVN-000123456789", plaintext)
}
