package ramp

import (
	"context"
	"regexp"
	"testing"
	"time"

	"nexuspay/internal/models"
	"nexuspay/internal/repositories"
	"nexuspay/internal/services/fees"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRampRepo struct {
	mock.Mock
}

type MockUserRepo struct {
	mock.Mock
}

type MockCards struct {
	mock.Mock
}

var fixedTime = time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

func newTestService(repo *MockRampRepo, users *MockUserRepo, cards CardVerifier) Service {
	return NewService(repo, users, cards, fees.NewCalculator(), nil, nil,
		WithClock(func() time.Time { return fixedTime }),
		WithReferenceSuffix(func() (string, error) { return "a1b2c3", nil }))
}

func TestService_CreateTransaction(t *testing.T) {
	baseReq := CreateTransactionRequest{
		Type:          models.RampTypeOnRamp,
		PaymentMethod: "mpesa",
		FiatCurrency:  "KES",
		FiatAmount:    5000,
		CryptoToken:   "USDC",
	}

	t.Run("successful creation computes fees and reference", func(t *testing.T) {
		repo := new(MockRampRepo)
		users := new(MockUserRepo)
		users.On("GetByID", uint(1)).Return(&models.User{LoyaltyTier: "tier_1"}, nil)
		repo.On("Create", mock.Anything, mock.Anything).Return(nil)

		svc := newTestService(repo, users, nil)
		tx, err := svc.CreateTransaction(context.Background(), 1, baseReq)

		assert.NoError(t, err)
		assert.Equal(t, models.RampStatusPending, tx.Status)
		assert.Equal(t, "arbitrum", tx.Chain)
		assert.InDelta(t, 1.1, tx.FeePercentage, 1e-9) // 1.2 mpesa - 0.1 tier_1
		assert.InDelta(t, 55, tx.FeeAmount, 1e-9)
		assert.InDelta(t, 5055, tx.TotalAmount, 1e-9)
		assert.InDelta(t, tx.FiatAmount+tx.FeeAmount, tx.TotalAmount, 1e-9)
		assert.Equal(t, "NP-20250615103000-a1b2c3", tx.PaymentReference)
		assert.Regexp(t, regexp.MustCompile(`^NP-\d{14}-[0-9a-f]{6}$`), tx.PaymentReference)

		repo.AssertExpectations(t)
		users.AssertExpectations(t)
	})

	t.Run("zero amount rejected before persistence", func(t *testing.T) {
		repo := new(MockRampRepo)
		users := new(MockUserRepo)

		req := baseReq
		req.FiatAmount = 0

		svc := newTestService(repo, users, nil)
		tx, err := svc.CreateTransaction(context.Background(), 1, req)

		assert.ErrorIs(t, err, ErrInvalidAmount)
		assert.Nil(t, tx)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		repo := new(MockRampRepo)
		users := new(MockUserRepo)

		req := baseReq
		req.CryptoToken = ""

		svc := newTestService(repo, users, nil)
		_, err := svc.CreateTransaction(context.Background(), 1, req)
		assert.ErrorIs(t, err, ErrMissingFields)
	})

	t.Run("invalid payment method rejected", func(t *testing.T) {
		repo := new(MockRampRepo)
		users := new(MockUserRepo)

		req := baseReq
		req.PaymentMethod = "cheque"

		svc := newTestService(repo, users, nil)
		_, err := svc.CreateTransaction(context.Background(), 1, req)
		assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
	})

	t.Run("unknown user rejected", func(t *testing.T) {
		repo := new(MockRampRepo)
		users := new(MockUserRepo)
		users.On("GetByID", uint(9)).Return(nil, repositories.ErrUserNotFound)

		svc := newTestService(repo, users, nil)
		_, err := svc.CreateTransaction(context.Background(), 9, baseReq)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("token unsupported on every chain aborts creation", func(t *testing.T) {
		repo := new(MockRampRepo)
		users := new(MockUserRepo)
		users.On("GetByID", uint(1)).Return(&models.User{}, nil)

		req := baseReq
		req.CryptoToken = "DOGE"

		svc := newTestService(repo, users, nil)
		_, err := svc.CreateTransaction(context.Background(), 1, req)
		assert.ErrorIs(t, err, ErrTokenNotSupported)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("fallback chain is persisted when default lacks token", func(t *testing.T) {
		repo := new(MockRampRepo)
		users := new(MockUserRepo)
		users.On("GetByID", uint(1)).Return(&models.User{}, nil)
		repo.On("Create", mock.Anything, mock.Anything).Return(nil)

		req := baseReq
		req.CryptoToken = "CUSD" // only on celo

		svc := newTestService(repo, users, nil)
		tx, err := svc.CreateTransaction(context.Background(), 1, req)

		assert.NoError(t, err)
		assert.Equal(t, "celo", tx.Chain)
	})

	t.Run("card on-ramp requires an active linked card", func(t *testing.T) {
		repo := new(MockRampRepo)
		users := new(MockUserRepo)
		cards := new(MockCards)
		users.On("GetByID", uint(1)).Return(&models.User{}, nil)
		cards.On("ValidateActiveCard", mock.Anything, uint(1)).Return(assert.AnError)

		req := baseReq
		req.PaymentMethod = "card"

		svc := newTestService(repo, users, cards)
		_, err := svc.CreateTransaction(context.Background(), 1, req)
		assert.ErrorIs(t, err, ErrNoLinkedCard)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestService_StatusTransitions(t *testing.T) {
	t.Run("pending to processing", func(t *testing.T) {
		repo := new(MockRampRepo)
		users := new(MockUserRepo)
		repo.On("GetByID", mock.Anything, uint(7)).
			Return(&models.RampTransaction{ID: 7, Status: models.RampStatusPending}, nil)
		repo.On("Update", mock.Anything, mock.Anything).Return(nil)

		svc := newTestService(repo, users, nil)
		tx, err := svc.MarkProcessing(context.Background(), 7)

		assert.NoError(t, err)
		assert.Equal(t, models.RampStatusProcessing, tx.Status)
		assert.Equal(t, fixedTime, *tx.ProcessingStartedAt)
	})

	t.Run("completion sets processing time in minutes", func(t *testing.T) {
		repo := new(MockRampRepo)
		users := new(MockUserRepo)
		started := fixedTime.Add(-30 * time.Minute)
		repo.On("GetByID", mock.Anything, uint(7)).
			Return(&models.RampTransaction{ID: 7, Status: models.RampStatusProcessing, ProcessingStartedAt: &started}, nil)
		repo.On("Update", mock.Anything, mock.Anything).Return(nil)

		svc := newTestService(repo, users, nil)
		tx, err := svc.CompleteTransaction(context.Background(), 7)

		assert.NoError(t, err)
		assert.Equal(t, models.RampStatusCompleted, tx.Status)
		assert.InDelta(t, 30, tx.ProcessingTime, 1e-9)
	})

	t.Run("no transition out of a terminal state", func(t *testing.T) {
		repo := new(MockRampRepo)
		users := new(MockUserRepo)
		repo.On("GetByID", mock.Anything, uint(7)).
			Return(&models.RampTransaction{ID: 7, Status: models.RampStatusCompleted}, nil)

		svc := newTestService(repo, users, nil)

		_, err := svc.FailTransaction(context.Background(), 7, "late provider error")
		assert.ErrorIs(t, err, ErrTerminalStatus)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("completing a pending transaction is invalid", func(t *testing.T) {
		repo := new(MockRampRepo)
		users := new(MockUserRepo)
		repo.On("GetByID", mock.Anything, uint(7)).
			Return(&models.RampTransaction{ID: 7, Status: models.RampStatusPending}, nil)

		svc := newTestService(repo, users, nil)
		_, err := svc.CompleteTransaction(context.Background(), 7)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestService_CalculateSavings(t *testing.T) {
	svc := newTestService(new(MockRampRepo), new(MockUserRepo), nil)

	s := svc.CalculateSavings(5000, fees.Tier1, fees.Tier3)
	assert.InDelta(t, 0.9, s.CurrentFees.Percentage, 1e-9)
	assert.InDelta(t, 0.7, s.NextFees.Percentage, 1e-9)
	assert.InDelta(t, 10, s.FeeSavings, 1e-9)
}

// Mock implementations

func (m *MockRampRepo) Create(ctx context.Context, tx *models.RampTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockRampRepo) GetByID(ctx context.Context, id uint) (*models.RampTransaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RampTransaction), args.Error(1)
}

func (m *MockRampRepo) GetByReference(ctx context.Context, reference string) (*models.RampTransaction, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RampTransaction), args.Error(1)
}

func (m *MockRampRepo) GetForUser(ctx context.Context, userID uint, filter repositories.RampFilter) ([]models.RampTransaction, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RampTransaction), args.Error(1)
}

func (m *MockRampRepo) Update(ctx context.Context, tx *models.RampTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockRampRepo) GetStats(ctx context.Context, userID uint) (*repositories.RampStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.RampStats), args.Error(1)
}

func (m *MockUserRepo) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepo) GetByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepo) IncrementTokenVersion(userID uint) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockCards) ValidateActiveCard(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
