package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"nexuspay/internal/models"
	"nexuspay/internal/repositories"
	"nexuspay/internal/services/fees"
	"nexuspay/internal/services/ramp"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRampService struct {
	mock.Mock
}

func newRampApp(svc ramp.Service) *fiber.App {
	app := fiber.New()
	h := NewRampHandler(svc)

	// Stand-in for the auth middleware.
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("claims", &models.UserClaims{UserID: 1})
		return c.Next()
	})

	app.Post("/api/ramp/transaction", h.CreateTransaction)
	app.Get("/api/ramp/transactions", h.GetTransactions)
	app.Get("/api/ramp/stats", h.GetStats)
	app.Post("/api/ramp/calculate-savings", h.CalculateSavings)
	return app
}

func TestRampHandler_CreateTransaction(t *testing.T) {
	body := `{"type":"on_ramp","payment_method":"mpesa","fiat_currency":"KES","fiat_amount":5000,"crypto_token":"USDC"}`

	t.Run("success", func(t *testing.T) {
		svc := new(MockRampService)
		svc.On("CreateTransaction", mock.Anything, uint(1), mock.Anything).
			Return(&models.RampTransaction{ID: 42, Status: models.RampStatusPending, PaymentReference: "NP-20250615103000-a1b2c3"}, nil)

		app := newRampApp(svc)
		req := httptest.NewRequest(fiber.MethodPost, "/api/ramp/transaction", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var got struct {
			Transaction models.RampTransaction `json:"transaction"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, uint(42), got.Transaction.ID)
		assert.Equal(t, "NP-20250615103000-a1b2c3", got.Transaction.PaymentReference)
	})

	t.Run("validation errors map to 400", func(t *testing.T) {
		for _, svcErr := range []error{
			ramp.ErrMissingFields,
			ramp.ErrInvalidAmount,
			ramp.ErrTokenNotSupported,
			ramp.ErrNoLinkedCard,
		} {
			svc := new(MockRampService)
			svc.On("CreateTransaction", mock.Anything, uint(1), mock.Anything).Return(nil, svcErr)

			app := newRampApp(svc)
			req := httptest.NewRequest(fiber.MethodPost, "/api/ramp/transaction", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, svcErr.Error())
		}
	})

	t.Run("unexpected errors map to 500", func(t *testing.T) {
		svc := new(MockRampService)
		svc.On("CreateTransaction", mock.Anything, uint(1), mock.Anything).Return(nil, assert.AnError)

		app := newRampApp(svc)
		req := httptest.NewRequest(fiber.MethodPost, "/api/ramp/transaction", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	})
}

func TestRampHandler_GetTransactions(t *testing.T) {
	svc := new(MockRampService)
	svc.On("GetTransactions", mock.Anything, uint(1), repositories.RampFilter{Type: "on_ramp", Status: "completed"}).
		Return([]models.RampTransaction{{ID: 1}, {ID: 2}}, nil)

	app := newRampApp(svc)
	req := httptest.NewRequest(fiber.MethodGet, "/api/ramp/transactions?type=on_ramp&status=completed", nil)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got struct {
		Transactions []models.RampTransaction `json:"transactions"`
		Total        int                      `json:"total"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, 2, got.Total)
	svc.AssertExpectations(t)
}

func TestRampHandler_CalculateSavings(t *testing.T) {
	t.Run("missing fields", func(t *testing.T) {
		svc := new(MockRampService)
		app := newRampApp(svc)

		req := httptest.NewRequest(fiber.MethodPost, "/api/ramp/calculate-savings",
			strings.NewReader(`{"amount":5000}`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		svc.AssertNotCalled(t, "CalculateSavings", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("success", func(t *testing.T) {
		svc := new(MockRampService)
		svc.On("CalculateSavings", 5000.0, fees.Tier1, fees.Tier2).
			Return(fees.Savings{Amount: 5000, FeeSavings: 5})

		app := newRampApp(svc)
		req := httptest.NewRequest(fiber.MethodPost, "/api/ramp/calculate-savings",
			strings.NewReader(`{"amount":5000,"current_tier":"tier_1","next_tier":"tier_2"}`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var got struct {
			Savings fees.Savings `json:"savings"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.InDelta(t, 5, got.Savings.FeeSavings, 1e-9)
	})
}

// MockRampService methods

func (m *MockRampService) CreateTransaction(ctx context.Context, userID uint, req ramp.CreateTransactionRequest) (*models.RampTransaction, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RampTransaction), args.Error(1)
}

func (m *MockRampService) GetTransactions(ctx context.Context, userID uint, filter repositories.RampFilter) ([]models.RampTransaction, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RampTransaction), args.Error(1)
}

func (m *MockRampService) GetStats(ctx context.Context, userID uint) (*repositories.RampStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.RampStats), args.Error(1)
}

func (m *MockRampService) CalculateSavings(amount float64, currentTier, nextTier fees.Tier) fees.Savings {
	args := m.Called(amount, currentTier, nextTier)
	return args.Get(0).(fees.Savings)
}

func (m *MockRampService) MarkProcessing(ctx context.Context, id uint) (*models.RampTransaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RampTransaction), args.Error(1)
}

func (m *MockRampService) CompleteTransaction(ctx context.Context, id uint) (*models.RampTransaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RampTransaction), args.Error(1)
}

func (m *MockRampService) FailTransaction(ctx context.Context, id uint, reason string) (*models.RampTransaction, error) {
	args := m.Called(ctx, id, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RampTransaction), args.Error(1)
}
