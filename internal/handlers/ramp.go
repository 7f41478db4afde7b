package handlers

import (
	"errors"

	"nexuspay/internal/repositories"
	"nexuspay/internal/services/fees"
	"nexuspay/internal/services/ramp"
	"nexuspay/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type RampHandler struct {
	rampService ramp.Service
}

func NewRampHandler(rampService ramp.Service) *RampHandler {
	return &RampHandler{
		rampService: rampService,
	}
}

// CreateTransaction handles POST /api/ramp/transaction.
func (h *RampHandler) CreateTransaction(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var req ramp.CreateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	tx, err := h.rampService.CreateTransaction(c.UserContext(), claims.UserID, req)
	if err != nil {
		switch {
		case errors.Is(err, ramp.ErrMissingFields),
			errors.Is(err, ramp.ErrInvalidType),
			errors.Is(err, ramp.ErrInvalidPaymentMethod),
			errors.Is(err, ramp.ErrInvalidAmount),
			errors.Is(err, ramp.ErrTokenNotSupported),
			errors.Is(err, ramp.ErrNoLinkedCard),
			errors.Is(err, ramp.ErrUserNotFound):
			return utils.BadRequest(c, err.Error())
		default:
			return utils.InternalError(c, "Failed to create transaction")
		}
	}

	return utils.Success(c, fiber.Map{"transaction": tx})
}

// GetTransactions handles GET /api/ramp/transactions with optional type and
// status query filters.
func (h *RampHandler) GetTransactions(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	filter := repositories.RampFilter{
		Type:   c.Query("type"),
		Status: c.Query("status"),
	}

	txs, err := h.rampService.GetTransactions(c.UserContext(), claims.UserID, filter)
	if err != nil {
		return utils.InternalError(c, "Failed to retrieve transactions")
	}

	return utils.Success(c, fiber.Map{
		"transactions": txs,
		"total":        len(txs),
	})
}

// GetStats handles GET /api/ramp/stats.
func (h *RampHandler) GetStats(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	stats, err := h.rampService.GetStats(c.UserContext(), claims.UserID)
	if err != nil {
		return utils.InternalError(c, "Failed to retrieve stats")
	}

	return utils.Success(c, fiber.Map{"stats": stats})
}

// CalculateSavings handles POST /api/ramp/calculate-savings.
func (h *RampHandler) CalculateSavings(c *fiber.Ctx) error {
	if _, err := utils.GetUserClaims(c); err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var req struct {
		Amount      float64 `json:"amount"`
		CurrentTier string  `json:"current_tier"`
		NextTier    string  `json:"next_tier"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if req.Amount <= 0 || req.CurrentTier == "" || req.NextTier == "" {
		return utils.BadRequest(c, "amount, current_tier and next_tier are required")
	}

	savings := h.rampService.CalculateSavings(req.Amount, fees.Tier(req.CurrentTier), fees.Tier(req.NextTier))
	return utils.Success(c, fiber.Map{"savings": savings})
}
