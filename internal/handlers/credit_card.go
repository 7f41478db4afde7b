package handlers

import (
	"errors"
	"strconv"

	"nexuspay/internal/models"
	"nexuspay/internal/services/card"
	"nexuspay/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type CreditCardHandler struct {
	cardService card.Service
}

func NewCreditCardHandler(cardService card.Service) *CreditCardHandler {
	return &CreditCardHandler{
		cardService: cardService,
	}
}

func (h *CreditCardHandler) LinkCard(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input models.CreateCardInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	linked, err := h.cardService.LinkCard(c.UserContext(), claims.UserID, input)
	if err != nil {
		if errors.Is(err, card.ErrInvalidCard) {
			return utils.BadRequest(c, err.Error())
		}
		return utils.InternalError(c, "Failed to link card")
	}

	return utils.Success(c, fiber.Map{"card": linked})
}

func (h *CreditCardHandler) GetCards(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	cards, err := h.cardService.GetCards(c.UserContext(), claims.UserID)
	if err != nil {
		return utils.InternalError(c, "Failed to retrieve cards")
	}
	return utils.Success(c, fiber.Map{"cards": cards})
}

func (h *CreditCardHandler) DeleteCard(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	cardID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "invalid card id")
	}

	if err := h.cardService.DeleteCard(c.UserContext(), claims.UserID, uint(cardID)); err != nil {
		switch {
		case errors.Is(err, card.ErrCardNotFound):
			return utils.NotFound(c, err.Error())
		case errors.Is(err, card.ErrCardNotBelongToUser):
			return utils.Unauthorized(c, err.Error())
		default:
			return utils.InternalError(c, "Failed to delete card")
		}
	}
	return utils.Success(c, fiber.Map{"message": "Card deleted"})
}
