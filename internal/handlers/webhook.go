package handlers

import (
	"context"
	"errors"

	"nexuspay/internal/services/forwarder"
	"nexuspay/internal/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// WebhookHandler receives payment-provider callbacks and relays them to the
// internal backend. Payment confirmations are acked immediately and
// forwarded in the background; less time-sensitive callbacks forward first
// and relay the backend's answer.
type WebhookHandler struct {
	fwd    *forwarder.Forwarder
	kplc   *forwarder.Forwarder
	logger *zap.Logger
}

// NewWebhookHandler creates a webhook handler. kplc carries the shorter
// per-attempt timeout used for utility token callbacks.
func NewWebhookHandler(fwd, kplc *forwarder.Forwarder, logger *zap.Logger) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{
		fwd:    fwd,
		kplc:   kplc,
		logger: logger,
	}
}

// CORS answers cross-origin preflight before any other logic runs and tags
// every webhook response with permissive CORS headers.
func (h *WebhookHandler) CORS(c *fiber.Ctx) error {
	c.Set("Access-Control-Allow-Origin", "*")
	c.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	c.Set("Access-Control-Allow-Headers", "Content-Type")
	if c.Method() == fiber.MethodOptions {
		return c.SendStatus(fiber.StatusOK)
	}
	return c.Next()
}

// HandleGeneric is the catch-all callback entry point. The internal
// destination is chosen by path substring.
func (h *WebhookHandler) HandleGeneric(c *fiber.Ctx) error {
	return h.ackAndForward(c, forwarder.InternalPath(c.Path()))
}

// HandleSTKCallback handles M-Pesa STK push confirmations. Safaricom
// enforces a strict response deadline, so this is always ack-first.
func (h *WebhookHandler) HandleSTKCallback(c *fiber.Ctx) error {
	return h.ackAndForward(c, "/api/mpesa/stk-callback")
}

// HandleB2BCallback relays business-to-business result callbacks.
func (h *WebhookHandler) HandleB2BCallback(c *fiber.Ctx) error {
	return h.forwardAndRespond(c, h.fwd, "/api/mpesa/b2b-callback")
}

// HandleQueueTimeout relays queue timeout notifications.
func (h *WebhookHandler) HandleQueueTimeout(c *fiber.Ctx) error {
	return h.forwardAndRespond(c, h.fwd, "/api/mpesa/queue-timeout")
}

// HandleKPLCToken validates and relays KPLC token messages.
func (h *WebhookHandler) HandleKPLCToken(c *fiber.Ctx) error {
	var body struct {
		AccountNumber string   `json:"accountNumber"`
		TokenMessage  string   `json:"tokenMessage"`
		Amount        *float64 `json:"amount"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorWithCode(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON")
	}
	if body.AccountNumber == "" || body.TokenMessage == "" || body.Amount == nil {
		return utils.ErrorWithCode(c, fiber.StatusBadRequest, "MISSING_FIELDS",
			"accountNumber, tokenMessage and amount are required")
	}

	return h.forwardAndRespond(c, h.kplc, "/api/kplc/webhook/token")
}

// ackAndForward responds 200 to the provider immediately; forwarding runs
// in the background and its outcome is never reported to the caller.
func (h *WebhookHandler) ackAndForward(c *fiber.Ctx, dest string) error {
	// Fiber reuses the request buffer once the handler returns.
	payload := append([]byte(nil), c.Body()...)

	go h.fwd.ForwardWithRetry(context.Background(), dest, payload)

	return c.JSON(fiber.Map{"ResultCode": 0, "ResultDesc": "Success"})
}

// forwardAndRespond forwards synchronously and reflects the backend's
// status and body back to the caller. Upstream errors are relayed verbatim
// rather than translated.
func (h *WebhookHandler) forwardAndRespond(c *fiber.Ctx, fwd *forwarder.Forwarder, dest string) error {
	res, err := fwd.Forward(c.UserContext(), dest, c.Body())
	if err != nil {
		if errors.Is(err, forwarder.ErrNotConfigured) {
			h.logger.Error("webhook relay misconfigured, no backend URL set",
				zap.String("dest", dest))
			return utils.ErrorWithCode(c, fiber.StatusInternalServerError, "NOT_CONFIGURED",
				"internal backend URL is not configured")
		}

		var upstream *forwarder.UpstreamError
		if errors.As(err, &upstream) {
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.Status(upstream.Status).Send(upstream.Body)
		}

		return utils.ErrorWithCode(c, fiber.StatusBadGateway, "FORWARD_FAILED",
			"could not reach internal backend")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(res.Status).Send(res.Body)
}
