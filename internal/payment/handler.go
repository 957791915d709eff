package payment

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/fashionstore/fashion-store-backend/internal/order"
)

// Handler exposes the gateway endpoints: remote order creation before the
// hosted checkout opens, and the signed callback verification afterwards.

type Handler struct {
	client       *Client
	orderService *order.Service
}

func NewHandler(client *Client, orderService *order.Service) *Handler {
	return &Handler{client: client, orderService: orderService}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/v1/payments/razorpay/create-order", h.createOrder)
	app.Post("/api/v1/payments/razorpay/verify", h.verify)
}

type createOrderRequest struct {
	Amount      float64 `json:"amount"`
	OrderNumber string  `json:"orderNumber"`
}

func (h *Handler) createOrder(c *fiber.Ctx) error {
	payload := new(createOrderRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.Amount <= 0 || payload.OrderNumber == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "amount and orderNumber required"})
	}

	gw, err := h.client.CreateOrder(payload.Amount, payload.OrderNumber)
	if err != nil {
		// network trouble with the gateway is retryable; the pending
		// order stays usable for another attempt
		log.Printf("error creating razorpay order for %s: %v", payload.OrderNumber, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": "failed to create payment order, please try again"})
	}
	return c.JSON(gw)
}

type verifyRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
	OrderNumber       string `json:"orderNumber"`
}

func (h *Handler) verify(c *fiber.Ctx) error {
	payload := new(verifyRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error(), "verified": false})
	}
	if payload.RazorpayOrderID == "" || payload.RazorpayPaymentID == "" ||
		payload.RazorpaySignature == "" || payload.OrderNumber == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "missing required fields", "verified": false})
	}

	if !h.client.VerifySignature(payload.RazorpayOrderID, payload.RazorpayPaymentID, payload.RazorpaySignature) {
		// reject without touching the order; it stays unpaid
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid signature", "verified": false})
	}

	if _, err := h.orderService.ConfirmPayment(payload.OrderNumber, payload.RazorpayOrderID, payload.RazorpayPaymentID); err != nil {
		switch err {
		case order.ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found", "verified": false})
		case order.ErrPaymentConflict:
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error(), "verified": false})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to update order", "verified": false})
		}
	}
	return c.JSON(fiber.Map{"verified": true})
}
