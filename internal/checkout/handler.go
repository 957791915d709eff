package checkout

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/fashionstore/fashion-store-backend/internal/order"
)

// Handler accepts checkout submissions.

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/v1/orders", h.placeOrder)
}

func (h *Handler) placeOrder(c *fiber.Ctx) error {
	payload := new(Request)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if len(payload.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "cart is empty"})
	}
	if err := payload.ShippingAddress.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if !order.ValidPaymentMethod(payload.PaymentMethod) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "paymentMethod must be COD or ONLINE"})
	}
	for _, it := range payload.Items {
		if it.Quantity <= 0 || it.Price <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "item quantity and price must be positive"})
		}
	}

	created, err := h.service.PlaceOrder(*payload)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyCart):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		case errors.Is(err, ErrItemUnavailable):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error()})
		default:
			log.Printf("error placing order: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to create order"})
		}
	}

	return c.JSON(fiber.Map{
		"orderId":     created.ID,
		"orderNumber": created.OrderNumber,
		"message":     "Order created successfully",
	})
}
