package order

import (
	"github.com/gofiber/fiber/v2"
)

// Handler delegates order lookups and admin order management to the order
// service.

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	// the order-confirmation page looks orders up by number
	app.Get("/api/v1/orders/number/:number", h.getOrderByNumber)
	app.Get("/api/v1/orders/:id", h.getOrder)
}

func (h *Handler) RegisterAdminRoutes(grp fiber.Router) {
	grp.Get("/orders", h.listOrders)
	grp.Get("/orders/:id", h.getOrder)
	grp.Patch("/orders/:id/status", h.updateStatus)
}

func (h *Handler) getOrder(c *fiber.Ctx) error {
	ord, err := h.service.GetByID(c.Params("id"))
	if err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(ord)
}

func (h *Handler) getOrderByNumber(c *fiber.Ctx) error {
	ord, err := h.service.GetByNumber(c.Params("number"))
	if err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(ord)
}

func (h *Handler) listOrders(c *fiber.Ctx) error {
	status := c.Query("status")
	if status != "" && !ValidStatus(status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "unknown status"})
	}

	orders, err := h.service.List(status, c.QueryInt("limit", 100))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(orders)
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateStatus(c *fiber.Ctx) error {
	payload := new(statusUpdateRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if !ValidStatus(payload.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "unknown status"})
	}

	ord, err := h.service.UpdateStatus(c.Params("id"), payload.Status)
	if err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(ord)
}
