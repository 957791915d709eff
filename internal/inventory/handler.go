package inventory

import (
	"github.com/gofiber/fiber/v2"
)

// Handler exposes the admin inventory screen endpoints.

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterAdminRoutes(grp fiber.Router) {
	grp.Get("/inventory", h.listStock)
	grp.Patch("/inventory", h.setStock)
}

func (h *Handler) listStock(c *fiber.Ctx) error {
	levels, err := h.service.ListStock()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(levels)
}

type setStockRequest struct {
	ProductID     string `json:"productId"`
	Size          string `json:"size"`
	StockQuantity int    `json:"stockQuantity"`
}

func (h *Handler) setStock(c *fiber.Ctx) error {
	payload := new(setStockRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.ProductID == "" || payload.Size == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "productId and size required"})
	}
	if payload.StockQuantity < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "stockQuantity cannot be negative"})
	}

	v, err := h.service.SetStock(payload.ProductID, payload.Size, payload.StockQuantity)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(v)
}
