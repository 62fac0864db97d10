package extract

import (
	"fairimport/internal/platform/api"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) HandlePostExtract(c *fiber.Ctx) error {
	var req api.ExtractRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(api.Error{Error: "invalid request body"})
	}

	mode := ModeMulti
	if c.Query("mode") == string(ModeSingle) {
		mode = ModeSingle
	}

	res := h.service.Extract(c.Context(), req, mode)
	if !res.Success && res.Error == "content is required" {
		return c.Status(fiber.StatusBadRequest).JSON(res)
	}
	return c.JSON(res)
}
