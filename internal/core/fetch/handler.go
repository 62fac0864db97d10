package fetch

import (
	"fairimport/internal/core/mapper"
	"fairimport/internal/platform/api"
	"fairimport/internal/utils/parser"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
	mapper  *mapper.Service
}

func NewHandler(service *Service, mapper *mapper.Service) *Handler {
	return &Handler{service: service, mapper: mapper}
}

type queryParams struct {
	URL      string `form:"url"`
	Fresh    bool   `form:"fresh"`
	Render   bool   `form:"render"`
	Format   string `form:"format"`
	Depth    int    `form:"depth"`
	MaxLinks int    `form:"max_links"`
}

func (h *Handler) HandleGetFetch(c *fiber.Ctx) error {
	var p queryParams
	if err := parser.ParseQuery(c, &p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(api.Error{Error: "invalid query"})
	}
	if p.URL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(api.Error{Error: "url is required"})
	}

	if p.Format == "links" {
		res, err := h.mapper.MapURL(mapper.Request{URL: p.URL, Depth: p.Depth, LinkLimit: p.MaxLinks})
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(api.Error{Error: err.Error()})
		}
		return c.JSON(api.FetchResponse{Success: true, Links: res.Links})
	}

	res, err := h.service.FetchURL(c.Context(), Request{URL: p.URL, Fresh: p.Fresh, Render: p.Render})
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(api.FetchResponse{Success: false, Error: err.Error()})
	}
	return c.JSON(res)
}
