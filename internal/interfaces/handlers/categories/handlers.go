package categories

import (
	catsvc "yardloop-backend/internal/application/categories"
	"yardloop-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *catsvc.Service
}

// GET /api/v1/categories
func (h *Handlers) List(c *fiber.Ctx) error {
	cats, err := h.Service.List(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Categories fetched successfully", cats, nil)
}

// POST /api/v1/categories
func (h *Handlers) Create(c *fiber.Ctx) error {
	var body struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Category name is required", 400, nil)
	}

	cat, err := h.Service.Create(c.Context(), body.Name)
	if err != nil {
		switch err.Error() {
		case "Category name is required":
			return response.Error(c, err.Error(), 400, nil)
		case "Category already exists":
			return response.Error(c, err.Error(), fiber.StatusConflict, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.SuccessCreated(c, "Category created successfully", cat, nil)
}
