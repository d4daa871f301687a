package checkins

import (
	checkinsvc "yardloop-backend/internal/application/checkins"
	"yardloop-backend/internal/middleware"
	"yardloop-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *checkinsvc.Service
}

func mapCheckInError(c *fiber.Ctx, err error) error {
	switch err.Error() {
	case "Listing not found":
		return response.Error(c, err.Error(), 404, nil)
	case "Listing is not active":
		return response.Error(c, err.Error(), 400, nil)
	}
	return response.Error(c, "Internal Server Error", 500, nil)
}

// POST /api/v1/checkins/:listing_id
// Checking in twice succeeds and returns the existing row.
func (h *Handlers) CheckIn(c *fiber.Ctx) error {
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid listing_id", 400, nil)
	}
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	ci, created, err := h.Service.CheckIn(c.Context(), userID, listingID)
	if err != nil {
		return mapCheckInError(c, err)
	}
	if created {
		return response.SuccessCreated(c, "Checked in", ci, nil)
	}
	return response.Success(c, "Already checked in", ci, nil)
}

// DELETE /api/v1/checkins/:listing_id
func (h *Handlers) CheckOut(c *fiber.Ctx) error {
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid listing_id", 400, nil)
	}
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	if err := h.Service.CheckOut(c.Context(), userID, listingID); err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Check-in removed", fiber.Map{}, nil)
}

// GET /api/v1/checkins/:listing_id
func (h *Handlers) Participants(c *fiber.Ctx) error {
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid listing_id", 400, nil)
	}
	result, err := h.Service.Participants(c.Context(), listingID)
	if err != nil {
		return mapCheckInError(c, err)
	}
	return response.Success(c, "Check-ins fetched successfully", result, nil)
}
