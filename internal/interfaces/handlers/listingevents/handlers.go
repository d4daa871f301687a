package listingevents

import (
	lesvc "yardloop-backend/internal/application/listingevents"
	"yardloop-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *lesvc.Service
}

// GET /api/v1/listings/:listing_id/events
func (h *Handlers) GetListingEvents(c *fiber.Ctx) error {
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid listing_id", 400, nil)
	}
	events, err := h.Service.GetListingEvents(c.Context(), listingID)
	if err != nil {
		if err.Error() == "Listing not found" {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Listing events fetched successfully", events, nil)
}
