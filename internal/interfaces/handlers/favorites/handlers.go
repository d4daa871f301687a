package favorites

import (
	favsvc "yardloop-backend/internal/application/favorites"
	"yardloop-backend/internal/middleware"
	"yardloop-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *favsvc.Service
}

func mapFavoriteError(c *fiber.Ctx, err error) error {
	switch err.Error() {
	case "Listing not found", "Item not found":
		return response.Error(c, err.Error(), 404, nil)
	}
	return response.Error(c, "Internal Server Error", 500, nil)
}

// POST /api/v1/favorites/listings/:listing_id
// Adding an already-saved listing succeeds and returns the existing row.
func (h *Handlers) AddListingFavorite(c *fiber.Ctx) error {
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid listing_id", 400, nil)
	}
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	fav, created, err := h.Service.AddListingFavorite(c.Context(), userID, listingID)
	if err != nil {
		return mapFavoriteError(c, err)
	}
	if created {
		return response.SuccessCreated(c, "Listing saved", fav, nil)
	}
	return response.Success(c, "Listing already saved", fav, nil)
}

// DELETE /api/v1/favorites/listings/:listing_id
func (h *Handlers) RemoveListingFavorite(c *fiber.Ctx) error {
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid listing_id", 400, nil)
	}
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	if err := h.Service.RemoveListingFavorite(c.Context(), userID, listingID); err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Listing removed from favorites", fiber.Map{}, nil)
}

// GET /api/v1/favorites/listings
func (h *Handlers) ListListingFavorites(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	favs, err := h.Service.ListListingFavorites(c.Context(), userID)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Favorites fetched successfully", favs, nil)
}

// POST /api/v1/favorites/items/:item_id
func (h *Handlers) AddItemFavorite(c *fiber.Ctx) error {
	itemID, err := uuid.Parse(c.Params("item_id"))
	if err != nil {
		return response.Error(c, "Invalid item_id", 400, nil)
	}
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	fav, created, err := h.Service.AddItemFavorite(c.Context(), userID, itemID)
	if err != nil {
		return mapFavoriteError(c, err)
	}
	if created {
		return response.SuccessCreated(c, "Item saved", fav, nil)
	}
	return response.Success(c, "Item already saved", fav, nil)
}

// DELETE /api/v1/favorites/items/:item_id
func (h *Handlers) RemoveItemFavorite(c *fiber.Ctx) error {
	itemID, err := uuid.Parse(c.Params("item_id"))
	if err != nil {
		return response.Error(c, "Invalid item_id", 400, nil)
	}
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	if err := h.Service.RemoveItemFavorite(c.Context(), userID, itemID); err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Item removed from favorites", fiber.Map{}, nil)
}

// GET /api/v1/favorites/items
func (h *Handlers) ListItemFavorites(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	favs, err := h.Service.ListItemFavorites(c.Context(), userID)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Favorites fetched successfully", favs, nil)
}
