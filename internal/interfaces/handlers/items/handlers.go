package items

import (
	itemsvc "yardloop-backend/internal/application/items"
	"yardloop-backend/internal/geo"
	"yardloop-backend/internal/middleware"
	"yardloop-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *itemsvc.Service
}

var itemStatusMap = map[string]int{
	"Item title is required":    400,
	"Invalid price":             400,
	"Invalid condition":         400,
	"No valid changes provided": 400,
	"Item not found":            404,
	"Listing not found":         404,
	"Category not found":        404,
	"Unauthorized":              403,
}

func mapItemError(c *fiber.Ctx, err error) error {
	if code, ok := itemStatusMap[err.Error()]; ok {
		return response.Error(c, err.Error(), code, nil)
	}
	return response.Error(c, "Internal Server Error", 500, nil)
}

type itemBody struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Condition   *string  `json:"condition"`
	CategoryID  *string  `json:"category_id"`
	Position    *int     `json:"position"`
}

// POST /api/v1/listings/:listing_id/items
func (h *Handlers) CreateItem(c *fiber.Ctx) error {
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid listing_id", 400, nil)
	}
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body itemBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}

	in := itemsvc.CreateItemInput{
		ListingID: listingID,
		UserID:    userID,
	}
	if body.Title != nil {
		in.Title = *body.Title
	}
	if body.Description != nil {
		in.Description = *body.Description
	}
	if body.Price != nil {
		in.Price = *body.Price
	}
	if body.Condition != nil {
		in.Condition = *body.Condition
	}
	if body.Position != nil {
		in.Position = *body.Position
	}
	if body.CategoryID != nil && *body.CategoryID != "" {
		id, err := uuid.Parse(*body.CategoryID)
		if err != nil {
			return response.Error(c, "Invalid category_id", 400, nil)
		}
		in.CategoryID = &id
	}

	item, err := h.Service.CreateItem(c.Context(), in)
	if err != nil {
		return mapItemError(c, err)
	}
	return response.SuccessCreated(c, "Item created successfully", item, nil)
}

// GET /api/v1/items?q=&lat=&lng=&radius_km=&category=
func (h *Handlers) SearchItems(c *fiber.Ctx) error {
	params, err := geo.ParseParams(c.Query("lat"), c.Query("lng"), c.Query("radius_km"), c.Query("q"))
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	results, err := h.Service.SearchItems(c.Context(), params, c.Query("category"))
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Items fetched successfully", results, fiber.Map{"count": len(results)})
}

// PUT /api/v1/items/:item_id
func (h *Handlers) UpdateItem(c *fiber.Ctx) error {
	itemID, err := uuid.Parse(c.Params("item_id"))
	if err != nil {
		return response.Error(c, "Invalid item_id", 400, nil)
	}
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body itemBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}

	in := itemsvc.UpdateItemInput{
		ItemID:      itemID,
		UserID:      userID,
		Title:       body.Title,
		Description: body.Description,
		Price:       body.Price,
		Condition:   body.Condition,
		Position:    body.Position,
	}
	if body.CategoryID != nil && *body.CategoryID != "" {
		id, err := uuid.Parse(*body.CategoryID)
		if err != nil {
			return response.Error(c, "Invalid category_id", 400, nil)
		}
		in.CategoryID = &id
	}

	item, err := h.Service.UpdateItem(c.Context(), in)
	if err != nil {
		return mapItemError(c, err)
	}
	return response.Success(c, "Item updated successfully", item, nil)
}

// POST /api/v1/items/:item_id/sold
func (h *Handlers) MarkSold(c *fiber.Ctx) error {
	itemID, err := uuid.Parse(c.Params("item_id"))
	if err != nil {
		return response.Error(c, "Invalid item_id", 400, nil)
	}
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body struct {
		Sold *bool `json:"sold"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	sold := true
	if body.Sold != nil {
		sold = *body.Sold
	}

	item, err := h.Service.MarkSold(c.Context(), itemID, userID, sold)
	if err != nil {
		return mapItemError(c, err)
	}
	return response.Success(c, "Item updated successfully", item, nil)
}

// DELETE /api/v1/items/:item_id
func (h *Handlers) DeleteItem(c *fiber.Ctx) error {
	itemID, err := uuid.Parse(c.Params("item_id"))
	if err != nil {
		return response.Error(c, "Invalid item_id", 400, nil)
	}
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	if err := h.Service.DeleteItem(c.Context(), itemID, userID); err != nil {
		return mapItemError(c, err)
	}
	return response.Success(c, "Item deleted successfully", fiber.Map{}, nil)
}
