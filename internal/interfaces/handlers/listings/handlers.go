package listings

import (
	"time"

	listsvc "yardloop-backend/internal/application/listings"
	"yardloop-backend/internal/geo"
	"yardloop-backend/internal/middleware"
	"yardloop-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *listsvc.Service
}

type photoBody struct {
	URL      string `json:"url"`
	Position int    `json:"position"`
}

type itemBody struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Condition   string   `json:"condition"`
	CategoryID  *string  `json:"category_id"`
	Position    int      `json:"position"`
}

type createListingBody struct {
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Location     string      `json:"location"`
	SaleDate     *time.Time  `json:"sale_date"`
	StartTime    *string     `json:"start_time"`
	EndTime      *string     `json:"end_time"`
	Latitude     *float64    `json:"latitude"`
	Longitude    *float64    `json:"longitude"`
	Photos       []photoBody `json:"photos"`
	PrimaryIndex int         `json:"primary_index"`
	Items        []itemBody  `json:"items"`
}

var listingStatusMap = map[string]int{
	"Listing title is required": 400,
	"Item title is required":    400,
	"Invalid coordinates":       400,
	"Invalid price":             400,
	"Invalid condition":         400,
	"No valid changes provided": 400,
	"Listing not found":         404,
	"Unauthorized":              403,
	"Listing is not active":     400,
}

func mapListingError(c *fiber.Ctx, err error) error {
	if code, ok := listingStatusMap[err.Error()]; ok {
		return response.Error(c, err.Error(), code, nil)
	}
	return response.Error(c, "Internal Server Error", 500, nil)
}

// POST /api/v1/listings
func (h *Handlers) CreateListing(c *fiber.Ctx) error {
	var body createListingBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	in := listsvc.CreateListingInput{
		SellerID:     userID,
		Title:        body.Title,
		Description:  body.Description,
		Location:     body.Location,
		SaleDate:     body.SaleDate,
		StartTime:    body.StartTime,
		EndTime:      body.EndTime,
		Latitude:     body.Latitude,
		Longitude:    body.Longitude,
		PrimaryIndex: body.PrimaryIndex,
	}
	for _, ph := range body.Photos {
		in.Photos = append(in.Photos, listsvc.PhotoInput{URL: ph.URL, Position: ph.Position})
	}
	for _, it := range body.Items {
		itemIn := listsvc.ItemInput{
			Title:       it.Title,
			Description: it.Description,
			Price:       it.Price,
			Condition:   it.Condition,
			Position:    it.Position,
		}
		if it.CategoryID != nil && *it.CategoryID != "" {
			id, err := uuid.Parse(*it.CategoryID)
			if err != nil {
				return response.Error(c, "Invalid category_id", 400, nil)
			}
			itemIn.CategoryID = &id
		}
		in.Items = append(in.Items, itemIn)
	}

	listing, err := h.Service.CreateListing(c.Context(), in)
	if err != nil {
		return mapListingError(c, err)
	}
	return response.SuccessCreated(c, "Listing created successfully", listing, nil)
}

// GET /api/v1/listings?q=&lat=&lng=&radius_km=&category=
func (h *Handlers) SearchListings(c *fiber.Ctx) error {
	params, err := geo.ParseParams(c.Query("lat"), c.Query("lng"), c.Query("radius_km"), c.Query("q"))
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	results, err := h.Service.SearchListings(c.Context(), params, c.Query("category"))
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Listings fetched successfully", results, fiber.Map{"count": len(results)})
}

// GET /api/v1/listings/mine
func (h *Handlers) GetMyListings(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	results, err := h.Service.GetUserListings(c.Context(), userID)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Your listings fetched successfully", results, nil)
}

// GET /api/v1/listings/:listing_id
func (h *Handlers) GetListing(c *fiber.Ctx) error {
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid listing_id", 400, nil)
	}
	result, err := h.Service.GetListing(c.Context(), listingID)
	if err != nil {
		return mapListingError(c, err)
	}
	return response.Success(c, "Listing fetched successfully", result, nil)
}

type updateListingBody struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	SaleDate    *time.Time `json:"sale_date"`
	StartTime   *string    `json:"start_time"`
	EndTime     *string    `json:"end_time"`
	Latitude    *float64   `json:"latitude"`
	Longitude   *float64   `json:"longitude"`
	ClearCoords bool       `json:"clear_coords"`
}

// PUT /api/v1/listings/:listing_id
func (h *Handlers) UpdateListing(c *fiber.Ctx) error {
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid listing_id", 400, nil)
	}
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body updateListingBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}

	listing, err := h.Service.UpdateListing(c.Context(), listsvc.UpdateListingInput{
		ListingID:   listingID,
		UserID:      userID,
		Title:       body.Title,
		Description: body.Description,
		Location:    body.Location,
		SaleDate:    body.SaleDate,
		StartTime:   body.StartTime,
		EndTime:     body.EndTime,
		Latitude:    body.Latitude,
		Longitude:   body.Longitude,
		ClearCoords: body.ClearCoords,
	})
	if err != nil {
		return mapListingError(c, err)
	}
	return response.Success(c, "Listing updated successfully", listing, nil)
}

// POST /api/v1/listings/:listing_id/deactivate
func (h *Handlers) DeactivateListing(c *fiber.Ctx) error {
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid listing_id", 400, nil)
	}
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	listing, err := h.Service.DeactivateListing(c.Context(), listingID, userID)
	if err != nil {
		return mapListingError(c, err)
	}
	return response.Success(c, "Listing deactivated successfully", listing, nil)
}

// DELETE /api/v1/listings/:listing_id
func (h *Handlers) DeleteListing(c *fiber.Ctx) error {
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid listing_id", 400, nil)
	}
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	if err := h.Service.DeleteListing(c.Context(), listingID, userID); err != nil {
		return mapListingError(c, err)
	}
	return response.Success(c, "Listing deleted successfully", fiber.Map{}, nil)
}
