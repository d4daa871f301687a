package uploads

import (
	uploadsvc "yardloop-backend/internal/application/uploads"
	"yardloop-backend/internal/middleware"
	"yardloop-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *uploadsvc.Service
}

var photoStatusMap = map[string]int{
	"Photo URL is required":                            400,
	"Photo must belong to exactly one listing or item": 400,
	"Photo not found":   404,
	"Listing not found": 404,
	"Item not found":    404,
	"Unauthorized":      403,
}

func mapPhotoError(c *fiber.Ctx, err error) error {
	if code, ok := photoStatusMap[err.Error()]; ok {
		return response.Error(c, err.Error(), code, nil)
	}
	return response.Error(c, "Internal Server Error", 500, nil)
}

// POST /api/v1/uploads/photo — body { file_name }
func (h *Handlers) GetSignedUploadURL(c *fiber.Ctx) error {
	var body struct {
		FileName string `json:"file_name"`
	}
	if err := c.BodyParser(&body); err != nil || body.FileName == "" {
		return response.Error(c, "file_name is required", 400, nil)
	}
	result, err := h.Service.GetSignedUploadURL(c.Context(), body.FileName)
	if err != nil {
		return response.Error(c, "Failed to create upload URL", 500, nil)
	}
	return response.Success(c, "Upload URL created", result, nil)
}

type addPhotoBody struct {
	URL       string `json:"url"`
	IsPrimary bool   `json:"is_primary"`
	Position  int    `json:"position"`
}

// POST /api/v1/listings/:listing_id/photos
func (h *Handlers) AddListingPhoto(c *fiber.Ctx) error {
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid listing_id", 400, nil)
	}
	return h.addPhoto(c, &listingID, nil)
}

// POST /api/v1/items/:item_id/photos
func (h *Handlers) AddItemPhoto(c *fiber.Ctx) error {
	itemID, err := uuid.Parse(c.Params("item_id"))
	if err != nil {
		return response.Error(c, "Invalid item_id", 400, nil)
	}
	return h.addPhoto(c, nil, &itemID)
}

func (h *Handlers) addPhoto(c *fiber.Ctx, listingID, itemID *uuid.UUID) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body addPhotoBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}

	photo, err := h.Service.AddPhoto(c.Context(), uploadsvc.AddPhotoInput{
		UserID:    userID,
		ListingID: listingID,
		ItemID:    itemID,
		URL:       body.URL,
		IsPrimary: body.IsPrimary,
		Position:  body.Position,
	})
	if err != nil {
		return mapPhotoError(c, err)
	}
	return response.SuccessCreated(c, "Photo added successfully", photo, nil)
}

// POST /api/v1/photos/:photo_id/primary
func (h *Handlers) SetPrimaryPhoto(c *fiber.Ctx) error {
	photoID, err := uuid.Parse(c.Params("photo_id"))
	if err != nil {
		return response.Error(c, "Invalid photo_id", 400, nil)
	}
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	photo, err := h.Service.SetPrimaryPhoto(c.Context(), photoID, userID)
	if err != nil {
		return mapPhotoError(c, err)
	}
	return response.Success(c, "Primary photo updated", photo, nil)
}

// DELETE /api/v1/photos/:photo_id
func (h *Handlers) DeletePhoto(c *fiber.Ctx) error {
	photoID, err := uuid.Parse(c.Params("photo_id"))
	if err != nil {
		return response.Error(c, "Invalid photo_id", 400, nil)
	}
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	if err := h.Service.DeletePhoto(c.Context(), photoID, userID); err != nil {
		return mapPhotoError(c, err)
	}
	return response.Success(c, "Photo deleted successfully", fiber.Map{}, nil)
}
