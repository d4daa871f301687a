package user

import (
	usersvc "yardloop-backend/internal/application/user"
	"yardloop-backend/internal/middleware"
	"yardloop-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *usersvc.Service
}

// GET /api/v1/users/:user_id
func (h *Handlers) ViewProfile(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return response.Error(c, "Invalid user_id", 400, nil)
	}
	profile, err := h.Service.ViewProfile(c.Context(), userID)
	if err != nil {
		if err.Error() == "User not found" {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Profile fetched successfully", profile, nil)
}

// PUT /api/v1/users/me
func (h *Handlers) UpdateProfile(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body struct {
		Username  *string `json:"username"`
		Bio       *string `json:"bio"`
		AvatarURL *string `json:"avatar_url"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}

	u, err := h.Service.UpdateProfile(c.Context(), usersvc.UpdateProfileInput{
		UserID:    userID,
		Username:  body.Username,
		Bio:       body.Bio,
		AvatarURL: body.AvatarURL,
	})
	if err != nil {
		switch err.Error() {
		case "Invalid username", "No valid changes provided":
			return response.Error(c, err.Error(), 400, nil)
		case "Username already taken":
			return response.Error(c, err.Error(), fiber.StatusConflict, nil)
		case "User not found":
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Profile updated successfully", u.Public(), nil)
}
