package auth

import (
	"errors"

	authsvc "yardloop-backend/internal/application/auth"
	"yardloop-backend/internal/middleware"
	"yardloop-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Handlers struct {
	DB         *gorm.DB
	UserFinder authsvc.UserFinder
	Rdb        *redis.Client
}

// POST /api/v1/auth/register
func (h *Handlers) Register(c *fiber.Ctx) error {
	var body authsvc.RegisterInput
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	if h.DB == nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}

	u, err := authsvc.RegisterUser(c.Context(), h.DB, body)
	if err != nil {
		switch {
		case errors.Is(err, authsvc.ErrInvalidUsername),
			errors.Is(err, authsvc.ErrInvalidEmail),
			errors.Is(err, authsvc.ErrWeakPassword):
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		case errors.Is(err, authsvc.ErrEmailTaken),
			errors.Is(err, authsvc.ErrUsernameTaken):
			return response.Error(c, err.Error(), fiber.StatusConflict, nil)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}

	token, err := middleware.CreateSession(c.Context(), h.Rdb, middleware.SessionUser{
		UserID:   u.UserID.String(),
		Username: u.Username,
		Email:    u.Email,
	})
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.SuccessCreated(c, "Account created successfully", fiber.Map{
		"token": token,
		"user":  u.Public(),
	}, nil)
}

// POST /api/v1/auth/login
func (h *Handlers) Login(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Email and password are required", fiber.StatusBadRequest, nil)
	}
	if body.Email == "" || body.Password == "" {
		return response.Error(c, "Email and password are required", fiber.StatusBadRequest, nil)
	}
	if h.UserFinder == nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}

	u, err := h.UserFinder.FindByEmailAndPassword(c.Context(), body.Email, body.Password)
	if err != nil {
		switch {
		case errors.Is(err, authsvc.ErrEmailPasswordRequired):
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		case errors.Is(err, authsvc.ErrInvalidEmail),
			errors.Is(err, authsvc.ErrIncorrectPassword):
			return response.Error(c, "Invalid email or password", fiber.StatusUnauthorized, nil)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}

	token, err := middleware.CreateSession(c.Context(), h.Rdb, middleware.SessionUser{
		UserID:   u.UserID.String(),
		Username: u.Username,
		Email:    u.Email,
	})
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Logged in successfully", fiber.Map{
		"token": token,
		"user":  u.Public(),
	}, nil)
}

// GET /api/v1/auth/me
func (h *Handlers) Me(c *fiber.Ctx) error {
	u := middleware.GetUser(c)
	if u == nil {
		return response.Unauthorized(c, "Not authenticated")
	}
	return response.Success(c, "Authenticated", u, nil)
}

// DELETE /api/v1/auth/logout
func (h *Handlers) Logout(c *fiber.Ctx) error {
	if err := middleware.DestroySession(c.Context(), h.Rdb, c); err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Logged out successfully", fiber.Map{}, nil)
}
