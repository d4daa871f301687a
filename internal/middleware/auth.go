package middleware

import (
	"errors"

	"yardloop-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const userLocal = "user"

var errNotAuthenticated = errors.New("Not authenticated")

// RequireAuth ensures a session user is present. Returns 401 with the
// standard error format if not.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetUser(c) == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		return c.Next()
	}
}

// GetUser returns the session user from Locals (nil if not logged in).
func GetUser(c *fiber.Ctx) *SessionUser {
	u, _ := c.Locals(userLocal).(*SessionUser)
	return u
}

// CurrentUserID returns the authenticated user's ID. Services take this as an
// explicit argument so they never read ambient request state.
func CurrentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	u := GetUser(c)
	if u == nil {
		return uuid.Nil, errNotAuthenticated
	}
	id, err := uuid.Parse(u.UserID)
	if err != nil {
		return uuid.Nil, errNotAuthenticated
	}
	return id, nil
}
