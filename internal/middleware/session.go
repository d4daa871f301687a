package middleware

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionConfig for the Redis-backed bearer-token session store.
type SessionConfig struct {
	RedisURL     string
	IsProduction bool
}

const (
	SessionRedisPrefix = "session:"
	sessionTTL         = 7 * 24 * time.Hour
)

// SessionUser is the shape stored in Redis under "session:<token>".
type SessionUser struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Session returns a Fiber middleware that resolves the bearer token from the
// Authorization header into a session user. Requests without a valid token
// proceed with a nil user; RequireAuth decides whether that is acceptable.
func Session(cfg SessionConfig) (fiber.Handler, *redis.Client, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	rdb := redis.NewClient(opt)
	return SessionWithClient(rdb), rdb, nil
}

// SessionWithClient builds the session middleware around an existing Redis
// client (tests inject miniredis here).
func SessionWithClient(rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user", nil)

		token := BearerToken(c)
		if token != "" {
			b, err := rdb.Get(context.Background(), SessionRedisPrefix+token).Bytes()
			if err == nil {
				var u SessionUser
				if json.Unmarshal(b, &u) == nil && u.UserID != "" {
					c.Locals("user", &u)
					c.Locals("session_token", token)
				}
			}
		}
		return c.Next()
	}
}

// BearerToken extracts the token from the Authorization header ("" if absent).
func BearerToken(c *fiber.Ctx) string {
	h := c.Get(fiber.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// CreateSession stores the user in Redis under a fresh token and returns it.
func CreateSession(ctx context.Context, rdb *redis.Client, u SessionUser) (string, error) {
	token := uuid.New().String()
	b, err := json.Marshal(u)
	if err != nil {
		return "", err
	}
	if err := rdb.Set(ctx, SessionRedisPrefix+token, b, sessionTTL).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// DestroySession deletes the session for the current request's token.
func DestroySession(ctx context.Context, rdb *redis.Client, c *fiber.Ctx) error {
	token, _ := c.Locals("session_token").(string)
	if token == "" {
		token = BearerToken(c)
	}
	if token == "" {
		return nil
	}
	return rdb.Del(ctx, SessionRedisPrefix+token).Err()
}
