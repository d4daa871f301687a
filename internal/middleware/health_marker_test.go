package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthMarker_SkipsHealthEndpoints(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	app := fiber.New()
	app.Use(HealthMarker(rdb))
	app.Get("/api/v1/health/json", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/api/v1/listings", func(c *fiber.Ctx) error { return c.SendString("ok") })

	// Health polling must not count toward the traffic it reports.
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/health/json", nil), -1)
		require.NoError(t, err)
		require.Equal(t, 200, resp.StatusCode)
	}
	assert.False(t, mr.Exists(KeyReqTotal))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/listings", nil), -1)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	total, err := mr.Get(KeyReqTotal)
	require.NoError(t, err)
	assert.Equal(t, "1", total)
}
