package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracing_HonorsCallerTraceID(t *testing.T) {
	app := fiber.New()
	app.Use(Tracing())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString(GetTraceID(c)) })

	supplied := uuid.New().String()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Trace-Id", supplied)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, supplied, resp.Header.Get("X-Trace-Id"))
}

func TestTracing_ReplacesGarbageTraceID(t *testing.T) {
	app := fiber.New()
	app.Use(Tracing())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Trace-Id", "<script>nope</script>")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	echoed := resp.Header.Get("X-Trace-Id")
	assert.NotEqual(t, "<script>nope</script>", echoed)
	_, err = uuid.Parse(echoed)
	assert.NoError(t, err)
}
