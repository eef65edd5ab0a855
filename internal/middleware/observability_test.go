package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/bioscizone-api/internal/observability"
)

func TestRequestIDEchoesOrMints(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString(GetRequestID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, "abc-123", resp.Header.Get(HeaderRequestID))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.NoError(t, err)
	require.Len(t, resp.Header.Get(HeaderRequestID), 36)
}

func TestRequestArea(t *testing.T) {
	require.Equal(t, "admin", requestArea("/api/admin/pending"))
	require.Equal(t, "seed", requestArea("/api/seed/labs"))
	require.Equal(t, "public", requestArea("/api/buddies"))
	require.Equal(t, "", requestArea("/metrics"))
}

func TestObservabilityCountsAndLogsFailures(t *testing.T) {
	var logs bytes.Buffer
	app := fiber.New()
	app.Use(RequestID())
	app.Use(Observability(zerolog.New(&logs)))
	app.Get("/api/admin/boom", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusInternalServerError) })
	app.Get("/api/labs", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	counter := observability.HTTPRequests().WithLabelValues("admin", http.MethodGet, "/api/admin/boom", "500")
	before := testutil.ToFloat64(counter)

	_, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/admin/boom", nil))
	require.NoError(t, err)
	require.Equal(t, before+1, testutil.ToFloat64(counter))
	require.Contains(t, logs.String(), `"level":"error"`)
	require.Contains(t, logs.String(), `"area":"admin"`)

	logs.Reset()
	_, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/labs", nil))
	require.NoError(t, err)
	require.Empty(t, logs.String())
}
