package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/bioscizone-api/internal/middleware"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

// newActorApp returns an app whose requests run as the given admin.
func newActorApp(username, role string) (*fiber.App, fiber.Router) {
	app := fiber.New()
	group := app.Group("/api/admin", func(c *fiber.Ctx) error {
		c.Locals(middleware.LocalsUsername, username)
		c.Locals(middleware.LocalsRole, role)
		return c.Next()
	})
	return app, group
}

func jsonRequest(t *testing.T, method, path string, payload interface{}) *http.Request {
	t.Helper()
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, json.Unmarshal(data, target))
}

func requireDetail(t *testing.T, resp *http.Response, status int, detail string) {
	t.Helper()
	require.Equal(t, status, resp.StatusCode)
	var body map[string]string
	decodeResponse(t, resp, &body)
	require.Equal(t, detail, body["detail"])
}
