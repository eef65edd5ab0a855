package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/bioscizone-api/internal/observability"
)

const slowRequest = 500 * time.Millisecond

// Observability records request metrics for every /api route and logs admin
// traffic, failures and slow requests.
func Observability(logger zerolog.Logger) fiber.Handler {
	observability.RegisterMetrics()

	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		area := requestArea(c.Path())
		if area == "" {
			return err
		}
		elapsed := time.Since(start)
		route := routeTemplate(c)
		method := c.Method()
		status := c.Response().StatusCode()

		observability.HTTPRequests().WithLabelValues(area, method, route, strconv.Itoa(status)).Inc()
		observability.HTTPLatency().WithLabelValues(area, method).Observe(elapsed.Seconds())

		var event *zerolog.Event
		switch {
		case status >= fiber.StatusInternalServerError:
			event = logger.Error()
		case status >= fiber.StatusBadRequest:
			event = logger.Warn()
		case area != "public" || elapsed >= slowRequest:
			event = logger.Info()
		default:
			return err
		}
		event.
			Str("request_id", GetRequestID(c)).
			Str("area", area).
			Str("method", method).
			Str("route", route).
			Int("status", status).
			Dur("latency", elapsed).
			Msg("request completed")
		return err
	}
}

// requestArea classifies an API path; non-API paths return "".
func requestArea(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/admin"):
		return "admin"
	case strings.HasPrefix(path, "/api/seed"):
		return "seed"
	case strings.HasPrefix(path, "/api"):
		return "public"
	default:
		return ""
	}
}

func routeTemplate(c *fiber.Ctx) string {
	if c.Route() != nil && c.Route().Path != "" {
		return c.Route().Path
	}
	return c.Path()
}
