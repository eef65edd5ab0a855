package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/bioscizone-api/internal/service"
	"github.com/noah-isme/bioscizone-api/internal/utils"
)

// AuditLogHandler exposes the admin audit trail.
type AuditLogHandler struct {
	service service.AuditService
	logger  zerolog.Logger
}

// NewAuditLogHandler constructs the audit log handler.
func NewAuditLogHandler(service service.AuditService, logger zerolog.Logger) *AuditLogHandler {
	return &AuditLogHandler{
		service: service,
		logger:  logger.With().Str("component", "audit_log_handler").Logger(),
	}
}

// Register wires audit routes.
func (h *AuditLogHandler) Register(router fiber.Router) {
	router.Get("/audit-logs", h.list)
}

func (h *AuditLogHandler) list(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "limit: must be an integer")
	}

	items, err := h.service.ListRecent(c.UserContext(), limit)
	if err != nil {
		return respondError(c, h.logger, err, "failed to list audit logs")
	}
	return utils.OK(c, items)
}
