package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/bioscizone-api/internal/service"
	"github.com/noah-isme/bioscizone-api/internal/utils"
)

// LabHandler lists research labs.
type LabHandler struct {
	service service.LabService
	logger  zerolog.Logger
}

// NewLabHandler constructs a lab handler.
func NewLabHandler(service service.LabService, logger zerolog.Logger) *LabHandler {
	return &LabHandler{
		service: service,
		logger:  logger.With().Str("component", "lab_handler").Logger(),
	}
}

// Register wires lab routes.
func (h *LabHandler) Register(router fiber.Router) {
	router.Get("/labs", h.list)
}

func (h *LabHandler) list(c *fiber.Ctx) error {
	items, err := h.service.List(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err, "failed to list labs")
	}
	return utils.OK(c, items)
}
