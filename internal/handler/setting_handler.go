package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/bioscizone-api/internal/dto"
	"github.com/noah-isme/bioscizone-api/internal/service"
	"github.com/noah-isme/bioscizone-api/internal/utils"
)

// SettingHandler exposes system settings to superadmins.
type SettingHandler struct {
	service service.SettingService
	logger  zerolog.Logger
}

// NewSettingHandler constructs a setting handler.
func NewSettingHandler(service service.SettingService, logger zerolog.Logger) *SettingHandler {
	return &SettingHandler{
		service: service,
		logger:  logger.With().Str("component", "setting_handler").Logger(),
	}
}

// Register wires setting routes.
func (h *SettingHandler) Register(router fiber.Router) {
	router.Get("/settings", h.list)
	router.Get("/settings/:key", h.get)
	router.Patch("/settings/:key", h.update)
}

func (h *SettingHandler) list(c *fiber.Ctx) error {
	items, err := h.service.List(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err, "failed to list settings")
	}
	return utils.OK(c, items)
}

func (h *SettingHandler) get(c *fiber.Ctx) error {
	setting, err := h.service.Get(c.UserContext(), c.Params("key"))
	if err != nil {
		return respondError(c, h.logger, err, "failed to load setting")
	}
	return utils.OK(c, setting)
}

func (h *SettingHandler) update(c *fiber.Ctx) error {
	var payload dto.SettingUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid request payload")
	}

	setting, err := h.service.Update(c.UserContext(), actorFromContext(c), c.Params("key"), payload)
	if err != nil {
		return respondError(c, h.logger, err, "failed to update setting")
	}
	return utils.Message(c, fiber.StatusOK, fmt.Sprintf("Setting '%s' updated", setting.Key))
}
