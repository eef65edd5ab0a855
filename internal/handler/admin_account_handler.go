package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/bioscizone-api/internal/dto"
	"github.com/noah-isme/bioscizone-api/internal/service"
	"github.com/noah-isme/bioscizone-api/internal/utils"
)

// AdminAccountHandler manages dashboard accounts. Mount behind the superadmin guard.
type AdminAccountHandler struct {
	service service.AdminAccountService
	logger  zerolog.Logger
}

// NewAdminAccountHandler constructs the account handler.
func NewAdminAccountHandler(service service.AdminAccountService, logger zerolog.Logger) *AdminAccountHandler {
	return &AdminAccountHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_account_handler").Logger(),
	}
}

// Register wires account routes.
func (h *AdminAccountHandler) Register(router fiber.Router) {
	router.Get("/admins", h.list)
	router.Post("/admins", h.create)
	router.Patch("/admins/:id", h.update)
	router.Delete("/admins/:id", h.delete)
}

func (h *AdminAccountHandler) list(c *fiber.Ctx) error {
	items, err := h.service.List(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err, "failed to list admins")
	}
	return utils.OK(c, items)
}

func (h *AdminAccountHandler) create(c *fiber.Ctx) error {
	var payload dto.AdminCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid request payload")
	}

	admin, err := h.service.Create(c.UserContext(), actorFromContext(c), payload)
	if err != nil {
		return respondError(c, h.logger, err, "failed to create admin")
	}
	return utils.OK(c, admin)
}

func (h *AdminAccountHandler) update(c *fiber.Ctx) error {
	var payload dto.AdminUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid request payload")
	}

	if _, err := h.service.Update(c.UserContext(), actorFromContext(c), strings.TrimSpace(c.Params("id")), payload); err != nil {
		return respondError(c, h.logger, err, "failed to update admin")
	}
	return utils.Message(c, fiber.StatusOK, "Admin updated")
}

func (h *AdminAccountHandler) delete(c *fiber.Ctx) error {
	resp, err := h.service.Delete(c.UserContext(), actorFromContext(c), strings.TrimSpace(c.Params("id")))
	if err != nil {
		return respondError(c, h.logger, err, "failed to delete admin")
	}
	return utils.OK(c, resp)
}
