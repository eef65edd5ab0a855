package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/bioscizone-api/internal/dto"
	"github.com/noah-isme/bioscizone-api/internal/service"
	"github.com/noah-isme/bioscizone-api/internal/utils"
)

// BuddyHandler exposes the Bio-Buddy directory.
type BuddyHandler struct {
	service service.BuddyService
	logger  zerolog.Logger
}

// NewBuddyHandler constructs a buddy handler.
func NewBuddyHandler(service service.BuddyService, logger zerolog.Logger) *BuddyHandler {
	return &BuddyHandler{
		service: service,
		logger:  logger.With().Str("component", "buddy_handler").Logger(),
	}
}

// RegisterPublic wires the public directory routes.
func (h *BuddyHandler) RegisterPublic(router fiber.Router) {
	router.Get("/buddies", h.listApproved)
	router.Post("/buddies/submit", h.submit)
}

// RegisterAdmin wires the moderation routes.
func (h *BuddyHandler) RegisterAdmin(router fiber.Router) {
	router.Get("/pending", h.listPending)
	router.Patch("/approve-buddy/:id", h.approve)
	router.Delete("/buddies/:id", h.delete)
}

func (h *BuddyHandler) listApproved(c *fiber.Ctx) error {
	items, err := h.service.ListApproved(c.UserContext(), c.Query("course"))
	if err != nil {
		return respondError(c, h.logger, err, "failed to list buddies")
	}
	return utils.OK(c, items)
}

func (h *BuddyHandler) submit(c *fiber.Ctx) error {
	var payload dto.BuddySubmitRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid request payload")
	}

	resp, err := h.service.Submit(c.UserContext(), payload)
	if err != nil {
		return respondError(c, h.logger, err, "failed to submit buddy")
	}
	return utils.OK(c, resp)
}

func (h *BuddyHandler) listPending(c *fiber.Ctx) error {
	items, err := h.service.ListPending(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err, "failed to list pending buddies")
	}
	return utils.OK(c, items)
}

func (h *BuddyHandler) approve(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.Fail(c, fiber.StatusNotFound, "Buddy not found")
	}

	resp, err := h.service.Approve(c.UserContext(), actorFromContext(c), id)
	if err != nil {
		return respondError(c, h.logger, err, "failed to approve buddy")
	}
	return utils.OK(c, resp)
}

func (h *BuddyHandler) delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.Fail(c, fiber.StatusNotFound, "Buddy not found")
	}

	resp, err := h.service.Delete(c.UserContext(), actorFromContext(c), id)
	if err != nil {
		return respondError(c, h.logger, err, "failed to delete buddy")
	}
	return utils.OK(c, resp)
}
