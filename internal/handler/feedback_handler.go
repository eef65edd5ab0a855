package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/bioscizone-api/internal/dto"
	"github.com/noah-isme/bioscizone-api/internal/service"
	"github.com/noah-isme/bioscizone-api/internal/utils"
)

// FeedbackHandler exposes the contact form and the admin inbox.
type FeedbackHandler struct {
	service service.FeedbackService
	logger  zerolog.Logger
}

// NewFeedbackHandler constructs a feedback handler.
func NewFeedbackHandler(service service.FeedbackService, logger zerolog.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		service: service,
		logger:  logger.With().Str("component", "feedback_handler").Logger(),
	}
}

// RegisterPublic wires the contact form.
func (h *FeedbackHandler) RegisterPublic(router fiber.Router) {
	router.Post("/feedback", h.submit)
}

// RegisterAdmin wires the inbox routes.
func (h *FeedbackHandler) RegisterAdmin(router fiber.Router) {
	router.Get("/feedbacks", h.list)
	router.Patch("/feedbacks/:id/read", h.markRead)
	router.Delete("/feedbacks/:id", h.delete)
}

func (h *FeedbackHandler) submit(c *fiber.Ctx) error {
	var payload dto.FeedbackRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid request payload")
	}

	resp, err := h.service.Submit(c.UserContext(), payload)
	if err != nil {
		return respondError(c, h.logger, err, "failed to submit feedback")
	}
	return utils.OK(c, resp)
}

func (h *FeedbackHandler) list(c *fiber.Ctx) error {
	items, err := h.service.List(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err, "failed to list feedback")
	}
	return utils.OK(c, items)
}

func (h *FeedbackHandler) markRead(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.Fail(c, fiber.StatusNotFound, "Feedback not found")
	}

	resp, err := h.service.MarkRead(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err, "failed to mark feedback read")
	}
	return utils.OK(c, resp)
}

func (h *FeedbackHandler) delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.Fail(c, fiber.StatusNotFound, "Feedback not found")
	}

	resp, err := h.service.Delete(c.UserContext(), actorFromContext(c), id)
	if err != nil {
		return respondError(c, h.logger, err, "failed to delete feedback")
	}
	return utils.OK(c, resp)
}
