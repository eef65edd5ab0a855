package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/bioscizone-api/internal/models"
	"github.com/noah-isme/bioscizone-api/internal/service"
	"github.com/noah-isme/bioscizone-api/internal/utils"
)

// SeedHandler exposes tooling endpoints for loading reference content.
type SeedHandler struct {
	service service.SeedService
	logger  zerolog.Logger
}

// NewSeedHandler constructs a seed handler.
func NewSeedHandler(service service.SeedService, logger zerolog.Logger) *SeedHandler {
	return &SeedHandler{
		service: service,
		logger:  logger.With().Str("component", "seed_handler").Logger(),
	}
}

// Register wires seed routes.
func (h *SeedHandler) Register(router fiber.Router) {
	router.Post("/labs", h.labs)
	router.Post("/articles", h.articles)
}

type seedLabsRequest struct {
	Items []models.Lab `json:"items"`
}

type seedArticlesRequest struct {
	Items []models.Article `json:"items"`
}

// SeedResult reports how many rows a seed call touched.
type SeedResult struct {
	Affected int64 `json:"affected"`
}

func (h *SeedHandler) labs(c *fiber.Ctx) error {
	var payload seedLabsRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid request payload")
	}

	affected, err := h.service.SeedLabs(c.UserContext(), c.Get("X-Seed-Token"), payload.Items)
	if err != nil {
		return respondError(c, h.logger, err, "seed operation failed")
	}
	return utils.OK(c, SeedResult{Affected: affected})
}

func (h *SeedHandler) articles(c *fiber.Ctx) error {
	var payload seedArticlesRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid request payload")
	}

	affected, err := h.service.SeedArticles(c.UserContext(), c.Get("X-Seed-Token"), payload.Items)
	if err != nil {
		return respondError(c, h.logger, err, "seed operation failed")
	}
	return utils.OK(c, SeedResult{Affected: affected})
}
