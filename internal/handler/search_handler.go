package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/bioscizone-api/internal/service"
	"github.com/noah-isme/bioscizone-api/internal/utils"
)

// SearchHandler serves the global search box.
type SearchHandler struct {
	service service.SearchService
	logger  zerolog.Logger
}

// NewSearchHandler constructs a search handler.
func NewSearchHandler(service service.SearchService, logger zerolog.Logger) *SearchHandler {
	return &SearchHandler{
		service: service,
		logger:  logger.With().Str("component", "search_handler").Logger(),
	}
}

// Register wires search routes.
func (h *SearchHandler) Register(router fiber.Router) {
	router.Get("/search", h.search)
}

func (h *SearchHandler) search(c *fiber.Ctx) error {
	resp, err := h.service.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return respondError(c, h.logger, err, "search failed")
	}
	return utils.OK(c, resp)
}
