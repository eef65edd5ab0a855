package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/bioscizone-api/internal/dto"
	"github.com/noah-isme/bioscizone-api/internal/models"
	"github.com/noah-isme/bioscizone-api/internal/service"
	"github.com/noah-isme/bioscizone-api/internal/utils"
)

// ArticleHandler serves the article feed and its admin editor.
type ArticleHandler struct {
	service service.ArticleService
	logger  zerolog.Logger
}

// NewArticleHandler constructs an article handler.
func NewArticleHandler(service service.ArticleService, logger zerolog.Logger) *ArticleHandler {
	return &ArticleHandler{
		service: service,
		logger:  logger.With().Str("component", "article_handler").Logger(),
	}
}

// RegisterPublic wires the public feed.
func (h *ArticleHandler) RegisterPublic(router fiber.Router) {
	router.Get("/articles", h.list)
	router.Get("/articles/:id", h.get)
}

// RegisterAdmin wires article publishing.
func (h *ArticleHandler) RegisterAdmin(router fiber.Router) {
	router.Post("/articles", h.create)
	router.Patch("/articles/:id", h.update)
	router.Delete("/articles/:id", h.delete)
}

func (h *ArticleHandler) list(c *fiber.Ctx) error {
	category := strings.TrimSpace(c.Query("category"))
	if category != "" && !models.IsArticleCategory(category) {
		return utils.OK(c, []dto.ArticleResponse{})
	}

	items, err := h.service.List(c.UserContext(), category)
	if err != nil {
		return respondError(c, h.logger, err, "failed to list articles")
	}
	return utils.OK(c, items)
}

func (h *ArticleHandler) get(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.Fail(c, fiber.StatusNotFound, "Article not found")
	}

	article, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err, "failed to load article")
	}
	return utils.OK(c, article)
}

func (h *ArticleHandler) create(c *fiber.Ctx) error {
	var payload dto.ArticleCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid request payload")
	}

	article, err := h.service.Create(c.UserContext(), actorFromContext(c), payload)
	if err != nil {
		return respondError(c, h.logger, err, "failed to create article")
	}
	return utils.OK(c, article)
}

func (h *ArticleHandler) update(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.Fail(c, fiber.StatusNotFound, "Article not found")
	}

	var payload dto.ArticleUpdateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return utils.Fail(c, fiber.StatusBadRequest, "Invalid request payload")
		}
	}

	article, changed, err := h.service.Update(c.UserContext(), actorFromContext(c), id, payload)
	if err != nil {
		return respondError(c, h.logger, err, "failed to update article")
	}
	if !changed {
		return utils.Message(c, fiber.StatusOK, "No changes provided")
	}
	return utils.OK(c, article)
}

func (h *ArticleHandler) delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return utils.Fail(c, fiber.StatusNotFound, "Article not found")
	}

	resp, err := h.service.Delete(c.UserContext(), actorFromContext(c), id)
	if err != nil {
		return respondError(c, h.logger, err, "failed to delete article")
	}
	return utils.OK(c, resp)
}
