package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/bioscizone-api/internal/dto"
	"github.com/noah-isme/bioscizone-api/internal/models"
	"github.com/noah-isme/bioscizone-api/internal/observability"
	"github.com/noah-isme/bioscizone-api/internal/repository"
)

// ErrArticleNotFound indicates the requested article does not exist.
var ErrArticleNotFound = errors.New("article not found")

const articleCacheVersionKey = "articles:cache:version"

// ArticleService exposes article publishing and the public article feed.
type ArticleService interface {
	List(ctx context.Context, category string) ([]dto.ArticleResponse, error)
	Get(ctx context.Context, id uint) (dto.ArticleResponse, error)
	Create(ctx context.Context, actor Actor, req dto.ArticleCreateRequest) (dto.ArticleResponse, error)
	Update(ctx context.Context, actor Actor, id uint, req dto.ArticleUpdateRequest) (dto.ArticleResponse, bool, error)
	Delete(ctx context.Context, actor Actor, id uint) (dto.MessageResponse, error)
	InvalidateCache(ctx context.Context)
}

type articleService struct {
	repo      repository.ArticleRepository
	cache     *redis.Client
	ttl       time.Duration
	validator *validator.Validate
	audit     AuditRecorder
	logger    zerolog.Logger
	policy    *bluemonday.Policy
}

// NewArticleService constructs the article service. A nil cache disables list caching.
func NewArticleService(repo repository.ArticleRepository, cache *redis.Client, ttl time.Duration, validator *validator.Validate, audit AuditRecorder, logger zerolog.Logger) ArticleService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("target").OnElements("a")
	policy.AllowAttrs("style").OnElements("span", "p")
	return &articleService{
		repo:      repo,
		cache:     cache,
		ttl:       ttl,
		validator: validator,
		audit:     audit,
		logger:    logger.With().Str("component", "article_service").Logger(),
		policy:    policy,
	}
}

func (s *articleService) List(ctx context.Context, category string) ([]dto.ArticleResponse, error) {
	category = strings.TrimSpace(category)

	cacheKey := ""
	if s.cache != nil {
		cacheKey = s.cacheKey(ctx, category)
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
			var response []dto.ArticleResponse
			if err := json.Unmarshal([]byte(cached), &response); err == nil {
				observability.ArticleListRequests().WithLabelValues("hit").Inc()
				return response, nil
			}
		}
	}

	items, err := s.repo.List(ctx, category)
	if err != nil {
		observability.ArticleListRequests().WithLabelValues("error").Inc()
		return nil, err
	}
	response := dto.NewArticleResponses(items)

	if cacheKey != "" {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.ttl).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to cache articles")
			}
		}
	}

	observability.ArticleListRequests().WithLabelValues("miss").Inc()
	return response, nil
}

func (s *articleService) Get(ctx context.Context, id uint) (dto.ArticleResponse, error) {
	article, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ArticleResponse{}, ErrArticleNotFound
		}
		return dto.ArticleResponse{}, err
	}
	return dto.NewArticleResponse(article), nil
}

func (s *articleService) Create(ctx context.Context, actor Actor, req dto.ArticleCreateRequest) (dto.ArticleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ArticleResponse{}, err
	}

	article := models.Article{
		Category:        strings.TrimSpace(req.Category),
		Title:           strings.TrimSpace(req.Title),
		Content:         s.sanitize(req.Content),
		Author:          dto.TrimOptional(req.Author),
		ExternalLink:    dto.TrimOptional(req.ExternalLink),
		FileURL:         dto.TrimOptional(req.FileURL),
		PublicationDate: dto.TrimOptional(req.PublicationDate),
	}

	if err := s.repo.Create(ctx, &article); err != nil {
		return dto.ArticleResponse{}, err
	}
	s.InvalidateCache(ctx)

	recordAudit(ctx, s.audit, s.logger, AuditEntry{
		Username:   actor.Username,
		Action:     "create",
		EntityType: "article",
		EntityID:   formatID(article.ID),
		Details:    map[string]interface{}{"title": article.Title, "category": article.Category},
	})

	return dto.NewArticleResponse(article), nil
}

// Update applies a partial update. The boolean result is false when the request carried no changes.
func (s *articleService) Update(ctx context.Context, actor Actor, id uint, req dto.ArticleUpdateRequest) (dto.ArticleResponse, bool, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ArticleResponse{}, false, err
	}

	changes := map[string]interface{}{}
	details := map[string]interface{}{}
	if req.Category != nil {
		changes["category"] = strings.TrimSpace(*req.Category)
		details["category"] = changes["category"]
	}
	if req.Title != nil {
		changes["title"] = strings.TrimSpace(*req.Title)
		details["title"] = changes["title"]
	}
	if req.Content != nil {
		changes["content"] = s.sanitize(req.Content)
		details["content"] = "[updated]"
	}
	if req.Author != nil {
		changes["author"] = dto.TrimOptional(req.Author)
		details["author"] = derefString(req.Author)
	}
	if req.ExternalLink != nil {
		changes["external_link"] = dto.TrimOptional(req.ExternalLink)
		details["external_link"] = derefString(req.ExternalLink)
	}
	if req.FileURL != nil {
		changes["file_url"] = dto.TrimOptional(req.FileURL)
		details["file_url"] = derefString(req.FileURL)
	}
	if req.PublicationDate != nil {
		changes["publication_date"] = dto.TrimOptional(req.PublicationDate)
		details["publication_date"] = derefString(req.PublicationDate)
	}

	article, err := s.repo.Update(ctx, id, changes)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ArticleResponse{}, false, ErrArticleNotFound
		}
		return dto.ArticleResponse{}, false, err
	}

	if len(changes) == 0 {
		return dto.NewArticleResponse(article), false, nil
	}
	s.InvalidateCache(ctx)

	recordAudit(ctx, s.audit, s.logger, AuditEntry{
		Username:   actor.Username,
		Action:     "update",
		EntityType: "article",
		EntityID:   formatID(id),
		Details:    details,
	})

	return dto.NewArticleResponse(article), true, nil
}

func (s *articleService) Delete(ctx context.Context, actor Actor, id uint) (dto.MessageResponse, error) {
	article, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.MessageResponse{}, ErrArticleNotFound
		}
		return dto.MessageResponse{}, err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.MessageResponse{}, ErrArticleNotFound
		}
		return dto.MessageResponse{}, err
	}
	s.InvalidateCache(ctx)

	recordAudit(ctx, s.audit, s.logger, AuditEntry{
		Username:   actor.Username,
		Action:     "delete",
		EntityType: "article",
		EntityID:   formatID(id),
		Details:    map[string]interface{}{"title": article.Title, "category": article.Category},
	})

	return dto.MessageResponse{Message: "Article deleted"}, nil
}

func (s *articleService) sanitize(content *string) *string {
	if content == nil {
		return nil
	}
	cleaned := strings.TrimSpace(s.policy.Sanitize(*content))
	if cleaned == "" {
		return nil
	}
	return &cleaned
}

// cacheKey embeds the current cache generation so a bump orphans every cached list.
func (s *articleService) cacheKey(ctx context.Context, category string) string {
	version, err := s.cache.Get(ctx, articleCacheVersionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		s.logger.Warn().Err(err).Msg("failed to read article cache version")
	}
	if category == "" {
		category = "all"
	}
	return fmt.Sprintf("articles:list:v%d:%s", version, category)
}

// InvalidateCache bumps the list cache generation.
func (s *articleService) InvalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Incr(ctx, articleCacheVersionKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate article cache")
	}
}
