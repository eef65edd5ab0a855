package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/noah-isme/bioscizone-api/internal/models"
	"github.com/noah-isme/bioscizone-api/internal/repository"
)

var (
	// ErrSeedDisabled indicates the seeding tools are disabled by configuration.
	ErrSeedDisabled = errors.New("seeding is disabled")
	// ErrSeedUnauthorized indicates the provided token is invalid.
	ErrSeedUnauthorized = errors.New("invalid seed token")
)

// CacheInvalidator drops cached read models after bulk writes.
type CacheInvalidator interface {
	InvalidateCache(ctx context.Context)
}

// SeedService loads reference content (labs, articles) in bulk.
type SeedService interface {
	SeedLabs(ctx context.Context, token string, items []models.Lab) (int64, error)
	SeedArticles(ctx context.Context, token string, items []models.Article) (int64, error)
}

type seedService struct {
	labRepo     repository.LabRepository
	articleRepo repository.ArticleRepository
	articles    CacheInvalidator
	enabled     bool
	token       string
	logger      zerolog.Logger
}

// NewSeedService constructs a seeding service.
func NewSeedService(labRepo repository.LabRepository, articleRepo repository.ArticleRepository, articles CacheInvalidator, enabled bool, token string, logger zerolog.Logger) SeedService {
	return &seedService{
		labRepo:     labRepo,
		articleRepo: articleRepo,
		articles:    articles,
		enabled:     enabled,
		token:       token,
		logger:      logger.With().Str("component", "seed_service").Logger(),
	}
}

func (s *seedService) SeedLabs(ctx context.Context, token string, items []models.Lab) (int64, error) {
	if err := s.authorize(token); err != nil {
		return 0, err
	}

	normalized := make([]models.Lab, 0, len(items))
	for _, item := range items {
		item.Name = strings.TrimSpace(item.Name)
		if item.Name == "" {
			continue
		}
		normalized = append(normalized, item)
	}
	if len(normalized) == 0 {
		return 0, nil
	}

	affected, err := s.labRepo.UpsertBatch(ctx, normalized)
	if err != nil {
		return 0, err
	}
	s.logger.Info().Int64("affected", affected).Msg("labs seeded")
	return affected, nil
}

func (s *seedService) SeedArticles(ctx context.Context, token string, items []models.Article) (int64, error) {
	if err := s.authorize(token); err != nil {
		return 0, err
	}

	normalized := make([]models.Article, 0, len(items))
	for _, item := range items {
		item.Title = strings.TrimSpace(item.Title)
		item.Category = strings.TrimSpace(item.Category)
		if item.Title == "" || !models.IsArticleCategory(item.Category) {
			s.logger.Warn().Str("title", item.Title).Str("category", item.Category).Msg("skipping invalid seed article")
			continue
		}
		normalized = append(normalized, item)
	}
	if len(normalized) == 0 {
		return 0, nil
	}

	affected, err := s.articleRepo.UpsertBatch(ctx, normalized)
	if err != nil {
		return 0, err
	}
	if s.articles != nil {
		s.articles.InvalidateCache(ctx)
	}
	s.logger.Info().Int64("affected", affected).Msg("articles seeded")
	return affected, nil
}

func (s *seedService) authorize(token string) error {
	if !s.enabled {
		return ErrSeedDisabled
	}
	expected := strings.TrimSpace(s.token)
	if expected == "" || !constantTimeEqual(expected, strings.TrimSpace(token)) {
		return ErrSeedUnauthorized
	}
	return nil
}
