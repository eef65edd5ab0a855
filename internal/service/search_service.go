package service

import (
	"context"
	"errors"
	"strings"

	"github.com/noah-isme/bioscizone-api/internal/dto"
	"github.com/noah-isme/bioscizone-api/internal/repository"
)

// ErrEmptyQuery indicates a search without keywords.
var ErrEmptyQuery = errors.New("search query is required")

// SearchService runs the global site search.
type SearchService interface {
	Search(ctx context.Context, query string) (dto.SearchResponse, error)
}

type searchService struct {
	buddies  repository.BuddyRepository
	articles repository.ArticleRepository
}

// NewSearchService constructs the search service.
func NewSearchService(buddies repository.BuddyRepository, articles repository.ArticleRepository) SearchService {
	return &searchService{buddies: buddies, articles: articles}
}

func (s *searchService) Search(ctx context.Context, query string) (dto.SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return dto.SearchResponse{}, ErrEmptyQuery
	}

	buddies, err := s.buddies.Search(ctx, query)
	if err != nil {
		return dto.SearchResponse{}, err
	}
	articles, err := s.articles.Search(ctx, query)
	if err != nil {
		return dto.SearchResponse{}, err
	}

	return dto.SearchResponse{
		Buddies:  dto.NewBuddyResponses(buddies),
		Articles: dto.NewArticleResponses(articles),
	}, nil
}
