package service

import (
	"context"

	"github.com/noah-isme/bioscizone-api/internal/dto"
	"github.com/noah-isme/bioscizone-api/internal/repository"
)

// LabService lists the department's research labs.
type LabService interface {
	List(ctx context.Context) ([]dto.LabResponse, error)
}

type labService struct {
	repo repository.LabRepository
}

// NewLabService constructs the lab service.
func NewLabService(repo repository.LabRepository) LabService {
	return &labService{repo: repo}
}

func (s *labService) List(ctx context.Context) ([]dto.LabResponse, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewLabResponses(items), nil
}
