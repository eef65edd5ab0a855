package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/bioscizone-api/internal/dto"
	"github.com/noah-isme/bioscizone-api/internal/models"
	"github.com/noah-isme/bioscizone-api/internal/repository"
)

// ErrBuddyNotFound indicates the requested listing does not exist.
var ErrBuddyNotFound = errors.New("buddy not found")

// CourseAll is the course filter value meaning "every course".
const CourseAll = "All"

// BuddyService exposes the Bio-Buddy directory workflow.
type BuddyService interface {
	Submit(ctx context.Context, req dto.BuddySubmitRequest) (dto.MessageResponse, error)
	ListApproved(ctx context.Context, course string) ([]dto.BuddyResponse, error)
	ListPending(ctx context.Context) ([]dto.BuddyResponse, error)
	Approve(ctx context.Context, actor Actor, id uint) (dto.MessageResponse, error)
	Delete(ctx context.Context, actor Actor, id uint) (dto.MessageResponse, error)
}

type buddyService struct {
	repo      repository.BuddyRepository
	validator *validator.Validate
	audit     AuditRecorder
	logger    zerolog.Logger
}

// NewBuddyService constructs the Bio-Buddy service.
func NewBuddyService(repo repository.BuddyRepository, validator *validator.Validate, audit AuditRecorder, logger zerolog.Logger) BuddyService {
	return &buddyService{
		repo:      repo,
		validator: validator,
		audit:     audit,
		logger:    logger.With().Str("component", "buddy_service").Logger(),
	}
}

func (s *buddyService) Submit(ctx context.Context, req dto.BuddySubmitRequest) (dto.MessageResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.MessageResponse{}, err
	}

	buddy := models.BioBuddy{
		FullName:        strings.TrimSpace(req.FullName),
		StudentID:       dto.TrimOptional(req.StudentID),
		Course:          strings.TrimSpace(req.Course),
		Email:           strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:           dto.TrimOptional(req.Phone),
		ResearchTopic:   strings.TrimSpace(req.ResearchTopic),
		ResearchField:   dto.TrimOptional(req.ResearchField),
		ResearchSubject: dto.TrimOptional(req.ResearchSubject),
		Description:     strings.TrimSpace(req.Description),
		Status:          models.BuddyStatusPending,
	}

	if err := s.repo.Create(ctx, &buddy); err != nil {
		return dto.MessageResponse{}, err
	}

	s.logger.Info().Uint("buddy_id", buddy.ID).Str("course", buddy.Course).Str("email", maskEmail(buddy.Email)).Msg("buddy listing submitted")
	return dto.MessageResponse{Message: "Submitted for approval"}, nil
}

func (s *buddyService) ListApproved(ctx context.Context, course string) ([]dto.BuddyResponse, error) {
	course = strings.TrimSpace(course)
	if strings.EqualFold(course, CourseAll) {
		course = ""
	}
	items, err := s.repo.ListByStatus(ctx, models.BuddyStatusApproved, course)
	if err != nil {
		return nil, err
	}
	return dto.NewBuddyResponses(items), nil
}

func (s *buddyService) ListPending(ctx context.Context) ([]dto.BuddyResponse, error) {
	items, err := s.repo.ListByStatus(ctx, models.BuddyStatusPending, "")
	if err != nil {
		return nil, err
	}
	return dto.NewBuddyResponses(items), nil
}

// Approve publishes a pending listing. Approving an approved listing is a no-op.
func (s *buddyService) Approve(ctx context.Context, actor Actor, id uint) (dto.MessageResponse, error) {
	buddy, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.MessageResponse{}, ErrBuddyNotFound
		}
		return dto.MessageResponse{}, err
	}

	if buddy.Status == models.BuddyStatusApproved {
		return dto.MessageResponse{Message: "Buddy approved"}, nil
	}

	if err := s.repo.UpdateStatus(ctx, id, models.BuddyStatusApproved); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.MessageResponse{}, ErrBuddyNotFound
		}
		return dto.MessageResponse{}, err
	}

	recordAudit(ctx, s.audit, s.logger, AuditEntry{
		Username:   actor.Username,
		Action:     "approve",
		EntityType: "bio_buddy",
		EntityID:   formatID(id),
		Details:    map[string]interface{}{"name": buddy.FullName, "topic": buddy.ResearchTopic},
	})

	return dto.MessageResponse{Message: "Buddy approved"}, nil
}

func (s *buddyService) Delete(ctx context.Context, actor Actor, id uint) (dto.MessageResponse, error) {
	buddy, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.MessageResponse{}, ErrBuddyNotFound
		}
		return dto.MessageResponse{}, err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.MessageResponse{}, ErrBuddyNotFound
		}
		return dto.MessageResponse{}, err
	}

	recordAudit(ctx, s.audit, s.logger, AuditEntry{
		Username:   actor.Username,
		Action:     "delete",
		EntityType: "bio_buddy",
		EntityID:   formatID(id),
		Details:    map[string]interface{}{"name": buddy.FullName},
	})

	return dto.MessageResponse{Message: "Buddy deleted"}, nil
}
