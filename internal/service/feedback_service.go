package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/bioscizone-api/internal/dto"
	"github.com/noah-isme/bioscizone-api/internal/models"
	"github.com/noah-isme/bioscizone-api/internal/observability"
	"github.com/noah-isme/bioscizone-api/internal/repository"
)

var (
	// ErrFeedbackSpam indicates the honeypot field was filled.
	ErrFeedbackSpam = errors.New("feedback submission flagged as spam")
	// ErrFeedbackDuplicate indicates an identical submission arrived recently.
	ErrFeedbackDuplicate = errors.New("duplicate feedback submission")
	// ErrFeedbackNotFound indicates the requested message does not exist.
	ErrFeedbackNotFound = errors.New("feedback not found")
)

// notifyTimeout bounds delivery of one submission across every notifier.
const notifyTimeout = 30 * time.Second

// FeedbackNotifier delivers new feedback to the people who triage it.
type FeedbackNotifier interface {
	Notify(ctx context.Context, feedback models.Feedback) error
}

// FeedbackService exposes the contact form and its admin inbox.
type FeedbackService interface {
	Submit(ctx context.Context, req dto.FeedbackRequest) (dto.MessageResponse, error)
	List(ctx context.Context) ([]dto.FeedbackResponse, error)
	MarkRead(ctx context.Context, id uint) (dto.MessageResponse, error)
	Delete(ctx context.Context, actor Actor, id uint) (dto.MessageResponse, error)
	// Wait blocks until notifications already dispatched have finished.
	Wait()
}

type feedbackService struct {
	repo      repository.FeedbackRepository
	cache     *redis.Client
	validator *validator.Validate
	notifier  FeedbackNotifier
	audit     AuditRecorder
	logger    zerolog.Logger
	dedupeTTL time.Duration
	tracer    trace.Tracer
	pending   sync.WaitGroup
}

// NewFeedbackService constructs the feedback service. A nil cache disables duplicate detection.
func NewFeedbackService(repo repository.FeedbackRepository, cache *redis.Client, dedupeTTL time.Duration, validator *validator.Validate, notifier FeedbackNotifier, audit AuditRecorder, logger zerolog.Logger) FeedbackService {
	if dedupeTTL <= 0 {
		dedupeTTL = 5 * time.Minute
	}
	return &feedbackService{
		repo:      repo,
		cache:     cache,
		validator: validator,
		notifier:  notifier,
		audit:     audit,
		logger:    logger.With().Str("component", "feedback_service").Logger(),
		dedupeTTL: dedupeTTL,
		tracer:    otel.Tracer("github.com/noah-isme/bioscizone-api/internal/service/feedback"),
	}
}

func (s *feedbackService) Submit(ctx context.Context, req dto.FeedbackRequest) (dto.MessageResponse, error) {
	ctx, span := s.tracer.Start(ctx, "feedback.submit")
	defer span.End()

	if req.Honeypot != "" {
		span.SetStatus(codes.Error, "honeypot tripped")
		observability.FeedbackSubmissions().WithLabelValues("spam").Inc()
		return dto.MessageResponse{}, ErrFeedbackSpam
	}

	if err := s.validator.Struct(req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return dto.MessageResponse{}, err
	}

	checksum := computeChecksum(req.SenderName, req.Email, req.Subject, req.Message)
	span.SetAttributes(attribute.String("feedback.checksum", checksum))

	if s.cache != nil {
		key := fmt.Sprintf("feedback:dedupe:%s", checksum)
		ok, err := s.cache.SetNX(ctx, key, 1, s.dedupeTTL).Result()
		if err != nil {
			span.RecordError(err)
			return dto.MessageResponse{}, err
		}
		if !ok {
			span.SetStatus(codes.Error, "duplicate submission")
			observability.FeedbackSubmissions().WithLabelValues("duplicate").Inc()
			return dto.MessageResponse{}, ErrFeedbackDuplicate
		}
	}

	feedback := models.Feedback{
		SenderName: strings.TrimSpace(req.SenderName),
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		StudentID:  dto.TrimOptional(req.StudentID),
		Subject:    strings.TrimSpace(req.Subject),
		Message:    strings.TrimSpace(req.Message),
		Checksum:   checksum,
	}

	if err := s.repo.Create(ctx, &feedback); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		observability.FeedbackSubmissions().WithLabelValues("error").Inc()
		return dto.MessageResponse{}, err
	}
	observability.FeedbackSubmissions().WithLabelValues("stored").Inc()

	if s.notifier != nil {
		// Delivery outlives the request; the submitter never waits on it.
		notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		s.pending.Add(1)
		go func() {
			defer s.pending.Done()
			defer cancel()
			s.notify(notifyCtx, feedback)
		}()
	}

	s.logger.Info().Uint("feedback_id", feedback.ID).Str("email", maskEmail(feedback.Email)).Msg("feedback submission processed")
	span.SetStatus(codes.Ok, "stored")

	return dto.MessageResponse{Message: "Feedback submitted successfully"}, nil
}

func (s *feedbackService) notify(ctx context.Context, feedback models.Feedback) {
	ctx, span := s.tracer.Start(ctx, "feedback.notify")
	defer span.End()

	if err := s.notifier.Notify(ctx, feedback); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delivery failed")
		s.logger.Warn().Err(err).Uint("feedback_id", feedback.ID).Msg("feedback notification failed")
		observability.FeedbackSubmissions().WithLabelValues("notify_failed").Inc()
		return
	}
	observability.FeedbackSubmissions().WithLabelValues("notified").Inc()
}

func (s *feedbackService) Wait() {
	s.pending.Wait()
}

func (s *feedbackService) List(ctx context.Context) ([]dto.FeedbackResponse, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewFeedbackResponses(items), nil
}

func (s *feedbackService) MarkRead(ctx context.Context, id uint) (dto.MessageResponse, error) {
	if err := s.repo.MarkRead(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.MessageResponse{}, ErrFeedbackNotFound
		}
		return dto.MessageResponse{}, err
	}
	return dto.MessageResponse{Message: "Feedback marked as read"}, nil
}

func (s *feedbackService) Delete(ctx context.Context, actor Actor, id uint) (dto.MessageResponse, error) {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.MessageResponse{}, ErrFeedbackNotFound
		}
		return dto.MessageResponse{}, err
	}

	recordAudit(ctx, s.audit, s.logger, AuditEntry{
		Username:   actor.Username,
		Action:     "delete",
		EntityType: "feedback",
		EntityID:   formatID(id),
	})

	return dto.MessageResponse{Message: "Feedback deleted"}, nil
}
