package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/noah-isme/bioscizone-api/internal/dto"
	"github.com/noah-isme/bioscizone-api/internal/models"
	"github.com/noah-isme/bioscizone-api/internal/repository"
)

const (
	defaultAuditLimit = 100
	maxAuditLimit     = 500
)

// Actor identifies the authenticated admin performing a request.
type Actor struct {
	Username string
	Role     string
}

// IsSuperadmin reports whether the actor holds the superadmin role.
func (a Actor) IsSuperadmin() bool {
	return strings.EqualFold(a.Role, models.RoleSuperadmin)
}

// AuditEntry captures the details required to persist an audit entry.
type AuditEntry struct {
	Username   string
	Action     string
	EntityType string
	EntityID   string
	Details    map[string]interface{}
}

// AuditRecorder defines behaviour for recording audit logs.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry) error
}

// AuditService records admin mutations and reads back the trail.
type AuditService interface {
	AuditRecorder
	ListRecent(ctx context.Context, limit int) ([]dto.AuditLogResponse, error)
}

type auditService struct {
	repo   repository.AuditLogRepository
	logger zerolog.Logger
}

// NewAuditService constructs the audit log service.
func NewAuditService(repo repository.AuditLogRepository, logger zerolog.Logger) AuditService {
	return &auditService{
		repo:   repo,
		logger: logger.With().Str("component", "audit_service").Logger(),
	}
}

func (s *auditService) Record(ctx context.Context, entry AuditEntry) error {
	if strings.TrimSpace(entry.Action) == "" {
		return fmt.Errorf("action is required")
	}
	if strings.TrimSpace(entry.EntityType) == "" {
		return fmt.Errorf("entity type is required")
	}

	username := strings.TrimSpace(entry.Username)
	if username == "" {
		username = "system"
	}

	model := models.AuditLog{
		AdminUsername: username,
		Action:        strings.ToLower(strings.TrimSpace(entry.Action)),
		EntityType:    strings.ToLower(strings.TrimSpace(entry.EntityType)),
		Details:       sanitizeDetails(entry.Details),
	}
	if id := strings.TrimSpace(entry.EntityID); id != "" {
		model.EntityID = &id
	}

	if err := s.repo.Create(ctx, &model); err != nil {
		s.logger.Error().Err(err).Str("action", model.Action).Msg("failed to persist audit log")
		return err
	}
	return nil
}

// ListRecent returns the newest entries; limit defaults to 100 and is capped.
func (s *auditService) ListRecent(ctx context.Context, limit int) ([]dto.AuditLogResponse, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}

	entries, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.AuditLogResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, dto.NewAuditLogResponse(entry))
	}
	return responses, nil
}

func sanitizeDetails(details map[string]interface{}) datatypes.JSONMap {
	if len(details) == 0 {
		return nil
	}

	sanitized := datatypes.JSONMap{}
	for key, value := range details {
		lower := strings.ToLower(key)
		switch {
		case strings.Contains(lower, "password"):
			sanitized[key] = "[changed]"
		case strings.Contains(lower, "email"), strings.Contains(lower, "token"):
			sanitized[key] = "***"
		default:
			sanitized[key] = value
		}
	}
	return sanitized
}

// recordAudit writes an audit entry; failures are logged and never fail the caller.
func recordAudit(ctx context.Context, recorder AuditRecorder, logger zerolog.Logger, entry AuditEntry) {
	if recorder == nil {
		return
	}
	if err := recorder.Record(ctx, entry); err != nil {
		logger.Warn().Err(err).Str("action", entry.Action).Str("entity_type", entry.EntityType).Msg("audit log write failed")
	}
}
