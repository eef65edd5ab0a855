package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/bioscizone-api/internal/dto"
	"github.com/noah-isme/bioscizone-api/internal/repository"
)

var (
	// ErrSettingNotFound indicates the key has never been set.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrSettingKeyInvalid indicates an empty or malformed key.
	ErrSettingKeyInvalid = errors.New("setting key is invalid")
)

// SettingService manages runtime system settings.
type SettingService interface {
	List(ctx context.Context) ([]dto.SettingResponse, error)
	Get(ctx context.Context, key string) (dto.SettingResponse, error)
	Update(ctx context.Context, actor Actor, key string, req dto.SettingUpdateRequest) (dto.SettingResponse, error)
}

type settingService struct {
	repo      repository.SettingRepository
	validator *validator.Validate
	audit     AuditRecorder
	logger    zerolog.Logger
}

// NewSettingService constructs the settings service.
func NewSettingService(repo repository.SettingRepository, validator *validator.Validate, audit AuditRecorder, logger zerolog.Logger) SettingService {
	return &settingService{
		repo:      repo,
		validator: validator,
		audit:     audit,
		logger:    logger.With().Str("component", "setting_service").Logger(),
	}
}

func (s *settingService) List(ctx context.Context) ([]dto.SettingResponse, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.SettingResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, dto.NewSettingResponse(item))
	}
	return responses, nil
}

func (s *settingService) Get(ctx context.Context, key string) (dto.SettingResponse, error) {
	setting, err := s.repo.Get(ctx, strings.TrimSpace(key))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SettingResponse{}, ErrSettingNotFound
		}
		return dto.SettingResponse{}, err
	}
	return dto.NewSettingResponse(setting), nil
}

// Update upserts the setting and stamps the acting admin.
func (s *settingService) Update(ctx context.Context, actor Actor, key string, req dto.SettingUpdateRequest) (dto.SettingResponse, error) {
	key = strings.TrimSpace(key)
	if key == "" || len(key) > 128 {
		return dto.SettingResponse{}, ErrSettingKeyInvalid
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.SettingResponse{}, err
	}

	setting, err := s.repo.Upsert(ctx, key, req.Value, actor.Username)
	if err != nil {
		return dto.SettingResponse{}, err
	}

	recordAudit(ctx, s.audit, s.logger, AuditEntry{
		Username:   actor.Username,
		Action:     "update",
		EntityType: "setting",
		EntityID:   key,
		Details:    map[string]interface{}{"value": req.Value},
	})

	return dto.NewSettingResponse(setting), nil
}
