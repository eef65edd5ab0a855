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

var (
	// ErrAdminNotFound indicates the requested account does not exist.
	ErrAdminNotFound = errors.New("admin not found")
	// ErrCannotDeleteSelf indicates an admin tried to delete their own account.
	ErrCannotDeleteSelf = errors.New("cannot delete yourself")
)

// AdminAccountService manages dashboard accounts on behalf of superadmins.
type AdminAccountService interface {
	List(ctx context.Context) ([]dto.AdminResponse, error)
	Create(ctx context.Context, actor Actor, req dto.AdminCreateRequest) (dto.AdminResponse, error)
	Update(ctx context.Context, actor Actor, id string, req dto.AdminUpdateRequest) (dto.AdminResponse, error)
	Delete(ctx context.Context, actor Actor, id string) (dto.MessageResponse, error)
}

type adminAccountService struct {
	repo      repository.AdminRepository
	validator *validator.Validate
	audit     AuditRecorder
	logger    zerolog.Logger
}

// NewAdminAccountService constructs the account management service.
func NewAdminAccountService(repo repository.AdminRepository, validator *validator.Validate, audit AuditRecorder, logger zerolog.Logger) AdminAccountService {
	return &adminAccountService{
		repo:      repo,
		validator: validator,
		audit:     audit,
		logger:    logger.With().Str("component", "admin_account_service").Logger(),
	}
}

func (s *adminAccountService) List(ctx context.Context) ([]dto.AdminResponse, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.AdminResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, dto.NewAdminResponse(item))
	}
	return responses, nil
}

func (s *adminAccountService) Create(ctx context.Context, actor Actor, req dto.AdminCreateRequest) (dto.AdminResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.AdminResponse{}, err
	}

	username := strings.TrimSpace(req.Username)
	taken, err := s.repo.UsernameTaken(ctx, username, "")
	if err != nil {
		return dto.AdminResponse{}, err
	}
	if taken {
		return dto.AdminResponse{}, ErrUsernameTaken
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return dto.AdminResponse{}, err
	}

	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role == "" {
		role = models.RoleAdmin
	}

	admin := models.Admin{Username: username, HashedPassword: hash, Role: role}
	if err := s.repo.Create(ctx, &admin); err != nil {
		return dto.AdminResponse{}, err
	}

	recordAudit(ctx, s.audit, s.logger, AuditEntry{
		Username:   actor.Username,
		Action:     "create",
		EntityType: "admin",
		EntityID:   admin.ID,
		Details:    map[string]interface{}{"username": admin.Username, "role": admin.Role},
	})

	return dto.NewAdminResponse(admin), nil
}

func (s *adminAccountService) Update(ctx context.Context, actor Actor, id string, req dto.AdminUpdateRequest) (dto.AdminResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.AdminResponse{}, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AdminResponse{}, ErrAdminNotFound
		}
		return dto.AdminResponse{}, err
	}

	changes := map[string]interface{}{}
	details := map[string]interface{}{}

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username != existing.Username {
			taken, err := s.repo.UsernameTaken(ctx, username, id)
			if err != nil {
				return dto.AdminResponse{}, err
			}
			if taken {
				return dto.AdminResponse{}, ErrUsernameTaken
			}
			changes["username"] = username
			details["username"] = username
		}
	}
	if req.Password != nil {
		hash, err := HashPassword(*req.Password)
		if err != nil {
			return dto.AdminResponse{}, err
		}
		changes["hashed_password"] = hash
		details["password"] = "[changed]"
	}
	if req.Role != nil {
		role := strings.ToLower(strings.TrimSpace(*req.Role))
		if role != existing.Role {
			changes["role"] = role
			details["role"] = role
		}
	}

	if len(changes) == 0 {
		return dto.NewAdminResponse(existing), nil
	}

	if err := s.repo.Update(ctx, id, changes); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AdminResponse{}, ErrAdminNotFound
		}
		return dto.AdminResponse{}, err
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.AdminResponse{}, err
	}

	recordAudit(ctx, s.audit, s.logger, AuditEntry{
		Username:   actor.Username,
		Action:     "update",
		EntityType: "admin",
		EntityID:   id,
		Details:    details,
	})

	return dto.NewAdminResponse(updated), nil
}

func (s *adminAccountService) Delete(ctx context.Context, actor Actor, id string) (dto.MessageResponse, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.MessageResponse{}, ErrAdminNotFound
		}
		return dto.MessageResponse{}, err
	}

	if existing.Username == actor.Username {
		return dto.MessageResponse{}, ErrCannotDeleteSelf
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.MessageResponse{}, ErrAdminNotFound
		}
		return dto.MessageResponse{}, err
	}

	recordAudit(ctx, s.audit, s.logger, AuditEntry{
		Username:   actor.Username,
		Action:     "delete",
		EntityType: "admin",
		EntityID:   id,
		Details:    map[string]interface{}{"username": existing.Username},
	})

	return dto.MessageResponse{Message: "Admin deleted"}, nil
}
