package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/noah-isme/bioscizone-api/internal/dto"
	"github.com/noah-isme/bioscizone-api/internal/models"
	"github.com/noah-isme/bioscizone-api/internal/observability"
	"github.com/noah-isme/bioscizone-api/internal/repository"
)

var (
	// ErrInvalidCredentials indicates a failed login.
	ErrInvalidCredentials = errors.New("incorrect username or password")
	// ErrRegistrationDisabled indicates self-registration is closed.
	ErrRegistrationDisabled = errors.New("registration is disabled")
	// ErrUsernameTaken indicates another account already uses the username.
	ErrUsernameTaken = errors.New("username already exists")
)

// AuthConfig carries token and fallback-account settings.
type AuthConfig struct {
	Secret           string
	TokenTTL         time.Duration
	FallbackUsername string
	FallbackPassword string
}

// AuthService issues dashboard sessions and handles self-registration.
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (dto.TokenResponse, error)
	RegistrationStatus(ctx context.Context) (dto.RegistrationStatusResponse, error)
	Register(ctx context.Context, req dto.RegisterRequest) (dto.MessageResponse, error)
}

type authService struct {
	admins    repository.AdminRepository
	settings  repository.SettingRepository
	validator *validator.Validate
	audit     AuditRecorder
	cfg       AuthConfig
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAuthService constructs the authentication service.
func NewAuthService(admins repository.AdminRepository, settings repository.SettingRepository, validator *validator.Validate, audit AuditRecorder, cfg AuthConfig, logger zerolog.Logger) AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	return &authService{
		admins:    admins,
		settings:  settings,
		validator: validator,
		audit:     audit,
		cfg:       cfg,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
	}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (dto.TokenResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		observability.LoginAttempts().WithLabelValues("invalid").Inc()
		return dto.TokenResponse{}, ErrInvalidCredentials
	}

	username, role, err := s.authenticate(ctx, strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			observability.LoginAttempts().WithLabelValues("rejected").Inc()
			s.logger.Warn().Str("username", req.Username).Msg("login rejected")
		}
		return dto.TokenResponse{}, err
	}

	token, err := IssueToken(s.cfg.Secret, username, role, s.cfg.TokenTTL, s.now())
	if err != nil {
		return dto.TokenResponse{}, err
	}

	observability.LoginAttempts().WithLabelValues("success").Inc()
	recordAudit(ctx, s.audit, s.logger, AuditEntry{
		Username:   username,
		Action:     "login",
		EntityType: "session",
		Details:    map[string]interface{}{"role": role},
	})

	return dto.TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

// authenticate checks stored accounts first and falls back to the configured
// bootstrap account, which is always a superadmin.
func (s *authService) authenticate(ctx context.Context, username, password string) (string, string, error) {
	admin, err := s.admins.GetByUsername(ctx, username)
	switch {
	case err == nil:
		if bcrypt.CompareHashAndPassword([]byte(admin.HashedPassword), []byte(password)) != nil {
			return "", "", ErrInvalidCredentials
		}
		role := admin.Role
		if role == "" {
			role = models.RoleAdmin
		}
		return admin.Username, role, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return "", "", err
	}

	if s.cfg.FallbackUsername != "" && s.cfg.FallbackPassword != "" &&
		constantTimeEqual(username, s.cfg.FallbackUsername) &&
		constantTimeEqual(password, s.cfg.FallbackPassword) {
		return username, models.RoleSuperadmin, nil
	}

	return "", "", ErrInvalidCredentials
}

func (s *authService) RegistrationStatus(ctx context.Context) (dto.RegistrationStatusResponse, error) {
	enabled, err := s.registrationEnabled(ctx)
	if err != nil {
		return dto.RegistrationStatusResponse{}, err
	}
	return dto.RegistrationStatusResponse{Enabled: enabled}, nil
}

// Register creates an account. The first account may take any role; later
// self-registrations require the registration_enabled flag and are always plain admins.
func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (dto.MessageResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.MessageResponse{}, err
	}

	count, err := s.admins.Count(ctx)
	if err != nil {
		return dto.MessageResponse{}, err
	}

	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role == "" {
		role = models.RoleAdmin
	}

	action := "seed"
	if count > 0 {
		enabled, err := s.registrationEnabled(ctx)
		if err != nil {
			return dto.MessageResponse{}, err
		}
		if !enabled {
			return dto.MessageResponse{}, ErrRegistrationDisabled
		}
		action = "register"
		role = models.RoleAdmin
	}

	username := strings.TrimSpace(req.Username)
	taken, err := s.admins.UsernameTaken(ctx, username, "")
	if err != nil {
		return dto.MessageResponse{}, err
	}
	if taken {
		return dto.MessageResponse{}, ErrUsernameTaken
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return dto.MessageResponse{}, err
	}

	admin := models.Admin{Username: username, HashedPassword: hash, Role: role}
	if err := s.admins.Create(ctx, &admin); err != nil {
		return dto.MessageResponse{}, err
	}

	recordAudit(ctx, s.audit, s.logger, AuditEntry{
		Username:   username,
		Action:     action,
		EntityType: "admin",
		EntityID:   admin.ID,
		Details:    map[string]interface{}{"role": role},
	})

	s.logger.Info().Str("username", username).Str("role", role).Str("mode", action).Msg("admin account registered")
	return dto.MessageResponse{Message: fmt.Sprintf("Admin '%s' with role '%s' created successfully", username, role)}, nil
}

func (s *authService) registrationEnabled(ctx context.Context) (bool, error) {
	setting, err := s.settings.Get(ctx, models.SettingRegistrationEnabled)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return strings.EqualFold(strings.TrimSpace(setting.Value), "true"), nil
}

// HashPassword hashes a dashboard password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// IssueToken signs an HS256 access token carrying the username and role.
func IssueToken(secret, username, role string, ttl time.Duration, now time.Time) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret must not be empty")
	}
	claims := jwt.MapClaims{
		"sub":  username,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
