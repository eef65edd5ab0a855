package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/bioscizone-api/internal/dto"
	"github.com/noah-isme/bioscizone-api/internal/models"
)

const testSecret = "test-secret"

func newTestAuthService(admins *adminRepoStub, settings *settingRepoStub, audit AuditRecorder) AuthService {
	return NewAuthService(admins, settings, testValidator(), audit, AuthConfig{
		Secret:           testSecret,
		TokenTTL:         time.Hour,
		FallbackUsername: "root",
		FallbackPassword: "root-pass",
	}, testLogger())
}

func parseTestToken(t *testing.T, token string) jwt.MapClaims {
	t.Helper()
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	require.NoError(t, err)
	return claims
}

func TestAuthServiceLoginStoredAccount(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	admins := newAdminRepoStub(models.Admin{Username: "lan", HashedPassword: hash, Role: models.RoleAdmin})
	audit := &auditRecorderStub{}
	svc := newTestAuthService(admins, newSettingRepoStub(), audit)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "lan", Password: "secret1"})
	require.NoError(t, err)
	require.Equal(t, "bearer", resp.TokenType)

	claims := parseTestToken(t, resp.AccessToken)
	require.Equal(t, "lan", claims["sub"])
	require.Equal(t, models.RoleAdmin, claims["role"])
	require.Len(t, audit.entries, 1)
	require.Equal(t, "login", audit.entries[0].Action)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "lan", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthServiceLoginFallbackIsSuperadmin(t *testing.T) {
	svc := newTestAuthService(newAdminRepoStub(), newSettingRepoStub(), nil)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "root", Password: "root-pass"})
	require.NoError(t, err)
	require.Equal(t, models.RoleSuperadmin, parseTestToken(t, resp.AccessToken)["role"])

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "root", Password: "nope"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "", Password: ""})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthServiceRegisterBootstrapThenGated(t *testing.T) {
	admins := newAdminRepoStub()
	settings := newSettingRepoStub()
	audit := &auditRecorderStub{}
	svc := newTestAuthService(admins, settings, audit)

	resp, err := svc.Register(context.Background(), dto.RegisterRequest{Username: "first", Password: "secret1", Role: models.RoleSuperadmin})
	require.NoError(t, err)
	require.Equal(t, "Admin 'first' with role 'superadmin' created successfully", resp.Message)

	status, err := svc.RegistrationStatus(context.Background())
	require.NoError(t, err)
	require.False(t, status.Enabled)

	_, err = svc.Register(context.Background(), dto.RegisterRequest{Username: "second", Password: "secret1"})
	require.ErrorIs(t, err, ErrRegistrationDisabled)

	_, err = settings.Upsert(context.Background(), models.SettingRegistrationEnabled, "true", "first")
	require.NoError(t, err)

	resp, err = svc.Register(context.Background(), dto.RegisterRequest{Username: "second", Password: "secret1", Role: models.RoleSuperadmin})
	require.NoError(t, err)
	require.Equal(t, "Admin 'second' with role 'admin' created successfully", resp.Message)

	_, err = svc.Register(context.Background(), dto.RegisterRequest{Username: "second", Password: "secret1"})
	require.ErrorIs(t, err, ErrUsernameTaken)

	require.Len(t, audit.entries, 2)
	require.Equal(t, "seed", audit.entries[0].Action)
	require.Equal(t, "register", audit.entries[1].Action)
}

func TestIssueTokenRequiresSecret(t *testing.T) {
	_, err := IssueToken("", "lan", models.RoleAdmin, time.Hour, time.Now())
	require.Error(t, err)
}
