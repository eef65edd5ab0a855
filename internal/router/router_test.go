package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/bioscizone-api/internal/config"
	"github.com/noah-isme/bioscizone-api/internal/database"
	"github.com/noah-isme/bioscizone-api/internal/dto"
	"github.com/noah-isme/bioscizone-api/internal/handler"
	"github.com/noah-isme/bioscizone-api/internal/middleware"
	"github.com/noah-isme/bioscizone-api/internal/repository"
	"github.com/noah-isme/bioscizone-api/internal/router"
	"github.com/noah-isme/bioscizone-api/internal/service"
)

const testSecret = "router-secret"

func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := database.ConnectSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_")))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	logger := zerolog.New(io.Discard)
	validate := service.NewValidator()

	buddyRepo := repository.NewBuddyRepository(db)
	articleRepo := repository.NewArticleRepository(db)
	labRepo := repository.NewLabRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	audit := service.NewAuditService(auditRepo, logger)
	articles := service.NewArticleService(articleRepo, nil, time.Minute, validate, audit, logger)

	cfg := config.Config{AppName: "Test", JWTSecret: testSecret, LoginRateLimit: 100, LoginRateWindow: time.Minute}

	app := fiber.New()
	middleware.Register(app, middleware.Config{Logger: &logger, DisableAccessLog: true})
	router.Register(app, cfg, router.Dependencies{
		BuddyHandler:        handler.NewBuddyHandler(service.NewBuddyService(buddyRepo, validate, audit, logger), logger),
		ArticleHandler:      handler.NewArticleHandler(articles, logger),
		LabHandler:          handler.NewLabHandler(service.NewLabService(labRepo), logger),
		SearchHandler:       handler.NewSearchHandler(service.NewSearchService(buddyRepo, articleRepo), logger),
		FeedbackHandler:     handler.NewFeedbackHandler(service.NewFeedbackService(feedbackRepo, nil, time.Minute, validate, service.NewLogFeedbackNotifier(logger), audit, logger), logger),
		AuthHandler:         handler.NewAuthHandler(service.NewAuthService(adminRepo, settingRepo, validate, audit, service.AuthConfig{Secret: testSecret, TokenTTL: time.Hour}, logger), logger),
		AdminAccountHandler: handler.NewAdminAccountHandler(service.NewAdminAccountService(adminRepo, validate, audit, logger), logger),
		SettingHandler:      handler.NewSettingHandler(service.NewSettingService(settingRepo, validate, audit, logger), logger),
		AuditLogHandler:     handler.NewAuditLogHandler(audit, logger),
		SeedHandler:         handler.NewSeedHandler(service.NewSeedService(labRepo, articleRepo, articles, true, "seed-token", logger), logger),
	})
	return app
}

func do(t *testing.T, app *fiber.App, req *http.Request, token string) (*http.Response, []byte) {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func jsonBody(t *testing.T, method, path string, payload interface{}) *http.Request {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// bootstrapSuperadmin creates the first account and logs in as it.
func bootstrapSuperadmin(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp, body := do(t, app, httptest.NewRequest(http.MethodPost, "/api/admin/seed-admin?username=root&password=secret1&role=superadmin", nil), "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	return login(t, app, "root", "secret1")
}

func login(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, body := do(t, app, req, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var token dto.TokenResponse
	require.NoError(t, json.Unmarshal(body, &token))
	require.Equal(t, "bearer", token.TokenType)
	return token.AccessToken
}

func TestHealthAndPublicRoutes(t *testing.T) {
	app := setupApp(t)

	resp, _ := do(t, app, httptest.NewRequest(http.MethodGet, "/api/health", nil), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Test", resp.Header.Get("X-Application"))

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/api/articles", nil), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, "[]", string(body))

	resp, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/api/search?q=", nil), "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBuddySubmissionAppearsInPending(t *testing.T) {
	app := setupApp(t)
	token := bootstrapSuperadmin(t, app)

	resp, body := do(t, app, jsonBody(t, http.MethodPost, "/api/buddies/submit", map[string]string{
		"full_name":      "A",
		"course":         "K20",
		"email":          "a@x.com",
		"research_topic": "T",
		"description":    "D",
	}), "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.Contains(t, string(body), "message")

	resp, body = do(t, app, httptest.NewRequest(http.MethodGet, "/api/buddies", nil), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, "[]", string(body))

	resp, body = do(t, app, httptest.NewRequest(http.MethodGet, "/api/admin/pending", nil), token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var pending []dto.BuddyResponse
	require.NoError(t, json.Unmarshal(body, &pending))
	require.Len(t, pending, 1)
	require.Equal(t, "A", pending[0].FullName)
	require.Equal(t, "pending", pending[0].Status)

	resp, _ = do(t, app, httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/api/admin/approve-buddy/%d", pending[0].ID), nil), token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = do(t, app, httptest.NewRequest(http.MethodGet, "/api/buddies?course=All", nil), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var approved []dto.BuddyResponse
	require.NoError(t, json.Unmarshal(body, &approved))
	require.Len(t, approved, 1)
	require.Equal(t, "approved", approved[0].Status)
}

func TestRegistrationToggle(t *testing.T) {
	app := setupApp(t)
	token := bootstrapSuperadmin(t, app)

	resp, body := do(t, app, httptest.NewRequest(http.MethodPost, "/api/admin/seed-admin?username=second&password=secret2", nil), "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Contains(t, string(body), "Registration is disabled")

	resp, body = do(t, app, jsonBody(t, http.MethodPatch, "/api/admin/settings/registration_enabled", map[string]string{"value": "true"}), token)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = do(t, app, httptest.NewRequest(http.MethodGet, "/api/admin/settings", nil), token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var settings []dto.SettingResponse
	require.NoError(t, json.Unmarshal(body, &settings))
	require.Len(t, settings, 1)
	require.Equal(t, "true", settings[0].Value)
	require.NotNil(t, settings[0].UpdatedBy)
	require.Equal(t, "root", *settings[0].UpdatedBy)

	resp, body = do(t, app, httptest.NewRequest(http.MethodPost, "/api/admin/seed-admin?username=second&password=secret2&role=superadmin", nil), "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	// Self-registered accounts are plain admins whatever role they ask for.
	second := login(t, app, "second", "secret2")
	resp, body = do(t, app, httptest.NewRequest(http.MethodGet, "/api/admin/settings", nil), second)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Contains(t, string(body), "Superadmin access required")

	resp, body = do(t, app, httptest.NewRequest(http.MethodGet, "/api/admin/me", nil), second)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"username":"second","role":"admin"}`, string(body))
}

func TestForgedTokenRejected(t *testing.T) {
	app := setupApp(t)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "mallory",
		"role": "superadmin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := forged.SignedString([]byte("not-the-secret"))
	require.NoError(t, err)

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/api/admin/settings", nil), signed)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.JSONEq(t, `{"detail":"Could not validate credentials"}`, string(body))

	resp, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/api/admin/pending", nil), "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSeedRoutesRequireToken(t *testing.T) {
	app := setupApp(t)

	req := jsonBody(t, http.MethodPost, "/api/seed/labs", map[string]interface{}{
		"items": []map[string]string{{"name": "Genetics"}},
	})
	req.Header.Set("X-Seed-Token", "wrong")
	resp, _ := do(t, app, req, "")
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	req = jsonBody(t, http.MethodPost, "/api/seed/labs", map[string]interface{}{
		"items": []map[string]string{{"name": "Genetics"}},
	})
	req.Header.Set("X-Seed-Token", "seed-token")
	resp, body := do(t, app, req, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = do(t, app, httptest.NewRequest(http.MethodGet, "/api/labs", nil), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), "Genetics")
}
