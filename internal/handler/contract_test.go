package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/bioscizone-api/internal/dto"
	"github.com/noah-isme/bioscizone-api/internal/handler"
	"github.com/noah-isme/bioscizone-api/internal/service"
)

func compileSchema(t *testing.T, name string) *jsonschema.Schema {
	t.Helper()
	schemaPath, err := filepath.Abs(filepath.Join("testdata", name))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	schema, err := compiler.Compile("file://" + schemaPath)
	require.NoError(t, err)
	return schema
}

func validateBody(t *testing.T, schema *jsonschema.Schema, resp *http.Response) {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.NoError(t, schema.Validate(payload))
}

func TestBuddyListContract(t *testing.T) {
	schema := compileSchema(t, "buddy_list.schema.json")
	svc := &mockBuddyService{approved: []dto.BuddyResponse{{
		ID:            1,
		FullName:      "Nguyen Van A",
		Course:        "K21",
		Email:         "a@example.com",
		ResearchTopic: "Plant genomics",
		Description:   "Looking for a lab partner",
		Status:        "approved",
		CreatedAt:     time.Now().UTC(),
	}}}
	app := fiber.New()
	handler.NewBuddyHandler(svc, testLogger()).RegisterPublic(app.Group("/api"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/buddies", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	validateBody(t, schema, resp)
}

func TestArticleContract(t *testing.T) {
	schema := compileSchema(t, "article.schema.json")
	author := "BiosciZone"
	svc := &mockArticleService{article: dto.ArticleResponse{
		ID:        4,
		Category:  "science_corner",
		Title:     "CRISPR 101",
		Author:    &author,
		CreatedAt: time.Now().UTC(),
	}}
	app := fiber.New()
	handler.NewArticleHandler(svc, testLogger()).RegisterPublic(app.Group("/api"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/articles/4", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	validateBody(t, schema, resp)
}

func TestTokenContract(t *testing.T) {
	schema := compileSchema(t, "token.schema.json")
	app := fiber.New()
	handler.NewAuthHandler(&mockAuthService{}, testLogger()).RegisterPublic(app.Group("/api/admin"))

	resp, err := app.Test(formRequest("/api/admin/login", url.Values{"username": {"lan"}, "password": {"secret1"}}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	validateBody(t, schema, resp)
}

func TestErrorContract(t *testing.T) {
	schema := compileSchema(t, "error.schema.json")
	app := fiber.New()
	handler.NewFeedbackHandler(&mockFeedbackService{err: service.ErrFeedbackDuplicate}, testLogger()).RegisterPublic(app.Group("/api"))

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/feedback", dto.FeedbackRequest{
		SenderName: "Lan", Email: "lan@example.com", Subject: "Hi", Message: "Hello",
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	validateBody(t, schema, resp)
}
