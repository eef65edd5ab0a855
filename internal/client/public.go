package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/noah-isme/bioscizone-api/internal/dto"
)

// Public wraps the unauthenticated site endpoints.
type Public struct {
	t *transport
}

// NewPublic builds a client for the public API rooted at baseURL.
func NewPublic(baseURL string, opts ...Option) *Public {
	return &Public{t: newTransport(baseURL, nil, opts)}
}

// Buddies lists approved profiles. An empty course or "All" disables the filter.
func (p *Public) Buddies(ctx context.Context, course string) ([]dto.BuddyResponse, error) {
	query := url.Values{}
	if course = strings.TrimSpace(course); course != "" && !strings.EqualFold(course, "all") {
		query.Set("course", course)
	}
	var out []dto.BuddyResponse
	err := p.t.do(ctx, request{method: http.MethodGet, path: "/api/buddies", query: query}, &out)
	return out, err
}

// SubmitBuddy sends a profile for approval and returns the server message.
func (p *Public) SubmitBuddy(ctx context.Context, req dto.BuddySubmitRequest) (string, error) {
	body, err := jsonBody(req)
	if err != nil {
		return "", err
	}
	var out messageBody
	err = p.t.do(ctx, request{method: http.MethodPost, path: "/api/buddies/submit", body: body, contentType: "application/json"}, &out)
	return out.Message, err
}

// Articles lists articles, optionally restricted to one category.
func (p *Public) Articles(ctx context.Context, category string) ([]dto.ArticleResponse, error) {
	return listArticles(ctx, p.t, category, false)
}

func listArticles(ctx context.Context, t *transport, category string, auth bool) ([]dto.ArticleResponse, error) {
	query := url.Values{}
	if category = strings.TrimSpace(category); category != "" {
		query.Set("category", category)
	}
	var out []dto.ArticleResponse
	err := t.do(ctx, request{method: http.MethodGet, path: "/api/articles", query: query, auth: auth}, &out)
	return out, err
}

// Article fetches one article.
func (p *Public) Article(ctx context.Context, id uint) (dto.ArticleResponse, error) {
	var out dto.ArticleResponse
	err := p.t.do(ctx, request{method: http.MethodGet, path: fmt.Sprintf("/api/articles/%d", id)}, &out)
	return out, err
}

// Labs lists research labs.
func (p *Public) Labs(ctx context.Context) ([]dto.LabResponse, error) {
	var out []dto.LabResponse
	err := p.t.do(ctx, request{method: http.MethodGet, path: "/api/labs"}, &out)
	return out, err
}

// Search runs the server-side global search.
func (p *Public) Search(ctx context.Context, q string) (dto.SearchResponse, error) {
	var out dto.SearchResponse
	err := p.t.do(ctx, request{method: http.MethodGet, path: "/api/search", query: url.Values{"q": {q}}}, &out)
	return out, err
}

// SubmitFeedback posts the contact form.
func (p *Public) SubmitFeedback(ctx context.Context, req dto.FeedbackRequest) (string, error) {
	body, err := jsonBody(req)
	if err != nil {
		return "", err
	}
	var out messageBody
	err = p.t.do(ctx, request{method: http.MethodPost, path: "/api/feedback", body: body, contentType: "application/json"}, &out)
	return out.Message, err
}

// RegistrationStatus reports whether self-registration is open.
func (p *Public) RegistrationStatus(ctx context.Context) (bool, error) {
	var out dto.RegistrationStatusResponse
	err := p.t.do(ctx, request{method: http.MethodGet, path: "/api/admin/registration-status"}, &out)
	return out.Enabled, err
}

// Register uses the self-service seed-admin path.
func (p *Public) Register(ctx context.Context, username, password, role string) (string, error) {
	query := url.Values{"username": {username}, "password": {password}}
	if role != "" {
		query.Set("role", role)
	}
	var out messageBody
	err := p.t.do(ctx, request{method: http.MethodPost, path: "/api/admin/seed-admin", query: query}, &out)
	return out.Message, err
}
