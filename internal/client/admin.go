package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/noah-isme/bioscizone-api/internal/dto"
	"github.com/noah-isme/bioscizone-api/internal/session"
)

// Admin wraps the dashboard endpoints. Every call except Login needs a token
// in the session.
type Admin struct {
	t *transport
}

// NewAdmin builds an admin client bound to the session.
func NewAdmin(baseURL string, sess *session.Session, opts ...Option) *Admin {
	return &Admin{t: newTransport(baseURL, sess, opts)}
}

// Session exposes the bound session.
func (a *Admin) Session() *session.Session {
	return a.t.session
}

// Login exchanges credentials for a token and stores it in the session.
func (a *Admin) Login(ctx context.Context, username, password string) error {
	form := url.Values{"username": {username}, "password": {password}}
	var out dto.TokenResponse
	err := a.t.do(ctx, request{
		method:      http.MethodPost,
		path:        "/api/admin/login",
		body:        strings.NewReader(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
	}, &out)
	if err != nil {
		return err
	}
	if out.AccessToken == "" {
		return &APIError{Status: http.StatusOK, Detail: "login response carried no token"}
	}
	return a.t.session.SetToken(out.AccessToken)
}

// Logout forgets the stored token.
func (a *Admin) Logout() error {
	return a.t.session.RemoveToken()
}

func (a *Admin) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return a.t.do(ctx, request{method: http.MethodGet, path: path, query: query, auth: true}, out)
}

func (a *Admin) send(ctx context.Context, method, path string, payload interface{}, out interface{}) error {
	r := request{method: method, path: path, auth: true}
	if payload != nil {
		body, err := jsonBody(payload)
		if err != nil {
			return err
		}
		r.body = body
		r.contentType = "application/json"
	}
	return a.t.do(ctx, r, out)
}

func (a *Admin) message(ctx context.Context, method, path string, payload interface{}) (string, error) {
	var out messageBody
	err := a.send(ctx, method, path, payload, &out)
	return out.Message, err
}

// Me returns the authenticated identity.
func (a *Admin) Me(ctx context.Context) (dto.MeResponse, error) {
	var out dto.MeResponse
	err := a.get(ctx, "/api/admin/me", nil, &out)
	return out, err
}

// PendingBuddies lists profiles awaiting approval.
func (a *Admin) PendingBuddies(ctx context.Context) ([]dto.BuddyResponse, error) {
	var out []dto.BuddyResponse
	err := a.get(ctx, "/api/admin/pending", nil, &out)
	return out, err
}

// ApprovedBuddies lists the public directory with the admin's credentials.
func (a *Admin) ApprovedBuddies(ctx context.Context) ([]dto.BuddyResponse, error) {
	var out []dto.BuddyResponse
	err := a.get(ctx, "/api/buddies", nil, &out)
	return out, err
}

// ApproveBuddy publishes a pending profile.
func (a *Admin) ApproveBuddy(ctx context.Context, id uint) (string, error) {
	return a.message(ctx, http.MethodPatch, fmt.Sprintf("/api/admin/approve-buddy/%d", id), nil)
}

// DeleteBuddy removes a profile in any state.
func (a *Admin) DeleteBuddy(ctx context.Context, id uint) (string, error) {
	return a.message(ctx, http.MethodDelete, fmt.Sprintf("/api/admin/buddies/%d", id), nil)
}

// AllArticles lists every article, newest first.
func (a *Admin) AllArticles(ctx context.Context) ([]dto.ArticleResponse, error) {
	return listArticles(ctx, a.t, "", true)
}

// CreateArticle publishes an article.
func (a *Admin) CreateArticle(ctx context.Context, req dto.ArticleCreateRequest) (dto.ArticleResponse, error) {
	var out dto.ArticleResponse
	err := a.send(ctx, http.MethodPost, "/api/admin/articles", req, &out)
	return out, err
}

// UpdateArticle applies a partial update. ErrNoChanges is returned when the
// server saw nothing to change.
func (a *Admin) UpdateArticle(ctx context.Context, id uint, req dto.ArticleUpdateRequest) (dto.ArticleResponse, error) {
	var out struct {
		dto.ArticleResponse
		Message string `json:"message"`
	}
	if err := a.send(ctx, http.MethodPatch, fmt.Sprintf("/api/admin/articles/%d", id), req, &out); err != nil {
		return dto.ArticleResponse{}, err
	}
	if out.Message != "" && out.ID == 0 {
		return dto.ArticleResponse{}, ErrNoChanges
	}
	return out.ArticleResponse, nil
}

// DeleteArticle removes an article.
func (a *Admin) DeleteArticle(ctx context.Context, id uint) (string, error) {
	return a.message(ctx, http.MethodDelete, fmt.Sprintf("/api/admin/articles/%d", id), nil)
}

// Feedbacks lists the inbox, newest first.
func (a *Admin) Feedbacks(ctx context.Context) ([]dto.FeedbackResponse, error) {
	var out []dto.FeedbackResponse
	err := a.get(ctx, "/api/admin/feedbacks", nil, &out)
	return out, err
}

// MarkFeedbackRead flags a message as read. Repeating it is harmless.
func (a *Admin) MarkFeedbackRead(ctx context.Context, id uint) (string, error) {
	return a.message(ctx, http.MethodPatch, fmt.Sprintf("/api/admin/feedbacks/%d/read", id), nil)
}

// DeleteFeedback removes a message.
func (a *Admin) DeleteFeedback(ctx context.Context, id uint) (string, error) {
	return a.message(ctx, http.MethodDelete, fmt.Sprintf("/api/admin/feedbacks/%d", id), nil)
}

// ListAdmins lists dashboard accounts (superadmin).
func (a *Admin) ListAdmins(ctx context.Context) ([]dto.AdminResponse, error) {
	var out []dto.AdminResponse
	err := a.get(ctx, "/api/admin/admins", nil, &out)
	return out, err
}

// CreateAdmin adds an account (superadmin).
func (a *Admin) CreateAdmin(ctx context.Context, req dto.AdminCreateRequest) (dto.AdminResponse, error) {
	var out dto.AdminResponse
	err := a.send(ctx, http.MethodPost, "/api/admin/admins", req, &out)
	return out, err
}

// UpdateAdmin changes username, password or role (superadmin).
func (a *Admin) UpdateAdmin(ctx context.Context, id string, req dto.AdminUpdateRequest) (string, error) {
	return a.message(ctx, http.MethodPatch, "/api/admin/admins/"+url.PathEscape(id), req)
}

// DeleteAdmin removes an account (superadmin).
func (a *Admin) DeleteAdmin(ctx context.Context, id string) (string, error) {
	return a.message(ctx, http.MethodDelete, "/api/admin/admins/"+url.PathEscape(id), nil)
}

// Settings lists system settings (superadmin).
func (a *Admin) Settings(ctx context.Context) ([]dto.SettingResponse, error) {
	var out []dto.SettingResponse
	err := a.get(ctx, "/api/admin/settings", nil, &out)
	return out, err
}

// Setting reads one setting (superadmin).
func (a *Admin) Setting(ctx context.Context, key string) (dto.SettingResponse, error) {
	var out dto.SettingResponse
	err := a.get(ctx, "/api/admin/settings/"+url.PathEscape(key), nil, &out)
	return out, err
}

// UpdateSetting upserts a setting value (superadmin).
func (a *Admin) UpdateSetting(ctx context.Context, key, value string) (string, error) {
	return a.message(ctx, http.MethodPatch, "/api/admin/settings/"+url.PathEscape(key), dto.SettingUpdateRequest{Value: value})
}

// AuditLogs returns the newest entries; a non-positive limit uses the server default.
func (a *Admin) AuditLogs(ctx context.Context, limit int) ([]dto.AuditLogResponse, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var out []dto.AuditLogResponse
	err := a.get(ctx, "/api/admin/audit-logs", query, &out)
	return out, err
}

// UploadFile sends a multipart upload and returns the stored file metadata.
func (a *Admin) UploadFile(ctx context.Context, name string, content io.Reader) (dto.UploadResponse, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return dto.UploadResponse{}, fmt.Errorf("build upload: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return dto.UploadResponse{}, fmt.Errorf("build upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return dto.UploadResponse{}, fmt.Errorf("build upload: %w", err)
	}

	var out dto.UploadResponse
	err = a.t.do(ctx, request{
		method:      http.MethodPost,
		path:        "/api/admin/uploads",
		body:        &buf,
		contentType: writer.FormDataContentType(),
		auth:        true,
	}, &out)
	return out, err
}
