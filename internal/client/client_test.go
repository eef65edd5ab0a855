package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/bioscizone-api/internal/client"
	"github.com/noah-isme/bioscizone-api/internal/dto"
	"github.com/noah-isme/bioscizone-api/internal/session"
)

func newSession(t *testing.T, token string) *session.Session {
	t.Helper()
	sess, err := session.New(session.NewMemoryStore())
	require.NoError(t, err)
	if token != "" {
		require.NoError(t, sess.SetToken(token))
	}
	return sess
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func TestLoginStoresToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/admin/login", r.URL.Path)
		require.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("password") != "secret1" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect username or password"})
			return
		}
		writeJSON(w, http.StatusOK, dto.TokenResponse{AccessToken: "a.b.c", TokenType: "bearer"})
	}))
	defer server.Close()

	sess := newSession(t, "")
	admin := client.NewAdmin(server.URL, sess)

	err := admin.Login(context.Background(), "root", "wrong")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.Status)
	require.Equal(t, "Incorrect username or password", apiErr.Error())
	require.False(t, sess.IsLoggedIn())

	require.NoError(t, admin.Login(context.Background(), "root", "secret1"))
	require.Equal(t, "a.b.c", sess.Token())

	require.NoError(t, admin.Logout())
	require.False(t, sess.IsLoggedIn())
}

func TestAuthenticatedCallSendsBearer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok.en.x", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, []dto.BuddyResponse{{ID: 1, FullName: "A", Status: "pending"}})
	}))
	defer server.Close()

	admin := client.NewAdmin(server.URL, newSession(t, "tok.en.x"))
	pending, err := admin.PendingBuddies(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
}

func TestUnauthorizedClearsToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
	}))
	defer server.Close()

	sess := newSession(t, "stale.token.x")
	admin := client.NewAdmin(server.URL, sess)

	_, err := admin.Feedbacks(context.Background())
	require.ErrorIs(t, err, client.ErrSessionExpired)
	require.False(t, sess.IsLoggedIn())
}

func TestMissingTokenFailsWithoutCalling(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	admin := client.NewAdmin(server.URL, newSession(t, ""))
	_, err := admin.DeleteBuddy(context.Background(), 3)
	require.ErrorIs(t, err, client.ErrSessionExpired)
	require.False(t, called)
}

func TestForbiddenWrapsDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]string{"detail": "Superadmin access required"})
	}))
	defer server.Close()

	sess := newSession(t, "a.b.c")
	admin := client.NewAdmin(server.URL, sess)

	_, err := admin.Settings(context.Background())
	require.ErrorIs(t, err, client.ErrAccessRequired)
	require.Contains(t, err.Error(), "Superadmin access required")
	require.True(t, sess.IsLoggedIn())
}

func TestValidationDetailSurfacesVerbatim(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "email: must be a valid email"})
	}))
	defer server.Close()

	_, err := client.NewPublic(server.URL).SubmitBuddy(context.Background(), dto.BuddySubmitRequest{FullName: "A"})
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "email: must be a valid email", apiErr.Detail)
}

func TestTransportFailureIsWrapped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := client.NewPublic(server.URL).Labs(context.Background())
	require.Error(t, err)
	var apiErr *client.APIError
	require.False(t, errors.As(err, &apiErr))
	require.Contains(t, err.Error(), "/api/labs")
}

func TestBuddiesCourseFilter(t *testing.T) {
	var queries []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.RawQuery)
		writeJSON(w, http.StatusOK, []dto.BuddyResponse{})
	}))
	defer server.Close()

	public := client.NewPublic(server.URL)
	for _, course := range []string{"", "All", "K21"} {
		_, err := public.Buddies(context.Background(), course)
		require.NoError(t, err)
	}
	require.Equal(t, []string{"", "", "course=K21"}, queries)
}

func TestUpdateArticleNoChanges(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		body, _ := io.ReadAll(r.Body)
		if strings.TrimSpace(string(body)) == "{}" || !strings.Contains(string(body), "\"title\":\"") {
			writeJSON(w, http.StatusOK, map[string]string{"message": "No changes provided"})
			return
		}
		writeJSON(w, http.StatusOK, dto.ArticleResponse{ID: 9, Title: "New"})
	}))
	defer server.Close()

	admin := client.NewAdmin(server.URL, newSession(t, "a.b.c"))

	_, err := admin.UpdateArticle(context.Background(), 9, dto.ArticleUpdateRequest{})
	require.ErrorIs(t, err, client.ErrNoChanges)

	title := "New"
	article, err := admin.UpdateArticle(context.Background(), 9, dto.ArticleUpdateRequest{Title: &title})
	require.NoError(t, err)
	require.Equal(t, uint(9), article.ID)
}

func TestUploadFileSendsMultipart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)
		require.Equal(t, "issue.pdf", header.Filename)
		require.Equal(t, "%PDF-1.4", string(data))
		writeJSON(w, http.StatusOK, dto.UploadResponse{URL: "https://cdn.test/issue.pdf", FileName: header.Filename})
	}))
	defer server.Close()

	admin := client.NewAdmin(server.URL, newSession(t, "a.b.c"))
	resp, err := admin.UploadFile(context.Background(), "issue.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	require.Equal(t, "https://cdn.test/issue.pdf", resp.URL)
}

func TestAuditLogsLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "50", r.URL.Query().Get("limit"))
		writeJSON(w, http.StatusOK, []dto.AuditLogResponse{{ID: 1, Action: "delete"}})
	}))
	defer server.Close()

	logs, err := client.NewAdmin(server.URL, newSession(t, "a.b.c")).AuditLogs(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, logs, 1)
}
