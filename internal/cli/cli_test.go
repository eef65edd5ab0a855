package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/bioscizone-api/internal/client"
	"github.com/noah-isme/bioscizone-api/internal/dashboard"
	"github.com/noah-isme/bioscizone-api/internal/dto"
)

type fakeServer struct {
	*httptest.Server
	mu       sync.Mutex
	calls    []string
	settings []dto.SettingResponse
	patched  map[string]string
}

func signedToken(t *testing.T, username, role string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": username, "role": role}).SignedString([]byte("test"))
	require.NoError(t, err)
	return token
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newFakeServer(t *testing.T, role string) *fakeServer {
	t.Helper()
	srv := &fakeServer{patched: map[string]string{}}
	token := signedToken(t, "root", role)

	mux := http.NewServeMux()
	authed := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer "+token {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
				return
			}
			next(w, r)
		}
	}
	mux.HandleFunc("POST /api/admin/login", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.PostForm.Get("username") != "root" || r.PostForm.Get("password") != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect username or password"})
			return
		}
		writeJSON(w, http.StatusOK, dto.TokenResponse{AccessToken: token, TokenType: "bearer"})
	})
	mux.HandleFunc("GET /api/admin/me", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, dto.MeResponse{Username: "root", Role: role})
	}))
	mux.HandleFunc("GET /api/admin/pending", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []dto.BuddyResponse{{ID: 7, FullName: "Trần Minh", Course: "K21", ResearchTopic: "Plant genomics", Status: "pending"}})
	}))
	mux.HandleFunc("GET /api/buddies", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []dto.BuddyResponse{
			{ID: 1, FullName: "Lê Hoa", Course: "K20", ResearchTopic: "Microbiome", Status: "approved"},
			{ID: 2, FullName: "Phạm Vy", Course: "K20", ResearchTopic: "Enzyme kinetics", Status: "approved"},
		})
	})
	mux.HandleFunc("PATCH /api/admin/approve-buddy/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		srv.record("approve " + r.PathValue("id"))
		writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Buddy approved"})
	}))
	mux.HandleFunc("DELETE /api/admin/buddies/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		srv.record("delete " + r.PathValue("id"))
		writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Buddy deleted"})
	}))
	mux.HandleFunc("GET /api/admin/settings", authed(func(w http.ResponseWriter, r *http.Request) {
		srv.mu.Lock()
		defer srv.mu.Unlock()
		writeJSON(w, http.StatusOK, srv.settings)
	}))
	mux.HandleFunc("PATCH /api/admin/settings/{key}", authed(func(w http.ResponseWriter, r *http.Request) {
		var body dto.SettingUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Invalid payload"})
			return
		}
		srv.mu.Lock()
		srv.patched[r.PathValue("key")] = body.Value
		srv.mu.Unlock()
		writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Setting '" + r.PathValue("key") + "' updated"})
	}))

	srv.Server = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func (s *fakeServer) record(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
}

type runResult struct {
	stdout string
	stderr string
	err    error
}

func run(t *testing.T, srv *fakeServer, tokenFile, stdin string, args ...string) runResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCommand(strings.NewReader(stdin), &stdout, &stderr)
	root.SetArgs(append([]string{"--api", srv.URL, "--token-file", tokenFile}, args...))
	err := root.Execute()
	return runResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func TestLoginStoresTokenForLaterCommands(t *testing.T) {
	srv := newFakeServer(t, "superadmin")
	tokenFile := filepath.Join(t.TempDir(), "token")

	res := run(t, srv, tokenFile, "", "login", "-u", "root", "-p", "secret")
	require.NoError(t, res.err)
	require.Contains(t, res.stdout, "Logged in as root (superadmin).")

	res = run(t, srv, tokenFile, "", "whoami", "-o", "json")
	require.NoError(t, res.err)
	var me dto.MeResponse
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &me))
	require.Equal(t, "superadmin", me.Role)

	res = run(t, srv, tokenFile, "", "logout")
	require.NoError(t, res.err)
	res = run(t, srv, tokenFile, "", "whoami")
	require.ErrorIs(t, res.err, client.ErrSessionExpired)
}

func TestLoginPromptsForMissingCredentials(t *testing.T) {
	srv := newFakeServer(t, "admin")
	tokenFile := filepath.Join(t.TempDir(), "token")

	res := run(t, srv, tokenFile, "root\nwrong\n", "login")
	var apiErr *client.APIError
	require.ErrorAs(t, res.err, &apiErr)
	require.Equal(t, "Incorrect username or password", describe(res.err))
	require.Contains(t, res.stdout, "Username: Password: ")
}

func TestPendingBuddiesWithoutLoginPointsToLogin(t *testing.T) {
	srv := newFakeServer(t, "admin")
	res := run(t, srv, filepath.Join(t.TempDir(), "token"), "", "buddies", "list", "--pending")

	require.ErrorIs(t, res.err, client.ErrSessionExpired)
	require.Contains(t, res.stderr, "bioscictl login")
}

func TestApproveAndDeclinedDelete(t *testing.T) {
	srv := newFakeServer(t, "admin")
	tokenFile := filepath.Join(t.TempDir(), "token")
	require.NoError(t, run(t, srv, tokenFile, "", "login", "-u", "root", "-p", "secret").err)

	res := run(t, srv, tokenFile, "", "buddies", "list", "--pending")
	require.NoError(t, res.err)
	require.Contains(t, res.stdout, "Trần Minh")

	res = run(t, srv, tokenFile, "", "buddies", "approve", "7")
	require.NoError(t, res.err)
	require.Contains(t, res.stdout, "Buddy 7 approved. 0 pending.")

	res = run(t, srv, tokenFile, "n\n", "buddies", "delete", "7")
	require.ErrorIs(t, res.err, dashboard.ErrCancelled)

	res = run(t, srv, tokenFile, "", "buddies", "delete", "7", "--yes")
	require.NoError(t, res.err)
	require.Equal(t, []string{"approve 7", "delete 7"}, srv.calls)
}

func TestPublicBuddyDirectoryFiltersLocally(t *testing.T) {
	srv := newFakeServer(t, "admin")
	res := run(t, srv, filepath.Join(t.TempDir(), "token"), "", "buddies", "list", "--search", "enzyme")

	require.NoError(t, res.err)
	require.Contains(t, res.stdout, "Phạm Vy")
	require.NotContains(t, res.stdout, "Lê Hoa")
}

func TestSettingsToggleRequiresSuperadmin(t *testing.T) {
	srv := newFakeServer(t, "superadmin")
	srv.settings = []dto.SettingResponse{{Key: "registration_enabled", Value: "false"}}
	tokenFile := filepath.Join(t.TempDir(), "token")
	require.NoError(t, run(t, srv, tokenFile, "", "login", "-u", "root", "-p", "secret").err)

	res := run(t, srv, tokenFile, "", "settings", "toggle", "registration_enabled")
	require.NoError(t, res.err)
	require.Contains(t, res.stdout, "registration_enabled = true")
	require.Equal(t, "true", srv.patched["registration_enabled"])

	plain := newFakeServer(t, "admin")
	plainToken := filepath.Join(t.TempDir(), "token")
	require.NoError(t, run(t, plain, plainToken, "", "login", "-u", "root", "-p", "secret").err)
	res = run(t, plain, plainToken, "", "settings", "toggle", "registration_enabled")
	require.ErrorIs(t, res.err, dashboard.ErrTabUnavailable)
	require.Empty(t, plain.patched)
}

func TestArticleUpdateNeedsAField(t *testing.T) {
	srv := newFakeServer(t, "admin")
	res := run(t, srv, filepath.Join(t.TempDir(), "token"), "", "articles", "update", "3")
	require.EqualError(t, res.err, "nothing to update")
}
