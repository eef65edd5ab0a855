package session

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultRole is reported for tokens that carry no role claim.
const DefaultRole = "admin"

// TokenStore persists the bearer token under a single fixed key.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// Session owns the dashboard bearer token. It is passed explicitly to the
// client, the dashboard workflow and the CLI.
type Session struct {
	mu    sync.RWMutex
	store TokenStore
	token string
}

// New loads any persisted token from the store.
func New(store TokenStore) (*Session, error) {
	if store == nil {
		store = NewMemoryStore()
	}
	token, err := store.Load()
	if err != nil {
		return nil, err
	}
	return &Session{store: store, token: strings.TrimSpace(token)}, nil
}

// SetToken stores a freshly issued token.
func (s *Session) SetToken(token string) error {
	token = strings.TrimSpace(token)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Save(token); err != nil {
		return err
	}
	s.token = token
	return nil
}

// Token returns the stored token or an empty string.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// RemoveToken forgets the token, in memory even when the store fails.
func (s *Session) RemoveToken() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return s.store.Clear()
}

// IsLoggedIn is a presence check only. Expiry is left to the server.
func (s *Session) IsLoggedIn() bool {
	return s.Token() != ""
}

// Role decodes the role of the stored token. ok is false when there is no
// token or it cannot be decoded.
func (s *Session) Role() (role string, ok bool) {
	token := s.Token()
	if token == "" {
		return "", false
	}
	return RoleFromToken(token)
}

// RoleFromToken reads the role claim from the payload segment alone. The
// header and signature are not inspected; the result only decides what the UI
// offers and the server authorises every call.
func RoleFromToken(token string) (string, bool) {
	parts := strings.Split(strings.TrimSpace(token), ".")
	if len(parts) < 2 {
		return "", false
	}
	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return "", false
	}
	claims := jwt.MapClaims{}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return "", false
	}
	if role, isString := claims["role"].(string); isString && strings.TrimSpace(role) != "" {
		return strings.TrimSpace(role), true
	}
	return DefaultRole, true
}
