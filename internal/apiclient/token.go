package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt"
)

// TokenKeys are checked in order, first in storage and then as cookie names.
var TokenKeys = []string{"token", "nolsaf_token", "__Host-nolsaf_token"}

// Storage is the key/value store the console keeps its session token in.
type Storage interface {
	Get(key string) (string, bool)
}

// TokenResolver finds the bearer token for outgoing requests.
type TokenResolver struct {
	storage Storage
	jar     http.CookieJar
	base    *url.URL
}

// NewTokenResolver returns a resolver. A nil storage marks a headless context in
// which no token is ever resolved.
func NewTokenResolver(storage Storage, jar http.CookieJar, baseURL string) *TokenResolver {
	base, _ := url.Parse(baseURL)
	return &TokenResolver{
		storage: storage,
		jar:     jar,
		base:    base,
	}
}

// Headless reports whether the resolver has no storage to read from.
func (r *TokenResolver) Headless() bool {
	return r == nil || r.storage == nil
}

// Resolve returns the first non-empty token from storage keys, then cookies.
func (r *TokenResolver) Resolve() (string, bool) {
	if r.Headless() {
		return "", false
	}

	for _, key := range TokenKeys {
		if val, ok := r.storage.Get(key); ok && val != "" {
			return val, true
		}
	}

	if r.jar == nil || r.base == nil {
		return "", false
	}
	cookies := r.jar.Cookies(r.base)
	for _, key := range TokenKeys {
		for _, c := range cookies {
			if c.Name == key && c.Value != "" {
				return c.Value, true
			}
		}
	}
	return "", false
}

// FileStorage keeps string values in a JSON object on disk. It is re-read on every
// Get so a token written by another process is picked up on the next request.
type FileStorage struct {
	path string
	mu   sync.Mutex
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

func (s *FileStorage) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return "", false
	}
	val, ok := values[key]
	return val, ok
}

// Set stores value under key, creating the file when needed.
func (s *FileStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if values == nil {
		values = map[string]string{}
	}
	values[key] = value
	return s.write(values)
}

// Delete removes key.
func (s *FileStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	delete(values, key)
	return s.write(values)
}

func (s *FileStorage) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decode storage %s: %w", s.path, err)
	}
	return values, nil
}

func (s *FileStorage) write(values map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// MapStorage is an in-memory Storage.
type MapStorage map[string]string

func (m MapStorage) Get(key string) (string, bool) {
	val, ok := m[key]
	return val, ok
}

type tokenCtxKey struct{}

// WithToken attaches a per-request token that wins over the client default header.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenCtxKey{}, token)
}

func tokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenCtxKey{}).(string)
	return token, ok && token != ""
}

// Claims is the subset of the session JWT the console reads.
type Claims struct {
	UserID    string
	Role      string
	ExpiresAt time.Time
}

// Expired reports whether the token carries an exp in the past.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && c.ExpiresAt.Before(now)
}

// ParseClaims decodes the token payload without verifying the signature; the
// backend is the one that verifies.
func ParseClaims(token string) (Claims, error) {
	parsed, _, err := new(jwt.Parser).ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return Claims{}, fmt.Errorf("parse token: %w", err)
	}
	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, errors.New("unexpected claims type")
	}

	var claims Claims
	for _, key := range []string{"user_id", "sub", "id"} {
		if v, ok := mc[key]; ok && v != nil {
			claims.UserID = fmt.Sprint(v)
			break
		}
	}
	if role, ok := mc["role"].(string); ok {
		claims.Role = role
	}
	if exp, ok := mc["exp"].(float64); ok {
		claims.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return claims, nil
}
