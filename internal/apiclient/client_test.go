package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"nolsaf-admin/internal/mylogger"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() mylogger.Logger {
	return mylogger.NewWithWriter(mylogger.LevelError, io.Discard)
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return token
}

func TestResolveOrder(t *testing.T) {
	storage := MapStorage{"nolsaf_token": "second", "__Host-nolsaf_token": "third"}
	r := NewTokenResolver(storage, nil, "http://api.local")

	token, ok := r.Resolve()
	require.True(t, ok)
	assert.Equal(t, "second", token)

	storage["token"] = "first"
	token, _ = r.Resolve()
	assert.Equal(t, "first", token)
}

func TestResolveFallsBackToCookie(t *testing.T) {
	c := New("http://api.local", time.Second, MapStorage{}, testLogger())
	u, _ := url.Parse("http://api.local")
	c.Jar().SetCookies(u, []*http.Cookie{{Name: "nolsaf_token", Value: "from-cookie"}})

	token, ok := c.Tokens().Resolve()
	require.True(t, ok)
	assert.Equal(t, "from-cookie", token)
}

func TestApplyAuthHeadlessIsNoop(t *testing.T) {
	c := New("http://api.local", time.Second, nil, testLogger())

	assert.False(t, c.ApplyAuth())
	assert.Empty(t, c.DefaultHeader("Authorization"))
}

func TestApplyAuthSetsDefaultHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, MapStorage{"token": "abc"}, testLogger())
	require.True(t, c.ApplyAuth())

	var out map[string]bool
	require.NoError(t, c.GetJSON(context.Background(), "/ping", nil, &out))
	assert.Equal(t, "Bearer abc", gotAuth)
	assert.True(t, out["ok"])
}

func TestContextTokenWins(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, MapStorage{"token": "default"}, testLogger())
	c.ApplyAuth()

	require.NoError(t, c.GetJSON(WithToken(context.Background(), "caller"), "/", nil, nil))
	assert.Equal(t, "Bearer caller", gotAuth)
}

func TestErrorBodyIsParsed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "role_mismatch", "message": "Account role differs"})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, nil, testLogger())
	err := c.PostJSON(context.Background(), "/x", map[string]string{"a": "b"}, nil)

	require.Error(t, err)
	assert.True(t, HasCode(err, "role_mismatch"))
	assert.Equal(t, "Account role differs", Message(err, "fallback"))
}

func TestPlainErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, nil, testLogger())
	err := c.GetJSON(context.Background(), "/x", nil, nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "fallback", Message(err, "fallback"))
}

func TestDataEnvelopeIsUnwrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"id":7,"name":"Amina"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, nil, testLogger())
	var out struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, c.GetJSON(context.Background(), "/", nil, &out))
	assert.Equal(t, 7, out.ID)
	assert.Equal(t, "Amina", out.Name)
}

func TestMultipartCarriesFieldsAndFiles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Juma", r.FormValue("name"))
		f, hdr, err := r.FormFile("licenseFile")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "license.pdf", hdr.Filename)
		assert.Equal(t, "PDF", string(data))
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, nil, testLogger())
	err := c.PostMultipart(context.Background(), "/profile",
		map[string]string{"name": "Juma"},
		[]FilePart{{Field: "licenseFile", Filename: "license.pdf", Data: []byte("PDF")}},
		nil)
	require.NoError(t, err)
}

func TestParseID(t *testing.T) {
	id, err := ParseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"0", "-3", "abc", "", "1.5"} {
		_, err := ParseID(raw)
		assert.ErrorIs(t, err, ErrInvalidID, raw)
	}
}

func TestParseClaims(t *testing.T) {
	exp := time.Now().Add(-time.Hour).Unix()
	token := signedToken(t, jwt.MapClaims{"user_id": "u1", "role": "ADMIN", "exp": exp})

	claims, err := ParseClaims(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.True(t, claims.Expired(time.Now()))
}

func TestFileStorageRoundTrip(t *testing.T) {
	s := NewFileStorage(filepath.Join(t.TempDir(), "nested", "storage.json"))

	_, ok := s.Get("token")
	assert.False(t, ok)

	require.NoError(t, s.Set("token", "abc"))
	val, ok := s.Get("token")
	assert.True(t, ok)
	assert.Equal(t, "abc", val)

	require.NoError(t, s.Delete("token"))
	_, ok = s.Get("token")
	assert.False(t, ok)
}
