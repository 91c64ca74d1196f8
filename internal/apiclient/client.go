package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"nolsaf-admin/internal/mylogger"

	"github.com/google/uuid"
)

const maxErrorBody = 64 << 10

// Client is the HTTP client shared by every view. Its default headers are
// process-wide state; ApplyAuth mutates them.
type Client struct {
	baseURL string
	client  *http.Client
	tokens  *TokenResolver
	mylog   mylogger.Logger

	mu      sync.RWMutex
	headers http.Header
}

// New builds a client for baseURL. A nil storage marks a headless context in which
// ApplyAuth never installs a token.
func New(baseURL string, timeout time.Duration, storage Storage, mylog mylogger.Logger) *Client {
	jar, _ := cookiejar.New(nil)
	baseURL = strings.TrimRight(baseURL, "/")

	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Jar:     jar,
			Timeout: timeout,
		},
		tokens:  NewTokenResolver(storage, jar, baseURL),
		mylog:   mylog,
		headers: http.Header{"Accept": []string{"application/json"}},
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Jar exposes the cookie jar so a session cookie can be seeded.
func (c *Client) Jar() http.CookieJar {
	return c.client.Jar
}

// Tokens returns the resolver used by ApplyAuth.
func (c *Client) Tokens() *TokenResolver {
	return c.tokens
}

// SetDefaultHeader sets a header sent with every request.
func (c *Client) SetDefaultHeader(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.headers.Set(key, value)
}

// DefaultHeader returns the current value of a default header.
func (c *Client) DefaultHeader(key string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.headers.Get(key)
}

// ApplyAuth resolves the session token and installs it as the default
// Authorization header. It reports whether a token was found. In a headless
// context it does nothing.
func (c *Client) ApplyAuth() bool {
	if c.tokens.Headless() {
		return false
	}
	token, ok := c.tokens.Resolve()
	if !ok {
		c.mylog.Action("auth_token_missing").Debug("no session token found, requests go unauthenticated")
		return false
	}

	if claims, err := ParseClaims(token); err == nil && claims.Expired(time.Now()) {
		c.mylog.Action("auth_token_expired").Warn("session token is expired", "expired_at", claims.ExpiresAt)
	}

	c.SetDefaultHeader("Authorization", "Bearer "+token)
	return true
}

// URL joins path and query onto the base url.
func (c *Client) URL(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// GetJSON issues a GET and decodes the response into out.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, query, nil, out)
}

// PostJSON issues a POST with a JSON body and decodes the response into out.
func (c *Client) PostJSON(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		reader = bytes.NewReader(bodyBytes)
	}

	req, err := c.newRequest(ctx, method, path, query, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	data, err := c.do(req)
	if err != nil {
		return err
	}
	return decodeBody(data, out)
}

// FilePart is one file field of a multipart upload.
type FilePart struct {
	Field    string
	Filename string
	Data     []byte
}

// PostMultipart sends fields and files as multipart/form-data.
func (c *Client) PostMultipart(ctx context.Context, path string, fields map[string]string, files []FilePart, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := mw.WriteField(k, fields[k]); err != nil {
			return fmt.Errorf("write field %s: %w", k, err)
		}
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			return fmt.Errorf("create file field %s: %w", f.Field, err)
		}
		if _, err := fw.Write(f.Data); err != nil {
			return fmt.Errorf("write file field %s: %w", f.Field, err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("close multipart: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, nil, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	data, err := c.do(req)
	if err != nil {
		return err
	}
	return decodeBody(data, out)
}

// Stream issues a GET and hands back the body unread. The caller closes it.
func (c *Client) Stream(ctx context.Context, path string, query url.Values) (io.ReadCloser, string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Accept", "*/*")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("executing request: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		defer resp.Body.Close()
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, "", parseAPIError(resp.StatusCode, data)
	}
	return resp.Body, resp.Header.Get("Content-Type"), nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.URL(path, query), body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	c.mu.RLock()
	for key, values := range c.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	c.mu.RUnlock()

	if token, ok := tokenFromContext(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	mylog := c.mylog.With("method", req.Method, "path", req.URL.Path, "request_id", req.Header.Get("X-Request-ID"))

	resp, err := c.client.Do(req)
	if err != nil {
		mylog.Action("request_failed").Debug("request failed", "error", err.Error())
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := parseAPIError(resp.StatusCode, data)
		mylog.Action("request_rejected").Debug("backend returned error", "status", resp.StatusCode, "message", apiErr.Message)
		return nil, apiErr
	}

	mylog.Debug("request done", "status", resp.StatusCode)
	return data, nil
}

// decodeBody unmarshals data into out, unwrapping a {data: ...} envelope.
func decodeBody(data []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err == nil {
		_, hasItems := envelope["items"]
		if inner, ok := envelope["data"]; ok && !hasItems && len(inner) > 0 && string(inner) != "null" {
			data = inner
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// ParseID validates a client-supplied entity id before any request is issued.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return id, nil
}
