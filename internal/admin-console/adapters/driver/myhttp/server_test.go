package myhttp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nolsaf-admin/internal/admin-console/adapters/driven/api"
	"nolsaf-admin/internal/admin-console/adapters/driven/db"
	"nolsaf-admin/internal/admin-console/adapters/driven/render"
	"nolsaf-admin/internal/admin-console/core/domain/model"
	"nolsaf-admin/internal/apiclient"
	"nolsaf-admin/internal/config"
	"nolsaf-admin/internal/mylogger"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "console-secret"

func token(t *testing.T, role string, exp time.Time) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "u1",
		"role":    role,
		"exp":     exp.Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

type fixture struct {
	console *httptest.Server
	journal *db.MemoryJournal
	auth    chan string
}

func newFixture(t *testing.T, secret string) *fixture {
	t.Helper()
	f := &fixture{journal: db.NewMemoryJournal(100), auth: make(chan string, 16)}

	backend := http.NewServeMux()
	backend.HandleFunc("GET /api/admin/bookings", func(w http.ResponseWriter, r *http.Request) {
		f.auth <- r.Header.Get("Authorization")
		writeJSON(w, map[string]any{
			"items": []map[string]any{
				{"id": 1, "code": "BK-1", "guestName": "<script>x</script>", "status": "CONFIRMED", "totalAmount": "1000"},
			},
			"total": 1,
		})
	})
	backend.HandleFunc("GET /api/admin/group-stays/bookings", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		writeJSON(w, map[string]any{"error": "group stays offline"})
	})
	backend.HandleFunc("GET /api/admin/plan-with-us/requests", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"items": []any{}, "total": 0})
	})
	backend.HandleFunc("GET /api/admin/payments/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "7" {
			w.WriteHeader(http.StatusNotFound)
			writeJSON(w, map[string]any{"error": "Payment not found"})
			return
		}
		writeJSON(w, map[string]any{"data": map[string]any{
			"id": 7, "invoiceNumber": "INV-7", "receiptNumber": "RCPT-7", "amount": "150000",
			"currency": "TZS", "status": "PAID", "accountNumber": "1234567890", "payerPhone": "+255712345678",
		}})
	})
	backend.HandleFunc("GET /api/admin/payments/{id}/receipt-qr", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	backend.HandleFunc("GET /api/admin/payments/export.csv", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "paid", r.URL.Query().Get("status"))
		assert.Equal(t, "1,3", r.URL.Query().Get("ids"))
		w.Header().Set("Content-Type", "text/csv")
		_, _ = io.WriteString(w, "id,amount\n1,100\n3,300\n")
	})
	backendSrv := httptest.NewServer(backend)
	t.Cleanup(backendSrv.Close)

	log := mylogger.NewWithWriter(mylogger.LevelError, io.Discard)
	client := apiclient.New(backendSrv.URL, 5*time.Second, nil, log)
	renderer, err := render.New(log)
	require.NoError(t, err)

	cfg := &config.Config{Srv: &config.Serviceconfig{
		CompanyName:   "NoLSAF",
		PublicBaseURL: "http://console.test",
		JWTSecret:     secret,
	}}
	bookings := api.NewBookingsGateway(client)
	srv := NewServer(context.Background(), log, cfg, Deps{
		Bookings: bookings,
		Payments: api.NewPaymentsGateway(client),
		Reports:  renderer,
		Receipts: renderer,
		Journal:  f.journal,
	})
	f.console = httptest.NewServer(srv.Handler())
	t.Cleanup(f.console.Close)
	return f
}

func (f *fixture) get(t *testing.T, path, tok string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, f.console.URL+path, nil)
	require.NoError(t, err)
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

func TestHealthzNeedsNoToken(t *testing.T) {
	f := newFixture(t, "")
	resp := f.get(t, "/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), `"status":"ok"`)
}

func TestAuthMiddlewareRejects(t *testing.T) {
	f := newFixture(t, "")
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{name: "missing token", token: "", want: http.StatusUnauthorized},
		{name: "garbage token", token: "not-a-jwt", want: http.StatusUnauthorized},
		{name: "customer role", token: token(t, "CUSTOMER", future), want: http.StatusForbidden},
		{name: "expired admin", token: token(t, "ADMIN", time.Now().Add(-time.Hour)), want: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := f.get(t, "/journal", tt.token)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestAuthMiddlewareVerifiesSignatureWhenSecretSet(t *testing.T) {
	f := newFixture(t, "another-secret")
	resp := f.get(t, "/journal", token(t, "ADMIN", time.Now().Add(time.Hour)))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	f = newFixture(t, testSecret)
	resp = f.get(t, "/journal", token(t, "ADMIN", time.Now().Add(time.Hour)))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPrintReportForwardsTokenAndEscapes(t *testing.T) {
	f := newFixture(t, "")
	tok := token(t, "ADMIN", time.Now().Add(time.Hour))

	resp := f.get(t, "/reports/bookings/print?from=2025-01-01&to=2025-01-31", tok)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	html := body(t, resp)
	assert.Contains(t, html, "Owner bookings")
	assert.Contains(t, html, "group stays offline")
	assert.NotContains(t, html, "<script>x</script>")
	assert.Equal(t, "Bearer "+tok, <-f.auth)
}

func TestPrintReportRejectsBadRange(t *testing.T) {
	f := newFixture(t, "")
	resp := f.get(t, "/reports/bookings/print?from=2025-02-01&to=2025-01-01", token(t, "ADMIN", time.Now().Add(time.Hour)))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReportXLSXDownload(t *testing.T) {
	f := newFixture(t, "")
	resp := f.get(t, "/reports/bookings.xlsx?from=2025-01-01&to=2025-01-31", token(t, "ADMIN", time.Now().Add(time.Hour)))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, xlsxContentTypeForTest, resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "bookings-2025-01-01-2025-01-31.xlsx")
	assert.True(t, strings.HasPrefix(body(t, resp), "PK"))
}

const xlsxContentTypeForTest = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func TestReceiptRoutes(t *testing.T) {
	f := newFixture(t, "")
	tok := token(t, "ADMIN", time.Now().Add(time.Hour))

	resp := f.get(t, "/payments/7/receipt.pdf", tok)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.True(t, strings.HasPrefix(body(t, resp), "%PDF"))

	resp = f.get(t, "/payments/7/receipt", tok)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	html := body(t, resp)
	assert.Contains(t, html, "123*****90")
	assert.Contains(t, html, "071*****78")
	assert.Contains(t, html, "/api/admin/payments/7/receipt-qr")

	resp = f.get(t, "/payments/abc/receipt", tok)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.get(t, "/payments/9/receipt.pdf", tok)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body(t, resp), "Payment not found")
}

func TestExportCSV(t *testing.T) {
	f := newFixture(t, "")
	tok := token(t, "ADMIN", time.Now().Add(time.Hour))

	resp := f.get(t, "/payments/export.csv?status=paid&ids=1,3", tok)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, "id,amount\n1,100\n3,300\n", body(t, resp))

	resp = f.get(t, "/payments/export.csv?ids=1,x", tok)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.get(t, "/payments/export.csv?status=refunded", tok)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestJournalListsRecentActions(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	require.NoError(t, f.journal.Record(ctx, model.JournalEntry{Action: "trip.cancel", Entity: "trip", EntityID: 4, Outcome: model.OutcomeSucceeded}))
	require.NoError(t, f.journal.Record(ctx, model.JournalEntry{Action: "payment.mark_paid", Entity: "payment", EntityID: 9, Outcome: model.OutcomeFailed}))

	resp := f.get(t, "/journal?limit=1", token(t, "ADMIN", time.Now().Add(time.Hour)))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Items []model.JournalEntry `json:"items"`
		Total int                  `json:"total"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Items, 1)
	assert.Equal(t, "payment.mark_paid", out.Items[0].Action)

	resp = f.get(t, "/journal?limit=0", token(t, "ADMIN", time.Now().Add(time.Hour)))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
