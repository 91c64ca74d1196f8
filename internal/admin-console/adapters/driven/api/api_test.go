package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"nolsaf-admin/internal/admin-console/core/domain/dto"
	"nolsaf-admin/internal/admin-console/core/domain/model"
	"nolsaf-admin/internal/admin-console/core/views"
	"nolsaf-admin/internal/apiclient"
	"nolsaf-admin/internal/mylogger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, mux *http.ServeMux) *apiclient.Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	log := mylogger.NewWithWriter(mylogger.LevelError, io.Discard)
	return apiclient.New(srv.URL, 5*time.Second, apiclient.MapStorage{"token": "admin-token"}, log)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestAgentsPageAndDetailEndToEnd(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/admin/agents", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer admin-token", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		writeJSON(w, map[string]any{
			"items": []map[string]any{{"id": 1, "status": "ACTIVE", "user": map[string]any{"id": 10, "name": "Asha Mushi"}}},
			"total": 1, "page": 1, "pageSize": 30,
		})
	})
	mux.HandleFunc("GET /api/admin/agents/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.PathValue("id"))
		writeJSON(w, map[string]any{"data": map[string]any{
			"id": 1, "status": "ACTIVE", "user": map[string]any{"id": 10, "name": "Asha Mushi"},
			"promotionProgress": map[string]any{
				"requestsProgress": 140, "ratingProgress": 220, "reviewsProgress": 180,
				"revenueProgress": 300, "experienceProgress": 150,
			},
		}})
	})
	client := newClient(t, mux)
	log := mylogger.NewWithWriter(mylogger.LevelError, io.Discard)

	v := views.NewAgentsView(NewAgentsGateway(client), client, nil, log)
	defer v.Close()
	ctx := context.Background()

	require.NoError(t, v.Mount(ctx))
	rows := v.List.Visible()
	require.Len(t, rows, 1)
	assert.Equal(t, "Asha Mushi", rows[0].Name())
	assert.Equal(t, model.AgentActive, rows[0].Status)

	require.NoError(t, v.ViewDetails(ctx, "1"))
	agent := v.Detail.Item()
	assert.Equal(t, "Asha Mushi", agent.Name())
	require.NotNil(t, agent.PromotionProgress)
	assert.InDelta(t, 100.0, agent.PromotionProgress.Overall(), 1e-9)
}

func TestTripsCanceledFilterEndToEnd(t *testing.T) {
	var mu sync.Mutex
	var lastQuery string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/admin/drivers/trips", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		lastQuery = r.URL.RawQuery
		mu.Unlock()
		if r.URL.Query().Get("status") == "CANCELED" {
			writeJSON(w, map[string]any{"items": []any{}, "total": 0})
			return
		}
		writeJSON(w, map[string]any{
			"items": []map[string]any{{"id": 5, "tripCode": "TRP-5", "status": "PENDING", "amount": "12000"}},
			"total": 90,
		})
	})
	client := newClient(t, mux)
	v := views.NewTripsView(NewTripsGateway(client), client, nil, mylogger.NewWithWriter(mylogger.LevelError, io.Discard))
	ctx := context.Background()

	require.NoError(t, v.Mount(ctx))
	require.Len(t, v.Rows(), 1)
	assert.True(t, v.Rows()[0].Amount.Equal(decimal.NewFromInt(12000)))
	v.List.SetPage(3)

	require.NoError(t, v.SetStatus(ctx, "CANCELED"))
	mu.Lock()
	assert.Contains(t, lastQuery, "status=CANCELED")
	assert.Contains(t, lastQuery, "page=1")
	mu.Unlock()
	assert.True(t, v.Empty())
	assert.Empty(t, v.Histogram())
}

func TestTripActionsPostReason(t *testing.T) {
	var got dto.ReasonRequest
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/admin/drivers/trips/{id}/cancel", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, dto.ActionResponse{OK: true})
	})
	mux.HandleFunc("POST /api/admin/drivers/trips/{id}/unassign", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		writeJSON(w, map[string]any{"error": "Trip already completed"})
	})
	g := NewTripsGateway(newClient(t, mux))
	ctx := context.Background()

	require.NoError(t, g.CancelTrip(ctx, 9, dto.ReasonRequest{Reason: "passenger requested"}))
	assert.Equal(t, "passenger requested", got.Reason)

	err := g.UnassignTrip(ctx, 9, dto.ReasonRequest{Reason: "x"})
	require.Error(t, err)
	assert.Equal(t, "Trip already completed", apiclient.Message(err, "fallback"))
}

func TestPaymentsGateway(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/admin/payments/summary", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"waiting": 4, "paid": 11})
	})
	mux.HandleFunc("POST /api/admin/payments/{id}/mark-paid", func(w http.ResponseWriter, r *http.Request) {
		var req dto.MarkPaidRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "MPESA-77", req.Reference)
		writeJSON(w, dto.ActionResponse{OK: true})
	})
	mux.HandleFunc("GET /api/admin/payments/export.csv", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1,2", r.URL.Query().Get("ids"))
		w.Header().Set("Content-Type", "text/csv")
		_, _ = io.WriteString(w, "id,amount\n1,10\n2,20\n")
	})
	mux.HandleFunc("GET /api/admin/payments/{id}/receipt-qr", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") == "2" {
			w.Header().Set("Content-Type", "text/html")
			_, _ = io.WriteString(w, "<html></html>")
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	})
	client := newClient(t, mux)
	g := NewPaymentsGateway(client)
	ctx := context.Background()

	s, err := g.Summary(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentSummary{Waiting: 4, Paid: 11}, s)

	require.NoError(t, g.MarkPaid(ctx, 3, dto.MarkPaidRequest{Reference: "MPESA-77"}))

	body, err := g.ExportCSV(ctx, map[string][]string{"ids": {"1,2"}})
	require.NoError(t, err)
	data, _ := io.ReadAll(body)
	body.Close()
	assert.Equal(t, "id,amount\n1,10\n2,20\n", string(data))

	img, contentType, err := g.ReceiptQR(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, png, img)
	assert.Equal(t, "image/png", contentType)

	_, _, err = g.ReceiptQR(ctx, 2)
	assert.Error(t, err)
	assert.True(t, strings.HasSuffix(g.ReceiptQRURL(2), "/api/admin/payments/2/receipt-qr"))
}

func TestOnboardingSubmitMultipart(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/account/onboarding/profile", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "AGENT42", r.FormValue("ref"))
		f, hdr, err := r.FormFile("drivingLicense")
		if assert.NoError(t, err) {
			defer f.Close()
			assert.Equal(t, "license.jpg", hdr.Filename)
		}
		writeJSON(w, map[string]any{"ok": true, "redirect": "/driver/dashboard"})
	})
	mux.HandleFunc("POST /api/auth/verify-otp", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(w, map[string]any{"error": "invalid_otp", "message": "Code expired"})
	})
	g := NewOnboardingGateway(newClient(t, mux))
	ctx := context.Background()

	resp, err := g.SubmitProfile(ctx, map[string]string{"ref": "AGENT42"}, []dto.Upload{
		{Field: "drivingLicense", Filename: "license.jpg", Data: []byte("jpg")},
	})
	require.NoError(t, err)
	assert.Equal(t, "/driver/dashboard", resp.Redirect)

	err = g.VerifyOTP(ctx, dto.VerifyOTPRequest{Phone: "0765012370", OTP: "1"})
	assert.True(t, apiclient.HasCode(err, "invalid_otp"))
	assert.Equal(t, "Code expired", apiclient.Message(err, ""))
}

func TestReportCollectionsOverHTTP(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/admin/bookings", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2024-05-01", r.URL.Query().Get("from"))
		assert.Equal(t, "100", r.URL.Query().Get("pageSize"))
		writeJSON(w, map[string]any{"items": []map[string]any{{"id": 1, "status": "CONFIRMED", "totalAmount": "50000"}}, "total": 1})
	})
	mux.HandleFunc("GET /api/admin/group-stays/bookings", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("GET /api/admin/plan-with-us/requests", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"items": []any{}, "total": 0})
	})
	client := newClient(t, mux)
	v := views.NewReportsView(NewBookingsGateway(client), client, mylogger.NewWithWriter(mylogger.LevelError, io.Discard))

	from, to, err := views.ParseRange("2024-05-01", "2024-05-31")
	require.NoError(t, err)
	report, err := v.Build(context.Background(), from, to)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Collections[0].Total())
	assert.Error(t, report.Collections[1].Err)
	assert.NoError(t, report.Collections[2].Err)
	assert.Equal(t, 1, report.GrandTotal())
}
