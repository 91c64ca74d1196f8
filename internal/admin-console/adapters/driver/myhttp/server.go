package myhttp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"nolsaf-admin/internal/admin-console/adapters/driver/myhttp/handle"
	"nolsaf-admin/internal/admin-console/adapters/driver/myhttp/middleware"
	"nolsaf-admin/internal/admin-console/core/ports"
	"nolsaf-admin/internal/config"
	"nolsaf-admin/internal/mylogger"
)

const WaitTime = 10

// Deps are the driven adapters the console server reads from.
type Deps struct {
	Bookings ports.IBookingsGateway
	Payments ports.IPaymentsGateway
	Reports  ports.IReportRenderer
	Receipts ports.IReceiptRenderer
	Journal  ports.IJournalReader
	// DB is optional; when set /healthz reports its liveness.
	DB ports.IDB
}

type Server struct {
	mux   *http.ServeMux
	cfg   *config.Config
	srv   *http.Server
	mylog mylogger.Logger
	deps  Deps
	ctx   context.Context
	mu    sync.Mutex
	once  sync.Once
}

func NewServer(ctx context.Context, mylog mylogger.Logger, cfg *config.Config, deps Deps) *Server {
	return &Server{
		ctx:   ctx,
		cfg:   cfg,
		mylog: mylog.With("component", "console_server"),
		deps:  deps,
		mux:   http.NewServeMux(),
	}
}

// Run registers the routes and listens until ctx is done or the listener fails.
func (s *Server) Run() error {
	s.mu.Lock()
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%v", s.cfg.Srv.ConsolePort),
		Handler:           s.Handler(),
		ReadHeaderTimeout: WaitTime * time.Second,
	}
	s.mu.Unlock()

	s.mylog.Action("server_started").WithGroup("details").With("port", s.cfg.Srv.ConsolePort).Info("console server is running")
	return s.startHTTPServer()
}

// Stop shuts the listener down, waiting at most WaitTime seconds for requests.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mylog.Action("graceful_shutdown_started").Info("Shutting down HTTP server...")

	if s.srv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, WaitTime*time.Second)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.mylog.Action("graceful_shutdown_failed").Error("Failed to shut down HTTP server gracefully", err)
			return fmt.Errorf("http server shutdown: %w", err)
		}
	}

	s.mylog.Action("graceful_shutdown_completed").Info("HTTP server shut down gracefully")
	return nil
}

// Handler returns the routed mux, registering the routes on first use.
func (s *Server) Handler() http.Handler {
	s.once.Do(s.Configure)
	return s.mux
}

func (s *Server) startHTTPServer() error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		} else {
			errCh <- nil
		}
	}()

	select {
	case <-s.ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Configure sets up the report, receipt, export and journal routes.
func (s *Server) Configure() {
	reportHandler := handle.NewReportHandler(s.mylog, s.deps.Bookings, s.deps.Reports, s.cfg.Srv.CompanyName, s.cfg.Srv.PublicBaseURL)
	paymentHandler := handle.NewPaymentHandler(s.mylog, s.deps.Payments, s.deps.Receipts, s.cfg.Srv.CompanyName)
	journalHandler := handle.NewJournalHandler(s.mylog, s.deps.Journal)

	authMiddleware := middleware.NewAuthMiddleware(s.cfg.Srv.JWTSecret)

	s.mux.HandleFunc("GET /healthz", s.health)
	s.mux.Handle("GET /reports/bookings/print", authMiddleware.Wrap(reportHandler.Print()))
	s.mux.Handle("GET /reports/bookings.xlsx", authMiddleware.Wrap(reportHandler.XLSX()))
	s.mux.Handle("GET /payments/export.csv", authMiddleware.Wrap(paymentHandler.ExportCSV()))
	s.mux.Handle("GET /payments/{id}/receipt", authMiddleware.Wrap(paymentHandler.Receipt()))
	s.mux.Handle("GET /payments/{id}/receipt.pdf", authMiddleware.Wrap(paymentHandler.ReceiptPDF()))
	s.mux.Handle("GET /journal", authMiddleware.Wrap(journalHandler.Recent()))
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok"}
	if s.deps.DB != nil {
		if err := s.deps.DB.IsAlive(); err != nil {
			status["status"] = "degraded"
			status["db"] = err.Error()
			handle.JsonResponse(w, http.StatusServiceUnavailable, status)
			return
		}
		status["db"] = "ok"
	}
	handle.JsonResponse(w, http.StatusOK, status)
}
