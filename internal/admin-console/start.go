package adminconsole

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"nolsaf-admin/internal/admin-console/adapters/driven/api"
	"nolsaf-admin/internal/admin-console/adapters/driven/bm"
	"nolsaf-admin/internal/admin-console/adapters/driven/db"
	"nolsaf-admin/internal/admin-console/adapters/driven/render"
	"nolsaf-admin/internal/admin-console/adapters/driven/ws"
	"nolsaf-admin/internal/admin-console/adapters/driver/myhttp"
	"nolsaf-admin/internal/admin-console/core/ports"
	"nolsaf-admin/internal/apiclient"
	"nolsaf-admin/internal/config"
	"nolsaf-admin/internal/mylogger"
)

const (
	TransportWS   = "ws"
	TransportAMQP = "amqp"
	TransportNone = "none"

	memoryJournalSize = 1000
)

var ErrUnknownTransport = errors.New("unknown events transport")

// Journal records admin actions and lists them back.
type Journal interface {
	ports.IActionJournal
	ports.IJournalReader
}

// App holds the shared client and the adapters every console command uses.
type App struct {
	Cfg     *config.Config
	Log     mylogger.Logger
	Client  *apiclient.Client
	Storage *apiclient.FileStorage

	Agents       *api.AgentsGateway
	DriverLevels *api.DriverLevelsGateway
	Trips        *api.TripsGateway
	Bookings     *api.BookingsGateway
	Payments     *api.PaymentsGateway
	Onboarding   *api.OnboardingGateway
	Renderer     *render.Renderer
	Journal      Journal

	db *db.DB
}

// New wires the console. The journal goes to Postgres when DB_ENABLED is set
// and falls back to memory if the database cannot be reached.
func New(ctx context.Context, mylog mylogger.Logger, cfg *config.Config) (*App, error) {
	storage := apiclient.NewFileStorage(cfg.Storage.File)
	client := apiclient.New(cfg.API.BaseURL, cfg.API.Timeout, storage, mylog.With("component", "api_client"))

	renderer, err := render.New(mylog)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	app := &App{
		Cfg:          cfg,
		Log:          mylog,
		Client:       client,
		Storage:      storage,
		Agents:       api.NewAgentsGateway(client),
		DriverLevels: api.NewDriverLevelsGateway(client),
		Trips:        api.NewTripsGateway(client),
		Bookings:     api.NewBookingsGateway(client),
		Payments:     api.NewPaymentsGateway(client),
		Onboarding:   api.NewOnboardingGateway(client),
		Renderer:     renderer,
		Journal:      db.NewMemoryJournal(memoryJournalSize),
	}

	if cfg.DB.Enabled {
		if err := app.startJournal(ctx); err != nil {
			mylog.Action("journal_fallback").Warn("database journal unavailable, keeping actions in memory", "error", err.Error())
		}
	}
	return app, nil
}

func (a *App) startJournal(ctx context.Context) error {
	conn, err := db.Start(ctx, a.Cfg.DB, a.Log)
	if err != nil {
		return err
	}
	repo, err := db.NewJournalRepo(ctx, conn)
	if err != nil {
		_ = conn.Close()
		return err
	}
	a.db = conn
	a.Journal = repo
	a.Log.Action("db_connected").Info("action journal stored in database")
	return nil
}

// Events returns the live event subscriber picked by EVENTS_TRANSPORT, or nil
// for none.
func (a *App) Events() (ports.IEventSubscriber, error) {
	switch a.Cfg.Events.Transport {
	case TransportWS, "":
		return ws.New(a.Cfg.Events.WSURL, a.token, a.Log), nil
	case TransportAMQP:
		return bm.New(a.Cfg.RabbitMq, a.Log), nil
	case TransportNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransport, a.Cfg.Events.Transport)
	}
}

func (a *App) token() string {
	token, _ := a.Client.Tokens().Resolve()
	return token
}

// Close releases the journal database.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	if err := a.db.Close(); err != nil {
		a.Log.Action("db_close_failed").Error("Failed to close database", err)
		return fmt.Errorf("db close: %w", err)
	}
	a.Log.Action("db_closed").Info("Database closed")
	return nil
}

// Execute runs the console HTTP server until a shutdown signal arrives.
func Execute(ctx context.Context, mylog mylogger.Logger, cfg *config.Config) error {
	newCtx, close := signal.NotifyContext(ctx, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer close()

	app, err := New(newCtx, mylog, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	deps := myhttp.Deps{
		Bookings: app.Bookings,
		Payments: app.Payments,
		Reports:  app.Renderer,
		Receipts: app.Renderer,
		Journal:  app.Journal,
	}
	if app.db != nil {
		deps.DB = app.db
	}
	server := myhttp.NewServer(newCtx, mylog, cfg, deps)

	runErrCh := make(chan error, 1)
	go func() {
		runErrCh <- server.Run()
	}()

	select {
	case <-newCtx.Done():
		mylog.Action("shutdown_signal_received").Info("Shutdown signal received")
		return server.Stop(context.Background())
	case err := <-runErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			mylog.Action("console_server_failed").Error("Server failed unexpectedly", err)
			return err
		}
		mylog.Action("server_stopped").Info("Server exited normally")
		return nil
	}
}
