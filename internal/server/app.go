// Package server wires the reference API server: it picks the storage
// backend, seeds accounts, serves the HTTP API and shuts down on a signal.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/osp/internal/common"
	"github.com/dmitrijs2005/osp/internal/logging"
	"github.com/dmitrijs2005/osp/internal/server/config"
	"github.com/dmitrijs2005/osp/internal/server/httpapi"
	"github.com/dmitrijs2005/osp/internal/server/models"
	"github.com/dmitrijs2005/osp/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/osp/internal/server/services"
)

// DemoMediaID is the item seeded when the server keeps data in memory.
const DemoMediaID = "demo"

const shutdownTimeout = 5 * time.Second

// sqlOpen is replaced in tests.
var sqlOpen = sql.Open

type App struct {
	config       *config.Config
	logger       logging.Logger
	db           *sql.DB
	userService  *services.UserService
	mediaService *services.MediaService
	handler      http.Handler
}

// NewApp opens storage and builds the services. An empty DatabaseDSN keeps
// everything in memory; otherwise the PostgreSQL schema is migrated first.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout, c.LogLevel)

	var (
		db *sql.DB
		rm repomanager.RepositoryManager
	)
	if c.DatabaseDSN == "" {
		logger.Info(ctx, "using in-memory storage")
		rm = repomanager.NewInMemoryRepositoryManager()
	} else {
		var err error
		db, err = sqlOpen("pgx", c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		rm = repomanager.NewPostgresRepositoryManager(logger)
		if err := rm.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migration error: %w", err)
		}
	}

	app := newApp(c, logger, db, rm)
	if err := app.seed(ctx, db == nil); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

func newApp(c *config.Config, logger logging.Logger, db *sql.DB, rm repomanager.RepositoryManager) *App {
	us := services.NewUserService(db, rm, c)
	ms := services.NewMediaService(db, rm, c)

	h := httpapi.NewRouter(httpapi.NewHandlers(us, ms), httpapi.Options{
		Logger:    logger,
		SecretKey: []byte(c.SecretKey),
	})

	return &App{
		config:       c,
		logger:       logger,
		db:           db,
		userService:  us,
		mediaService: ms,
		handler:      h,
	}
}

// Handler exposes the HTTP API, mostly for tests.
func (app *App) Handler() http.Handler {
	return app.handler
}

// seed creates the configured password accounts. Accounts that already
// exist are left alone. demo also stores DemoMediaID.
func (app *App) seed(ctx context.Context, demo bool) error {
	for name, password := range app.config.SeedUsers {
		_, err := app.userService.SeedUser(ctx, name, password)
		switch {
		case err == nil:
			app.logger.Info(ctx, "seeded user", "username", name)
		case errors.Is(err, common.ErrorAlreadyExists):
		default:
			return fmt.Errorf("seed user %q: %w", name, err)
		}
	}

	if !demo {
		return nil
	}
	lat, lon := 59.437, 24.7536
	_, err := app.mediaService.SeedMedia(ctx, &models.Media{
		ID:           DemoMediaID,
		Title:        "Old Town at dusk",
		Description:  "Rooftops seen from the city wall.",
		ThumbnailURL: "https://picsum.photos/seed/osp/320/180",
		Location:     "Tallinn",
		Latitude:     &lat,
		Longitude:    &lon,
	})
	if err != nil && !errors.Is(err, common.ErrorAlreadyExists) {
		return fmt.Errorf("seed media: %w", err)
	}
	return nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled or a signal arrives, then drains
// in-flight requests.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	srv := &http.Server{
		Addr:              app.config.EndpointAddr,
		Handler:           app.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			app.logger.Error(ctx, "server failed", "err", err)
			app.Close()
			return err
		}
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	app.Close()
	return err
}

// Close releases the database, if any.
func (app *App) Close() {
	if app.db == nil {
		return
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(context.Background(), "db close failed", "err", err)
	}
	app.db = nil
}
