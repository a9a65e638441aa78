package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/osp/internal/client/client"
	"github.com/dmitrijs2005/osp/internal/client/config"
	"github.com/dmitrijs2005/osp/internal/client/models"
	"github.com/dmitrijs2005/osp/internal/client/services"
	"github.com/dmitrijs2005/osp/internal/client/session"
	"github.com/dmitrijs2005/osp/internal/client/storage"
	"github.com/dmitrijs2005/osp/internal/client/tokens"
	"github.com/dmitrijs2005/osp/internal/logging"
)

type App struct {
	config         *config.Config
	db             *sql.DB
	log            logging.Logger
	authService    services.AuthService
	accountService services.AccountService
	mediaService   services.MediaService
	reader         *bufio.Reader
	out            io.Writer

	// view state, dropped by Reset
	mu    sync.Mutex
	route session.Route
	user  string
	view  *models.MediaView
}

// NewApp opens the local database and wires the API client and services.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.New(os.Stderr, c.LogLevel)

	db, err := storage.Open(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", c.DatabasePath, "err", err)
		return nil, err
	}

	a := &App{
		config: c,
		db:     db,
		log:    log,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		route:  session.RouteSignIn,
	}

	store := tokens.NewStore(db)
	sess := session.NewManager(store, a, log)
	api := client.New(c.APIBaseURL, store, sess,
		client.WithLogger(log),
		client.WithRequestTimeout(c.RequestTimeout),
		client.WithRefreshTimeout(c.RefreshTimeout),
	)

	a.authService = services.NewAuthService(api, store, sess)
	a.accountService = services.NewAccountService(api, store, sess)
	a.mediaService = services.NewMediaService(api, store)

	return a, nil
}

// Reset implements session.Navigator. It may be called from any goroutine,
// for example by a token refresh that ended the session.
func (a *App) Reset(route session.Route) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.route = route
	if route == session.RouteSignIn {
		a.user = ""
		a.view = nil
	}
}

func (a *App) navigate(route session.Route) {
	a.mu.Lock()
	a.route = route
	a.mu.Unlock()
}

func (a *App) currentView() *models.MediaView {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.view
}

func (a *App) setView(v *models.MediaView) {
	a.mu.Lock()
	a.view = v
	a.mu.Unlock()
}

func (a *App) setUser(u string) {
	a.mu.Lock()
	a.user = u
	a.mu.Unlock()
}

func (a *App) getUser() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.user
}

func (a *App) getStatus() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.user == "" {
		return "(" + string(a.route) + ")"
	}
	return "(" + a.user + " " + string(a.route) + ")"
}

func (a *App) signedIn(ctx context.Context) bool {
	return a.authService.SignedIn(ctx)
}

// Run restores the session label when a token is already stored and runs
// the REPL until exit or EOF.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	if a.signedIn(ctx) {
		a.restoreUser(ctx)
		a.navigate(session.RouteAccount)
	}

	printlnFn("Welcome to OSP CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
