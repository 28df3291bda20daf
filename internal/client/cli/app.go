package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/mindeducation/internal/client/api"
	"github.com/dmitrijs2005/mindeducation/internal/client/config"
	"github.com/dmitrijs2005/mindeducation/internal/client/models"
	"github.com/dmitrijs2005/mindeducation/internal/client/notify"
	"github.com/dmitrijs2005/mindeducation/internal/client/services"
	"github.com/dmitrijs2005/mindeducation/internal/client/session"
	"github.com/dmitrijs2005/mindeducation/internal/client/storage"
	"github.com/dmitrijs2005/mindeducation/internal/filex"
	"github.com/dmitrijs2005/mindeducation/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
)

const databaseFile = "credentials.db"

// sessionManager is the part of session.Manager the REPL drives.
type sessionManager interface {
	State() session.State
	WaitReady(ctx context.Context) error
	SignIn(ctx context.Context, creds models.Credentials) (string, error)
	SignOut(ctx context.Context)
	RefreshUser(ctx context.Context, userID models.UserID) error
}

type App struct {
	config   *config.Config
	session  sessionManager
	account  services.AccountService
	recorder *notify.Recorder
	gatherer prometheus.Gatherer
	logger   logging.Logger
	reader   *bufio.Reader
	out      io.Writer
	closers  []io.Closer
}

// NewApp wires the client from c. ctx bounds database setup and the
// background session restore.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	dataDir, err := filex.EnsureDataDir(c.DataDir)
	if err != nil {
		return nil, err
	}

	logger, logFile, err := logging.NewFileLogger(c.LogPath(), logging.ParseLevel(c.LogLevel))
	if err != nil {
		return nil, err
	}
	closers := []io.Closer{logFile}

	db, err := storage.InitDatabase(ctx, filepath.Join(dataDir, databaseFile))
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		_ = logFile.Close()
		return nil, err
	}
	closers = append(closers, db)

	sc := session.NewSessionContext()
	apiClient, err := api.NewClient(c.ServerBaseURL, &http.Client{Timeout: c.RequestTimeout}, sc, logger)
	if err != nil {
		closeAll(closers)
		return nil, err
	}

	registry := prometheus.NewRegistry()
	recorder := &notify.Recorder{Limit: 50}
	notifier := notify.Multi{notify.NewWriterNotifier(os.Stdout), recorder}

	manager := session.NewManager(ctx, session.Params{
		Store:      storage.NewSQLiteRepository(db, c.StoreNamespace),
		API:        apiClient,
		Context:    sc,
		Notifier:   notifier,
		Logger:     logger.With("component", "session"),
		Registerer: registry,
	})
	account := services.NewAccountService(apiClient, manager, notifier, logger.With("component", "account"))

	logger.Info(ctx, "client started", "server", c.ServerBaseURL, "data_dir", dataDir)

	return &App{
		config:   c,
		session:  manager,
		account:  account,
		recorder: recorder,
		gatherer: registry,
		logger:   logger,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		closers:  closers,
	}, nil
}

// Run blocks in the REPL until the user exits, then releases resources.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.Close(); err != nil {
			fmt.Fprintln(os.Stderr, "close:", err)
		}
	}()
	a.Root(ctx)
}

func (a *App) Close() error {
	return closeAll(a.closers)
}

func (a *App) isLoggedIn() bool {
	return a.session.State().Authenticated()
}

func closeAll(closers []io.Closer) error {
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
