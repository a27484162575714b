// Package server initializes and runs the contact-book server.
// It selects the storage backend, runs migrations, wires the mail, avatar
// and background collaborators into the services and serves the HTTP API
// until a termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/contactbook/internal/logging"
	"github.com/dmitrijs2005/contactbook/internal/server/avatar"
	"github.com/dmitrijs2005/contactbook/internal/server/background"
	"github.com/dmitrijs2005/contactbook/internal/server/config"
	"github.com/dmitrijs2005/contactbook/internal/server/mailer"
	"github.com/dmitrijs2005/contactbook/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/contactbook/internal/server/rest"
	"github.com/dmitrijs2005/contactbook/internal/server/services"
)

const (
	dbPingTimeout     = 5 * time.Second
	backgroundTimeout = 30 * time.Second
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	tasks          *background.Runner
	userService    *services.UserService
	contactService *services.ContactService
}

// NewApp opens storage and builds the services. DatabaseDSN "memory"
// selects the in-memory repositories; anything else is a PostgreSQL DSN
// that is migrated before use.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	var (
		db *sql.DB
		rm repomanager.RepositoryManager
	)

	if c.UsesMemoryStore() {
		logger.Warn(ctx, "Using in-memory storage, data is lost on restart")
		rm = repomanager.NewMemoryRepositoryManager()
	} else {
		var err error
		db, err = openDB(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		rm = repomanager.NewPostgresRepositoryManager()
		if err := rm.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migration error: %w", err)
		}
	}

	m, err := mailer.New(c, logger)
	if err != nil {
		closeDB(db)
		return nil, fmt.Errorf("mailer init error: %w", err)
	}

	tasks := background.NewRunner(logger, backgroundTimeout)
	collab := services.Collaborators{
		Mailer:  m,
		Avatars: avatar.NewGravatar(avatar.GravatarBaseURL, c.GravatarDefault),
		Tasks:   tasks,
	}

	if c.S3Bucket != "" {
		store, err := avatar.NewS3Store(ctx, c)
		if err != nil {
			closeDB(db)
			return nil, fmt.Errorf("avatar storage init error: %w", err)
		}
		collab.Storage = store
	}

	return &App{
		config:         c,
		logger:         logger,
		db:             db,
		tasks:          tasks,
		userService:    services.NewUserService(db, rm, c, logger, collab),
		contactService: services.NewContactService(db, rm, logger),
	}, nil
}

func openDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	return db, nil
}

func closeDB(db *sql.DB) {
	if db != nil {
		_ = db.Close()
	}
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

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := rest.NewServer(app.config, app.logger, app.userService, app.contactService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until a signal arrives or the server fails, then waits for
// pending background tasks and releases the database.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.tasks.Wait()
	closeDB(app.db)

	app.logger.Info(ctx, "App stopped")
}
