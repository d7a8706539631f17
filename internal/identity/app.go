// Package identity initializes and runs the local identity endpoint: an
// in-memory account store behind the signup and password sign-in API the
// recipebook client talks to. It is meant for development and tests.
package identity

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/dmitrijs2005/recipebook/internal/identity/api"
	"github.com/dmitrijs2005/recipebook/internal/identity/config"
	"github.com/dmitrijs2005/recipebook/internal/identity/users"
	"github.com/dmitrijs2005/recipebook/internal/logging"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config      *config.Config
	logger      logging.Logger
	userService *users.Service
}

func NewApp(c *config.Config) *App {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)
	us := users.NewService(users.NewMemoryRepository(), clockwork.NewRealClock(), c)

	return &App{config: c, logger: logger, userService: us}
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

func (app *App) handler() http.Handler {
	return api.New(app.userService, app.config.APIKey, app.logger).Router()
}

// Serve answers requests on l until ctx is cancelled, then shuts down
// gracefully.
func (app *App) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:           app.handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(shutdownCtx, "shutdown error", "error", err)
		}
	}()

	app.logger.Info(ctx, "identity endpoint listening", "addr", l.Addr().String())
	err := srv.Serve(l)
	wg.Wait()

	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting identity endpoint...")

	app.initSignalHandler(cancelFunc)

	l, err := net.Listen("tcp", app.config.ListenAddr)
	if err != nil {
		app.logger.Error(ctx, err.Error())
		return err
	}

	return app.Serve(ctx, l)
}
