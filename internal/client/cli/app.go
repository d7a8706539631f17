package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/recipebook/internal/client/client"
	"github.com/dmitrijs2005/recipebook/internal/client/config"
	"github.com/dmitrijs2005/recipebook/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/recipebook/internal/client/router"
	"github.com/dmitrijs2005/recipebook/internal/client/services"
	"github.com/dmitrijs2005/recipebook/internal/filex"
	"github.com/dmitrijs2005/recipebook/internal/logging"

	_ "modernc.org/sqlite"
)

const redisKeyPrefix = "recipebook:"

type App struct {
	config    *config.Config
	auth      services.AuthService
	runLoop   func(ctx context.Context) error
	navigator *router.Navigator
	guard     *router.Guard
	logger    logging.Logger
	reader    *bufio.Reader
	out       io.Writer
	closers   []func() error
}

// NewApp opens the configured session backend and builds the identity client
// and session controller on top of it.
func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()
	logger := logging.NewTextLogger(os.Stderr, c.LogLevel)

	repo, closers, err := openRepository(ctx, c)
	if err != nil {
		logger.Error(ctx, "error opening session store", "backend", c.StoreBackend, "error", err)
		return nil, err
	}

	identity := client.NewHTTPClient(c.IdentityEndpointURL, c.APIKey, c.RequestTimeout)
	closers = append(closers, identity.Close)

	store := services.NewSessionStore(repo, c.SessionKey, logger)
	ctrl := services.NewSessionController(identity, store, logger)

	app := newApp(c, ctrl, logger, os.Stdin, os.Stdout)
	app.closers = closers
	return app, nil
}

func newApp(c *config.Config, ctrl *services.SessionController, logger logging.Logger, in io.Reader, out io.Writer) *App {
	w := &syncWriter{w: out}
	a := &App{
		config:  c,
		auth:    ctrl,
		runLoop: ctrl.Run,
		guard:   router.NewGuard(ctrl),
		logger:  logger,
		reader:  bufio.NewReader(in),
		out:     w,
	}
	a.navigator = router.NewNavigator(logger, func(_, to string) {
		fmt.Fprintf(w, "-> %s\n", to)
	})
	return a
}

// openRepository returns the metadata repository selected by
// c.StoreBackend and the functions that release it.
func openRepository(ctx context.Context, c *config.Config) (metadata.Repository, []func() error, error) {
	switch c.StoreBackend {
	case config.BackendSQLite:
		if err := filex.EnsureParentDir(c.StorePath); err != nil {
			return nil, nil, err
		}
		db, err := client.InitDatabase(ctx, c.StorePath)
		if err != nil {
			return nil, nil, fmt.Errorf("error initializing database: %w", err)
		}
		return metadata.NewSQLiteRepository(db), []func() error{db.Close}, nil

	case config.BackendBolt:
		if err := filex.EnsureParentDir(c.StorePath); err != nil {
			return nil, nil, err
		}
		repo, err := metadata.OpenBoltRepository(c.StorePath)
		if err != nil {
			return nil, nil, err
		}
		return repo, []func() error{repo.Close}, nil

	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{Addr: c.RedisAddr})
		return metadata.NewRedisRepository(rdb, redisKeyPrefix), []func() error{rdb.Close}, nil

	case config.BackendMemory:
		return metadata.NewMemoryRepository(), nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", c.StoreBackend)
	}
}

// Run starts the session controller, restores a stored session and runs the
// REPL until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer a.close(ctx)

	errc := make(chan error, 1)
	go func() { errc <- a.runLoop(ctx) }()

	stream, unsubscribe := a.auth.Subscribe()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.navigator.Follow(ctx, stream)
	}()

	a.restore(ctx)

	fmt.Fprintln(a.out, "Welcome to recipebook (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.reader, a.out)

	cancel()
	unsubscribe()
	wg.Wait()
	return <-errc
}

func (a *App) close(ctx context.Context) {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		a.logger.Warn(ctx, "error closing resources", "error", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.auth.IsAuthenticated()
}

func (a *App) status() string {
	if s, ok := a.auth.Current(); ok {
		return fmt.Sprintf("(%s %s)", s.Email(), a.navigator.Current())
	}
	return fmt.Sprintf("(%s)", a.navigator.Current())
}

// syncWriter serialises writes from the REPL and the navigator.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
