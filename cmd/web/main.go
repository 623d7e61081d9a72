package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/ellis-guo/fitweek/internal/envstruct"
	"github.com/ellis-guo/fitweek/internal/errors"
	"github.com/ellis-guo/fitweek/internal/logging"
	"github.com/ellis-guo/fitweek/internal/plan"
	"github.com/ellis-guo/fitweek/internal/sqlite"
)

type application struct {
	logger         *slog.Logger
	sessionManager *scs.SessionManager
	planService    *plan.Service
	planTimeout    time.Duration
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"FITWEEK_ADDR" envDefault:"localhost:8080"`
	// SqliteURL is the URL to the SQLite database. You can use ":memory:" for an ethereal in-memory database.
	SqliteURL string `env:"FITWEEK_SQLITE_URL" envDefault:"./fitweek.sqlite3"`
	// ExercisesPerDay is the number of exercise slots per training day.
	ExercisesPerDay int `env:"FITWEEK_EXERCISES_PER_DAY" envDefault:"5"`
	// ExhaustiveThreshold is the largest candidate pool searched exhaustively.
	ExhaustiveThreshold int `env:"FITWEEK_EXHAUSTIVE_THRESHOLD" envDefault:"10"`
	// Max2OptIterations bounds the 2-opt refinement loop of larger pools.
	Max2OptIterations int `env:"FITWEEK_MAX_2OPT_ITERATIONS" envDefault:"100"`
	// MaxConcurrentPlans bounds how many plan generations run at once.
	MaxConcurrentPlans int `env:"FITWEEK_MAX_CONCURRENT_PLANS" envDefault:"2"`
	// PlanTimeoutSeconds caps the time budget of a single plan generation.
	PlanTimeoutSeconds int `env:"FITWEEK_PLAN_TIMEOUT_SECONDS" envDefault:"10"`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		cancel context.CancelFunc
		err    error
	)

	ctx, cancel = signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	var cfg config
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	db, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open db", slog.String("url", cfg.SqliteURL))
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to db")

	planService := plan.NewService(db, logger, plan.Options{
		ExercisesPerDay:     cfg.ExercisesPerDay,
		ExhaustiveThreshold: cfg.ExhaustiveThreshold,
		Max2OptIterations:   cfg.Max2OptIterations,
		MaxConcurrentPlans:  cfg.MaxConcurrentPlans,
	})

	app := application{
		logger:         logger,
		sessionManager: initializeSessionManager(db),
		planService:    planService,
		planTimeout:    time.Duration(cfg.PlanTimeoutSeconds) * time.Second,
	}

	if err = app.configureAndStartServer(ctx, cfg.Addr, app.routes()); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

func initializeSessionManager(dbs *sqlite.Database) *scs.SessionManager {
	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.NewWithCleanupInterval(dbs.ReadWrite, 24*time.Hour) //nolint:mnd // day
	sessionManager.Lifetime = 30 * 24 * time.Hour                                           //nolint:mnd // month
	sessionManager.Cookie.Persist = true
	sessionManager.Cookie.Secure = true
	sessionManager.Cookie.HttpOnly = true
	sessionManager.Cookie.SameSite = http.SameSiteStrictMode
	return sessionManager
}

func main() {
	ctx := context.Background()
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
