package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/evgenyvinnik/MCPlator-sub000/internal/anim"
	"github.com/evgenyvinnik/MCPlator-sub000/internal/calc"
	"github.com/evgenyvinnik/MCPlator-sub000/internal/calcapi"
	"github.com/evgenyvinnik/MCPlator-sub000/internal/observability"
	"github.com/evgenyvinnik/MCPlator-sub000/internal/server"
	"github.com/evgenyvinnik/MCPlator-sub000/internal/store"
)

func main() {

	ctx := context.Background()

	if err := loadDotEnv(); err != nil {
		panic(err)
	}

	// Logger
	err := observability.InitLogger()
	if err != nil {
		panic(err)
	}
	defer observability.SyncLogger()

	// Tracing
	traceShutdown, err := observability.InitTracing(ctx)
	if err != nil {
		panic(err)
	}
	defer traceShutdown(ctx)

	// OTLP log export, teed onto the stdout logger
	logShutdown, err := observability.InitLogging(ctx)
	if err != nil {
		panic(err)
	}
	defer logShutdown(ctx)

	// Metrics
	metricShutdown, err := initMetrics(ctx)
	if err != nil {
		panic(err)
	}
	defer metricShutdown(ctx)

	logger := observability.Logger
	cfg := loadConfig()

	// Persistence is best-effort: a broken store downgrades to an in-memory
	// session rather than refusing to start.
	sessions, err := store.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("session store unavailable, running without persistence",
			zap.String("path", cfg.DBPath),
			zap.Error(err),
		)
		sessions = nil
	} else {
		defer sessions.Close()
	}

	session := calc.NewSession(logger, calc.WithPersist(persistFunc(sessions, cfg.SessionID, logger)))

	if sessions != nil {
		state, display, err := sessions.Load(ctx, cfg.SessionID)
		switch {
		case err == nil:
			session.Restore(state)
			logger.Info("session resumed",
				zap.String("session_id", cfg.SessionID),
				zap.String("display", display),
			)
		case errors.Is(err, store.ErrNotFound):
			// First run.
		default:
			logger.Warn("could not resume session", zap.Error(err))
		}
	}

	library, err := anim.LoadLibrary(cfg.LibraryPath)
	if err != nil {
		logger.Warn("sequence library unavailable",
			zap.String("path", cfg.LibraryPath),
			zap.Error(err),
		)
		library = anim.EmptyLibrary()
	}

	scheduler := anim.NewScheduler(session, logger,
		anim.WithKeyDelay(cfg.KeyDelay),
		anim.WithSettleDelay(cfg.SettleDelay),
	)

	schedCtx, stopScheduler := context.WithCancel(ctx)
	defer stopScheduler()
	go scheduler.Run(schedCtx)

	// Router
	router := server.NewRouter(&calcapi.API{
		Session:   session,
		Scheduler: scheduler,
		Library:   library,
	})

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	go func() {
		observability.Logger.Info("server started", zap.String("addr", cfg.Addr))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic(err)
		}
	}()

	waitForShutdown(srv, stopScheduler)
}

// persistFunc adapts the store to the session's fire-and-forget hook. With no
// store it is a no-op.
func persistFunc(sessions *store.SessionStore, sessionID string, logger *zap.Logger) calc.PersistFunc {
	return func(ctx context.Context, state calc.State, display string) {
		if sessions == nil {
			return
		}
		if err := sessions.Save(ctx, sessionID, state, display); err != nil {
			logger.Warn("session save failed", zap.Error(err))
		}
	}
}

func waitForShutdown(srv *http.Server, stopScheduler context.CancelFunc) {

	stop := make(chan os.Signal, 1)

	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop

	stopScheduler()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	srv.Shutdown(ctx)
}
