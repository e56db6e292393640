package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SamMorton123/velo-research/internal/adapters/archive"
	"github.com/SamMorton123/velo-research/internal/adapters/http/api"
	app "github.com/SamMorton123/velo-research/internal/app"
	"github.com/SamMorton123/velo-research/internal/config"
	"github.com/SamMorton123/velo-research/pkg/logger"
	"github.com/joho/godotenv"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Local .env files are optional; real deployments set the environment
	// directly.
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env).
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input).
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	opts := []app.Option{app.WithLogger(log)}

	var store *archive.Store
	if cfg.ArchivePath != "" {
		store, err = archive.Open(cfg.ArchivePath)
		if err != nil {
			log.Error(ctx, "failed to open archive", logger.Error(err))
			return
		}
		defer func() { _ = store.Close() }()
		opts = append(opts, app.WithArchive(store))
	}

	svc, err := app.New(cfg, opts...)
	if err != nil {
		log.Error(ctx, "failed to build service", logger.Error(err))
		return
	}

	log.Info(ctx, "replaying results",
		logger.String("file", cfg.ResultsPath),
		logger.String("system", cfg.System),
	)
	start := time.Now()
	if err := svc.Replay(ctx); err != nil {
		log.Error(ctx, "replay failed", logger.Error(err))
		return
	}
	log.Info(ctx, "replay complete",
		logger.Any("stats", svc.Stats()),
		logger.String("took", time.Since(start).String()),
	)

	apiServer := api.NewServer(svc, api.WithMaxRankingLimit(cfg.MaxRankingLimit))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           apiServer.Router(),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}
