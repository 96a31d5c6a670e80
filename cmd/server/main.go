package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Clark-Hu/figure-collector/internal/config"
	"github.com/Clark-Hu/figure-collector/internal/fxfeed"
	httpserver "github.com/Clark-Hu/figure-collector/internal/http"
	"github.com/Clark-Hu/figure-collector/internal/repository"
	"github.com/Clark-Hu/figure-collector/internal/store"
)

func main() {
	migrate := flag.Bool("migrate", false, "apply embedded migrations before serving")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "env error: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := cfg.NewLogger().With("service", "figure-collector")
	slog.SetDefault(logger)

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	storeOpts := store.Options{
		MaxConns:               int32(cfg.DBMaxConns),
		MinConns:               int32(cfg.DBMinConns),
		MaxConnIdleTime:        time.Duration(cfg.DBMaxIdleSecs) * time.Second,
		MaxConnLifetime:        time.Duration(cfg.DBMaxLifeSecs) * time.Second,
		ConnTimeout:            time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
		StatementCacheCapacity: cfg.DBStatementCache,
		Migrate:                *migrate,
		Logger:                 logger,
	}

	st, err := store.New(dbCtx, cfg.DBURL, storeOpts)
	if err != nil {
		logger.Error("connect database", "err", err)
		os.Exit(1)
	}
	defer st.Close()

	fxClient, err := fxfeed.NewHTTPClient(cfg.FXFeedURL, time.Duration(cfg.FXTimeoutSecs)*time.Second, logger.With("component", "fxfeed"))
	if err != nil {
		logger.Error("init fx feed client", "err", err)
		os.Exit(1)
	}
	rates := fxfeed.NewProvider(fxClient, time.Duration(cfg.FXCacheTTLSecs)*time.Second, logger.With("component", "fxfeed"))

	repo := repository.New(st)
	server := httpserver.New(cfg, st, repo, rates, logger)

	go purgeSessions(ctx, repo, logger)

	serverErrCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "port", cfg.Port)
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			serverErrCh <- err
			return
		}
		serverErrCh <- nil
	}()

	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, context.Canceled) {
			logger.Error("server error", "err", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("graceful shutdown error", "err", err)
	}
}

// purgeSessions drops expired sessions hourly until ctx is done.
func purgeSessions(ctx context.Context, repo *repository.Repository, logger *slog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.Sessions.DeleteExpired(ctx)
			if err != nil {
				logger.Warn("purge expired sessions", "err", err)
				continue
			}
			if n > 0 {
				logger.Info("expired sessions purged", "count", n)
			}
		}
	}
}
