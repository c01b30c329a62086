package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/pocket/internal/auth"
	backupsvc "github.com/MrJamesThe3rd/pocket/internal/backup"
	"github.com/MrJamesThe3rd/pocket/internal/config"
	pocketHttp "github.com/MrJamesThe3rd/pocket/internal/http"
	backupHandler "github.com/MrJamesThe3rd/pocket/internal/http/backup"
	importHandler "github.com/MrJamesThe3rd/pocket/internal/http/importcsv"
	recordHandler "github.com/MrJamesThe3rd/pocket/internal/http/record"
	txHandler "github.com/MrJamesThe3rd/pocket/internal/http/transaction"
	viewsHandler "github.com/MrJamesThe3rd/pocket/internal/http/views"
	"github.com/MrJamesThe3rd/pocket/internal/importer"
	"github.com/MrJamesThe3rd/pocket/internal/persist"
	"github.com/MrJamesThe3rd/pocket/internal/persist/store"
	"github.com/MrJamesThe3rd/pocket/internal/session"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel()})))

	if err := run(cfg); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, closeStore, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	sess, err := session.Open(ctx, persist.NewAdapter(kv, cfg.Store.Key))
	if err != nil {
		return err
	}

	opts := pocketHttp.Options{
		Timeout:        cfg.Server.Timeout,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}

	if cfg.Auth.Secret != "" {
		opts.Tokens = auth.NewTokenService(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	} else {
		slog.Warn("AUTH_SECRET is not set, the API is unauthenticated")
	}

	router := pocketHttp.New(
		opts,
		viewsHandler.NewHandler(sess),
		txHandler.NewHandler(sess),
		recordHandler.NewHandler(sess),
		backupHandler.NewHandler(sess, backupsvc.NewService(cfg.Backup.Dir, cfg.Backup.MaxSize)),
		importHandler.NewHandler(importer.NewService(), sess),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting server", "addr", srv.Addr, "store", cfg.Store.Driver)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listening: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
