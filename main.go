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

	"finance-ledger/internal/config"
	"finance-ledger/internal/database"
	"finance-ledger/internal/ledger"
	"finance-ledger/internal/logger"
	"finance-ledger/internal/models"
	"finance-ledger/internal/router"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// load configuration
	cfg, err := config.Load(os.Getenv("PPL_CONFIG"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, logCloser, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logCloser.Close()
	slog.SetDefault(log)

	if err := os.MkdirAll(cfg.Backup.Dir, 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}
	if cfg.Security.EncryptionKey == "" {
		slog.Warn("security.encryption_key is empty, backups are encrypted with a derived empty key")
	}

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			slog.Error("close database", "error", err)
		}
		slog.Info("database connection closed")
	}()

	// run migrations
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	svc := ledger.NewService(db, cfg.Security.BcryptCost)

	var local *models.User
	if !cfg.App.MultiTenant {
		local, err = svc.EnsureLocalUser(context.Background(), cfg.App.LocalUserName)
		if err != nil {
			return fmt.Errorf("ensure local user: %w", err)
		}
		slog.Info("single-tenant mode", "user_id", local.ID)
	}

	// setup router
	r := router.SetupRouter(cfg, db, svc, local, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "driver", cfg.Database.Driver, "multi_tenant", cfg.App.MultiTenant)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return fmt.Errorf("run server: %w", err)
	case sig := <-stop:
		slog.Info("shutting down server", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("server exited")
	return nil
}
