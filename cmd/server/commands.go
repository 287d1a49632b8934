package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/charlesng35/roomrental/internal/app"
	"github.com/charlesng35/roomrental/internal/database"
	"github.com/charlesng35/roomrental/pkg/logger"
)

const defaultShutdownTimeout = 15 * time.Second

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "roomrental",
		Short:         "Room rental back office",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration directory or file")

	root.AddCommand(
		serveCmd(&configPath),
		sweepCmd(&configPath),
		migrateCmd(&configPath),
	)
	return root
}

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and background jobs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := prepare(*configPath)
			if err != nil {
				return err
			}
			defer logger.Sync() // best effort

			return serve(cmd.Context(), cfg, logger.WithModule("bootstrap"))
		},
	}
}

func sweepCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Recompute lease statuses and purge old read notifications once",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := prepare(*configPath)
			if err != nil {
				return err
			}
			defer logger.Sync() // best effort

			log := logger.WithModule("bootstrap")
			stack, err := bootstrapRuntime(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer stack.Shutdown(context.Background(), log)

			if err := stack.Scheduler.RunOnce(cmd.Context()); err != nil {
				return fmt.Errorf("sweep: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "sweep completed")
			return nil
		},
	}
}

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := prepare(*configPath)
			if err != nil {
				return err
			}
			defer logger.Sync() // best effort

			if cfg.Storage.UsesMemoryStore() {
				return errors.New("migrate: storage driver memory has no schema")
			}

			db, err := database.Open(cfg.Storage.DatabaseConfig())
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer func() { _ = database.Close(db) }()

			if cfg.Storage.Seed {
				err = database.AutoMigrateAndSeed(db, time.Now())
			} else {
				err = database.AutoMigrate(db)
			}
			if err != nil {
				return err
			}

			logger.WithModule("database").Info("schema migrated", zap.String("driver", cfg.Storage.Driver))
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

// prepare loads configuration and initialises logging.
func prepare(configPath string) (*app.Config, error) {
	cfg, err := loadApplicationConfig(configPath)
	if err != nil {
		return nil, err
	}
	if err := app.ConfigureLogging(cfg.Server); err != nil {
		return nil, fmt.Errorf("configure logging: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cfg *app.Config, log *zap.Logger) error {
	stack, err := bootstrapRuntime(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer stack.Shutdown(context.Background(), log)

	if err := stack.Scheduler.Start(); err != nil {
		return fmt.Errorf("start maintenance jobs: %w", err)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           stack.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	timeout := cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	if err, ok := <-serverErr; ok && err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	log.Info("server stopped gracefully")
	return nil
}

func loadApplicationConfig(path string) (*app.Config, error) {
	switch {
	case strings.TrimSpace(path) == "":
		return app.LoadConfig()
	default:
		info, err := os.Stat(path)
		if err == nil {
			if info.IsDir() {
				return app.LoadConfig(path)
			}
			return app.LoadConfig(filepath.Dir(path))
		}
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config path %q does not exist", path)
		}
		return nil, fmt.Errorf("stat config path: %w", err)
	}
}
