package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/config"
	"github.com/pageza/recipebox/internal/database"
	"github.com/pageza/recipebox/internal/logging"
	"github.com/pageza/recipebox/internal/router"
	"github.com/pageza/recipebox/internal/server"
	"github.com/pageza/recipebox/internal/service"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

// app holds what every subcommand needs.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
}

func main() {
	a := &app{}

	root := &cobra.Command{
		Use:           "recipebox",
		Short:         "Recipe sharing service",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.Env, cfg.LogLevel)
			if err != nil {
				return err
			}
			a.cfg, a.logger = cfg, logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	var migrateFirst bool
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context(), migrateFirst)
		},
	}
	serveCmd.Flags().BoolVar(&migrateFirst, "migrate", false, "Apply migrations and seed lookups before serving")

	var dsn string
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.migrate(cmd.Context(), dsn)
		},
	}
	migrateCmd.Flags().StringVar(&dsn, "dsn", os.Getenv("DATABASE_URL"), "Postgres connection URL, defaults to the configured database")

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the default courses and cuisines",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.seed(cmd.Context())
		},
	}

	root.AddCommand(serveCmd, migrateCmd, seedCmd)

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (a *app) serve(ctx context.Context, migrateFirst bool) error {
	db, err := database.New(a.cfg, a.logger)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if migrateFirst {
		if err := database.RunMigrations(ctx, db, a.cfg.MigrationsDir, a.logger); err != nil {
			return err
		}
		if err := database.Seed(ctx, db); err != nil {
			return err
		}
	}

	deps := router.Dependencies{DB: db, Config: a.cfg, Logger: a.logger}

	if a.cfg.RedisURL != "" {
		client, err := database.NewRedisClient(ctx, a.cfg.RedisURL, a.logger)
		if err != nil {
			// Continue without rate limiting if Redis is not available
			a.logger.Warn("redis unavailable", zap.Error(err))
		} else {
			defer client.Close()
			deps.Redis = client
		}
	}

	if a.cfg.S3Bucket != "" {
		s3Config, err := config.NewS3Config(ctx, a.cfg)
		if err != nil {
			return err
		}
		deps.PhotoStore = service.NewS3PhotoStore(s3Config)
	}

	srv, err := server.New(a.cfg, deps)
	if err != nil {
		return err
	}
	return srv.Start(ctx)
}

// migrate runs the SQL migrations over lib/pq, or auto-migrates sqlite.
func (a *app) migrate(ctx context.Context, dsn string) error {
	if a.cfg.DBDriver == config.DriverSQLite {
		db, err := database.New(a.cfg, a.logger)
		if err != nil {
			return err
		}
		defer database.Close(db)
		return database.RunMigrations(ctx, db, a.cfg.MigrationsDir, a.logger)
	}

	if dsn == "" {
		dsn = a.cfg.DSN()
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	return database.ApplySQLMigrations(ctx, db, a.cfg.MigrationsDir, a.logger)
}

func (a *app) seed(ctx context.Context) error {
	db, err := database.New(a.cfg, a.logger)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.Seed(ctx, db); err != nil {
		return err
	}
	a.logger.Info("seeded lookup tables")
	return nil
}
