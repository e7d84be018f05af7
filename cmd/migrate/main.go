package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"colabora/internal/infra"
	"colabora/pkg/config"
	"colabora/pkg/logger"
)

var (
	databaseURL string
	envFile     string
)

var errNoDatabaseURL = errors.New("database url is required: set DATABASE_URL or pass --database-url")

var rootCmd = &cobra.Command{
	Use:          "migrate",
	Short:        "Manage the colabora database schema",
	Long:         `Applies, rolls back and reports the SQL migrations embedded in the binary.`,
	SilenceUsage: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply every pending migration",
	RunE:  withDB(infra.MigrateUp),
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the latest migration",
	RunE:  withDB(infra.MigrateDown),
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which migrations are applied",
	RunE:  withDB(infra.MigrateStatus),
}

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List the embedded migration files",
	RunE: func(cmd *cobra.Command, _ []string) error {
		names, err := infra.MigrationFiles()
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "Postgres connection URL (defaults to DATABASE_URL)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional env file read before the environment")

	rootCmd.AddCommand(upCmd)
	rootCmd.AddCommand(downCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(filesCmd)
}

type migrateEnv struct {
	DatabaseURL string `env:"DATABASE_URL"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT"`
}

// loadConfig only needs the database settings, so the app's required keys
// (JWT_SECRET and friends) do not have to be present to migrate.
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load(envFile)

	var e migrateEnv
	if err := env.Parse(&e); err != nil {
		return nil, err
	}
	if databaseURL != "" {
		e.DatabaseURL = databaseURL
	}
	if e.DatabaseURL == "" {
		return nil, errNoDatabaseURL
	}

	return &config.Config{
		Env:         config.EnvDev,
		DatabaseURL: e.DatabaseURL,
		LogLevel:    e.LogLevel,
		LogFormat:   e.LogFormat,
	}, nil
}

type migrateFunc func(ctx context.Context, db *sql.DB, log *slog.Logger) error

func withDB(fn migrateFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := logger.New(cfg)

		db, err := infra.InitPostgresql(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer infra.ClosePostgresql(db, log)

		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return fn(cmd.Context(), sqlDB, log)
	}
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
