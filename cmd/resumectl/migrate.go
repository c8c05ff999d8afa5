package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/storage/db"
)

func newMigrateCmd() *cobra.Command {
	var databaseURL string
	cmd := &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply, roll back or inspect database migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			action := "up"
			if len(args) == 1 {
				action = args[0]
			}
			if strings.TrimSpace(databaseURL) == "" {
				databaseURL = config.Load().DatabaseURL
			}
			if strings.TrimSpace(databaseURL) == "" {
				return fmt.Errorf("DATABASE_URL is required")
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			sqlDB, err := db.Connect(ctx, databaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
			if err != nil {
				return err
			}
			defer sqlDB.Close()
			fmt.Fprintf(cmd.ErrOrStderr(), "database %s\n", db.Redact(databaseURL))

			return runMigrate(ctx, cmd, sqlDB, action)
		},
	}
	cmd.Flags().StringVar(&databaseURL, "database-url", "", "Postgres connection string (defaults to DATABASE_URL)")
	return cmd
}

func runMigrate(ctx context.Context, cmd *cobra.Command, sqlDB *sql.DB, action string) error {
	switch action {
	case "up":
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
	case "down":
		if err := db.RollbackMigration(ctx, sqlDB); err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
	case "status":
	default:
		return fmt.Errorf("unknown migrate action %q", action)
	}

	version, err := db.MigrationVersion(ctx, sqlDB)
	if err != nil {
		return fmt.Errorf("migration version: %w", err)
	}
	out := cmd.OutOrStdout()
	color.New(color.FgCyan).Fprint(out, action)
	fmt.Fprintf(out, " schema version %d\n", version)
	return nil
}
