package cli

import (
	"fmt"

	"github.com/daycarehq/daycare_backend/internal/app"
	"github.com/daycarehq/daycare_backend/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.DBDSN == "" {
				return fmt.Errorf("DB_DSN is required for migrations")
			}

			ctx := cmd.Context()

			pool, err := pgxpool.New(ctx, cfg.DBDSN)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer pool.Close()

			migrator, err := app.NewMigrator(pool, cfg.MigrationsPath)
			if err != nil {
				return fmt.Errorf("create migrator: %w", err)
			}
			defer migrator.Close()

			if err := migrator.Run(ctx); err != nil {
				return err
			}

			version, err := migrator.Version(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Database schema at version %d\n", version)
			return nil
		},
	}
}
