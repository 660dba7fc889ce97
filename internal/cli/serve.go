package cli

import (
	"fmt"

	"github.com/daycarehq/daycare_backend/internal/app"
	"github.com/daycarehq/daycare_backend/internal/config"
	"github.com/daycarehq/daycare_backend/internal/controller/httpapi"
	"github.com/daycarehq/daycare_backend/internal/registry"
	"github.com/daycarehq/daycare_backend/internal/repository"
	"github.com/daycarehq/daycare_backend/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the booking HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logger := app.NewLogger(cfg.Environment)
			defer logger.Sync()

			ctx := cmd.Context()
			caps := registry.NewCapacities(cfg.SlotCapacity, nil)

			var reg registry.Registry
			if cfg.DBDSN != "" {
				pool, err := pgxpool.New(ctx, cfg.DBDSN)
				if err != nil {
					return fmt.Errorf("connect to database: %w", err)
				}
				defer pool.Close()

				migrator, err := app.NewMigrator(pool, cfg.MigrationsPath)
				if err != nil {
					return fmt.Errorf("create migrator: %w", err)
				}
				if err := migrator.Run(ctx); err != nil {
					migrator.Close()
					return err
				}
				migrator.Close()

				reg = repository.NewBookingRegistry(pool, caps)
				logger.Info("Using PostgreSQL registry")
			} else {
				reg = registry.NewInMemory(caps)
				logger.Info("Using in-memory registry, data resets on restart")
			}

			bookings := service.NewBookingService(reg, logger)
			handler := httpapi.NewHandler(bookings, logger)
			router := httpapi.NewRouter(handler, httpapi.RouterOptions{
				Environment:    cfg.Environment,
				CORSOrigins:    cfg.CORSOrigins,
				RateLimitRPS:   cfg.RateLimitRPS,
				RateLimitBurst: cfg.RateLimitBurst,
			})

			logger.Info("Starting daycare booking backend",
				zap.String("environment", cfg.Environment),
				zap.Int("slot_capacity", cfg.SlotCapacity),
			)

			return app.NewServer(cfg.HTTPAddr, router, logger).Run(ctx)
		},
	}
}
