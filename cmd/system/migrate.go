package system

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/highfiveapp/highfive_backend/config"
	"github.com/highfiveapp/highfive_backend/internal/model"
	"github.com/highfiveapp/highfive_backend/internal/store"
	"github.com/highfiveapp/highfive_backend/pkg/database"
	"github.com/highfiveapp/highfive_backend/pkg/logs"
)

func NewMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations and seed default taxes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return fmt.Errorf("failed to get config flag: %w", err)
			}
			cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}

			db, err := database.New(cfg.Database, logs.New(cfg))
			if err != nil {
				return fmt.Errorf("failed to connect: %w", err)
			}
			defer func() {
				if sqlDB, derr := db.DB(); derr == nil {
					sqlDB.Close()
				}
			}()

			timeout := time.Duration(cfg.Server.TimeoutSeconds) * time.Second
			if timeout <= 0 {
				timeout = 30 * time.Second
			}
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			fmt.Println("Running migrations.")
			if err := db.WithContext(ctx).AutoMigrate(model.All()...); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}

			fmt.Printf("Seeding default taxes at %.2f%%.\n", cfg.Billing.DefaultTaxPercent)
			stores := store.New(db)
			if err := stores.Taxes.SeedDefaults(ctx, cfg.Billing.DefaultTaxPercent); err != nil {
				return fmt.Errorf("failed to seed taxes: %w", err)
			}

			fmt.Println("Migrations executed successfully.")
			return nil
		},
	}

	return cmd
}
