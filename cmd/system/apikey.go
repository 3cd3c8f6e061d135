package system

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/highfiveapp/highfive_backend/config"
	"github.com/highfiveapp/highfive_backend/internal/model"
	"github.com/highfiveapp/highfive_backend/internal/store"
	"github.com/highfiveapp/highfive_backend/pkg/crypto"
	"github.com/highfiveapp/highfive_backend/pkg/database"
	"github.com/highfiveapp/highfive_backend/pkg/logs"
)

func NewAPIKeyCommand() *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:   "apikey",
		Short: "Issue a new webhook API key",
		Long: `Generates a webhook API key and stores its hash. The plain key is
printed exactly once; it cannot be recovered later.`,
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

			key, hash, err := crypto.GenerateAPIKey()
			if err != nil {
				return err
			}

			stores := store.New(db)
			record := &model.APIKey{Label: label, KeyHash: hash, Active: true}
			if err := stores.APIKeys.Create(context.Background(), record); err != nil {
				return fmt.Errorf("failed to store key: %w", err)
			}

			fmt.Printf("API key %q created (id=%d).\n", label, record.ID)
			fmt.Printf("Key (save it now, it is not stored): %s\n", key)
			return nil
		},
	}

	cmd.Flags().StringVar(&label, "label", "default", "Label identifying the key owner")

	return cmd
}
