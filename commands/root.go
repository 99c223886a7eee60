// Package commands defines the craftmyprep command line.
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"craftmyprep-backend/config"
	"craftmyprep-backend/logger"
	"craftmyprep-backend/models"
)

// NewRootCmd creates the top-level "craftmyprep" command.
func NewRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "craftmyprep",
		Short:         "Interview preparation backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (default $CMP_CONFIG)")

	load := func() (config.Config, *logger.Logger, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return config.Config{}, nil, err
		}
		log, err := logger.New(cfg.Env)
		if err != nil {
			return config.Config{}, nil, fmt.Errorf("creating logger: %w", err)
		}
		return cfg, log, nil
	}

	root.AddCommand(newServeCmd(load), newMigrateCmd(load))
	return root
}

type loader func() (config.Config, *logger.Logger, error)

func openAndMigrate(ctx context.Context, cfg config.Config, log *logger.Logger) (*gorm.DB, error) {
	db, err := config.OpenDB(cfg.Database, log)
	if err != nil {
		return nil, err
	}
	if err := models.AutoMigrate(db.WithContext(ctx)); err != nil {
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	log.Info("Database migrated", "driver", cfg.Database.Driver)
	return db, nil
}

func newMigrateCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			defer log.Sync()

			db, err := openAndMigrate(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
			return nil
		},
	}
}
