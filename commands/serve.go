package commands

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"craftmyprep-backend/server"
	"craftmyprep-backend/services/ai"
	"craftmyprep-backend/services/leaderboard"
)

func newServeCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Migrate the database and start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			db, err := openAndMigrate(ctx, cfg, log)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			provider, err := ai.NewProvider(ctx, cfg.AI, log)
			if err != nil {
				return err
			}
			cache, err := leaderboard.NewCache(ctx, cfg.Redis, log)
			if err != nil {
				return err
			}
			if closer, ok := cache.(interface{ Close() error }); ok {
				defer closer.Close()
			}

			handler := server.NewHandler(server.Deps{
				Config:   cfg,
				DB:       db,
				Provider: provider,
				Cache:    cache,
				Log:      log,
			})
			return server.Run(ctx, ":"+cfg.Port, handler, log)
		},
	}
}
