package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/stwalsh4118/landbook/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.NewPostgresPool(cmd.Context(), cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()
		return migrate(cmd.Context(), db)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func migrate(ctx context.Context, db *database.Database) error {
	applied, err := database.Migrate(ctx, db.Pool, log)
	if err != nil {
		log.Error("Migration failed", err, nil)
		return err
	}
	log.Info("Migrations complete", map[string]interface{}{
		"applied": applied,
		"count":   len(applied),
	})
	return nil
}
