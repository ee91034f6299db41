package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jobmate/match-service/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.ValidateDatabase(); err != nil {
			return fmt.Errorf("config: %w", err)
		}
		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer log.Sync() //nolint:errcheck

		files, err := db.MigrationFiles()
		if err != nil {
			return err
		}
		log.Info("applying migrations", zap.Strings("files", files))

		if err := db.Migrate(cmd.Context(), cfg.DatabaseURL); err != nil {
			return err
		}
		log.Info("migrations applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
