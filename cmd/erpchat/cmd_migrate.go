package main

import (
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	erpchat "github.com/set-night/erpchat"
	"github.com/set-night/erpchat/internal/repository"
)

var migrateFlags struct {
	steps int
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back the chat database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(*cobra.Command, []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return migrateUp(cfg)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the last migrations",
	RunE: func(*cobra.Command, []string) error {
		if migrateFlags.steps < 1 {
			return fmt.Errorf("--steps must be at least 1")
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		migrationsFS, err := fs.Sub(erpchat.MigrationsFS, "migrations")
		if err != nil {
			return fmt.Errorf("load embedded migrations: %w", err)
		}
		return repository.RollbackMigrations(cfg.DatabaseURL, migrationsFS, migrateFlags.steps)
	},
}

func init() {
	migrateDownCmd.Flags().IntVar(&migrateFlags.steps, "steps", 1, "Number of migrations to roll back")
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
}
