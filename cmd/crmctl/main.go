package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"crm_backend/internal/config"
)

const versionTimeFormat = "20060102150405"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	rootCmd := &cobra.Command{
		Use:   "crmctl",
		Short: "Operational tooling for the CRM backend",
	}
	rootCmd.AddCommand(
		migrateUpCommand(cfg),
		migrateDownCommand(cfg),
		createMigrationCommand(cfg),
		seedCommand(cfg),
		clearCommand(cfg),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newMigrator(cfg *config.Config) (*migrate.Migrate, error) {
	return migrate.New(
		fmt.Sprintf("file://%s", cfg.DB.MigrationsDir),
		cfg.DB.DSN(),
	)
}

func migrateUpCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate-up",
		Short: "apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newMigrator(cfg)
			if err != nil {
				return err
			}
			err = m.Up()
			if err == migrate.ErrNoChange {
				fmt.Println("No change in migration")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Println("Migrated up")
			return nil
		},
	}
}

func migrateDownCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate-down",
		Short: "roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newMigrator(cfg)
			if err != nil {
				return err
			}
			if err := m.Steps(-1); err != nil {
				return err
			}
			fmt.Println("Migrated down one step")
			return nil
		},
	}
}

func createMigrationCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate-create [name]",
		Short: "create empty up/down sql migration files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version := time.Now().Format(versionTimeFormat)
			up := fmt.Sprintf("%s/%s_%s.up.sql", cfg.DB.MigrationsDir, version, args[0])
			down := fmt.Sprintf("%s/%s_%s.down.sql", cfg.DB.MigrationsDir, version, args[0])

			if err := os.WriteFile(up, []byte{}, 0644); err != nil {
				return err
			}
			if err := os.WriteFile(down, []byte{}, 0644); err != nil {
				return err
			}

			fmt.Println("Created SQL up script:", up)
			fmt.Println("Created SQL down script:", down)
			return nil
		},
	}
}
