package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/smartworkmark/seo-content-portal/migrations"
)

// migrateCommands maps subcommand names to goose operations.
var migrateCommands = map[string]func(*sql.DB, string, ...goose.OptionsFunc) error{
	"up":      goose.Up,
	"up-one":  goose.UpByOne,
	"down":    goose.Down,
	"status":  goose.Status,
	"version": goose.Version,
	"reset":   goose.Reset,
}

var migrateDB string

var migrateCmd = &cobra.Command{
	Use:   "migrate <up|up-one|down|status|version|reset>",
	Short: "Manage the database schema",
	Long: `Runs goose against the embedded migrations.

Commands:
  up          Migrate to the latest version
  up-one      Migrate one version up
  down        Roll back one version
  status      Show migration status
  version     Show current version
  reset       Roll back all migrations`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"up", "up-one", "down", "status", "version", "reset"},
	RunE:      runMigrate,
}

func init() {
	def := os.Getenv("DATABASE_PATH")
	if def == "" {
		def = "./data/portal.db"
	}
	migrateCmd.Flags().StringVar(&migrateDB, "db", def, "path to sqlite database")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(_ *cobra.Command, args []string) error {
	op, ok := migrateCommands[args[0]]
	if !ok {
		return fmt.Errorf("unknown command: %s", args[0])
	}

	db, err := sql.Open("sqlite", migrateDB)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := migrations.Setup(); err != nil {
		return err
	}
	if err := op(db, "."); err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	return nil
}
