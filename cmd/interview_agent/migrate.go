package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/mock-interview/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|status]",
	Short:     "Apply or inspect database migrations",
	Long:      "Apply all pending migrations (up), roll back the latest one (down) or list their state (status).",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{db.MigrateUp, db.MigrateDown, db.MigrateStatus},
	RunE:      runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	command := db.MigrateUp
	if len(args) == 1 {
		command = args[0]
	}

	ctx := cmd.Context()
	database, err := openDatabase(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	return database.Migrate(ctx, command, logger)
}
