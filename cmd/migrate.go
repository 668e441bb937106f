package cmd

import (
	"fmt"
	"sort"

	"github.com/killallgit/playlist-api/internal/database"
	"github.com/killallgit/playlist-api/internal/models"
	"github.com/killallgit/playlist-api/internal/sheets"
	"github.com/spf13/cobra"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Manage the database schema for the Playlist API.

Available subcommands:
  up      - Create or update every table
  status  - Show which tables exist`,
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Create or update every table",
		Long: `Apply the schema to the configured database.

Missing tables, columns and indexes are created. Existing data is kept.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase(opts)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.AutoMigrate(models.All()...); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Migrated %d tables\n", len(models.All()))
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Long: `Display the current status of the database schema.

Each table is listed as applied or pending.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase(opts)
			if err != nil {
				return err
			}
			defer db.Close()

			status, err := db.MigrationStatus()
			if err != nil {
				return err
			}

			names := make([]string, 0, len(status))
			for name := range status {
				names = append(names, name)
			}
			sort.Strings(names)

			t := sheets.Table{Headers: []string{"table", "status"}}
			pending := 0
			for _, name := range names {
				state := "applied"
				if !status[name] {
					state = "pending"
					pending++
				}
				t.Rows = append(t.Rows, []string{name, state})
			}

			out := cmd.OutOrStdout()
			renderTable(out, t)
			fmt.Fprintf(out, "%d of %d tables pending\n", pending, len(names))
			return nil
		},
	}

	migrateCmd.AddCommand(upCmd, statusCmd)
	return migrateCmd
}

func openDatabase(opts *rootOptions) (*database.DB, error) {
	cfg, err := opts.loadConfig()
	if err != nil {
		return nil, err
	}
	return database.Open(cfg.Database)
}
