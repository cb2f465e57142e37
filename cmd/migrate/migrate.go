// Package migrate contains the schema migration command.
package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"financetrack/cmd/root"
	"financetrack/internal/store"
)

var seedFile string

// Cmd is the migrate command. It applies the schema and seeds the default
// categories; both steps are idempotent.
var Cmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema and seed default categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := root.Cfg
		log := root.Log
		ctx := cmd.Context()

		st, err := store.New(ctx, cfg.Database.URL, log)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		log.Info("Schema applied")

		path := seedFile
		if path == "" {
			path = cfg.Categories.SeedFile
		}
		categories := store.LoadCategorySeed(path, log)
		if err := st.SeedCategories(ctx, categories); err != nil {
			return fmt.Errorf("category seeding failed: %w", err)
		}
		log.WithField("count", len(categories)).Info("Categories seeded")

		return nil
	},
}

func init() {
	Cmd.Flags().StringVar(&seedFile, "seed-file", "", "YAML file with categories to seed (defaults to config)")
}
