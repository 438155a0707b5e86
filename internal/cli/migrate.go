package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msomdec/blog-dashboard/internal/config"
)

func migrateCmd(cfgFn func() config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := cfgFn()
			db, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			if err := db.Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrations applied to %s\n", cfg.DatabaseTarget())
			return nil
		},
	}
}
