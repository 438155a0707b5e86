package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/msomdec/blog-dashboard/internal/config"
)

func dbcheckCmd(cfgFn func() config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "dbcheck",
		Short: "Check that the configured database is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := cfgFn()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "database: %s\n", cfg.DatabaseTarget())

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()

			db, err := openStore(ctx, cfg)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			defer db.Close()

			if err := db.Ping(ctx); err != nil {
				return fmt.Errorf("ping: %w", err)
			}
			fmt.Fprintln(out, "connection: ok")
			return nil
		},
	}
}
