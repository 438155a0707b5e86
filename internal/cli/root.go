// Package cli wires the blog backend into a cobra command tree.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/msomdec/blog-dashboard/internal/auth"
	"github.com/msomdec/blog-dashboard/internal/config"
	"github.com/msomdec/blog-dashboard/internal/domain"
	"github.com/msomdec/blog-dashboard/internal/logging"
	"github.com/msomdec/blog-dashboard/internal/repository/postgres"
	"github.com/msomdec/blog-dashboard/internal/repository/sqlite"
)

// store is what every database backend provides.
type store interface {
	domain.Database
	domain.Repositories
	domain.TxManager
}

// NewRootCmd builds the command tree. Configuration is read from the
// environment before any subcommand runs.
func NewRootCmd() *cobra.Command {
	var cfg config.Config

	root := &cobra.Command{
		Use:           "blogd",
		Short:         "Blog management backend",
		Long:          "HTTP API for user accounts and blog posts, plus maintenance commands.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			logger, err := logging.New(cmd.ErrOrStderr(), loaded.LogLevel, loaded.LogFormat)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)
			cfg = loaded
			return nil
		},
	}

	cfgFn := func() config.Config { return cfg }
	root.AddCommand(
		serveCmd(cfgFn),
		migrateCmd(cfgFn),
		tokenCmd(cfgFn),
		dbcheckCmd(cfgFn),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func openStore(ctx context.Context, cfg config.Config) (store, error) {
	if cfg.Database.Driver == config.DriverPostgres {
		db, err := postgres.New(ctx, cfg.Database.URL, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
		if err != nil {
			return nil, err
		}
		return db, nil
	}
	db, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	return db, nil
}

func newHasher(cfg config.Config) (*auth.Hasher, error) {
	scheme, err := auth.ParseScheme(cfg.Password.Scheme)
	if err != nil {
		return nil, err
	}
	return auth.NewHasher(
		auth.WithPreferredScheme(scheme),
		auth.WithPBKDF2Rounds(cfg.Password.PBKDF2Rounds),
		auth.WithBcryptCost(cfg.Password.BcryptCost),
		auth.WithLogger(slog.Default()),
	), nil
}

func newTokenService(cfg config.Config) (*auth.TokenService, error) {
	return auth.NewTokenService(auth.TokenConfig{
		Secret:    cfg.JWT.Secret,
		Algorithm: cfg.JWT.Algorithm,
		TTL:       cfg.JWT.TTL(),
	}, nil)
}
