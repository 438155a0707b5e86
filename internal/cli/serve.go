package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/msomdec/blog-dashboard/internal/config"
	"github.com/msomdec/blog-dashboard/internal/handler"
	"github.com/msomdec/blog-dashboard/internal/service"
)

func serveCmd(cfgFn func() config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long:  "Apply pending migrations, then serve the HTTP API until SIGINT or SIGTERM.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfgFn())
		},
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	db, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied", "driver", cfg.Database.Driver)

	hasher, err := newHasher(cfg)
	if err != nil {
		return err
	}
	tokens, err := newTokenService(cfg)
	if err != nil {
		return err
	}

	router := handler.NewRouter(handler.RouterConfig{
		Accounts:    service.NewAccountService(db.Users(), hasher, tokens),
		Identity:    service.NewIdentityResolver(db.Users(), tokens),
		Posts:       service.NewPostService(db.Posts(), db),
		DB:          db,
		CORSOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
