package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/msomdec/blog-dashboard/internal/config"
)

// tokenCmd prints the effective signing configuration and proves it works by
// issuing and decoding a sample token.
func tokenCmd(cfgFn func() config.Config) *cobra.Command {
	var subject string
	var userID int64
	var ttl int

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Show JWT settings and issue a sample token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := cfgFn()
			tokens, err := newTokenService(cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "secret:    %s\n", cfg.MaskedSecret())
			fmt.Fprintf(out, "algorithm: %s\n", tokens.Algorithm())
			fmt.Fprintf(out, "ttl:       %s\n", tokens.TTL())

			token, err := tokens.IssueWithTTL(subject, userID, ttl)
			if err != nil {
				return fmt.Errorf("issue sample token: %w", err)
			}
			fmt.Fprintf(out, "token:     %s\n", token)

			claims, ok := tokens.Verify(token)
			if !ok {
				fmt.Fprintln(out, "decode:    FAILED (token is expired or invalid)")
				return nil
			}
			fmt.Fprintf(out, "decode:    ok sub=%s user_id=%d exp=%s\n",
				claims.Subject, claims.UserID, claims.ExpiresAt.Time.UTC().Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "test_user", "Subject (username) to embed")
	cmd.Flags().Int64Var(&userID, "user-id", 0, "User ID to embed")
	cmd.Flags().IntVar(&ttl, "ttl", 5, "Lifetime in minutes")
	return cmd
}
