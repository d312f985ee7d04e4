package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/braindump/internal/httpapi"
	"github.com/spf13/cobra"
)

func newTokenCmd(app *App) *cobra.Command {
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API bearer token for the current owner",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Env.JWTSecret == "" {
				return errors.New("BRAINDUMP_JWT_SECRET must be set to issue tokens")
			}
			if ttl <= 0 {
				ttl = app.Env.TokenTTL
			}
			tok, err := httpapi.GenerateToken([]byte(app.Env.JWTSecret), app.Owner, ttl, app.now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (default $BRAINDUMP_TOKEN_TTL or 720h)")
	return cmd
}
