package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/alexanderramin/braindump/internal/config"
	"github.com/alexanderramin/braindump/internal/httpapi"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(app *App) *cobra.Command {
	var (
		addr  string
		watch bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the plan API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Env.JWTSecret == "" {
				return errors.New("BRAINDUMP_JWT_SECRET must be set to serve the API")
			}
			if addr == "" {
				addr = app.Env.Addr
			}
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listening on %s: %w", addr, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", ln.Addr())
			return serve(cmd.Context(), app, ln, watch)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default $BRAINDUMP_ADDR or 127.0.0.1:8787)")
	cmd.Flags().BoolVar(&watch, "watch-config", true, "Reload the tuning file when it changes")
	return cmd
}

// serve runs the API on ln until ctx is cancelled, then drains in-flight
// requests. With watch set the tuning file is reloaded alongside.
func serve(ctx context.Context, app *App, ln net.Listener, watch bool) error {
	logger := app.logger()
	var watcher *config.Watcher
	if watch && app.Store != nil && app.Env.ConfigPath != "" {
		if err := os.MkdirAll(filepath.Dir(app.Env.ConfigPath), 0o755); err != nil {
			_ = ln.Close()
			return fmt.Errorf("creating config dir: %w", err)
		}
		watcher = &config.Watcher{
			Path:   app.Env.ConfigPath,
			Base:   app.Base,
			Store:  app.Store,
			Logger: logger,
		}
	}
	srv := &http.Server{
		Handler: httpapi.NewHandler(httpapi.Config{
			Plans:          app.Plans,
			Tasks:          app.Tasks,
			Secret:         []byte(app.Env.JWTSecret),
			AllowedOrigins: app.Env.AllowedOrigin,
			Logger:         logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if watcher != nil {
		g.Go(func() error { return watcher.Watch(ctx) })
	}

	logger.Info("server_started", "addr", ln.Addr().String())
	err := g.Wait()
	logger.Info("server_stopped")
	return err
}
