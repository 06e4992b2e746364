package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"moirai-dashboard/src/proxy"
)

var allowedOrigins []string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard, its JSON API and the CI proxy",
	Long: `Serve the browser dashboard from STATIC_DIR, the JSON dashboard API and
a read-only proxy that injects each server's token:

  GET /api/servers
  GET /api/repos/{serverId}
  GET /api/dashboard/{serverId}/{owner}/{name}[/{tab}|/details?key=]
  GET /proxy/{serverId}/{path}
  GET /health, /metrics`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := proxy.New(registry, service, proxy.Options{
			StaticDir:      appConfig.StaticDir,
			AllowedOrigins: allowedOrigins,
			AccessLog:      appLog.Named("http").Zerolog(),
		})

		httpServer := &http.Server{
			Addr:              net.JoinHostPort("", appConfig.Port),
			Handler:           srv.Router(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			appLog.Info("listening on :%s with %d server(s)", appConfig.Port, len(registry.Servers()))
			errCh <- httpServer.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		appLog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().StringSliceVar(&allowedOrigins, "allowed-origin", nil, "CORS allowed origin (repeatable, default: any)")
}
