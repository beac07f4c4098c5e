package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/huangsam/teampulse/internal/api"
)

const (
	defaultServeAddr = ":8080"
	shutdownTimeout  = 10 * time.Second
)

// serveCmd exposes the health operations as a JSON HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve engineer and team health over a JSON HTTP API.",
	Long: `Start an HTTP server exposing the health operations.

Routes:
  GET /healthz
  GET /api/engineers/{name}/health
  GET /api/team/insights
  GET /api/team/summary
  GET /api/training?urgency=high
  GET /api/mentors?mentee=bob

Every /api route accepts an optional window query parameter in days.

Examples:
  teampulse serve --addr :9090
  curl localhost:9090/api/team/summary?window=14`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runServer(rootCtx, viper.GetString("addr"))
	},
}

// runServer serves until SIGINT or SIGTERM, then drains in-flight requests.
func runServer(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.NewRouter(svc, logger),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      5 * time.Minute, // team analysis runs git and GitHub queries
		IdleTimeout:       2 * time.Minute,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logger.Info("server started", zap.String("addr", addr))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
