package commands

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/exscriptd/orderdb/internal/config"
	"github.com/exscriptd/orderdb/internal/handlers"
	"github.com/exscriptd/orderdb/internal/server"
)

func newServeCommand() *cobra.Command {
	var closeOpen bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the order API over HTTP",
		Long: `Install the schema if needed and serve the order API on /api/v1 and
Prometheus metrics on /metrics until interrupted.`,
		Example: `  # Serve on port 9000, closing orders left open by a previous run
  orderdb serve --http-port 9000 --close-open`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := zap.S().Named("orderdb")

			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.store.Schema().Install(ctx); err != nil {
				return err
			}
			if closeOpen {
				if _, err := a.orders.CloseOpen(ctx); err != nil {
					return err
				}
			}

			h := handlers.New(a.orders)
			srv, err := server.NewServer(cfg, a.registry, func(router *gin.RouterGroup) {
				handlers.RegisterHandlers(router, h)
			})
			if err != nil {
				return err
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start(ctx)
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
				logger.Info("shutting down")
			}

			if err := srv.Stop(context.Background()); err != nil {
				logger.Errorw("failed to stop server", "error", err)
			}
			return nil
		},
	}

	defaults := config.NewConfigurationWithDefaults()
	cmd.Flags().Int("http-port", defaults.Server.HTTPPort, "HTTP listen port")
	cmd.Flags().String("server-mode", defaults.Server.ServerMode, "server mode: dev or prod")
	cmd.Flags().BoolVar(&closeOpen, "close-open", false, "close open orders before serving")

	return cmd
}
