package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/fedicore/internal/interfaces/http"
	"github.com/turtacn/fedicore/internal/interfaces/http/handlers"
	"github.com/turtacn/fedicore/pkg/logger"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve actor and WebFinger documents over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := newNode()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			handlerLog := n.log.WithComponent("handler")
			router := http.NewRouter(
				n.cfg,
				n.log,
				n.tracing,
				n.operatorAuth(),
				n.metrics,
				n.registry,
				handlers.NewHealthHandler(n.cfg.Federation.Domain, n.store),
				handlers.NewActorHandler(n.federation, handlerLog),
				handlers.NewWebFingerHandler(n.federation, handlerLog),
				handlers.NewNoteHandler(n.federation, handlerLog),
			)

			n.log.Info(ctx, "fedicore node starting",
				logger.String("domain", n.cfg.Federation.Domain),
				logger.String("environment", n.cfg.Server.Environment),
				logger.Int("key_bits", n.cfg.Federation.KeyBits),
				logger.Bool("operator_api", n.cfg.Operator.Enabled),
			)
			serveErr := router.Start(ctx)
			if serveErr != nil {
				n.log.Error(ctx, "HTTP server failed", serveErr)
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			n.close(shutdownCtx)
			return serveErr
		},
	}
}
