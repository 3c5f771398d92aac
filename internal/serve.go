package internal

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/linkvault/internal/api"
	"github.com/MrSnakeDoc/linkvault/internal/links"
	"github.com/MrSnakeDoc/linkvault/internal/logger"
	"github.com/MrSnakeDoc/linkvault/internal/middleware"
	"github.com/MrSnakeDoc/linkvault/internal/notifier"

	"github.com/spf13/cobra"
)

const shutdownGrace = 10 * time.Second

func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the URL, save and report endpoints over HTTP",
		Long: `Serve the HTTP API:

  GET  /api/urls     ranked views of the stored URLs
  POST /api/urls     merge a batch of URLs into the store
  POST /api/report   relay a report to the configured webhook

The legacy /.netlify/functions/* paths are served by the same handlers.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := middleware.Get[*links.Service](cmd, middleware.CtxKeyService)
			if err != nil {
				return err
			}
			cfg := svc.Config()

			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				addr = cfg.Addr
			}

			if !logger.FlagJSON && !cfg.LogJSON && !logger.FlagSilent {
				notifier.DisplayServeBanner(cmd.OutOrStdout(), addr, cfg)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info("listening on %s", addr)
			return api.NewServer(svc).ListenAndServe(ctx, addr, shutdownGrace)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (default from config, :8888)")
	return cmd
}
