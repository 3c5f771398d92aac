package internal

import (
	"github.com/MrSnakeDoc/linkvault/internal/links"
	"github.com/MrSnakeDoc/linkvault/internal/logger"
	"github.com/MrSnakeDoc/linkvault/internal/middleware"

	"github.com/spf13/cobra"
)

func NewPruneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove URLs that no longer match their host's link format",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := middleware.Get[*links.Service](cmd, middleware.CtxKeyService)
			if err != nil {
				return err
			}

			res, err := svc.Prune(cmd.Context())
			if err != nil {
				return err
			}

			if res.Removed == 0 {
				logger.Info("Nothing to remove (%d URLs checked)", res.Kept)
				return nil
			}
			logger.Success("Removed %d invalid URLs, %d kept", res.Removed, res.Kept)
			return nil
		},
	}
}
