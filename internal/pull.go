package internal

import (
	"time"

	"github.com/MrSnakeDoc/linkvault/internal/config"
	"github.com/MrSnakeDoc/linkvault/internal/errs"
	"github.com/MrSnakeDoc/linkvault/internal/links"
	"github.com/MrSnakeDoc/linkvault/internal/logger"
	"github.com/MrSnakeDoc/linkvault/internal/middleware"
	"github.com/MrSnakeDoc/linkvault/internal/scheduler"
	"github.com/MrSnakeDoc/linkvault/internal/store"

	"github.com/spf13/cobra"
)

func NewPullCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Refresh the local mirror used by `list --offline`",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := middleware.Get[*links.Service](cmd, middleware.CtxKeyService)
			if err != nil {
				return err
			}
			cfg := svc.Config()
			if !cfg.HasToken() {
				return errs.New(errs.MissingConfig, config.EnvToken)
			}

			force, _ := cmd.Flags().GetBool("force")

			dir, err := cfg.MirrorPath()
			if err != nil {
				return err
			}
			fs, err := store.NewFS(dir)
			if err != nil {
				return err
			}

			res, err := scheduler.RefreshMirror(cmd.Context(), fs, svc.Remote(), svc.Spec(), cfg.Token, force, time.Now())
			if err != nil {
				return err
			}

			if res.Skipped {
				logger.Info("Mirror already up to date (%d URLs)", res.Meta.Count)
				return nil
			}
			logger.Success("Mirrored %d URLs to %s", res.Meta.Count, dir)
			return nil
		},
	}

	cmd.Flags().BoolP("force", "f", false, "Rewrite the mirror even when the remote file is unchanged")
	return cmd
}
