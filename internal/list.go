package internal

import (
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/linkvault/internal/links"
	"github.com/MrSnakeDoc/linkvault/internal/list"
	"github.com/MrSnakeDoc/linkvault/internal/logger"
	"github.com/MrSnakeDoc/linkvault/internal/middleware"
	"github.com/MrSnakeDoc/linkvault/internal/store"

	"github.com/spf13/cobra"
)

func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show a ranked view of the stored URLs",
		Example: `  linkvault list --view popular --limit 10
  linkvault list --offline --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := middleware.Get[*links.Service](cmd, middleware.CtxKeyService)
			if err != nil {
				return err
			}

			view, _ := cmd.Flags().GetString("view")
			limit, _ := cmd.Flags().GetInt("limit")
			asJSON, _ := cmd.Flags().GetBool("json")
			offline, _ := cmd.Flags().GetBool("offline")

			l, err := list.New(view, limit, asJSON, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			var snap links.Snapshot
			if offline {
				snap, err = offlineSnapshot(cmd, svc)
				if err != nil {
					return err
				}
			} else {
				snap = svc.Snapshot(cmd.Context())
				switch {
				case snap.Err != nil:
					logger.Warn("store unavailable: %v", snap.Err)
				case snap.Message != "":
					logger.Info("%s", snap.Message)
				}
			}

			if snap.RemovedCount > 0 {
				logger.Debug("%d invalid URLs hidden", snap.RemovedCount)
			}
			return l.Execute(snap.Rankings)
		},
	}

	cmd.Flags().StringP("view", "w", "newest", fmt.Sprintf("Ranking to show (%s)", strings.Join(list.Views, ", ")))
	cmd.Flags().IntP("limit", "n", 20, "Maximum rows to show (0 for the full view)")
	cmd.Flags().Bool("json", false, "Print the records as JSON")
	cmd.Flags().Bool("offline", false, "Read the local mirror written by `linkvault pull`")
	return cmd
}

func offlineSnapshot(cmd *cobra.Command, svc *links.Service) (links.Snapshot, error) {
	dir, err := svc.Config().MirrorPath()
	if err != nil {
		return links.Snapshot{}, err
	}
	fs, err := store.NewFS(dir)
	if err != nil {
		return links.Snapshot{}, err
	}

	doc, meta, err := fs.Load(cmd.Context())
	if err != nil {
		return links.Snapshot{}, fmt.Errorf("local mirror: %w", err)
	}
	logger.Debug("mirror %s fetched %s", meta.Source, meta.FetchedAt.Format("2006-01-02 15:04"))
	return svc.Rank(doc), nil
}
