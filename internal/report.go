package internal

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/MrSnakeDoc/linkvault/internal/errs"
	"github.com/MrSnakeDoc/linkvault/internal/links"
	"github.com/MrSnakeDoc/linkvault/internal/logger"
	"github.com/MrSnakeDoc/linkvault/internal/middleware"

	"github.com/spf13/cobra"
)

func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Relay a report to the configured webhook",
		Long: `Relay a report to the webhook set in DISCORD_WEBHOOK_URL.

--file sends a JSON payload as is. --message wraps plain text as {"content": ...}.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := middleware.Get[*links.Service](cmd, middleware.CtxKeyService)
			if err != nil {
				return err
			}

			file, _ := cmd.Flags().GetString("file")
			message, _ := cmd.Flags().GetString("message")

			var payload json.RawMessage
			switch {
			case file != "" && message != "":
				return middleware.FlagComboError(errs.NoReport)
			case file != "":
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", file, err)
				}
				payload = data
			case message != "":
				payload, err = json.Marshal(map[string]string{"content": message})
				if err != nil {
					return err
				}
			default:
				return middleware.FlagComboError(errs.NoReport)
			}

			if err := svc.Report(cmd.Context(), payload); err != nil {
				return err
			}
			logger.Success("Report sent")
			return nil
		},
	}

	cmd.Flags().StringP("file", "f", "", "JSON payload to relay")
	cmd.Flags().StringP("message", "m", "", "Plain text report")
	return cmd
}
