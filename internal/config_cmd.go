package internal

import (
	"fmt"
	"sort"
	"strings"

	"github.com/MrSnakeDoc/linkvault/internal/config"
	"github.com/MrSnakeDoc/linkvault/internal/logger"
	"github.com/MrSnakeDoc/linkvault/internal/middleware"

	"github.com/spf13/cobra"
)

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration resolved from defaults, the config file and the
environment. The token is masked. --save writes the settings (never the token)
to a config file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := middleware.Get[*config.Config](cmd, middleware.CtxKeyConfig)
			if err != nil {
				return err
			}

			if err := renderConfig(cfg); err != nil {
				return err
			}

			if !cmd.Flags().Changed("save") {
				return nil
			}
			path, _ := cmd.Flags().GetString("save")
			if path == "" {
				if path, err = config.DefaultFilePath(); err != nil {
					return err
				}
			}
			if err := cfg.Save(path); err != nil {
				return err
			}
			logger.Success("Configuration saved to %s", path)
			return nil
		},
	}

	cmd.Flags().String("save", "", "Write the settings to this path (\"\" for ~/.config/linkvault/config.yml)")
	return cmd
}

func renderConfig(cfg *config.Config) error {
	mirror, err := cfg.MirrorPath()
	if err != nil {
		mirror = err.Error()
	}

	table := logger.CreateTable([]string{"Setting", "Value"})
	rows := [][]string{
		{"repository", fmt.Sprintf("%s/%s", cfg.Owner, cfg.Repo)},
		{"file", cfg.FilePath},
		{"branches", strings.Join(cfg.Branches, ", ")},
		{"token", cfg.MaskedToken()},
		{"webhook", webhookStatus(cfg)},
		{"api base", cfg.APIBaseURL},
		{"raw base", cfg.RawBaseURL},
		{"timeout", cfg.Timeout.String()},
		{"listen", cfg.Addr},
		{"mirror", mirror},
	}

	status := cfg.EnvStatus()
	keys := make([]string, 0, len(status))
	for k := range status {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		rows = append(rows, []string{k, status[k]})
	}

	for _, r := range rows {
		if err := table.Append(r); err != nil {
			return fmt.Errorf("an error occurred while appending to the table: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("an error occurred while rendering the table: %w", err)
	}
	return nil
}

func webhookStatus(cfg *config.Config) string {
	if cfg.WebhookURL == "" {
		return "(not set)"
	}
	return "set"
}
