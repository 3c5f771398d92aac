package middleware

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/linkvault/internal/config"
	"github.com/MrSnakeDoc/linkvault/internal/logger"
	"github.com/spf13/cobra"
)

// LoadConfig resolves the effective configuration (defaults, file, env),
// applies the logging flags on top of it and stores it in the command context.
func LoadConfig(cmd *cobra.Command, args []string, next func(cmd *cobra.Command, args []string) error) error {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger.ConfigureLoggerFromFlags(cfg.LogLevel, cfg.LogJSON)
	logger.Debug("store %s/%s:%s, branches %v", cfg.Owner, cfg.Repo, cfg.FilePath, cfg.Branches)

	ctx := context.WithValue(cmd.Context(), CtxKeyConfig, cfg)
	cmd.SetContext(ctx)

	return next(cmd, args)
}
