package middleware

import (
	"strings"

	"github.com/MrSnakeDoc/linkvault/internal/config"
	"github.com/MrSnakeDoc/linkvault/internal/errs"
	"github.com/spf13/cobra"
)

// RequireWriteConfig stops write commands before any remote call when a
// write variable is missing. It must run after LoadConfig.
func RequireWriteConfig(cmd *cobra.Command, args []string, next func(cmd *cobra.Command, args []string) error) error {
	cfg, err := Get[*config.Config](cmd, CtxKeyConfig)
	if err != nil {
		return err
	}
	if missing := cfg.MissingForWrite(); len(missing) > 0 {
		return errs.New(errs.MissingConfig, strings.Join(missing, ", "))
	}
	return next(cmd, args)
}
