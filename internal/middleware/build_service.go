package middleware

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/linkvault/internal/config"
	"github.com/MrSnakeDoc/linkvault/internal/github"
	"github.com/MrSnakeDoc/linkvault/internal/links"
	"github.com/MrSnakeDoc/linkvault/internal/notifier"
	"github.com/MrSnakeDoc/linkvault/internal/service"
	"github.com/spf13/cobra"
)

// NewHTTPClient builds the transport shared by the GitHub client and the relay.
var NewHTTPClient = func(timeout time.Duration) service.HTTPClient {
	return service.NewHTTPClient(timeout)
}

// BuildService wires the GitHub client, the report relay and the links
// service from the loaded configuration. It must run after LoadConfig.
func BuildService(cmd *cobra.Command, args []string, next func(cmd *cobra.Command, args []string) error) error {
	cfg, err := Get[*config.Config](cmd, CtxKeyConfig)
	if err != nil {
		return err
	}

	httpClient := NewHTTPClient(cfg.Timeout)
	svc := links.New(cfg,
		github.NewClient(cfg, github.WithHTTPClient(httpClient)),
		notifier.NewRelay(httpClient, cfg.Timeout),
	)

	ctx := context.WithValue(cmd.Context(), CtxKeyService, svc)
	cmd.SetContext(ctx)

	return next(cmd, args)
}
