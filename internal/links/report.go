package links

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/MrSnakeDoc/linkvault/internal/config"
	"github.com/MrSnakeDoc/linkvault/internal/errs"
	"github.com/MrSnakeDoc/linkvault/internal/notifier"
)

// Report relays payload to the configured webhook.
func (s *Service) Report(ctx context.Context, payload json.RawMessage) error {
	if s.cfg.WebhookURL == "" {
		return errs.New(errs.MissingWebhook, config.EnvWebhookURL)
	}
	err := s.relay.Relay(ctx, payload, s.cfg.WebhookURL)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, notifier.ErrInvalidPayload):
		return errs.Wrap(errs.InvalidBody, err)
	default:
		return errs.Wrap(errs.SinkFailed, err)
	}
}
