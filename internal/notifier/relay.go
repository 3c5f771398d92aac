// Package notifier delivers user reports to the configured webhook and
// renders the console notices the CLI prints.
package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/linkvault/internal/logger"
	"github.com/MrSnakeDoc/linkvault/internal/service"
	"github.com/MrSnakeDoc/linkvault/internal/utils"
)

var (
	ErrNoSink         = errors.New("no webhook URL configured")
	ErrInvalidPayload = errors.New("report payload is not valid JSON")
)

// SinkError is a non-2xx answer from the webhook.
type SinkError struct {
	Status int
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("Discord API error: %d", e.Status)
}

type Relay struct {
	http    service.HTTPClient
	timeout time.Duration
}

func NewRelay(client service.HTTPClient, timeout time.Duration) *Relay {
	if client == nil {
		client = service.NewHTTPClient(timeout)
	}
	return &Relay{http: client, timeout: timeout}
}

// Relay posts payload to sinkURL as-is. One attempt; nothing is stored.
func (r *Relay) Relay(ctx context.Context, payload json.RawMessage, sinkURL string) error {
	if sinkURL == "" {
		return ErrNoSink
	}
	if !json.Valid(payload) {
		return ErrInvalidPayload
	}
	if _, err := utils.ParseSecureURL(sinkURL); err != nil {
		return fmt.Errorf("invalid webhook URL: %w", err)
	}

	resp, err := service.Do(ctx, r.http, service.Request{
		Method:  http.MethodPost,
		URL:     sinkURL,
		Header:  map[string]string{"Content-Type": "application/json"},
		Body:    payload,
		Timeout: r.timeout,
	})
	if err != nil {
		return fmt.Errorf("webhook delivery failed: %w", err)
	}
	if !resp.OK() {
		return &SinkError{Status: resp.Status}
	}

	logger.Debug("report relayed (%s)", utils.HumanSize(int64(len(payload))))
	return nil
}
