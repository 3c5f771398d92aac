package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/linkvault/internal/config"
	"github.com/MrSnakeDoc/linkvault/internal/utils"
)

// MaxResponseBytes caps every body read from GitHub or the webhook sink.
const MaxResponseBytes = 8 << 20

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type DefaultHTTPClient struct{ *http.Client }

func NewHTTPClient(timeout time.Duration) *DefaultHTTPClient {
	return &DefaultHTTPClient{Client: &http.Client{Timeout: timeout}}
}

// Response is a fully read HTTP response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

func (r Response) OK() bool { return r.Status >= 200 && r.Status < 300 }

// Request describes one outbound call.
type Request struct {
	Method  string
	URL     string
	Header  map[string]string
	Body    []byte
	Timeout time.Duration
}

// Do performs req bounded by req.Timeout and reads the whole body.
// Only transport failures and timeouts are errors; any status is returned as-is.
func Do(ctx context.Context, c HTTPClient, req Request) (Response, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	var body io.Reader = http.NoBody
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return Response{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("User-Agent", config.UserAgent())
	for k, v := range req.Header {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("failed to perform request: %w", err)
	}
	defer utils.Try(resp.Body.Close)

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes))
	if err != nil {
		return Response{}, fmt.Errorf("failed to read response: %w", err)
	}

	return Response{Status: resp.StatusCode, Header: resp.Header, Body: data}, nil
}
