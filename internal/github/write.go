package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/MrSnakeDoc/linkvault/internal/models"
	"github.com/MrSnakeDoc/linkvault/internal/service"
)

// WriteResult reports a committed write.
type WriteResult struct {
	Token  models.Token
	Commit string
}

type putRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	SHA     string `json:"sha,omitempty"`
}

type putResponse struct {
	Content struct {
		SHA string `json:"sha"`
	} `json:"content"`
	Commit struct {
		SHA string `json:"sha"`
	} `json:"commit"`
}

// Write replaces the file with doc, conditioned on token. A zero token
// creates the file. A stale or missing token yields ErrConflict; nothing is
// retried here.
func (c *Client) Write(ctx context.Context, spec PathSpec, doc models.Document, token models.Token, credential, message string) (WriteResult, error) {
	data, err := doc.Encode()
	if err != nil {
		return WriteResult{}, fmt.Errorf("failed to encode document: %w", err)
	}

	body, err := json.Marshal(putRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(data),
		SHA:     string(token),
	})
	if err != nil {
		return WriteResult{}, fmt.Errorf("failed to encode request: %w", err)
	}

	headers := authHeaders(credential)
	headers["Content-Type"] = "application/json"

	resp, err := service.Do(ctx, c.http, service.Request{
		Method:  http.MethodPut,
		URL:     c.contentsURL(spec),
		Header:  headers,
		Body:    body,
		Timeout: c.timeout,
	})
	if err != nil {
		return WriteResult{}, fmt.Errorf("GitHub PUT failed: %w", err)
	}

	switch {
	case resp.Status == http.StatusConflict, resp.Status == http.StatusUnprocessableEntity:
		return WriteResult{}, fmt.Errorf("%w: %w", ErrConflict, newStatusError("PUT", resp.Status, resp.Body))
	case !resp.OK():
		return WriteResult{}, newStatusError("PUT", resp.Status, resp.Body)
	}

	var out putResponse
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return WriteResult{}, fmt.Errorf("GitHub PUT returned an invalid body: %w", err)
	}
	return WriteResult{Token: models.Token(out.Content.SHA), Commit: out.Commit.SHA}, nil
}
