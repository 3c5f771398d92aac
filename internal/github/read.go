package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/linkvault/internal/logger"
	"github.com/MrSnakeDoc/linkvault/internal/models"
	"github.com/MrSnakeDoc/linkvault/internal/service"
	"github.com/MrSnakeDoc/linkvault/internal/utils"
)

// PublicRead is the result of an unauthenticated read. Document is always
// usable; on any failure it is empty and Message or Err says why.
type PublicRead struct {
	Document models.Document
	Branch   string
	Message  string
	Err      error
}

// Degraded reports whether the read fell back to an empty document.
func (r PublicRead) Degraded() bool { return r.Message != "" || r.Err != nil }

// ReadPublic fetches the raw file, trying each candidate branch in order.
// A 404 moves to the next branch; any other outcome stops the loop.
func (c *Client) ReadPublic(ctx context.Context, spec PathSpec) PublicRead {
	empty := models.EmptyDocument()
	var lastErr error

	for _, branch := range spec.Branches {
		url := utils.JoinURL(c.rawBase, spec.Owner, spec.Repo, branch, spec.Path) +
			"?t=" + strconv.FormatInt(c.now().UnixMilli(), 10)

		resp, err := service.Do(ctx, c.http, service.Request{
			Method:  http.MethodGet,
			URL:     url,
			Timeout: c.timeout,
		})
		if err != nil {
			logger.Debug("raw read of %s on %s failed: %v", spec, branch, err)
			lastErr = err
			break
		}
		if resp.Status == http.StatusNotFound {
			logger.Debug("%s not found on branch %s", spec, branch)
			lastErr = ErrNotFound
			continue
		}
		if !resp.OK() {
			lastErr = newStatusError("raw read", resp.Status, resp.Body)
			break
		}

		return decodePublic(branch, resp.Body)
	}

	if lastErr == nil || errors.Is(lastErr, ErrNotFound) {
		return PublicRead{Document: empty, Message: "File not found"}
	}
	return PublicRead{Document: empty, Err: lastErr}
}

func decodePublic(branch string, body []byte) PublicRead {
	read := PublicRead{Document: models.EmptyDocument(), Branch: branch}
	if len(bytes.TrimSpace(body)) == 0 {
		read.Message = "File is empty"
		return read
	}

	doc, err := models.ParseDocument(body)
	switch {
	case errors.Is(err, models.ErrURLsNotArray):
		read.Err = errors.New("Invalid data format - urls not an array")
	case err != nil:
		read.Err = fmt.Errorf("JSON parse error: %w", err)
	default:
		read.Document = doc
	}
	return read
}

// AuthoritativeRead is the authenticated view of the file together with the
// token a conditional write must present.
type AuthoritativeRead struct {
	Document models.Document
	Token    models.Token
	IsNew    bool
	// Warning is set when the file exists but its content could not be
	// decoded; Document is then empty and Token still refers to the file.
	Warning error
}

type contentsEntry struct {
	SHA         string `json:"sha"`
	Content     string `json:"content"`
	Encoding    string `json:"encoding"`
	Size        int64  `json:"size"`
	DownloadURL string `json:"download_url"`
}

// ReadAuthoritative fetches the file through the contents API. A missing
// file is not an error: it yields an empty document, a zero token and IsNew.
func (c *Client) ReadAuthoritative(ctx context.Context, spec PathSpec, credential string) (AuthoritativeRead, error) {
	resp, err := service.Do(ctx, c.http, service.Request{
		Method:  http.MethodGet,
		URL:     c.contentsURL(spec),
		Header:  authHeaders(credential),
		Timeout: c.timeout,
	})
	if err != nil {
		return AuthoritativeRead{}, fmt.Errorf("GitHub GET failed: %w", err)
	}
	if resp.Status == http.StatusNotFound {
		return AuthoritativeRead{Document: models.EmptyDocument(), IsNew: true}, nil
	}
	if !resp.OK() {
		return AuthoritativeRead{}, newStatusError("GET", resp.Status, resp.Body)
	}

	var entry contentsEntry
	if err := json.Unmarshal(resp.Body, &entry); err != nil {
		return AuthoritativeRead{}, fmt.Errorf("GitHub GET returned an invalid body: %w", err)
	}
	if entry.SHA == "" {
		return AuthoritativeRead{}, fmt.Errorf("GitHub GET returned no sha for %s", spec)
	}

	read := AuthoritativeRead{Document: models.EmptyDocument(), Token: models.Token(entry.SHA)}

	raw, err := c.entryContent(ctx, entry, credential)
	if err != nil {
		return AuthoritativeRead{}, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		read.Warning = ErrEmpty
		return read, nil
	}

	doc, err := models.ParseDocument(raw)
	if err != nil {
		read.Warning = fmt.Errorf("could not parse existing file, starting fresh: %w", err)
		return read, nil
	}
	read.Document = doc
	return read, nil
}

// entryContent returns the decoded file bytes. Files above the contents API
// inline limit come back with encoding "none" and are fetched from download_url.
func (c *Client) entryContent(ctx context.Context, entry contentsEntry, credential string) ([]byte, error) {
	switch entry.Encoding {
	case "base64":
		data, err := base64.StdEncoding.DecodeString(stripNewlines(entry.Content))
		if err != nil {
			return nil, fmt.Errorf("GitHub GET returned invalid base64 content: %w", err)
		}
		return data, nil
	case "none", "":
		if entry.DownloadURL == "" {
			return nil, nil
		}
		resp, err := service.Do(ctx, c.http, service.Request{
			Method:  http.MethodGet,
			URL:     entry.DownloadURL,
			Header:  map[string]string{"Authorization": "token " + credential},
			Timeout: c.timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("GitHub download failed: %w", err)
		}
		if !resp.OK() {
			return nil, newStatusError("download", resp.Status, resp.Body)
		}
		return resp.Body, nil
	default:
		return nil, fmt.Errorf("GitHub GET returned unsupported encoding %q", entry.Encoding)
	}
}

func (c *Client) contentsURL(spec PathSpec) string {
	return utils.JoinURL(c.apiBase, "repos", spec.Owner, spec.Repo, "contents", spec.Path)
}

func stripNewlines(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}
