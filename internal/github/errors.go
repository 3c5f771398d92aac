package github

import (
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/linkvault/internal/utils"
)

var (
	// ErrConflict means the token presented on write no longer matches the
	// remote file. The caller must redo the whole read-modify-write cycle.
	ErrConflict = errors.New("remote file changed since it was read")
	ErrNotFound = errors.New("remote file not found")
	ErrEmpty    = errors.New("remote file is empty")
)

// StatusError is a non-success answer from GitHub. Body is truncated and
// never contains the request credential.
type StatusError struct {
	Op     string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("GitHub %s failed: %d", e.Op, e.Status)
	}
	return fmt.Sprintf("GitHub %s failed: %d - %s", e.Op, e.Status, e.Body)
}

func newStatusError(op string, status int, body []byte) *StatusError {
	return &StatusError{Op: op, Status: status, Body: utils.Truncate(string(body), 200)}
}
