package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type Code string

const (
	MissingConfig    Code = "MISSING_CONFIG"
	MissingWebhook   Code = "MISSING_WEBHOOK"
	InvalidBody      Code = "INVALID_BODY"
	URLsNotArray     Code = "URLS_NOT_ARRAY"
	RecordNoURL      Code = "RECORD_NO_URL"
	MethodNotAllowed Code = "METHOD_NOT_ALLOWED"
	StoreRead        Code = "STORE_READ"
	StoreWrite       Code = "STORE_WRITE"
	WriteConflict    Code = "WRITE_CONFLICT"
	SinkFailed       Code = "SINK_FAILED"
	NoURLs           Code = "NO_URLS"
	NoReport         Code = "NO_REPORT"
)

var messages = map[Code]string{
	MissingConfig: "Missing environment variables. Please set %s.",

	MissingWebhook: "Webhook URL is not configured (set %s).",

	InvalidBody: "Request body is not valid JSON: %v",

	URLsNotArray: "URLs must be an array",

	RecordNoURL: "URL record %d has no url",

	MethodNotAllowed: "Method not allowed",

	StoreRead: "Could not read the current URL file from GitHub: %v",

	StoreWrite: "Could not update the URL file on GitHub: %v",

	WriteConflict: `The URL file changed on GitHub while this request was being processed.

Retry the whole request: the file is read again and your URLs are merged
into the latest version. Nothing was written.`,

	SinkFailed: "Report could not be delivered: %v",

	NoURLs: "No URLs given. Pass them as arguments or with --file.",

	NoReport: "Give exactly one of --file or --message.",
}

var statuses = map[Code]int{
	MissingConfig:    http.StatusInternalServerError,
	MissingWebhook:   http.StatusInternalServerError,
	InvalidBody:      http.StatusBadRequest,
	URLsNotArray:     http.StatusBadRequest,
	RecordNoURL:      http.StatusBadRequest,
	MethodNotAllowed: http.StatusMethodNotAllowed,
	StoreRead:        http.StatusBadGateway,
	StoreWrite:       http.StatusBadGateway,
	WriteConflict:    http.StatusConflict,
	SinkFailed:       http.StatusInternalServerError,
	NoURLs:           http.StatusBadRequest,
	NoReport:         http.StatusBadRequest,
}

func Msg(code Code, a ...any) string {
	msg := messages[code]
	if msg == "" {
		msg = string(code)
	}
	if len(a) == 0 || !strings.Contains(msg, "%") {
		return msg
	}
	return fmt.Sprintf(msg, a...)
}

// Status returns the HTTP status a handler answers with for code.
func Status(code Code) int {
	if s, ok := statuses[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Error is a coded failure surfaced to API callers and the CLI.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Status is the HTTP status for the error's code.
func (e *Error) Status() int { return Status(e.Code) }

// New builds a coded error with its formatted message.
func New(code Code, a ...any) *Error {
	return &Error{Code: code, Message: Msg(code, a...)}
}

// Wrap builds a coded error formatted with cause and keeping it for errors.Is.
func Wrap(code Code, cause error) *Error {
	return &Error{Code: code, Message: Msg(code, cause), Err: cause}
}

// As extracts a coded error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
