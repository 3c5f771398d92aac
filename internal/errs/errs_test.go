package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMsg(t *testing.T) {
	assert.Equal(t, "URLs must be an array", Msg(URLsNotArray))
	assert.Equal(t, "Missing environment variables. Please set GITHUB_TOKEN.", Msg(MissingConfig, "GITHUB_TOKEN"))
	assert.Equal(t, "UNKNOWN", Msg(Code("UNKNOWN")))
}

func TestStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, Status(URLsNotArray))
	assert.Equal(t, http.StatusConflict, Status(WriteConflict))
	assert.Equal(t, http.StatusInternalServerError, Status(Code("UNKNOWN")))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("save: %w", Wrap(StoreWrite, cause))

	coded, ok := As(err)
	assert.True(t, ok)
	assert.Equal(t, StoreWrite, coded.Code)
	assert.Equal(t, http.StatusBadGateway, coded.Status())
	assert.Contains(t, coded.Error(), "boom")
	assert.True(t, errors.Is(err, cause))
}

func TestWrapWithoutVerbKeepsMessage(t *testing.T) {
	cause := errors.New("sha mismatch")
	err := Wrap(WriteConflict, cause)

	assert.NotContains(t, err.Error(), "EXTRA")
	assert.Contains(t, err.Error(), "changed on GitHub")
	assert.True(t, errors.Is(err, cause))
}
