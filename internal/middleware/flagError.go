package middleware

import (
	"errors"

	"github.com/MrSnakeDoc/linkvault/internal/errs"
	"github.com/MrSnakeDoc/linkvault/internal/logger"
)

// ErrLogged tells Execute the failure was already reported to the user.
var ErrLogged = errors.New("already logged")

func FlagComboError(code errs.Code, a ...any) error {
	msg := errs.Msg(code, a...)
	logger.LogError("%s", msg)
	return ErrLogged
}
