package middleware

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

const (
	CtxKeyConfig  contextKey = "config"
	CtxKeyService contextKey = "service"
)

type CommandFactory func() *cobra.Command

type MiddlewareFunc func(cmd *cobra.Command, args []string, next func(cmd *cobra.Command, args []string) error) error

type MiddlewareChain func(factory CommandFactory) CommandFactory

type contextKey string

// UseMiddlewareChain wraps a CommandFactory so the middlewares run, in
// order, from the command's PreRunE. An error from any of them aborts the
// command before RunE.
func UseMiddlewareChain(middlewares ...MiddlewareFunc) MiddlewareChain {
	chain := slices.Clone(middlewares)

	return func(factory CommandFactory) CommandFactory {
		return func() *cobra.Command {
			cmd := factory()

			run := cmd.PreRunE
			if run == nil {
				run = func(*cobra.Command, []string) error { return nil }
			}
			for i := len(chain) - 1; i >= 0; i-- {
				mw, next := chain[i], run
				run = func(c *cobra.Command, a []string) error {
					return mw(c, a, next)
				}
			}
			cmd.PreRunE = run
			return cmd
		}
	}
}

// Get returns the value a middleware stored under key in the command context.
func Get[T any](cmd *cobra.Command, key contextKey) (T, error) {
	var zero T

	ctx := cmd.Context()
	if ctx == nil {
		return zero, fmt.Errorf("command context is nil")
	}

	val := ctx.Value(key)
	if val == nil {
		return zero, fmt.Errorf("context value %q is nil", key)
	}

	casted, ok := val.(T)
	if !ok {
		return zero, fmt.Errorf("context value %q has wrong type: %T", key, val)
	}

	return casted, nil
}
