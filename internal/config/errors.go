package config

import "errors"

var (
	ErrInvalidTimeout       = errors.New("invalid timeout: must be positive")
	ErrNoBranches           = errors.New("no candidate branches configured")
	ErrIncompleteRepository = errors.New("repository owner, name and file path must not be empty")
	ErrConfigNotFound       = errors.New("configuration file not found")
)
