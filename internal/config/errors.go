package config

import "errors"

var (
	// ErrInvalidConfig marks a loaded Config that failed Validate.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig marks a failure reading a config layer.
	ErrLoadConfig = errors.New("load config failed")
)
