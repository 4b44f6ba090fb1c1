// Package config defines fetchkit configuration and its loading hooks.
package config

import "time"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// BaseURL is the API root every relative path resolves against.
	BaseURL string `koanf:"base_url"`

	// Token is the session token. Empty means unauthenticated.
	Token string `koanf:"token"`

	// TokenCookie names the cookie that carries the session token when it is
	// read from a cookie jar.
	TokenCookie string `koanf:"token_cookie"`

	// TimeoutMS bounds every outbound request.
	TimeoutMS int `koanf:"timeout_ms"`

	// Headers are added to every request's defaults.
	Headers map[string]string `koanf:"headers"`

	// SandboxAddr is the listen address of the stub API server.
	SandboxAddr string `koanf:"sandbox_addr"`

	// CORSOrigins lists origins the sandbox accepts. Empty allows any.
	CORSOrigins []string `koanf:"cors_origins"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:    "info",
		LogFormat:   "text",
		BaseURL:     "https://api.nuxtjs.dev",
		TokenCookie: "token",
		TimeoutMS:   30_000,
		Headers:     map[string]string{},
		SandboxAddr: ":9090",
	}
}

// Timeout returns TimeoutMS as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}
