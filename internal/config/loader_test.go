package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/fetchkit/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.BaseURL, convey.ShouldEqual, "https://api.nuxtjs.dev")
				convey.So(cfg.TimeoutMS, convey.ShouldEqual, 30_000)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("FETCHKIT_BASE_URL", "http://localhost:9090")
			_ = os.Setenv("FETCHKIT_TOKEN", "s3cr3t")
			_ = os.Setenv("FETCHKIT_TIMEOUT_MS", "1500")
			_ = os.Setenv("FETCHKIT_LOG_LEVEL", "debug")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.BaseURL, convey.ShouldEqual, "http://localhost:9090")
				convey.So(cfg.Token, convey.ShouldEqual, "s3cr3t")
				convey.So(cfg.TimeoutMS, convey.ShouldEqual, 1500)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
# local sandbox
base_url: "http://localhost:9090"
token_cookie: sid
timeout_ms: 2000
headers:
  Accept: application/json
cors_origins:
  - http://localhost:3000
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("FETCHKIT_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.BaseURL, convey.ShouldEqual, "http://localhost:9090")
				convey.So(cfg.TokenCookie, convey.ShouldEqual, "sid")
				convey.So(cfg.TimeoutMS, convey.ShouldEqual, 2000)
				convey.So(cfg.Headers["Accept"], convey.ShouldEqual, "application/json")
				convey.So(cfg.CORSOrigins, convey.ShouldResemble, []string{"http://localhost:3000"})
				convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile("base_url: \"http://file:1\"\ntimeout_ms: 2000\n")
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("FETCHKIT_CONFIG", tmpFile)
			_ = os.Setenv("FETCHKIT_BASE_URL", "http://env:2")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.BaseURL, convey.ShouldEqual, "http://env:2")
				convey.So(cfg.TimeoutMS, convey.ShouldEqual, 2000)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("FETCHKIT_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("FETCHKIT_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("FETCHKIT_TIMEOUT_MS", "soon")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestConfigValidation(t *testing.T) {
	convey.Convey("Given invalid values", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		cases := map[string]map[string]string{
			"base_url must not be empty":      {"FETCHKIT_BASE_URL": ""},
			"base_url must be an absolute":    {"FETCHKIT_BASE_URL": "/relative"},
			"timeout_ms must be positive":     {"FETCHKIT_TIMEOUT_MS": "0"},
			"unknown log level":               {"FETCHKIT_LOG_LEVEL": "loud"},
			"log_format must be text or json": {"FETCHKIT_LOG_FORMAT": "xml"},
		}
		for want, vars := range cases {
			for k, v := range vars {
				_ = os.Setenv(k, v)
			}

			cfg, err := config.Load(ctx)

			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, want)
			convey.So(cfg, convey.ShouldBeNil)
			clearConfigEnvVars()
		}
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"FETCHKIT_CONFIG",
		"FETCHKIT_BASE_URL",
		"FETCHKIT_TOKEN",
		"FETCHKIT_TOKEN_COOKIE",
		"FETCHKIT_TIMEOUT_MS",
		"FETCHKIT_LOG_LEVEL",
		"FETCHKIT_LOG_FORMAT",
		"FETCHKIT_SANDBOX_ADDR",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "fetchkit-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
