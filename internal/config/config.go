// Package config loads studio settings: defaults, then a .env file, then STUDIO_*
// environment variables. Command-line flags override the result in cmd/studio.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
)

// EnvPrefix marks the environment variables read by Load.
const EnvPrefix = "STUDIO_"

// Config holds the global settings.
type Config struct {
	APIURL           string        `mapstructure:"api_url"`
	Locale           string        `mapstructure:"locale"`
	LogLevel         string        `mapstructure:"log_level"`
	LogFormat        string        `mapstructure:"log_format"`
	Timeout          time.Duration `mapstructure:"timeout"`
	CoalesceRequests bool          `mapstructure:"coalesce_requests"`
	PrefsFile        string        `mapstructure:"prefs_file"`
	RedisAddr        string        `mapstructure:"redis_addr"`
	RedisPrefix      string        `mapstructure:"redis_prefix"`
	ListenAddr       string        `mapstructure:"listen_addr"`
	// AuthHeader and AuthValue are sent with every backend request, e.g. a trusted
	// user header set by a reverse proxy in front of the backend.
	AuthHeader string `mapstructure:"auth_header"`
	AuthValue  string `mapstructure:"auth_value"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		APIURL:      "http://localhost:8088/api",
		LogLevel:    "info",
		LogFormat:   "text",
		Timeout:     30 * time.Second,
		RedisPrefix: "studio:",
		ListenAddr:  ":8090",
	}
}

// Load reads .env files (missing files are fine) and the process environment.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}
	return FromEnviron(os.Environ())
}

// FromEnviron builds a Config from KEY=VALUE pairs: STUDIO_API_URL sets api_url, etc.
// Values are weakly typed ("true", "15s", "1").
func FromEnviron(environ []string) (*Config, error) {
	values := make(map[string]any)
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		values[strings.ToLower(strings.TrimPrefix(key, EnvPrefix))] = value
	}

	cfg := Default()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(values); err != nil {
		return nil, fmt.Errorf("decode %s* environment: %w", EnvPrefix, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that have a fixed set of values.
func (c *Config) Validate() error {
	var errs []error
	if c.APIURL == "" {
		errs = append(errs, errors.New("api_url must not be empty"))
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format must be text or json, got %q", c.LogFormat))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}
	if (c.AuthHeader == "") != (c.AuthValue == "") {
		errs = append(errs, errors.New("auth_header and auth_value must be set together"))
	}
	return errors.Join(errs...)
}
