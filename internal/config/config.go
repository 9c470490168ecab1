// Package config loads the nslsolver CLI configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	envprovider "github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	nslsolver "github.com/nslsolver/nslsolver-go"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "NSLSOLVER_"

// Config is the CLI configuration.
type Config struct {
	APIKey     string        `koanf:"api_key" validate:"required"`
	BaseURL    string        `koanf:"base_url" validate:"required,url"`
	Timeout    time.Duration `koanf:"timeout" validate:"gt=0"`
	MaxRetries int           `koanf:"max_retries" validate:"gte=0"`
	APIProxy   string        `koanf:"api_proxy" validate:"omitempty,url"`
	RateLimit  float64       `koanf:"rate_limit" validate:"gte=0"`
	LogLevel   string        `koanf:"log_level" validate:"oneof=trace debug info warn error disabled"`
	LogPretty  bool          `koanf:"log_pretty"`
}

// Load reads configuration with priority, lowest first:
// 1. Defaults
// 2. YAML file at path (skipped if path is empty or the file does not exist)
// 3. NSLSOLVER_* environment variables
// 4. overrides (typically flags set on the command line)
func Load(path string, overrides map[string]any) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	if err := k.Load(envprovider.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("failed to load overrides: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func defaults() map[string]any {
	return map[string]any{
		"base_url":    nslsolver.DefaultBaseURL,
		"timeout":     nslsolver.DefaultTimeout.String(),
		"max_retries": nslsolver.DefaultMaxRetries,
		"rate_limit":  0,
		"log_level":   "warn",
		"log_pretty":  true,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks required fields and ranges.
func Validate(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// ClientOptions converts the configuration into client options.
func (c *Config) ClientOptions() []nslsolver.Option {
	opts := []nslsolver.Option{
		nslsolver.WithBaseURL(c.BaseURL),
		nslsolver.WithTimeout(c.Timeout),
		nslsolver.WithMaxRetries(c.MaxRetries),
	}
	if c.APIProxy != "" {
		opts = append(opts, nslsolver.WithAPIProxy(c.APIProxy))
	}
	if c.RateLimit > 0 {
		opts = append(opts, nslsolver.WithRateLimit(c.RateLimit, 1))
	}
	return opts
}

// DefaultPath returns $HOME/.nslsolver.yaml, or "" if the home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home + string(os.PathSeparator) + ".nslsolver.yaml"
}
