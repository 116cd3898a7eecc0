// Package config loads the settings that describe the broker deployment the
// snippets target. Values come from a YAML file and are then overridden by
// SNIPPETGEN_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-snippetgen/pkg/quota"
	"github.com/goliatone/go-snippetgen/pkg/snippet"
)

// ErrUnknownKey is returned by Get/Set for unsupported setting names.
var ErrUnknownKey = errors.New("config: unknown key")

// DefaultConfigPath returns $XDG_CONFIG_HOME/snippetgen/config.yaml or
// ~/.config/snippetgen/config.yaml.
func DefaultConfigPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "snippetgen", "config.yaml")
}

// Config is the persisted settings store.
type Config struct {
	// Env is the deployment mode: "docker"/"local" or "cluster".
	Env               string `yaml:"env" env:"SNIPPETGEN_ENV"`
	BrokerHost        string `yaml:"broker_host,omitempty" env:"SNIPPETGEN_BROKER_HOST"`
	RestGatewayHost   string `yaml:"rest_gw_host,omitempty" env:"SNIPPETGEN_REST_GW_HOST"`
	RestGatewayPort   int    `yaml:"rest_gw_port,omitempty" env:"SNIPPETGEN_REST_GW_PORT"`
	AccountID         int    `yaml:"account_id,omitempty" env:"SNIPPETGEN_ACCOUNT_ID"`
	UserPassBasedAuth bool   `yaml:"user_pass_based_auth" env:"SNIPPETGEN_USER_PASS_BASED_AUTH"`

	Station  string `yaml:"station,omitempty" env:"SNIPPETGEN_STATION"`
	Username string `yaml:"username,omitempty" env:"SNIPPETGEN_USERNAME"`

	UserType  string `yaml:"user_type,omitempty" env:"SNIPPETGEN_USER_TYPE"`
	Plan      string `yaml:"plan,omitempty" env:"SNIPPETGEN_PLAN"`
	QuotaGate string `yaml:"quota_gate,omitempty" env:"SNIPPETGEN_QUOTA_GATE"`

	TemplatesDir string `yaml:"templates_dir,omitempty" env:"SNIPPETGEN_TEMPLATES_DIR"`
	// GatewaySpec is a file path or URL of the REST gateway OpenAPI document.
	GatewaySpec string `yaml:"gateway_spec,omitempty" env:"SNIPPETGEN_GATEWAY_SPEC"`

	Listen   string `yaml:"listen,omitempty" env:"SNIPPETGEN_LISTEN"`
	LogLevel string `yaml:"log_level,omitempty" env:"SNIPPETGEN_LOG_LEVEL"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Env:             string(snippet.ModeCluster),
		RestGatewayPort: snippet.DefaultRestGatewayPort,
		QuotaGate:       string(quota.GateLegacyRoot),
		Listen:          "127.0.0.1:8080",
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadWithEnv loads path and applies SNIPPETGEN_* overrides.
func LoadWithEnv(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables into target.
// Unset variables leave the current field values untouched.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	return nil
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("config: save path is required")
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Environment converts the settings into the explicit render environment.
func (c *Config) Environment() snippet.Environment {
	mode := snippet.Mode(strings.ToLower(strings.TrimSpace(c.Env)))
	if mode == "" {
		mode = snippet.ModeCluster
	}
	auth := snippet.AuthToken
	if c.UserPassBasedAuth {
		auth = snippet.AuthPassword
	}
	return snippet.Environment{
		Mode:            mode,
		BrokerHost:      strings.TrimSpace(c.BrokerHost),
		RestGatewayHost: strings.TrimSpace(c.RestGatewayHost),
		RestGatewayPort: c.RestGatewayPort,
		AccountID:       c.AccountID,
		AuthMode:        auth,
	}
}

// Target returns the configured station and username. The credential is
// filled by the caller from the credential store.
func (c *Config) Target() snippet.Target {
	return snippet.Target{
		Station:  strings.TrimSpace(c.Station),
		Username: strings.TrimSpace(c.Username),
	}
}

// UserState returns the user fields the quota banner reads.
func (c *Config) UserState() quota.UserState {
	return quota.UserState{UserType: c.UserType, Plan: c.Plan}
}

// Gate parses the configured quota gate.
func (c *Config) Gate() (quota.Gate, error) {
	gate, err := quota.ParseGate(c.QuotaGate)
	if err != nil {
		return "", fmt.Errorf("config: quota_gate %q: %w", c.QuotaGate, err)
	}
	return gate, nil
}

type setting struct {
	get func(*Config) string
	set func(*Config, string) error
}

func stringSetting(field func(*Config) *string) setting {
	return setting{
		get: func(c *Config) string { return *field(c) },
		set: func(c *Config, v string) error {
			*field(c) = strings.TrimSpace(v)
			return nil
		},
	}
}

func intSetting(field func(*Config) *int) setting {
	return setting{
		get: func(c *Config) string { return strconv.Itoa(*field(c)) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil || n < 0 {
				return fmt.Errorf("config: %q is not a non-negative integer", v)
			}
			*field(c) = n
			return nil
		},
	}
}

func boolSetting(field func(*Config) *bool) setting {
	return setting{
		get: func(c *Config) string { return strconv.FormatBool(*field(c)) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("config: %q is not a boolean", v)
			}
			*field(c) = b
			return nil
		},
	}
}

var settings = map[string]setting{
	"env":                  stringSetting(func(c *Config) *string { return &c.Env }),
	"broker_host":          stringSetting(func(c *Config) *string { return &c.BrokerHost }),
	"rest_gw_host":         stringSetting(func(c *Config) *string { return &c.RestGatewayHost }),
	"rest_gw_port":         intSetting(func(c *Config) *int { return &c.RestGatewayPort }),
	"account_id":           intSetting(func(c *Config) *int { return &c.AccountID }),
	"user_pass_based_auth": boolSetting(func(c *Config) *bool { return &c.UserPassBasedAuth }),
	"station":              stringSetting(func(c *Config) *string { return &c.Station }),
	"username":             stringSetting(func(c *Config) *string { return &c.Username }),
	"user_type":            stringSetting(func(c *Config) *string { return &c.UserType }),
	"plan":                 stringSetting(func(c *Config) *string { return &c.Plan }),
	"quota_gate":           stringSetting(func(c *Config) *string { return &c.QuotaGate }),
	"templates_dir":        stringSetting(func(c *Config) *string { return &c.TemplatesDir }),
	"gateway_spec":         stringSetting(func(c *Config) *string { return &c.GatewaySpec }),
	"listen":               stringSetting(func(c *Config) *string { return &c.Listen }),
	"log_level":            stringSetting(func(c *Config) *string { return &c.LogLevel }),
}

// Keys lists the setting names accepted by Get and Set.
func Keys() []string {
	keys := make([]string, 0, len(settings))
	for key := range settings {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the textual value of a setting.
func (c *Config) Get(key string) (string, error) {
	s, ok := settings[normalizeKey(key)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return s.get(c), nil
}

// Set parses value into the named setting.
func (c *Config) Set(key, value string) error {
	name := normalizeKey(key)
	s, ok := settings[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	if name == "quota_gate" {
		if _, err := quota.ParseGate(value); err != nil {
			return fmt.Errorf("config: quota_gate %q: %w", value, err)
		}
	}
	return s.set(c, value)
}

func normalizeKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "-", "_")
}
