// Package config loads shellcat settings from a YAML file and the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"xdao.co/shellcat/fault"
	"xdao.co/shellcat/internal/logging"
	"xdao.co/shellcat/request"
	"xdao.co/shellcat/snapshot/storeconfig"
	"xdao.co/shellcat/transport"
)

// DefaultPath is the config file read when none is named.
const DefaultPath = "shellcat.yaml"

// Environment variables that override file values.
const (
	EnvUserID   = "EI_USER_ID"
	EnvEndpoint = "SHELLCAT_ENDPOINT"
	EnvMirror   = "SHELLCAT_MIRROR"
)

const (
	DefaultOutput     = "shells.txt"
	DefaultDLCBaseURL = "https://auxbrain.com/dlc/shells/"
	DefaultTimeout    = "30s"
)

// Config holds all shellcat settings.
type Config struct {
	// Endpoint is the game server's config URL.
	Endpoint string `yaml:"endpoint"`
	// Mirror is a ConfigMirror gRPC target. When set, requests go through
	// the mirror instead of Endpoint.
	Mirror string `yaml:"mirror,omitempty"`

	UserID        string `yaml:"user_id,omitempty"`
	ClientVersion uint32 `yaml:"client_version"`
	AppVersion    string `yaml:"app_version,omitempty"`
	Platform      string `yaml:"platform,omitempty"`

	Timeout   string `yaml:"timeout"`
	UserAgent string `yaml:"user_agent,omitempty"`

	Output     string `yaml:"output"`
	DLCBaseURL string `yaml:"dlc_base_url"`
	LogLevel   string `yaml:"log_level"`
	LogFormat  string `yaml:"log_format,omitempty"`

	Snapshots storeconfig.Config `yaml:"snapshots,omitempty"`
}

// DefaultConfig returns a config with every default applied.
func DefaultConfig() *Config {
	return &Config{
		Endpoint:      transport.DefaultEndpoint,
		ClientVersion: request.ClientVersion,
		Timeout:       DefaultTimeout,
		Output:        DefaultOutput,
		DLCBaseURL:    DefaultDLCBaseURL,
		LogLevel:      logging.DefaultLevel,
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides and validates. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fault.Wrap(fault.KindConfig, fault.RuleConfigFile, "parse "+path, err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fault.Wrap(fault.KindConfig, fault.RuleConfigFile, "read "+path, err)
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as YAML.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fault.Wrap(fault.KindConfig, fault.RuleConfigFile, "create config directory", err)
		}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fault.Wrap(fault.KindConfig, fault.RuleConfigFile, "marshal config", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fault.Wrap(fault.KindConfig, fault.RuleConfigFile, "write "+path, err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if id := os.Getenv(EnvUserID); id != "" {
		c.UserID = id
	}
	if u := os.Getenv(EnvEndpoint); u != "" {
		c.Endpoint = u
	}
	if m := os.Getenv(EnvMirror); m != "" {
		c.Mirror = m
	}
}

// GetTimeout returns the exchange timeout.
func (c *Config) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return transport.DefaultTimeout
	}
	return d
}

// Validate reports the first invalid setting as a CFG-002 error. The user ID
// is not checked here: only commands that talk to the server need it.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fault.New(fault.KindConfig, fault.RuleConfigValue, fmt.Sprintf(format, args...))
	}

	if c.Mirror == "" {
		u, err := url.Parse(c.Endpoint)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return invalid("endpoint %q is not an http(s) URL", c.Endpoint)
		}
	}
	if c.ClientVersion == 0 {
		return invalid("client_version must be positive")
	}
	if c.Timeout != "" {
		if d, err := time.ParseDuration(c.Timeout); err != nil || d <= 0 {
			return invalid("timeout %q is not a positive duration", c.Timeout)
		}
	}
	if strings.TrimSpace(c.Output) == "" {
		return invalid("output path is empty")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return invalid("log_level %q is not a level", c.LogLevel)
	}
	switch c.LogFormat {
	case "", "console", "json":
	default:
		return invalid("log_format %q is not console or json", c.LogFormat)
	}
	if c.Snapshots.Enabled() {
		if err := c.Snapshots.Validate(); err != nil {
			return fault.Wrap(fault.KindConfig, fault.RuleConfigValue, "snapshots", err)
		}
	}
	return nil
}

// RequireUserID reports a CFG-002 error when no user ID is configured.
func (c *Config) RequireUserID() error {
	if strings.TrimSpace(c.UserID) == "" {
		return fault.New(fault.KindConfig, fault.RuleConfigValue,
			"user id is required (set user_id, "+EnvUserID+", or -user)")
	}
	return nil
}

// RequestOptions returns the request options implied by the config.
func (c *Config) RequestOptions() []request.Option {
	opts := []request.Option{request.WithClientVersion(c.ClientVersion)}
	if c.AppVersion != "" {
		opts = append(opts, request.WithAppVersion(c.AppVersion))
	}
	if c.Platform != "" {
		opts = append(opts, request.WithPlatform(c.Platform))
	}
	return opts
}

// HTTPConfig returns the transport settings implied by the config.
func (c *Config) HTTPConfig() transport.HTTPConfig {
	return transport.HTTPConfig{
		Endpoint:  c.Endpoint,
		UserAgent: c.UserAgent,
		Timeout:   c.GetTimeout(),
	}
}
