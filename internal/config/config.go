// Package config loads the service configuration from a TOML file with one
// section per environment. Secrets come from the environment (optionally via
// a .env file) and override anything in the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr   string `toml:"addr"`
	WebDir string `toml:"web_dir"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	// storage
	DatabaseURL string `toml:"database_url"`
	InMemory    bool   `toml:"in_memory"`
	// report defaults
	WeekStart string `toml:"week_start"`
	TimeZone  string `toml:"time_zone"`
	// sso
	OIDCIssuer       string `toml:"oidc_issuer"`
	OIDCClientID     string `toml:"oidc_client_id"`
	OIDCClientSecret string `toml:"oidc_client_secret"`
	OIDCRedirectURL  string `toml:"oidc_redirect_url"`
	ForwardAuth      bool   `toml:"forward_auth"`
	DisableAuth      bool   `toml:"disable_auth"`
	// metrics
	MetricsNamespace string `toml:"metrics_namespace"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no [%s] section in config", env)
	}
	return cfg, nil
}

// Load reads the section for env from the TOML file at path, then applies
// environment overrides. A missing .env file is not an error.
func Load(env, path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}

	cfg.applyEnv()
	cfg.setDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	overrides := map[string]*string{
		"ADDR":               &c.Addr,
		"WEB_DIR":            &c.WebDir,
		"LOG_LEVEL":          &c.LogLevel,
		"DATABASE_URL":       &c.DatabaseURL,
		"WEEK_START":         &c.WeekStart,
		"TZ_NAME":            &c.TimeZone,
		"OIDC_ISSUER":        &c.OIDCIssuer,
		"OIDC_CLIENT_ID":     &c.OIDCClientID,
		"OIDC_CLIENT_SECRET": &c.OIDCClientSecret,
		"OIDC_REDIRECT_URL":  &c.OIDCRedirectURL,
	}
	for key, dst := range overrides {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	if v, err := strconv.ParseBool(os.Getenv("FORWARD_AUTH")); err == nil {
		c.ForwardAuth = v
	}
	if v, err := strconv.ParseBool(os.Getenv("DISABLE_AUTH")); err == nil {
		c.DisableAuth = v
	}
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.WebDir == "" {
		c.WebDir = "web"
	}
	if c.WeekStart == "" {
		c.WeekStart = "monday"
	}
	if c.MetricsNamespace == "" {
		c.MetricsNamespace = "fitreport"
	}
}

// SSOEnabled reports whether OIDC login is configured.
func (c *Config) SSOEnabled() bool {
	return c.OIDCIssuer != "" && c.OIDCClientID != ""
}

// Location returns the time zone days are cut in.
func (c *Config) Location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.TimeZone)
}
