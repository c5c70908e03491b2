// Package config loads fbcli settings from YAML, .env and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"fbcli/internal/types"
)

// CookieFileName is the name of the cookie file inside the session directory.
const CookieFileName = "cookies.json"

// Config holds all fbcli configuration.
type Config struct {
	Facebook FacebookConfig `yaml:"facebook" json:"facebook"`
	Browser  BrowserConfig  `yaml:"browser" json:"browser"`
	Delays   DelayConfig    `yaml:"delays" json:"delays"`
	Site     SiteConfig     `yaml:"site" json:"site"`
	Logging  LoggingConfig  `yaml:"logging" json:"logging"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Facebook: FacebookConfig{
			SessionDir: DefaultSessionDir(),
			Headless:   true,
		},
		Browser: BrowserConfig{
			ViewportWidth:     1920,
			ViewportHeight:    1080,
			UserAgent:         DefaultUserAgent,
			NavigationTimeout: "30s",
			LoginTimeout:      "30s",
			ResultsTimeout:    "10s",
		},
		Delays: DelayConfig{
			MinMs: 1000,
			MaxMs: 5000,
		},
		Site: DefaultSiteConfig(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// DefaultSessionDir returns ~/.config/facebook-cli/sessions.
func DefaultSessionDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "facebook-cli", "sessions")
	}
	return filepath.Join(home, ".config", "facebook-cli", "sessions")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "facebook-cli", "config.yaml")
	}
	return filepath.Join(home, ".config", "facebook-cli", "config.yaml")
}

// Load loads configuration from a YAML file. A .env file in the working
// directory is loaded first; variables already set in the process win.
// A missing config file yields the defaults. Environment overrides are
// applied last.
func Load(path string) (*Config, error) {
	// Missing .env is the common case.
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	cfg.Facebook.SessionDir = expandHome(cfg.Facebook.SessionDir)

	return cfg, nil
}

// Save saves configuration to a YAML file. Credentials are never written.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	out := *c
	out.Facebook.Email = ""
	out.Facebook.Password = ""
	out.Facebook.PIN = ""

	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("FACEBOOK_EMAIL"); v != "" {
		c.Facebook.Email = v
	}
	if v := os.Getenv("FACEBOOK_PASSWORD"); v != "" {
		c.Facebook.Password = v
	}
	if v := os.Getenv("FACEBOOK_PIN"); v != "" {
		c.Facebook.PIN = v
	}
	if v := os.Getenv("FACEBOOK_SESSION_DIR"); v != "" {
		c.Facebook.SessionDir = v
	}
	if v, ok := os.LookupEnv("FACEBOOK_HEADLESS"); ok && v != "" {
		c.Facebook.Headless = v != "false"
	}
	if n, ok := envInt("FACEBOOK_SLOW_MO"); ok {
		c.Facebook.SlowMoMs = n
	}
	if n, ok := envInt("FACEBOOK_DELAY_MIN"); ok {
		c.Delays.MinMs = n
	}
	if n, ok := envInt("FACEBOOK_DELAY_MAX"); ok {
		c.Delays.MaxMs = n
	}
	if n, ok := envInt("FACEBOOK_NAV_TIMEOUT"); ok {
		c.Browser.NavigationTimeout = fmt.Sprintf("%dms", n)
	}
	if v := os.Getenv("CHROME_BIN"); v != "" {
		c.Browser.Bin = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
}

func envInt(key string) (int, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// ValidateCredentials fails with types.ErrConfiguration when the login
// credentials are missing. It is only called once authentication is needed.
func (c *Config) ValidateCredentials() error {
	if c.Facebook.Email == "" || c.Facebook.Password == "" {
		return fmt.Errorf("%w: FACEBOOK_EMAIL and FACEBOOK_PASSWORD must be set in .env file", types.ErrConfiguration)
	}
	return nil
}

// Validate checks values that would make the browser unusable.
func (c *Config) Validate() error {
	if c.Delays.MinMs < 0 || c.Delays.MaxMs < 0 {
		return fmt.Errorf("%w: delays must be >= 0", types.ErrConfiguration)
	}
	if c.Delays.MaxMs < c.Delays.MinMs {
		return fmt.Errorf("%w: delays.max_ms (%d) < delays.min_ms (%d)", types.ErrConfiguration, c.Delays.MaxMs, c.Delays.MinMs)
	}
	if c.Site.BaseURL == "" {
		return fmt.Errorf("%w: site.base_url is required", types.ErrConfiguration)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", types.ErrConfiguration, c.Logging.Level)
	}
	return nil
}

// SessionPath returns the cookie file path.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Facebook.SessionDir, CookieFileName)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
