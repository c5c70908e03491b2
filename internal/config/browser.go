package config

import "time"

// DefaultUserAgent is presented by every page.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// BrowserConfig configures the Chrome instance.
type BrowserConfig struct {
	Bin               string   `yaml:"bin,omitempty" json:"bin,omitempty"`     // Chrome binary; empty = rod's managed browser
	Flags             []string `yaml:"flags,omitempty" json:"flags,omitempty"` // extra launcher flags, "name=value" or "name"
	ViewportWidth     int      `yaml:"viewport_width" json:"viewport_width"`
	ViewportHeight    int      `yaml:"viewport_height" json:"viewport_height"`
	UserAgent         string   `yaml:"user_agent" json:"user_agent"`
	NavigationTimeout string   `yaml:"navigation_timeout" json:"navigation_timeout"`
	LoginTimeout      string   `yaml:"login_timeout" json:"login_timeout"`     // wait for the URL to leave /login
	ResultsTimeout    string   `yaml:"results_timeout" json:"results_timeout"` // wait for result anchors / message containers
}

// GetViewportWidth returns viewport width.
func (c *Config) GetViewportWidth() int {
	if c.Browser.ViewportWidth == 0 {
		return 1920
	}
	return c.Browser.ViewportWidth
}

// GetViewportHeight returns viewport height.
func (c *Config) GetViewportHeight() int {
	if c.Browser.ViewportHeight == 0 {
		return 1080
	}
	return c.Browser.ViewportHeight
}

// GetUserAgent returns the user agent string.
func (c *Config) GetUserAgent() string {
	if c.Browser.UserAgent == "" {
		return DefaultUserAgent
	}
	return c.Browser.UserAgent
}

// GetNavigationTimeout returns the page navigation timeout.
func (c *Config) GetNavigationTimeout() time.Duration {
	return parseDuration(c.Browser.NavigationTimeout, 30*time.Second)
}

// GetLoginTimeout returns how long to wait for a login redirect.
func (c *Config) GetLoginTimeout() time.Duration {
	return parseDuration(c.Browser.LoginTimeout, 30*time.Second)
}

// GetResultsTimeout returns the secondary wait for result content.
func (c *Config) GetResultsTimeout() time.Duration {
	return parseDuration(c.Browser.ResultsTimeout, 10*time.Second)
}
