package browser

import (
	"time"

	"fbcli/internal/config"
)

// Config is the launch-time view of the loaded configuration. Fallbacks for
// unset values are resolved by internal/config, so fields are used as is.
type Config struct {
	Bin               string
	Flags             []string // extra Chrome switches, "name=value" or "name"
	Headless          bool
	ViewportWidth     int
	ViewportHeight    int
	UserAgent         string
	NavigationTimeout time.Duration
	SlowMotion        time.Duration
}

// FromAppConfig derives the launch settings from c.
func FromAppConfig(c *config.Config) Config {
	return Config{
		Bin:               c.Browser.Bin,
		Flags:             c.Browser.Flags,
		Headless:          c.Facebook.Headless,
		ViewportWidth:     c.GetViewportWidth(),
		ViewportHeight:    c.GetViewportHeight(),
		UserAgent:         c.GetUserAgent(),
		NavigationTimeout: c.GetNavigationTimeout(),
		SlowMotion:        c.SlowMotion(),
	}
}
