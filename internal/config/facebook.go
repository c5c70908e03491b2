package config

import "time"

// FacebookConfig holds account credentials and session settings.
type FacebookConfig struct {
	Email      string `yaml:"email,omitempty" json:"-"`
	Password   string `yaml:"password,omitempty" json:"-"`
	PIN        string `yaml:"pin,omitempty" json:"-"` // messenger end-to-end encryption PIN
	SessionDir string `yaml:"session_dir" json:"session_dir"`
	Headless   bool   `yaml:"headless" json:"headless"`
	SlowMoMs   int    `yaml:"slow_mo_ms" json:"slow_mo_ms"` // delay rod inserts around each action
}

// SlowMotion returns the slow-motion delay.
func (c *Config) SlowMotion() time.Duration {
	if c.Facebook.SlowMoMs <= 0 {
		return 0
	}
	return time.Duration(c.Facebook.SlowMoMs) * time.Millisecond
}

// HasPIN reports whether a messenger PIN is configured.
func (c *Config) HasPIN() bool {
	return c.Facebook.PIN != ""
}
