package config

import (
	"time"

	"fbcli/internal/jitter"
)

// DelayConfig bounds the random pause between page interactions.
type DelayConfig struct {
	MinMs int `yaml:"min_ms" json:"min_ms"`
	MaxMs int `yaml:"max_ms" json:"max_ms"`
}

// DelayRange returns the configured jitter range.
func (c *Config) DelayRange() jitter.Range {
	return jitter.Range{
		Min: time.Duration(c.Delays.MinMs) * time.Millisecond,
		Max: time.Duration(c.Delays.MaxMs) * time.Millisecond,
	}
}
