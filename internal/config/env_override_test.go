package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvOverrides_Facebook(t *testing.T) {
	t.Run("credentials and session dir", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("FACEBOOK_EMAIL", "me@example.com")
		t.Setenv("FACEBOOK_PASSWORD", "pw")
		t.Setenv("FACEBOOK_PIN", "1234")
		t.Setenv("FACEBOOK_SESSION_DIR", "/var/fb")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "me@example.com", cfg.Facebook.Email)
		assert.Equal(t, "pw", cfg.Facebook.Password)
		assert.Equal(t, "1234", cfg.Facebook.PIN)
		assert.Equal(t, "/var/fb", cfg.Facebook.SessionDir)
	})

	t.Run("headless only disabled by literal false", func(t *testing.T) {
		tests := []struct {
			value string
			want  bool
		}{
			{"false", false},
			{"true", true},
			{"0", true},
			{"", true},
		}
		for _, tt := range tests {
			clearEnv(t)
			t.Setenv("FACEBOOK_HEADLESS", tt.value)
			cfg := DefaultConfig()
			cfg.applyEnvOverrides()
			assert.Equal(t, tt.want, cfg.Facebook.Headless, "FACEBOOK_HEADLESS=%q", tt.value)
		}
	})

	t.Run("numeric overrides", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("FACEBOOK_SLOW_MO", "150")
		t.Setenv("FACEBOOK_DELAY_MIN", "5")
		t.Setenv("FACEBOOK_DELAY_MAX", "9")
		t.Setenv("FACEBOOK_NAV_TIMEOUT", "2500")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, 150*time.Millisecond, cfg.SlowMotion())
		assert.Equal(t, 5*time.Millisecond, cfg.DelayRange().Min)
		assert.Equal(t, 9*time.Millisecond, cfg.DelayRange().Max)
		assert.Equal(t, 2500*time.Millisecond, cfg.GetNavigationTimeout())
	})

	t.Run("invalid numbers are ignored", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("FACEBOOK_SLOW_MO", "fast")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, 0, cfg.Facebook.SlowMoMs)
	})

	t.Run("log level", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LOG_LEVEL", "DEBUG")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, "debug", cfg.Logging.Level)
	})
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	assert.Equal(t, "/home/tester/sessions", expandHome("~/sessions"))
	assert.Equal(t, "/abs/path", expandHome("/abs/path"))
	assert.Equal(t, "rel/~x", expandHome("rel/~x"))
}
