package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"configuration", ErrConfiguration, "ConfigurationError"},
		{"wrapped challenge", fmt.Errorf("login: %w", ErrChallengeRequired), "ChallengeRequired"},
		{"login failed", ErrLoginFailed, "LoginFailed"},
		{"form missing", ErrLoginFormNotFound, "LoginFormNotFound"},
		{"not found", fmt.Errorf("listing 1: %w", ErrNotFound), "NotFound"},
		{"not initialized", ErrNotInitialized, "NotInitialized"},
		{"invalid input", fmt.Errorf("send: %w", ErrInvalidInput), "InvalidInput"},
		{"unknown", errors.New("boom"), "Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestListingJSON_NullTitle(t *testing.T) {
	l := Listing{
		ID:       "123",
		Currency: "EUR",
		Location: "Paris, IDF",
		Images:   []string{},
		PostedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	data, err := json.Marshal(l)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	v, ok := raw["title"]
	assert.True(t, ok, "title key must be present")
	assert.Nil(t, v)
	assert.NotContains(t, raw, "description")
	assert.Equal(t, "2025-01-02T03:04:05Z", raw["postedAt"])
}

func TestListingTitleOr(t *testing.T) {
	assert.Equal(t, "fallback", Listing{}.TitleOr("fallback"))
	assert.Equal(t, "Bike", Listing{Title: StringPtr("Bike")}.TitleOr("fallback"))
	assert.Equal(t, "", Listing{Title: StringPtr("")}.TitleOr("fallback"))
}

func TestLimits(t *testing.T) {
	assert.Equal(t, DefaultSearchLimit, SearchOptions{}.EffectiveLimit())
	assert.Equal(t, 5, SearchOptions{Limit: 5}.EffectiveLimit())
	assert.Equal(t, 50, MessageOptions{}.LimitOr(DefaultMessageLimit))
	assert.Equal(t, 3, MessageOptions{Limit: 3}.LimitOr(DefaultMessageLimit))
}
