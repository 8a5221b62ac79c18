package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig(env string) *Config {
	return &Config{
		Port:                "3000",
		Env:                 env,
		DBPassword:          "a-strong-db-password",
		DBSSLMode:           "require",
		SessionCookieName:   "session",
		SessionTTLDays:      7,
		EmbeddingTimeoutMS:  8000,
		SimilarStoriesLimit: 5,
		GoogleClientID:      "id",
		GoogleClientSecret:  "secret",
		GoogleCallbackURL:   "https://api.example.com/api/auth/google/callback",
		OAuthStateSecret:    strings.Repeat("s", 32),
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		env         string
		mutate      func(*Config)
		expectError bool
	}{
		{"production complete", "production", nil, false},
		{"development defaults", "development", func(c *Config) { c.OAuthStateSecret = defaultStateSecret; c.DBPassword = "password" }, false},
		{"missing port", "development", func(c *Config) { c.Port = "" }, true},
		{"blank cookie name", "test", func(c *Config) { c.SessionCookieName = " " }, true},
		{"zero ttl", "test", func(c *Config) { c.SessionTTLDays = 0 }, true},
		{"zero embedding timeout", "test", func(c *Config) { c.EmbeddingTimeoutMS = 0 }, true},
		{"zero similar limit", "test", func(c *Config) { c.SimilarStoriesLimit = 0 }, true},
		{"production default state secret", "production", func(c *Config) { c.OAuthStateSecret = defaultStateSecret }, true},
		{"production short state secret", "prod", func(c *Config) { c.OAuthStateSecret = "short" }, true},
		{"production default db password", "production", func(c *Config) { c.DBPassword = "password" }, true},
		{"production without google", "production", func(c *Config) { c.GoogleClientSecret = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig(tt.env)
			if tt.mutate != nil {
				tt.mutate(c)
			}
			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_CookieSameSite(t *testing.T) {
	tests := []struct {
		env, setting, want string
	}{
		{"production", "", "None"},
		{"development", "", "Lax"},
		{"production", "strict", "Strict"},
		{"development", " NONE ", "None"},
		{"production", "lax", "Lax"},
		{"test", "bogus", "Lax"},
	}
	for _, tt := range tests {
		c := &Config{Env: tt.env, SessionCookieSameSite: tt.setting}
		assert.Equal(t, tt.want, c.CookieSameSite(), "%s/%q", tt.env, tt.setting)
	}
}

func TestConfig_Durations(t *testing.T) {
	c := &Config{SessionTTLDays: 2, EmbeddingTimeoutMS: 1500}
	assert.Equal(t, 48*time.Hour, c.SessionTTL())
	assert.Equal(t, 1500*time.Millisecond, c.EmbeddingTimeout())
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("SESSION_TTL_DAYS", "3")
	t.Setenv("SIMILAR_STORIES_LIMIT", "8")
	t.Setenv("GOOGLE_CLIENT_ID", "from-env")
	t.Setenv("EMBEDDING_SERVICE_URL", "http://embed:8000")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "test", c.Env)
	assert.Equal(t, 3, c.SessionTTLDays)
	assert.Equal(t, 8, c.SimilarStoriesLimit)
	assert.Equal(t, "from-env", c.GoogleClientID)
	assert.Equal(t, "http://embed:8000", c.EmbeddingServiceURL)
	assert.Equal(t, "session", c.SessionCookieName)
}

func TestLoadConfig_MissingProfileFile(t *testing.T) {
	t.Setenv("APP_ENV", "staging-does-not-exist")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config.staging-does-not-exist.yml")
}
