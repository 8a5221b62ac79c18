// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const defaultStateSecret = "dev-oauth-state-secret-change-in-production"

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port           string `mapstructure:"PORT"`
	Env            string `mapstructure:"APP_ENV"`
	DBHost         string `mapstructure:"DB_HOST"`
	DBPort         string `mapstructure:"DB_PORT"`
	DBUser         string `mapstructure:"DB_USER"`
	DBPassword     string `mapstructure:"DB_PASSWORD"`
	DBName         string `mapstructure:"DB_NAME"`
	DBSSLMode      string `mapstructure:"DB_SSLMODE"`
	RedisURL       string `mapstructure:"REDIS_URL"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
	FrontendURL    string `mapstructure:"FRONTEND_URL"`

	SessionCookieName     string `mapstructure:"SESSION_COOKIE_NAME"`
	SessionCookieSameSite string `mapstructure:"SESSION_COOKIE_SAMESITE"`
	SessionTTLDays        int    `mapstructure:"SESSION_TTL_DAYS"`

	EmbeddingServiceURL string `mapstructure:"EMBEDDING_SERVICE_URL"`
	EmbeddingTimeoutMS  int    `mapstructure:"EMBEDDING_TIMEOUT_MS"`
	SimilarStoriesLimit int    `mapstructure:"SIMILAR_STORIES_LIMIT"`

	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleCallbackURL  string `mapstructure:"GOOGLE_CALLBACK_URL"`
	OAuthStateSecret   string `mapstructure:"OAUTH_STATE_SECRET"`

	TracingEnabled  bool   `mapstructure:"TRACING_ENABLED"`
	TracingExporter string `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint    string `mapstructure:"OTLP_ENDPOINT"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	v.AddConfigPath("../..")
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AutomaticEnv()

	// The base config file is optional.
	_ = v.ReadInConfig()

	env := v.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "test" {
		v.SetConfigName("config." + env)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("required profile-specific config 'config.%s.yml' not found: %w", env, err)
		}
		log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
	}

	setDefaults(v)

	// AutomaticEnv only covers keys viper already knows about; bind the rest explicitly
	// so Unmarshal sees environment-only values.
	for _, key := range []string{"GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET", "GOOGLE_CALLBACK_URL", "EMBEDDING_SERVICE_URL", "OTLP_ENDPOINT", "SESSION_COOKIE_SAMESITE"} {
		_ = v.BindEnv(key)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "3000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "user")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "reso")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("REDIS_URL", "localhost:6379")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173")
	v.SetDefault("FRONTEND_URL", "http://localhost:5173")
	v.SetDefault("SESSION_COOKIE_NAME", "session")
	v.SetDefault("SESSION_TTL_DAYS", 7)
	v.SetDefault("EMBEDDING_TIMEOUT_MS", 8000)
	v.SetDefault("SIMILAR_STORIES_LIMIT", 5)
	v.SetDefault("OAUTH_STATE_SECRET", defaultStateSecret)
	v.SetDefault("TRACING_ENABLED", false)
	v.SetDefault("TRACING_EXPORTER", "stdout")
}

// IsProduction reports whether the app runs with a production profile.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// SessionTTL is the lifetime of a freshly issued session.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLDays) * 24 * time.Hour
}

// EmbeddingTimeout bounds a single call to the embedding service.
func (c *Config) EmbeddingTimeout() time.Duration {
	return time.Duration(c.EmbeddingTimeoutMS) * time.Millisecond
}

// CookieSameSite returns the SameSite policy for the session cookie.
// An explicit setting wins; otherwise production uses "None" (cross-site frontend) and
// everything else "Lax".
func (c *Config) CookieSameSite() string {
	switch strings.ToLower(strings.TrimSpace(c.SessionCookieSameSite)) {
	case "strict":
		return "Strict"
	case "none":
		return "None"
	case "lax":
		return "Lax"
	}
	if c.IsProduction() {
		return "None"
	}
	return "Lax"
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if strings.TrimSpace(c.SessionCookieName) == "" {
		return errors.New("SESSION_COOKIE_NAME is required")
	}
	if c.SessionTTLDays <= 0 {
		return errors.New("SESSION_TTL_DAYS must be positive")
	}
	if c.EmbeddingTimeoutMS <= 0 {
		return errors.New("EMBEDDING_TIMEOUT_MS must be positive")
	}
	if c.SimilarStoriesLimit <= 0 {
		return errors.New("SIMILAR_STORIES_LIMIT must be positive")
	}

	if c.IsProduction() {
		if c.OAuthStateSecret == defaultStateSecret || len(c.OAuthStateSecret) < 32 {
			return errors.New("OAUTH_STATE_SECRET must be set to at least 32 characters in production")
		}
		if c.DBPassword == "password" || c.DBPassword == "" {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.GoogleClientID == "" || c.GoogleClientSecret == "" || c.GoogleCallbackURL == "" {
			return errors.New("GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET and GOOGLE_CALLBACK_URL are required in production")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			log.Println("WARNING: DB_SSLMODE is 'disable' in production. It is highly recommended to use SSL for database connections.")
		}
		if c.EmbeddingServiceURL == "" {
			log.Println("WARNING: EMBEDDING_SERVICE_URL is empty; similar stories will use the recency fallback.")
		}
	} else if c.CookieSameSite() == "None" {
		log.Println("WARNING: SameSite=None without a production profile; browsers reject it on insecure cookies.")
	}

	return nil
}
