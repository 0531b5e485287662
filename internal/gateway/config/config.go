// Package config loads the gateway's service-specific settings from the
// environment.
package config

import (
	"strings"
	"time"

	"github.com/louixani-inc/lx-movie-app-dev/internal/platform/config"
)

type Config struct {
	// TMDB upstream.
	TMDBAPIKey   string
	TMDBLanguage string

	// Streaming provider base URLs. Empty means the provider is not
	// offered.
	VidsrcBase     string
	SuperembedBase string
	EmbedsuBase    string

	// Optional backends.
	RedisURL    string // catalog cache
	NatsURL     string // analytics + cache invalidation
	DatabaseURL string // settings document
	SettingsFile string

	// HLS proxy signing.
	SigningSecret string
	ProxyBase     string // public base URL of lx-proxy, e.g. https://proxy.example/hls
	SignTTL       time.Duration

	RateLimitRPS   float64
	RateLimitBurst int

	SessionTTL time.Duration

	Env string
}

func Load() Config {
	return Config{
		TMDBAPIKey:   config.String("TMDB_API_KEY", ""),
		TMDBLanguage: config.String("TMDB_LANGUAGE", "en-US"),

		VidsrcBase:     config.String("VIDSRC_BASE_URL", "https://vidsrc.to"),
		SuperembedBase: config.String("SUPEREMBED_BASE_URL", "https://multiembed.mov"),
		EmbedsuBase:    config.String("EMBEDSU_BASE_URL", "https://embed.su"),

		RedisURL:     config.String("REDIS_URL", ""),
		NatsURL:      config.String("NATS_URL", ""),
		DatabaseURL:  config.String("DATABASE_URL", ""),
		SettingsFile: config.String("SETTINGS_FILE", ""),

		SigningSecret: config.String("PROXY_SIGNING_SECRET", ""),
		ProxyBase:     config.String("PROXY_BASE_URL", ""),
		SignTTL:       config.Duration("PROXY_SIGN_TTL", 4*time.Hour),

		RateLimitRPS:   float64(config.Int("RATE_LIMIT_RPS", 20)),
		RateLimitBurst: config.Int("RATE_LIMIT_BURST", 40),

		SessionTTL: config.Duration("SESSION_TTL", 30*time.Minute),

		Env: config.String("APP_ENV", "development"),
	}
}

func (c Config) IsProd() bool {
	return strings.EqualFold(c.Env, "production") || strings.EqualFold(c.Env, "prod")
}
