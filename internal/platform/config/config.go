package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type HTTPConfig struct {
	Addr string
}

// AppConfig is the base configuration every binary in this repo shares.
// Service-specific settings live next to the service (internal/gateway/config,
// internal/proxy/config).
type AppConfig struct {
	ServiceName string
	Version     string
	LogLevel    string
	HTTP        HTTPConfig
}

func Load(defaultName string) AppConfig {
	cfg := AppConfig{
		ServiceName: strings.TrimSpace(os.Getenv("SERVICE_NAME")),
		Version:     strings.TrimSpace(os.Getenv("APP_VERSION")),
		LogLevel:    strings.TrimSpace(os.Getenv("LOG_LEVEL")),
		HTTP: HTTPConfig{
			Addr: strings.TrimSpace(os.Getenv("HTTP_ADDR")),
		},
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = defaultName
	}
	if cfg.Version == "" {
		cfg.Version = "1.0.0"
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return cfg
}

// Env helpers shared by the service config loaders.

func String(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func Int(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func Bool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func Duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
