// Package config loads the HLS proxy's settings from the environment.
package config

import (
	"errors"
	"time"

	"github.com/louixani-inc/lx-movie-app-dev/internal/platform/config"
)

type Config struct {
	// PublicBase is the externally visible /hls endpoint used when
	// rewriting playlists. Empty means derive it from each request.
	PublicBase    string
	SigningSecret string

	UpstreamTimeout time.Duration
}

func Load() (Config, error) {
	secret := config.String("PROXY_SIGNING_SECRET", "")
	if secret == "" {
		return Config{}, errors.New("PROXY_SIGNING_SECRET is required")
	}
	return Config{
		PublicBase:      config.String("PROXY_PUBLIC_BASE", ""),
		SigningSecret:   secret,
		UpstreamTimeout: config.Duration("PROXY_UPSTREAM_TIMEOUT", 30*time.Second),
	}, nil
}
