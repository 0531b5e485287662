// Package natsconn dials the NATS server that carries analytics events and
// cache invalidation fan-out.
package natsconn

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
)

const defaultURL = "nats://localhost:4222"

// Options configure the dial. Zero values fall back to NATS_* env vars or
// built-in defaults.
type Options struct {
	URL           string
	Name          string        // connection name shown by NATS monitoring
	MaxReconnects int           // NATS_MAX_RECONNECTS, default 5
	ReconnectWait time.Duration // NATS_RECONNECT_WAIT, default 2s
}

// Connect dials NATS with the configured reconnect policy. The initial
// connect is not retried, so callers can fail fast at startup.
func Connect(opts Options) (*nats.Conn, error) {
	url := strings.TrimSpace(opts.URL)
	if url == "" {
		url = strings.TrimSpace(os.Getenv("NATS_URL"))
	}
	if url == "" {
		url = defaultURL
	}
	maxReconnects := opts.MaxReconnects
	if maxReconnects == 0 {
		maxReconnects = envInt("NATS_MAX_RECONNECTS", 5)
	}
	wait := opts.ReconnectWait
	if wait == 0 {
		wait = envDuration("NATS_RECONNECT_WAIT", 2*time.Second)
	}

	dial := []nats.Option{
		nats.MaxReconnects(maxReconnects),
		nats.ReconnectWait(wait),
		nats.RetryOnFailedConnect(false),
	}
	if opts.Name != "" {
		dial = append(dial, nats.Name(opts.Name))
	}

	nc, err := nats.Connect(url, dial...)
	if err != nil {
		return nil, fmt.Errorf("nats connect %s: %w", url, err)
	}
	return nc, nil
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
