package handlers

import (
	"net/http"
	"time"

	"github.com/louixani-inc/lx-movie-app-dev/internal/platform/api"
)

type healthServices struct {
	MetadataAPI bool `json:"metadataApi"`
	Streaming   bool `json:"streaming"`
	Proxy       bool `json:"proxy"`
}

type healthResponse struct {
	Status    string         `json:"status"`
	Timestamp string         `json:"timestamp"`
	Version   string         `json:"version"`
	Services  healthServices `json:"services"`
	Uptime    float64        `json:"uptime"`
}

// HealthInfo is the static wiring the health endpoint reports on.
type HealthInfo struct {
	Version         string
	TMDBConfigured  bool
	ProviderCount   int
	ProxyConfigured bool
}

// Health handles GET /health
func Health(info HealthInfo) http.HandlerFunc {
	started := time.Now()
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", cacheNone)
		api.WriteJSON(w, http.StatusOK, healthResponse{
			Status:    "ok",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   info.Version,
			Services: healthServices{
				MetadataAPI: info.TMDBConfigured,
				Streaming:   info.ProviderCount > 0,
				Proxy:       info.ProxyConfigured,
			},
			Uptime: time.Since(started).Seconds(),
		})
	}
}
