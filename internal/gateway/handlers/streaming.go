package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/louixani-inc/lx-movie-app-dev/internal/platform/api"
	"github.com/louixani-inc/lx-movie-app-dev/internal/platform/signing"
	"github.com/louixani-inc/lx-movie-app-dev/internal/streaming/source"
)

// ProxySigner re-signs HLS source URLs so they route through lx-proxy.
// Nil disables proxying; HLS URLs are then returned as-is.
type ProxySigner struct {
	Signer *signing.Signer
	Base   string // public proxy endpoint, e.g. https://proxy.example/hls
	TTL    time.Duration
}

func (p *ProxySigner) sign(rawURL string) string {
	if p == nil || p.Signer == nil || p.Base == "" {
		return rawURL
	}
	ttl := p.TTL
	if ttl <= 0 {
		ttl = 4 * time.Hour
	}
	signed := p.Signer.Sign(rawURL, "gateway", time.Now().Add(ttl))
	out, err := signing.BuildSignedURL(p.Base, signed)
	if err != nil {
		return rawURL
	}
	return out
}

type providerSourceResponse struct {
	Source    string `json:"source"`
	MovieID   int    `json:"movieId"`
	EmbedURL  string `json:"embedUrl"`
	Type      string `json:"type"`
	Quality   string `json:"quality"`
	Available bool   `json:"available"`
}

// ProviderSource handles GET /api/streaming/{providerKey}?id=&title=&year=
func ProviderSource(resolver *source.Resolver, proxy *ProxySigner, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimSpace(chi.URLParam(r, "providerKey"))
		movieID, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("id")))
		if err != nil || movieID <= 0 {
			api.BadRequest(w, "Movie ID parameter is required")
			return
		}
		title := strings.TrimSpace(r.URL.Query().Get("title"))
		year, _ := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("year")))

		src, ok := resolver.SourceFor(key, movieID, title, year)
		if !ok {
			api.BadRequest(w, "Unknown streaming provider")
			return
		}

		url := src.URL
		if src.Type == source.TypeHLS {
			url = proxy.sign(url)
		}
		w.Header().Set("Cache-Control", cacheListing)
		api.WriteJSON(w, http.StatusOK, providerSourceResponse{
			Source:    key,
			MovieID:   movieID,
			EmbedURL:  url,
			Type:      string(src.Type),
			Quality:   src.Quality,
			Available: true,
		})
	}
}

type sourcesResponse struct {
	MovieID      int             `json:"movieId"`
	Sources      []source.Source `json:"sources"`
	TotalSources int             `json:"totalSources"`
}

// Sources handles GET /api/streaming/sources?id=&title=&year=&preferred=
func Sources(resolver *source.Resolver, proxy *ProxySigner, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		movieID, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("id")))
		if err != nil || movieID <= 0 {
			api.BadRequest(w, "Movie ID parameter is required")
			return
		}
		title := strings.TrimSpace(r.URL.Query().Get("title"))
		year, _ := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("year")))
		preferred := strings.TrimSpace(r.URL.Query().Get("preferred"))

		sources := resolver.Resolve(movieID, title, year, preferred)
		for i := range sources {
			if sources[i].Type == source.TypeHLS {
				sources[i].URL = proxy.sign(sources[i].URL)
			}
		}
		w.Header().Set("Cache-Control", cacheListing)
		api.WriteJSON(w, http.StatusOK, sourcesResponse{
			MovieID:      movieID,
			Sources:      sources,
			TotalSources: len(sources),
		})
	}
}
