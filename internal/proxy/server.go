// Package proxy implements the signed HLS proxy endpoint: it verifies the
// request signature, fetches the upstream URL, and rewrites playlist bodies
// so every referenced URI routes back through the proxy.
package proxy

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/louixani-inc/lx-movie-app-dev/internal/platform/httpserver"
	"github.com/louixani-inc/lx-movie-app-dev/internal/platform/signing"
	"github.com/louixani-inc/lx-movie-app-dev/internal/proxy/rewriter"
)

const maxManifestBytes = 8 << 20

type Server struct {
	signer     *signing.Signer
	client     *http.Client
	publicBase string
	log        *zap.Logger
}

func NewServer(signer *signing.Signer, client *http.Client, publicBase string, log *zap.Logger) *Server {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{signer: signer, client: client, publicBase: publicBase, log: log}
}

// Routes builds the proxy router: /hls plus a liveness probe.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	httpserver.SetupRouter(r)
	r.Get("/hls", s.handleHLS)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return r
}

func (s *Server) handleHLS(w http.ResponseWriter, r *http.Request) {
	rawURL, uid, exp, sig, err := signing.ExtractSigned(r.URL.Query())
	if err != nil || !s.signer.Verify(rawURL, uid, exp, sig) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, rawURL, nil)
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	for k, v := range signing.ExtractHeaders(r.URL.Query()) {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Warn("upstream fetch failed", zap.String("url", rawURL), zap.Error(err))
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if isManifest(contentType, rawURL) {
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxManifestBytes))
		if err != nil {
			http.Error(w, "upstream read failed", http.StatusBadGateway)
			return
		}
		rw := &rewriter.Rewriter{
			Signer:    s.signer,
			ProxyBase: s.proxyBase(r),
			UID:       uid,
			Exp:       exp,
			Hdr:       strings.TrimSpace(r.URL.Query().Get("hdr")),
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(resp.StatusCode)
		_, _ = w.Write([]byte(rw.Playlist(string(body), rawURL)))
		return
	}

	// Segments and everything else stream through untouched.
	for k, vals := range resp.Header {
		for _, v := range vals {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = io.Copy(w, resp.Body)
}

func (s *Server) proxyBase(r *http.Request) string {
	if s.publicBase != "" {
		return s.publicBase
	}
	scheme := "https"
	if r.TLS == nil {
		scheme = "http"
	}
	return scheme + "://" + r.Host + "/hls"
}

func isManifest(contentType, rawURL string) bool {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "mpegurl") {
		return true
	}
	path := rawURL
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	return strings.HasSuffix(strings.ToLower(path), ".m3u8")
}
