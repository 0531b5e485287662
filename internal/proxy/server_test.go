package proxy

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/louixani-inc/lx-movie-app-dev/internal/platform/signing"
)

func signedQuery(t *testing.T, signer *signing.Signer, target string) string {
	t.Helper()
	signed := signer.Sign(target, "viewer-1", time.Now().Add(time.Hour))
	u, err := signing.BuildSignedURL("/hls", signed)
	if err != nil {
		t.Fatalf("BuildSignedURL: %v", err)
	}
	return u
}

func TestHLSRejectsMissingAndBadSignatures(t *testing.T) {
	signer := signing.New("secret")
	h := NewServer(signer, nil, "", nil).Routes()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hls", nil))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("unsigned status = %d, want 403", rec.Code)
	}

	target := signedQuery(t, signing.New("other-secret"), "https://cdn.example/seg0.ts")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("wrong-secret status = %d, want 403", rec.Code)
	}
}

func TestHLSRejectsExpiredSignature(t *testing.T) {
	signer := signing.New("secret")
	signed := signer.Sign("https://cdn.example/seg0.ts", "viewer-1", time.Now().Add(-time.Minute))
	target, _ := signing.BuildSignedURL("/hls", signed)

	rec := httptest.NewRecorder()
	NewServer(signer, nil, "", nil).Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expired status = %d, want 403", rec.Code)
	}
}

func TestHLSRewritesManifests(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.apple.mpegurl")
		_, _ = w.Write([]byte("#EXTM3U\nseg0.ts\n#EXT-X-ENDLIST"))
	}))
	defer upstream.Close()

	signer := signing.New("secret")
	h := NewServer(signer, nil, "https://proxy.example/hls", nil).Routes()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, signedQuery(t, signer, upstream.URL+"/index.m3u8"), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	lines := strings.Split(rec.Body.String(), "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[1], "https://proxy.example/hls?") {
		t.Fatalf("manifest not rewritten: %q", rec.Body.String())
	}
	u, err := url.Parse(lines[1])
	if err != nil {
		t.Fatalf("rewritten line: %v", err)
	}
	q := u.Query()
	if q.Get("url") != upstream.URL+"/seg0.ts" {
		t.Fatalf("segment url = %q", q.Get("url"))
	}
	// The rewritten link must verify against the same secret.
	rawURL, uid, expUnix, sig, err := signing.ExtractSigned(q)
	if err != nil || !signer.Verify(rawURL, uid, expUnix, sig) {
		t.Fatalf("rewritten link does not verify: %v", err)
	}
}

func TestHLSStreamsSegmentsUntouched(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "video/mp2t")
		_, _ = w.Write([]byte("segment-bytes"))
	}))
	defer upstream.Close()

	signer := signing.New("secret")
	rec := httptest.NewRecorder()
	NewServer(signer, nil, "", nil).Routes().
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, signedQuery(t, signer, upstream.URL+"/seg0.ts"), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Body.String() != "segment-bytes" {
		t.Fatalf("body = %q", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "video/mp2t" {
		t.Fatalf("Content-Type = %q", ct)
	}
}

func TestHLSReplaysHeaderBlob(t *testing.T) {
	var gotReferer string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReferer = r.Header.Get("Referer")
		w.Header().Set("Content-Type", "video/mp2t")
	}))
	defer upstream.Close()

	signer := signing.New("secret")
	signed := signer.SignWithHeaders(upstream.URL+"/seg0.ts", "viewer-1", time.Now().Add(time.Hour),
		map[string]string{"Referer": "https://player.example/"})
	target, _ := signing.BuildSignedURL("/hls", signed)

	rec := httptest.NewRecorder()
	NewServer(signer, nil, "", nil).Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if gotReferer != "https://player.example/" {
		t.Fatalf("Referer = %q", gotReferer)
	}
}

func TestIsManifest(t *testing.T) {
	if !isManifest("application/x-mpegURL", "https://cdn/x") {
		t.Fatal("content-type detection failed")
	}
	if !isManifest("application/octet-stream", "https://cdn/index.m3u8?token=1") {
		t.Fatal("extension detection failed")
	}
	if isManifest("video/mp2t", "https://cdn/seg0.ts") {
		t.Fatal("segment misdetected as manifest")
	}
}
