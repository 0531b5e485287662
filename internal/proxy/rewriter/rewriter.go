// Package rewriter rewrites HLS playlists so every referenced URI routes
// back through the proxy with a fresh signature. Variant playlists,
// segments and URI="..." tag attributes are all covered.
package rewriter

import (
	"net/url"
	"strings"
	"time"

	"github.com/louixani-inc/lx-movie-app-dev/internal/platform/signing"
)

// Rewriter re-signs playlist URIs for one request. Exp and UID carry over
// from the incoming signed request so the whole playlist chain expires
// together.
type Rewriter struct {
	Signer    *signing.Signer
	ProxyBase string // public proxy endpoint, e.g. https://proxy.example/hls
	UID       string
	Exp       int64
	Hdr       string // opaque upstream-header blob, replayed verbatim
}

// Playlist rewrites an m3u8 body fetched from manifestURL. Comments and
// blank lines pass through except for tags carrying a URI attribute; every
// other line is a URI, resolved against the manifest and proxied.
func (rw *Rewriter) Playlist(body, manifestURL string) string {
	lines := strings.Split(body, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trim := strings.TrimSpace(line)
		if trim == "" || strings.HasPrefix(trim, "#") {
			if strings.Contains(trim, `URI="`) {
				line = rw.rewriteURITag(line, manifestURL)
			}
			out = append(out, line)
			continue
		}
		out = append(out, rw.proxyURL(resolveRef(manifestURL, trim)))
	}
	return strings.Join(out, "\n")
}

func (rw *Rewriter) proxyURL(target string) string {
	signed := rw.Signer.Sign(target, rw.UID, time.Unix(rw.Exp, 0))
	signed.Hdr = rw.Hdr
	u, err := signing.BuildSignedURL(rw.ProxyBase, signed)
	if err != nil {
		return target
	}
	return u
}

func (rw *Rewriter) rewriteURITag(line, manifestURL string) string {
	start := strings.Index(line, `URI="`)
	if start == -1 {
		return line
	}
	start += len(`URI="`)
	end := strings.Index(line[start:], `"`)
	if end == -1 {
		return line
	}
	uri := line[start : start+end]
	proxied := rw.proxyURL(resolveRef(manifestURL, uri))
	return line[:start] + proxied + line[start+end:]
}

// resolveRef resolves a playlist reference against the manifest URL.
// Unparseable input falls back to the reference untouched.
func resolveRef(manifestURL, ref string) string {
	base, err := url.Parse(manifestURL)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(r).String()
}
