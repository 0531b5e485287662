// Package source builds the ordered list of candidate playback sources for a
// movie. Resolution is pure string templating over configured providers; no
// network calls happen here.
package source

// Type is the delivery mechanism of a source. The three cases are a closed
// set: the playback engine picks exactly one handling path per source.
type Type string

const (
	// TypeEmbed is a third-party iframe page. The player has no visibility
	// into it; the only recovery it supports is opening the URL externally.
	TypeEmbed Type = "embed"

	// TypeDirect is a plain video file attached straight to a media element.
	TypeDirect Type = "direct"

	// TypeHLS is an adaptive-bitrate manifest that may need a stream client
	// when the surface lacks native HLS support.
	TypeHLS Type = "hls"
)

// Source is one playback candidate. Immutable once resolved; fallback walks
// the list by index and never mutates it.
type Source struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Quality string `json:"quality"`
	Type    Type   `json:"type"`
	Server  string `json:"server,omitempty"`
}
