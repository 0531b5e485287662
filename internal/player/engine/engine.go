// Package engine bridges one streaming source to a concrete playback
// surface. A Binding owns the event subscription and any adaptive-stream
// client for exactly one source; creating the next binding requires closing
// the previous one first.
package engine

import "errors"

// ErrHLSUnsupported is reported when a source needs adaptive playback but
// the surface has no native support and no stream client factory was given.
var ErrHLSUnsupported = errors.New("engine: adaptive streaming not supported by this surface")

// Error is a playback error signal from the surface. Only Fatal errors may
// move the controller into its error state; everything else is a transient
// hiccup the controller absorbs.
type Error struct {
	Fatal   bool
	Message string
}

// EventSink receives low-level media events from a playback surface.
// Events are delivered in the order the surface emits them; the consumer
// must tolerate duration arriving after the first time update.
type EventSink interface {
	OnLoadStart()
	OnCanPlay()
	OnTimeUpdate(seconds float64)
	OnDurationChange(seconds float64)
	OnProgress(bufferedFraction float64)
	OnPlay()
	OnPause()
	OnError(err Error)
}

// Surface abstracts the playback element a binding drives: a media element
// in a browser shell, a headless command queue for remote sessions, or a
// fake in tests.
type Surface interface {
	Load(url string)
	Play() error
	Pause()
	Seek(seconds float64)
	SetVolume(volume float64)

	// SupportsNativeHLS reports whether the surface can play an HLS
	// manifest without a stream client (e.g. Safari's media element).
	SupportsNativeHLS() bool

	// Subscribe registers the sink for media events and returns a cancel
	// function. After cancel returns, the surface must not call the sink.
	Subscribe(sink EventSink) (cancel func())
}

// StreamClient fetches and feeds adaptive-stream segments into a surface.
// A client is bound to a single manifest: it must be destroyed and a new one
// created whenever the source changes.
type StreamClient interface {
	Attach(manifestURL string, surface Surface) error

	// Destroy stops segment fetching and releases network listeners.
	// It must be safe to call more than once.
	Destroy()
}

// StreamClientFactory creates a fresh StreamClient per HLS binding.
type StreamClientFactory func() StreamClient
