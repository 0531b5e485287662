package engine

import (
	"sync"

	"github.com/louixani-inc/lx-movie-app-dev/internal/streaming/source"
)

// Binding is the live attachment of one source to one surface. At most one
// Binding may exist per controller; Close detaches events and destroys the
// stream client before the next Bind.
type Binding struct {
	src     source.Source
	surface Surface
	stream  StreamClient
	gate    *gatedSink
	cancel  func()

	mu     sync.Mutex
	closed bool
}

// Bind attaches src to the surface and routes its events to sink.
//
// Embed sources get a frame-only binding: the cross-origin boundary hides
// all playback progress, so no events are subscribed and transport calls are
// no-ops. Direct sources load natively. HLS sources load natively when the
// surface supports it, otherwise through a freshly created stream client.
func Bind(src source.Source, surface Surface, newStream StreamClientFactory, sink EventSink) (*Binding, error) {
	b := &Binding{src: src, surface: surface}

	if src.Type == source.TypeEmbed {
		return b, nil
	}

	b.gate = &gatedSink{sink: sink}
	b.cancel = surface.Subscribe(b.gate)

	switch src.Type {
	case source.TypeHLS:
		if surface.SupportsNativeHLS() {
			surface.Load(src.URL)
			return b, nil
		}
		if newStream == nil {
			b.detach()
			return nil, ErrHLSUnsupported
		}
		client := newStream()
		if err := client.Attach(src.URL, surface); err != nil {
			client.Destroy()
			b.detach()
			return nil, err
		}
		b.stream = client
	default:
		surface.Load(src.URL)
	}
	return b, nil
}

// Source returns the bound source.
func (b *Binding) Source() source.Source {
	return b.src
}

// Embedded reports whether this binding is a frame-only embed attachment.
func (b *Binding) Embedded() bool {
	return b.src.Type == source.TypeEmbed
}

// Play starts playback; a no-op for embed bindings.
func (b *Binding) Play() error {
	if b.Embedded() {
		return nil
	}
	return b.surface.Play()
}

func (b *Binding) Pause() {
	if b.Embedded() {
		return
	}
	b.surface.Pause()
}

func (b *Binding) Seek(seconds float64) {
	if b.Embedded() {
		return
	}
	b.surface.Seek(seconds)
}

func (b *Binding) SetVolume(volume float64) {
	if b.Embedded() {
		return
	}
	b.surface.SetVolume(volume)
}

// Close detaches the event subscription and destroys the stream client.
// Events arriving after Close are dropped, never delivered to the sink.
// Close is idempotent.
func (b *Binding) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	b.detach()
	if b.stream != nil {
		b.stream.Destroy()
		b.stream = nil
	}
}

func (b *Binding) detach() {
	if b.gate != nil {
		b.gate.close()
	}
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
}

// gatedSink drops events once closed, guarding the controller against stale
// callbacks from a surface that keeps emitting during teardown.
type gatedSink struct {
	mu     sync.Mutex
	closed bool
	sink   EventSink
}

func (g *gatedSink) close() {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()
}

func (g *gatedSink) open() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return !g.closed
}

func (g *gatedSink) OnLoadStart() {
	if g.open() {
		g.sink.OnLoadStart()
	}
}

func (g *gatedSink) OnCanPlay() {
	if g.open() {
		g.sink.OnCanPlay()
	}
}

func (g *gatedSink) OnTimeUpdate(seconds float64) {
	if g.open() {
		g.sink.OnTimeUpdate(seconds)
	}
}

func (g *gatedSink) OnDurationChange(seconds float64) {
	if g.open() {
		g.sink.OnDurationChange(seconds)
	}
}

func (g *gatedSink) OnProgress(fraction float64) {
	if g.open() {
		g.sink.OnProgress(fraction)
	}
}

func (g *gatedSink) OnPlay() {
	if g.open() {
		g.sink.OnPlay()
	}
}

func (g *gatedSink) OnPause() {
	if g.open() {
		g.sink.OnPause()
	}
}

func (g *gatedSink) OnError(err Error) {
	if g.open() {
		g.sink.OnError(err)
	}
}
