// Package player implements the playback controller: the state machine that
// owns the current source index, transport and volume state, the controls
// auto-hide timer, and fallback to the next source on fatal errors.
package player

import (
	"errors"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/louixani-inc/lx-movie-app-dev/internal/platform/analytics"
	"github.com/louixani-inc/lx-movie-app-dev/internal/player/engine"
	"github.com/louixani-inc/lx-movie-app-dev/internal/streaming/source"
)

var (
	// ErrNoSources rejects construction over an empty source list; the UI
	// shows "no streaming sources available" instead of a player.
	ErrNoSources = errors.New("player: no streaming sources available")

	// ErrEmbedRetry rejects Retry on embed sources: the frame is opaque,
	// so the only recoveries are open-external and advance-source.
	ErrEmbedRetry = errors.New("player: embed sources cannot be retried")

	// ErrNotErrored rejects recovery calls outside the errored phase.
	ErrNotErrored = errors.New("player: no error to recover from")
)

const (
	defaultVolume          = 0.8
	defaultControlsTimeout = 3000 * time.Millisecond
	genericErrorMessage    = "Failed to load video source"
)

// Options tune a Controller. Zero values get sensible defaults.
type Options struct {
	Autoplay        bool
	InitialVolume   float64 // 0 means defaultVolume
	ControlsTimeout time.Duration
	StreamClients   engine.StreamClientFactory
	Logger          *zap.Logger
	Events          *analytics.Publisher
	SessionID       string
}

// Controller drives playback of one ordered source list on one surface.
// All methods are safe for concurrent use; engine events and HTTP handlers
// race otherwise.
type Controller struct {
	mu sync.Mutex

	sources   []source.Source
	surface   engine.Surface
	newStream engine.StreamClientFactory

	st         State
	lastVolume float64 // last non-zero volume, restored on unmute
	binding    *engine.Binding

	hideTimer *time.Timer
	hideDelay time.Duration
	autoplay  bool
	closed    bool

	log       *zap.Logger
	events    *analytics.Publisher
	sessionID string
}

// New builds an idle controller. Call Load to attach the first source.
func New(sources []source.Source, surface engine.Surface, opts Options) (*Controller, error) {
	if len(sources) == 0 {
		return nil, ErrNoSources
	}
	vol := opts.InitialVolume
	if vol <= 0 {
		vol = defaultVolume
	}
	vol = clamp01(vol)
	delay := opts.ControlsTimeout
	if delay <= 0 {
		delay = defaultControlsTimeout
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		sources:   sources,
		surface:   surface,
		newStream: opts.StreamClients,
		st: State{
			Phase:           PhaseIdle,
			Volume:          vol,
			Duration:        math.NaN(),
			ControlsVisible: true,
		},
		lastVolume: vol,
		hideDelay:  delay,
		autoplay:   opts.Autoplay,
		log:        log,
		events:     opts.Events,
		sessionID:  opts.SessionID,
	}, nil
}

// Sources returns the immutable source list the controller was built over.
func (c *Controller) Sources() []source.Source {
	return c.sources
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.st
	st.PhaseName = st.Phase.String()
	return st
}

// CurrentSource returns the source at the current index.
func (c *Controller) CurrentSource() source.Source {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sources[c.st.SourceIndex]
}

// Recoveries lists the user actions available in the errored phase, by
// source type: embed offers open-external + advance, everything else
// retry + advance.
func (c *Controller) Recoveries() []Recovery {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.st.Phase != PhaseErrored {
		return nil
	}
	if c.sources[c.st.SourceIndex].Type == source.TypeEmbed {
		return []Recovery{RecoveryOpenExternal, RecoveryAdvanceSource}
	}
	return []Recovery{RecoveryRetry, RecoveryAdvanceSource}
}

// Load attaches the source at the current index. Idempotent from Idle;
// callers switching sources go through AdvanceSource or SelectSource.
func (c *Controller) Load() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attachLocked(c.st.SourceIndex)
}

// attachLocked tears down the previous binding and binds the source at
// index. Switching always resets time, duration and buffered state;
// volume, mute, fullscreen and controls visibility survive.
func (c *Controller) attachLocked(index int) {
	if c.closed {
		return
	}
	if c.binding != nil {
		c.binding.Close()
		c.binding = nil
	}
	c.stopHideTimerLocked()

	c.st.SourceIndex = index
	c.st.CurrentTime = 0
	c.st.Duration = math.NaN()
	c.st.Buffered = 0
	c.st.ErrorMessage = ""
	c.st.Phase = PhaseLoading
	c.st.ControlsVisible = true

	src := c.sources[index]
	b, err := engine.Bind(src, c.surface, c.newStream, &engineSink{c: c})
	if err != nil {
		c.log.Warn("source attach failed",
			zap.String("source", src.Name), zap.Error(err))
		c.enterErrorLocked(err.Error())
		return
	}
	c.binding = b
	b.SetVolume(c.effectiveVolumeLocked())

	if src.Type == source.TypeEmbed {
		// The frame plays on its own; no events will ever arrive.
		c.st.Phase = PhaseReady
	}
}

// Play starts playback from Ready or Paused. The phase flips on the
// surface's play event, not here.
func (c *Controller) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.binding == nil || c.st.Phase == PhaseErrored {
		return
	}
	if c.st.Phase != PhaseReady && c.st.Phase != PhasePaused {
		return
	}
	if err := c.binding.Play(); err != nil {
		c.log.Debug("play request rejected", zap.Error(err))
	}
}

func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.binding == nil || c.st.Phase != PhasePlaying {
		return
	}
	c.binding.Pause()
}

// Seek moves the playhead, clamped to [0, duration]. Before duration is
// known only the lower bound applies; the clamp re-applies when metadata
// arrives.
func (c *Controller) Seek(seconds float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.binding == nil || c.binding.Embedded() || c.st.Phase == PhaseErrored {
		return
	}
	t := c.clampTimeLocked(seconds)
	c.st.CurrentTime = t
	c.binding.Seek(t)
}

// SetVolume sets the volume in [0, 1]. Zero volume is a mute: the muted
// flag follows, and the previous non-zero level is remembered for unmute.
func (c *Controller) SetVolume(volume float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := clamp01(volume)
	c.st.Volume = v
	if v > 0 {
		c.lastVolume = v
		c.st.Muted = false
	} else {
		c.st.Muted = true
	}
	if c.binding != nil {
		c.binding.SetVolume(c.effectiveVolumeLocked())
	}
}

// ToggleMute flips the muted flag. Muting remembers the current level;
// unmuting restores the last non-zero volume that was active before muting.
func (c *Controller) ToggleMute() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.st.Muted {
		c.st.Muted = false
		if c.st.Volume == 0 {
			v := c.lastVolume
			if v <= 0 {
				v = defaultVolume
			}
			c.st.Volume = v
		}
	} else {
		if c.st.Volume > 0 {
			c.lastVolume = c.st.Volume
		}
		c.st.Muted = true
	}
	if c.binding != nil {
		c.binding.SetVolume(c.effectiveVolumeLocked())
	}
}

func (c *Controller) SetFullscreen(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.st.Fullscreen = on
}

// PointerActivity reveals the controls and, while playing, restarts the
// auto-hide countdown. Media progress events never call this.
func (c *Controller) PointerActivity() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.st.ControlsVisible = true
	if c.st.Phase == PhasePlaying {
		c.armHideTimerLocked()
	}
}

// Retry re-attaches the current source after a fatal error. Not available
// for embed sources.
func (c *Controller) Retry() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.st.Phase != PhaseErrored {
		return ErrNotErrored
	}
	if c.sources[c.st.SourceIndex].Type == source.TypeEmbed {
		return ErrEmbedRetry
	}
	c.attachLocked(c.st.SourceIndex)
	return nil
}

// AdvanceSource moves to the next source, wrapping at the end of the list,
// and attaches it. Usable both as error recovery and as a manual switch.
func (c *Controller) AdvanceSource() {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := (c.st.SourceIndex + 1) % len(c.sources)
	c.publishLocked(analytics.SubjectPlaybackSourceChanged, "playback_source_changed", map[string]any{
		"from": c.st.SourceIndex,
		"to":   next,
	})
	c.attachLocked(next)
}

// SelectSource attaches the source at an explicit index.
func (c *Controller) SelectSource(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.sources) {
		return errors.New("player: source index out of range")
	}
	c.attachLocked(index)
	return nil
}

// ExternalURL returns the URL to hand to the host for "open externally",
// offered only for embed sources.
func (c *Controller) ExternalURL() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	src := c.sources[c.st.SourceIndex]
	if src.Type != source.TypeEmbed {
		return "", false
	}
	return src.URL, true
}

// ReportFailure records a host-reported playback failure, such as an embed
// frame that never loaded. Embed sources emit no media events, so this is
// the only path into the errored phase for them.
func (c *Controller) ReportFailure(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.st.Phase == PhaseIdle {
		return
	}
	c.enterErrorLocked(message)
}

// Close tears down the binding and the auto-hide timer. The controller
// accepts no further transitions; stale engine events are dropped by the
// binding's gate.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.stopHideTimerLocked()
	if c.binding != nil {
		c.binding.Close()
		c.binding = nil
	}
	c.st.Phase = PhaseIdle
}

func (c *Controller) clampTimeLocked(t float64) float64 {
	if t < 0 {
		return 0
	}
	if c.st.DurationKnown() && t > c.st.Duration {
		return c.st.Duration
	}
	return t
}

func (c *Controller) effectiveVolumeLocked() float64 {
	if c.st.Muted {
		return 0
	}
	return c.st.Volume
}

func (c *Controller) enterErrorLocked(message string) {
	if message == "" {
		// An error state with no displayable message is never allowed.
		message = genericErrorMessage
	}
	c.st.Phase = PhaseErrored
	c.st.ErrorMessage = message
	c.st.ControlsVisible = true
	c.stopHideTimerLocked()
	c.publishLocked(analytics.SubjectPlaybackFailed, "playback_failed", map[string]any{
		"source_index": c.st.SourceIndex,
		"message":      message,
	})
}

func (c *Controller) armHideTimerLocked() {
	c.stopHideTimerLocked()
	c.hideTimer = time.AfterFunc(c.hideDelay, c.hideControls)
}

func (c *Controller) stopHideTimerLocked() {
	if c.hideTimer != nil {
		c.hideTimer.Stop()
		c.hideTimer = nil
	}
}

func (c *Controller) hideControls() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.st.Phase != PhasePlaying {
		return
	}
	c.st.ControlsVisible = false
}

func (c *Controller) publishLocked(subject, name string, props map[string]any) {
	c.events.Publish(subject, name, c.sessionID, props)
}

// engineSink adapts engine events onto controller transitions without
// exporting event methods on Controller itself.
type engineSink struct {
	c *Controller
}

func (s *engineSink) OnLoadStart() {
	c := s.c
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.st.Phase == PhaseErrored {
		return
	}
	c.st.Phase = PhaseLoading
}

func (s *engineSink) OnCanPlay() {
	c := s.c
	c.mu.Lock()
	if c.closed || c.st.Phase != PhaseLoading {
		c.mu.Unlock()
		return
	}
	c.st.Phase = PhaseReady
	binding, autoplay := c.binding, c.autoplay
	c.mu.Unlock()

	if autoplay && binding != nil {
		// Play-start success is confirmed by the surface's play event.
		if err := binding.Play(); err != nil {
			c.log.Debug("autoplay rejected", zap.Error(err))
		}
	}
}

func (s *engineSink) OnTimeUpdate(seconds float64) {
	c := s.c
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.st.Phase == PhaseErrored {
		return
	}
	c.st.CurrentTime = c.clampTimeLocked(seconds)
}

func (s *engineSink) OnDurationChange(seconds float64) {
	c := s.c
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.st.Phase == PhaseErrored {
		return
	}
	if seconds < 0 || math.IsNaN(seconds) {
		c.st.Duration = math.NaN()
		return
	}
	c.st.Duration = seconds
	// Duration may arrive after the first time update; re-apply the clamp.
	c.st.CurrentTime = c.clampTimeLocked(c.st.CurrentTime)
}

func (s *engineSink) OnProgress(fraction float64) {
	c := s.c
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.st.Phase == PhaseErrored {
		return
	}
	c.st.Buffered = clamp01(fraction)
}

func (s *engineSink) OnPlay() {
	c := s.c
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.st.Phase == PhaseErrored {
		return
	}
	started := c.st.Phase != PhasePlaying
	c.st.Phase = PhasePlaying
	c.armHideTimerLocked()
	if started {
		c.publishLocked(analytics.SubjectPlaybackStarted, "playback_started", map[string]any{
			"source_index": c.st.SourceIndex,
		})
	}
}

func (s *engineSink) OnPause() {
	c := s.c
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.st.Phase == PhaseErrored {
		return
	}
	c.st.Phase = PhasePaused
	// Controls never auto-hide while paused.
	c.st.ControlsVisible = true
	c.stopHideTimerLocked()
}

func (s *engineSink) OnError(err engine.Error) {
	c := s.c
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if !err.Fatal {
		// Buffering hiccups are absorbed; playback state is untouched.
		c.log.Debug("non-fatal playback error", zap.String("message", err.Message))
		return
	}
	c.log.Warn("fatal playback error",
		zap.Int("source_index", c.st.SourceIndex),
		zap.String("message", err.Message))
	c.enterErrorLocked(err.Message)
}
