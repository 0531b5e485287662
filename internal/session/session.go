// Package session hosts server-side playback sessions. Each session owns a
// playback controller bound to a remote surface: the client polls for
// transport commands, reports its media events back, and posts user intents.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/louixani-inc/lx-movie-app-dev/internal/player"
	"github.com/louixani-inc/lx-movie-app-dev/internal/player/engine"
	"github.com/louixani-inc/lx-movie-app-dev/internal/streaming/source"
)

// MediaEvent is a playback event reported by the client's media element.
type MediaEvent struct {
	Type     string  `json:"type"`
	Seconds  float64 `json:"seconds,omitempty"`
	Fraction float64 `json:"fraction,omitempty"`
	Fatal    bool    `json:"fatal,omitempty"`
	Message  string  `json:"message,omitempty"`
}

// Intent is a user action posted to a session.
type Intent struct {
	Action     string  `json:"action"`
	Seconds    float64 `json:"seconds,omitempty"`
	Volume     float64 `json:"volume,omitempty"`
	Index      int     `json:"index,omitempty"`
	Fullscreen bool    `json:"fullscreen,omitempty"`
	Message    string  `json:"message,omitempty"`
}

// View is the session snapshot returned on every poll: state, the source
// list, any available error recoveries, and the drained command queue.
type View struct {
	ID          string            `json:"id"`
	MovieID     int               `json:"movieId"`
	State       player.State      `json:"state"`
	Sources     []source.Source   `json:"sources"`
	Recoveries  []player.Recovery `json:"recoveries,omitempty"`
	ExternalURL string            `json:"externalUrl,omitempty"`
	Commands    []Command         `json:"commands"`
}

// Session is one live playback session.
type Session struct {
	ID      string
	MovieID int

	controller *player.Controller
	surface    *queueSurface

	mu       sync.Mutex
	created  time.Time
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) seen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// ApplyEvent feeds one client-reported media event into the controller.
// Events for a binding that has since been torn down are dropped by the
// engine gate, never surfaced as errors.
func (s *Session) ApplyEvent(ev MediaEvent) error {
	sink := s.surface.deliverTo()
	if sink == nil {
		// No live subscription: embed playback or a closed binding.
		return nil
	}
	switch ev.Type {
	case "loadstart":
		sink.OnLoadStart()
	case "canplay":
		sink.OnCanPlay()
	case "timeupdate":
		sink.OnTimeUpdate(ev.Seconds)
	case "durationchange":
		sink.OnDurationChange(ev.Seconds)
	case "progress":
		sink.OnProgress(ev.Fraction)
	case "play":
		sink.OnPlay()
	case "pause":
		sink.OnPause()
	case "error":
		sink.OnError(engine.Error{Fatal: ev.Fatal, Message: ev.Message})
	default:
		return fmt.Errorf("session: unknown media event %q", ev.Type)
	}
	return nil
}

// ApplyIntent executes one user action against the controller.
func (s *Session) ApplyIntent(in Intent) error {
	switch in.Action {
	case "load":
		s.controller.Load()
	case "play":
		s.controller.Play()
	case "pause":
		s.controller.Pause()
	case "seek":
		s.controller.Seek(in.Seconds)
	case "set-volume":
		s.controller.SetVolume(in.Volume)
	case "toggle-mute":
		s.controller.ToggleMute()
	case "set-fullscreen":
		s.controller.SetFullscreen(in.Fullscreen)
	case "pointer-activity":
		s.controller.PointerActivity()
	case "retry":
		return s.controller.Retry()
	case "advance-source":
		s.controller.AdvanceSource()
	case "select-source":
		return s.controller.SelectSource(in.Index)
	case "report-failure":
		s.controller.ReportFailure(in.Message)
	default:
		return fmt.Errorf("session: unknown intent %q", in.Action)
	}
	return nil
}

// Snapshot builds the poll response and drains the command queue.
func (s *Session) Snapshot() View {
	v := View{
		ID:         s.ID,
		MovieID:    s.MovieID,
		State:      s.controller.Snapshot(),
		Sources:    s.controller.Sources(),
		Recoveries: s.controller.Recoveries(),
		Commands:   s.surface.drain(),
	}
	if url, ok := s.controller.ExternalURL(); ok {
		v.ExternalURL = url
	}
	if v.Commands == nil {
		v.Commands = []Command{}
	}
	return v
}

func (s *Session) close() {
	s.controller.Close()
}

// ErrUnknownSession is returned for session ids that do not exist or have
// already expired.
var ErrUnknownSession = errors.New("session: unknown session")
