package session

import (
	"sync"

	"github.com/louixani-inc/lx-movie-app-dev/internal/player/engine"
)

// Command is one transport instruction queued for the client's media
// element. Clients drain the queue on every poll and apply the commands
// in order.
type Command struct {
	Op    string  `json:"op"` // load, play, pause, seek, volume
	URL   string  `json:"url,omitempty"`
	Value float64 `json:"value,omitempty"`
}

// queueSurface is the remote playback surface: transport calls become
// queued commands for the client, and client-reported media events are
// delivered to the subscribed sink.
type queueSurface struct {
	mu        sync.Mutex
	commands  []Command
	sink      engine.EventSink
	nativeHLS bool
}

func (s *queueSurface) push(cmd Command) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands = append(s.commands, cmd)
}

func (s *queueSurface) Load(url string) { s.push(Command{Op: "load", URL: url}) }

func (s *queueSurface) Play() error {
	s.push(Command{Op: "play"})
	return nil
}

func (s *queueSurface) Pause() { s.push(Command{Op: "pause"}) }

func (s *queueSurface) Seek(seconds float64) { s.push(Command{Op: "seek", Value: seconds}) }

func (s *queueSurface) SetVolume(volume float64) { s.push(Command{Op: "volume", Value: volume}) }

// SupportsNativeHLS reflects the capability the client declared when the
// session was created.
func (s *queueSurface) SupportsNativeHLS() bool { return s.nativeHLS }

func (s *queueSurface) Subscribe(sink engine.EventSink) func() {
	s.mu.Lock()
	s.sink = sink
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		if s.sink == sink {
			s.sink = nil
		}
		s.mu.Unlock()
	}
}

// drain returns the queued commands and clears the queue.
func (s *queueSurface) drain() []Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.commands
	s.commands = nil
	return out
}

func (s *queueSurface) deliverTo() engine.EventSink {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sink
}
