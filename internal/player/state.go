package player

import (
	"encoding/json"
	"math"
)

// Phase is the lifecycle position of the controller.
//
//	Idle → Loading → Ready ⇄ Playing ⇄ Paused
//
// Errored is orthogonal: reachable from Loading, Ready, Playing and Paused
// on a fatal engine signal, left only by a user-initiated recovery.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhasePlaying
	PhasePaused
	PhaseErrored
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	case PhaseErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// State is the full playback state owned by one Controller. Snapshots are
// value copies; nothing outside the controller mutates it.
type State struct {
	SourceIndex     int     `json:"sourceIndex"`
	Phase           Phase   `json:"-"`
	PhaseName       string  `json:"phase"`
	Volume          float64 `json:"volume"`
	Muted           bool    `json:"muted"`
	CurrentTime     float64 `json:"currentTime"`
	Duration        float64 `json:"duration"`
	Buffered        float64 `json:"buffered"`
	ControlsVisible bool    `json:"controlsVisible"`
	Fullscreen      bool    `json:"fullscreen"`
	ErrorMessage    string  `json:"errorMessage,omitempty"`
}

// DurationKnown reports whether duration metadata has arrived yet.
func (s State) DurationKnown() bool {
	return !math.IsNaN(s.Duration)
}

// MarshalJSON writes an unknown duration as null. The in-memory sentinel is
// NaN, which encoding/json refuses to emit.
func (s State) MarshalJSON() ([]byte, error) {
	type plain State
	out := struct {
		plain
		Duration *float64 `json:"duration"`
	}{plain: plain(s)}
	if s.DurationKnown() {
		out.Duration = &s.Duration
	}
	return json.Marshal(out)
}

// Recovery names a user action available from the Errored phase.
type Recovery string

const (
	RecoveryRetry         Recovery = "retry"
	RecoveryAdvanceSource Recovery = "advance-source"
	RecoveryOpenExternal  Recovery = "open-external"
)

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
