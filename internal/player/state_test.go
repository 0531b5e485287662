package player

import (
	"encoding/json"
	"testing"

	"github.com/louixani-inc/lx-movie-app-dev/internal/streaming/source"
)

func TestSnapshotMarshalsUnknownDurationAsNull(t *testing.T) {
	c, fs := newTestController(t, []source.Source{directSource("a")}, Options{})
	c.Load()

	raw, err := json.Marshal(c.Snapshot())
	if err != nil {
		t.Fatalf("marshal before metadata: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v, ok := decoded["duration"]; !ok || v != nil {
		t.Fatalf("duration = %v, want null", v)
	}
	if decoded["phase"] != "loading" {
		t.Fatalf("phase = %v", decoded["phase"])
	}

	fs.emit().OnDurationChange(120)
	raw, err = json.Marshal(c.Snapshot())
	if err != nil {
		t.Fatalf("marshal after metadata: %v", err)
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["duration"] != 120.0 {
		t.Fatalf("duration = %v, want 120", decoded["duration"])
	}
}
