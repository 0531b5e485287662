package natsconn

import (
	"testing"
	"time"
)

func TestEnvIntFallbacks(t *testing.T) {
	if v := envInt("NATSCONN_TEST_ABSENT", 42); v != 42 {
		t.Fatalf("absent key: got %d, want 42", v)
	}
	t.Setenv("NATSCONN_TEST_INT", "7")
	if v := envInt("NATSCONN_TEST_INT", 42); v != 7 {
		t.Fatalf("set key: got %d, want 7", v)
	}
	t.Setenv("NATSCONN_TEST_INT", "-3")
	if v := envInt("NATSCONN_TEST_INT", 42); v != 42 {
		t.Fatalf("negative value: got %d, want fallback 42", v)
	}
}

func TestEnvDurationFallbacks(t *testing.T) {
	if v := envDuration("NATSCONN_TEST_ABSENT", 5*time.Second); v != 5*time.Second {
		t.Fatalf("absent key: got %s, want 5s", v)
	}
	t.Setenv("NATSCONN_TEST_DUR", "3s")
	if v := envDuration("NATSCONN_TEST_DUR", 5*time.Second); v != 3*time.Second {
		t.Fatalf("set key: got %s, want 3s", v)
	}
	t.Setenv("NATSCONN_TEST_DUR", "garbage")
	if v := envDuration("NATSCONN_TEST_DUR", 5*time.Second); v != 5*time.Second {
		t.Fatalf("malformed value: got %s, want fallback 5s", v)
	}
}

func TestConnectFailsFastOnUnreachableServer(t *testing.T) {
	_, err := Connect(Options{
		URL:           "nats://127.0.0.1:19999",
		Name:          "lx-movies-test",
		ReconnectWait: 10 * time.Millisecond,
	})
	if err == nil {
		t.Fatal("expected error connecting to an unreachable NATS URL")
	}
}
