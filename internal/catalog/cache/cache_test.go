package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMemoryMissThenHit(t *testing.T) {
	c := NewMemory(nil, "")
	ctx := context.Background()

	var got payload
	ok, err := c.Get(ctx, "k", &got)
	if err != nil || ok {
		t.Fatalf("empty cache Get = %v, %v", ok, err)
	}

	want := payload{Name: "popular", Count: 3}
	if err := c.Set(ctx, "k", want, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	ok, err = c.Get(ctx, "k", &got)
	if err != nil || !ok {
		t.Fatalf("Get after Set = %v, %v", ok, err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestMemoryEntriesExpire(t *testing.T) {
	c := NewMemory(nil, "")
	ctx := context.Background()

	if err := c.Set(ctx, "k", payload{Name: "x"}, 10*time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	var got payload
	ok, err := c.Get(ctx, "k", &got)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatalf("expired entry still served")
	}
}

func TestMemoryKeysAreIndependent(t *testing.T) {
	c := NewMemory(nil, "")
	ctx := context.Background()
	_ = c.Set(ctx, "a", payload{Name: "a"}, time.Minute)
	_ = c.Set(ctx, "b", payload{Name: "b"}, time.Minute)

	var got payload
	if ok, _ := c.Get(ctx, "a", &got); !ok || got.Name != "a" {
		t.Fatalf("key a = %+v (%v)", got, ok)
	}
	if ok, _ := c.Get(ctx, "b", &got); !ok || got.Name != "b" {
		t.Fatalf("key b = %+v (%v)", got, ok)
	}
}

func TestRedisRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	c, err := NewRedis("redis://" + mr.Addr())
	if err != nil {
		t.Fatalf("NewRedis: %v", err)
	}
	ctx := context.Background()

	var got payload
	ok, err := c.Get(ctx, "k", &got)
	if err != nil || ok {
		t.Fatalf("empty Get = %v, %v", ok, err)
	}

	want := payload{Name: "trending", Count: 7}
	if err := c.Set(ctx, "k", want, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	ok, err = c.Get(ctx, "k", &got)
	if err != nil || !ok || got != want {
		t.Fatalf("Get = %+v, %v, %v", got, ok, err)
	}
}

func TestRedisEntriesExpire(t *testing.T) {
	mr := miniredis.RunT(t)
	c, err := NewRedis("redis://" + mr.Addr())
	if err != nil {
		t.Fatalf("NewRedis: %v", err)
	}
	ctx := context.Background()

	if err := c.Set(ctx, "k", payload{Name: "x"}, time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}
	mr.FastForward(2 * time.Second)

	var got payload
	if ok, err := c.Get(ctx, "k", &got); err != nil || ok {
		t.Fatalf("expired Get = %v, %v", ok, err)
	}
}

func TestNewRedisRejectsBadURL(t *testing.T) {
	if _, err := NewRedis("::nonsense"); err == nil {
		t.Fatalf("bad URL accepted")
	}
}
