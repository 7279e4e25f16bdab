package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestMemory_FixedWindow(t *testing.T) {
	now := time.Unix(1000, 0)
	m := NewMemory(3, time.Minute)
	m.now = func() time.Time { return now }

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		ok, err := m.Allow(ctx, "10.0.0.1")
		if err != nil || !ok {
			t.Fatalf("request %d should pass: ok=%v err=%v", i, ok, err)
		}
	}
	if ok, _ := m.Allow(ctx, "10.0.0.1"); ok {
		t.Fatalf("fourth request in window should be rejected")
	}
	if ok, _ := m.Allow(ctx, "10.0.0.2"); !ok {
		t.Fatalf("other clients have their own window")
	}

	now = now.Add(time.Minute)
	if ok, _ := m.Allow(ctx, "10.0.0.1"); !ok {
		t.Fatalf("new window should reset the count")
	}
}

func TestMemory_Sweep(t *testing.T) {
	now := time.Unix(1000, 0)
	m := NewMemory(1, time.Minute)
	m.now = func() time.Time { return now }

	m.Allow(context.Background(), "a")
	now = now.Add(30 * time.Second)
	m.Allow(context.Background(), "b")

	now = now.Add(45 * time.Second)
	m.Sweep()

	if _, ok := m.clients["a"]; ok {
		t.Fatalf("expired window for a should be swept")
	}
	if _, ok := m.clients["b"]; !ok {
		t.Fatalf("live window for b should stay")
	}
}

func TestRedis_WindowKey(t *testing.T) {
	r := &Redis{period: time.Minute, prefix: "ratelimit"}

	r.now = func() time.Time { return time.Unix(120, 0) }
	first := r.windowKey("10.0.0.1")
	if first != "ratelimit:10.0.0.1:2" {
		t.Fatalf("unexpected key: %s", first)
	}

	r.now = func() time.Time { return time.Unix(179, 0) }
	if got := r.windowKey("10.0.0.1"); got != first {
		t.Fatalf("same window should share a key: %s vs %s", got, first)
	}

	r.now = func() time.Time { return time.Unix(180, 0) }
	if got := r.windowKey("10.0.0.1"); got == first {
		t.Fatalf("next window should use a new key")
	}
}

func TestNewRedis_InvalidURL(t *testing.T) {
	if _, err := NewRedis(context.Background(), "not-a-url://", 10, time.Minute); err == nil {
		t.Fatalf("expected error for invalid URL")
	}
}
