package services

import (
	"context"
	"testing"
	"time"

	"github.com/railsahayak/complaint-server/internal/models"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T, max int) *SessionStore {
	t.Helper()
	s := NewSessionStore(0, max, zap.NewNop().Sugar())
	t.Cleanup(s.CloseAll)
	return s
}

func TestSessionStore_CreateGetDelete(t *testing.T) {
	s := newTestStore(t, 0)

	conv, err := s.Create("")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if conv.Language() != models.LanguageEnglish {
		t.Fatalf("default language = %s", conv.Language())
	}
	if len(conv.ID()) != 26 {
		t.Fatalf("expected a ULID session id, got %q", conv.ID())
	}

	got, err := s.Get(conv.ID())
	if err != nil || got != conv {
		t.Fatalf("get: %v", err)
	}

	if err := s.Delete(conv.ID()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(conv.ID()); err != ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound after delete, got %v", err)
	}
	if err := s.Delete(conv.ID()); err != ErrSessionNotFound {
		t.Fatalf("second delete: %v", err)
	}
}

func TestSessionStore_Limits(t *testing.T) {
	s := newTestStore(t, 2)

	if _, err := s.Create("de"); err != ErrUnsupportedLanguage {
		t.Fatalf("expected ErrUnsupportedLanguage, got %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := s.Create(models.LanguageHindi); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}
	if _, err := s.Create(models.LanguageHindi); err != ErrSessionLimit {
		t.Fatalf("expected ErrSessionLimit, got %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("len = %d", s.Len())
	}
}

func TestSessionStore_Expire(t *testing.T) {
	s := newTestStore(t, 0)

	old, _ := s.Create(models.LanguageEnglish)
	cutoff := time.Now()
	time.Sleep(5 * time.Millisecond)
	fresh, _ := s.Create(models.LanguageEnglish)

	if n := s.Expire(cutoff.Add(time.Millisecond)); n != 1 {
		t.Fatalf("expected 1 expired session, got %d", n)
	}
	if _, err := s.Get(old.ID()); err != ErrSessionNotFound {
		t.Fatalf("old session should be gone")
	}
	if _, err := s.Get(fresh.ID()); err != nil {
		t.Fatalf("fresh session should remain: %v", err)
	}
	if _, err := old.Send("hello"); err != ErrSessionClosed {
		t.Fatalf("expired session should be closed, got %v", err)
	}
}

func TestSessionJanitor_StopsOnCancel(t *testing.T) {
	s := newTestStore(t, 0)
	s.Create(models.LanguageEnglish)

	j := NewSessionJanitor(s, time.Nanosecond, zap.NewNop().Sugar())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		j.Start(ctx, 10*time.Millisecond)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for s.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("janitor did not expire idle session")
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("janitor did not stop")
	}
}
