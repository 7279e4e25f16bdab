package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/railsahayak/complaint-server/internal/metrics"
	"github.com/railsahayak/complaint-server/internal/models"
	"go.uber.org/zap"
)

var (
	// ErrSessionNotFound is returned for unknown or expired session IDs
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionLimit is returned when the store is full
	ErrSessionLimit = errors.New("too many open sessions")
)

// SessionStore keeps live assistant conversations in memory, keyed by ULID.
// Nothing survives a restart.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Conversation
	max      int

	classifier Classifier
	responses  *ResponseTable
	delay      time.Duration
	logger     *zap.SugaredLogger
}

// NewSessionStore creates a store; max <= 0 means unbounded
func NewSessionStore(delay time.Duration, max int, logger *zap.SugaredLogger) *SessionStore {
	return &SessionStore{
		sessions:   make(map[string]*Conversation),
		max:        max,
		classifier: NewKeywordClassifier(),
		responses:  DefaultResponses(),
		delay:      delay,
		logger:     logger,
	}
}

// Create opens a new conversation replying in lang (English when empty)
func (s *SessionStore) Create(lang models.Language) (*Conversation, error) {
	if lang == "" {
		lang = models.LanguageEnglish
	}
	if !lang.Valid() {
		return nil, ErrUnsupportedLanguage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.max > 0 && len(s.sessions) >= s.max {
		return nil, ErrSessionLimit
	}

	id := ulid.Make().String()
	conv := NewConversation(id, ConversationConfig{
		Classifier: s.classifier,
		Responses:  s.responses,
		Delay:      s.delay,
		Language:   lang,
		Logger:     s.logger,
	})
	s.sessions[id] = conv
	metrics.AssistantSessions.Set(float64(len(s.sessions)))

	s.logger.Infow("Assistant session opened", "session", id, "language", lang)
	return conv, nil
}

// Get looks up an open conversation
func (s *SessionStore) Get(id string) (*Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conv, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return conv, nil
}

// Delete closes a conversation and cancels its pending replies
func (s *SessionStore) Delete(id string) error {
	s.mu.Lock()
	conv, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
		metrics.AssistantSessions.Set(float64(len(s.sessions)))
	}
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	conv.Close()
	s.logger.Infow("Assistant session closed", "session", id)
	return nil
}

// Len returns the number of open sessions
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Expire closes every session idle since before cutoff and returns how many
func (s *SessionStore) Expire(cutoff time.Time) int {
	s.mu.Lock()
	var stale []*Conversation
	for id, conv := range s.sessions {
		if conv.IdleSince().Before(cutoff) {
			stale = append(stale, conv)
			delete(s.sessions, id)
		}
	}
	metrics.AssistantSessions.Set(float64(len(s.sessions)))
	s.mu.Unlock()

	for _, conv := range stale {
		conv.Close()
	}
	return len(stale)
}

// CloseAll tears down every session, used on shutdown
func (s *SessionStore) CloseAll() {
	s.Expire(time.Now().Add(time.Hour * 24 * 365))
}

// SessionJanitor periodically expires idle assistant sessions
type SessionJanitor struct {
	store  *SessionStore
	ttl    time.Duration
	logger *zap.SugaredLogger
}

// NewSessionJanitor creates a new background janitor
func NewSessionJanitor(store *SessionStore, ttl time.Duration, logger *zap.SugaredLogger) *SessionJanitor {
	return &SessionJanitor{store: store, ttl: ttl, logger: logger}
}

// Start runs the expiry loop until ctx is cancelled
func (j *SessionJanitor) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("Session janitor stopped")
			return
		case <-ticker.C:
			j.sweep()
		}
	}
}

func (j *SessionJanitor) sweep() {
	if n := j.store.Expire(time.Now().Add(-j.ttl)); n > 0 {
		j.logger.Infow("Expired idle assistant sessions", "count", n, "open", j.store.Len())
	}
}
