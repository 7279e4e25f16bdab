package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/railsahayak/complaint-server/internal/metrics"
	"github.com/railsahayak/complaint-server/internal/models"
	"go.uber.org/zap"
)

var (
	// ErrUnsupportedLanguage is returned for languages without replies
	ErrUnsupportedLanguage = errors.New("unsupported language")
	// ErrSessionClosed is returned when sending to a torn-down conversation
	ErrSessionClosed = errors.New("session closed")
)

// pendingReply is an utterance waiting for its delayed answer.
// Language is captured at send time.
type pendingReply struct {
	utterance string
	lang      models.Language
	due       time.Time
}

// Conversation is one assistant session. It is Idle while no reply is
// pending and AwaitingReply otherwise. Replies are produced by a single
// worker in send order, each after the configured delay.
type Conversation struct {
	id         string
	classifier Classifier
	responses  *ResponseTable
	delay      time.Duration
	logger     *zap.SugaredLogger
	now        func() time.Time

	mu       sync.Mutex
	log      []models.ConversationMessage
	lang     models.Language
	queue    []pendingReply
	lastSeen time.Time
	closed   bool

	wake   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// ConversationConfig holds the collaborators of a Conversation
type ConversationConfig struct {
	Classifier Classifier
	Responses  *ResponseTable
	Delay      time.Duration
	Language   models.Language
	Logger     *zap.SugaredLogger
}

// NewConversation starts a conversation whose log holds the bilingual greeting.
// Close must be called to stop its reply worker.
func NewConversation(id string, cfg ConversationConfig) *Conversation {
	if cfg.Classifier == nil {
		cfg.Classifier = NewKeywordClassifier()
	}
	if cfg.Responses == nil {
		cfg.Responses = DefaultResponses()
	}
	if cfg.Delay < 0 {
		cfg.Delay = 0
	}
	if !cfg.Language.Valid() {
		cfg.Language = models.LanguageEnglish
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop().Sugar()
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Conversation{
		id:         id,
		classifier: cfg.Classifier,
		responses:  cfg.Responses,
		delay:      cfg.Delay,
		logger:     cfg.Logger,
		now:        time.Now,
		lang:       cfg.Language,
		wake:       make(chan struct{}, 1),
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
	c.lastSeen = c.now()
	c.appendLocked(models.RoleAssistant, Greeting, "", c.lastSeen)

	go c.run()
	return c
}

// ID returns the session identifier
func (c *Conversation) ID() string { return c.id }

// Send appends a user utterance and schedules its reply. Empty or
// whitespace-only input is ignored and reports false.
func (c *Conversation) Send(text string) (bool, error) {
	if strings.TrimSpace(text) == "" {
		return false, nil
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false, ErrSessionClosed
	}
	now := c.now()
	c.lastSeen = now
	c.appendLocked(models.RoleUser, text, "", now)
	c.queue = append(c.queue, pendingReply{
		utterance: text,
		lang:      c.lang,
		due:       now.Add(c.delay),
	})
	c.mu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}
	return true, nil
}

// SetLanguage changes the language of replies to later utterances
func (c *Conversation) SetLanguage(lang models.Language) error {
	if !lang.Valid() {
		return ErrUnsupportedLanguage
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lang = lang
	c.lastSeen = c.now()
	return nil
}

// Language returns the language future replies will use
func (c *Conversation) Language() models.Language {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lang
}

// State reports whether a reply is still pending
func (c *Conversation) State() models.ConversationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Conversation) stateLocked() models.ConversationState {
	if len(c.queue) > 0 {
		return models.StateAwaitingReply
	}
	return models.StateIdle
}

// Log returns a copy of the conversation so far
func (c *Conversation) Log() []models.ConversationMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.ConversationMessage, len(c.log))
	copy(out, c.log)
	return out
}

// Snapshot returns state, language and log read under one lock
func (c *Conversation) Snapshot() models.ConversationSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	msgs := make([]models.ConversationMessage, len(c.log))
	copy(msgs, c.log)
	return models.ConversationSnapshot{
		SessionID: c.id,
		State:     c.stateLocked(),
		Language:  c.lang,
		Messages:  msgs,
	}
}

// IdleSince returns the time of the last user interaction
func (c *Conversation) IdleSince() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSeen
}

// Close drops pending replies and stops the worker. Safe to call twice.
func (c *Conversation) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		<-c.done
		return
	}
	c.closed = true
	c.queue = nil
	c.mu.Unlock()

	c.cancel()
	<-c.done
}

// run answers queued utterances one at a time, oldest first
func (c *Conversation) run() {
	defer close(c.done)

	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		c.mu.Lock()
		if len(c.queue) == 0 {
			c.mu.Unlock()
			select {
			case <-c.ctx.Done():
				return
			case <-c.wake:
				continue
			}
		}
		next := c.queue[0]
		c.mu.Unlock()

		if wait := next.due.Sub(c.now()); wait > 0 {
			timer.Reset(wait)
			select {
			case <-c.ctx.Done():
				return
			case <-timer.C:
			}
		}

		c.reply(next)
	}
}

func (c *Conversation) reply(p pendingReply) {
	intent := c.classifier.Classify(p.utterance)
	text := c.responses.Reply(intent, p.lang)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || len(c.queue) == 0 {
		return
	}
	c.queue = c.queue[1:]
	c.appendLocked(models.RoleAssistant, text, p.lang, c.now())

	metrics.AssistantIntents.WithLabelValues(string(intent), string(p.lang)).Inc()
	c.logger.Debugw("Assistant replied",
		"session", c.id,
		"intent", intent,
		"language", p.lang,
	)
}

// appendLocked adds one message to the log; the caller holds mu
func (c *Conversation) appendLocked(role models.Role, content string, lang models.Language, at time.Time) {
	c.log = append(c.log, models.ConversationMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: at,
		Language:  lang,
	})
}
