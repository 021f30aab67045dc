package services

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var ErrSessionNotFound = errors.New("chat session not found")

type registryEntry struct {
	session *Session
	advice  *AdviceClient
}

// SessionRegistry keeps one chat session per page visit. Every session gets
// its own AdviceClient so a failure in one visitor's chat never resets
// another's.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*registryEntry

	opener   ChatOpener
	cfg      AdvisorConfig
	notifier Notifier
	ttl      time.Duration
	now      func() time.Time
	stopChan chan struct{}
	stopOnce sync.Once
}

func NewSessionRegistry(opener ChatOpener, cfg AdvisorConfig, notifier Notifier, ttl time.Duration) *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[uuid.UUID]*registryEntry),
		opener:   opener,
		cfg:      cfg,
		notifier: notifier,
		ttl:      ttl,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
}

// Create starts a fresh session for the visitor.
func (r *SessionRegistry) Create(visitorID uuid.UUID) *Session {
	advice := NewAdviceClient(r.opener, r.cfg)

	opts := []SessionOption{WithVisitor(visitorID), withClock(r.now)}
	if r.notifier != nil {
		opts = append(opts, WithNotifier(r.notifier))
	}
	session := NewSession(advice, opts...)

	r.mu.Lock()
	r.sessions[session.ID] = &registryEntry{session: session, advice: advice}
	r.mu.Unlock()

	return session
}

func (r *SessionRegistry) Get(id uuid.UUID) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return entry.session, nil
}

// AdviceState reports the chat handle state behind a session.
func (r *SessionRegistry) AdviceState(id uuid.UUID) (HandleState, error) {
	r.mu.RLock()
	entry, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return HandleUninitialized, ErrSessionNotFound
	}
	return entry.advice.State(), nil
}

func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Start runs the idle sweeper until Stop is called.
func (r *SessionRegistry) Start() {
	interval := r.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-r.stopChan:
				return
			case <-ticker.C:
				if n := r.evictIdle(); n > 0 {
					log.WithField("evicted", n).Info("evicted idle chat sessions")
				}
			}
		}
	}()
}

func (r *SessionRegistry) Stop() {
	r.stopOnce.Do(func() { close(r.stopChan) })
}

// evictIdle removes sessions idle for longer than the TTL. An evicted session
// is retired first, so a handler still holding it cannot reopen a chat.
func (r *SessionRegistry) evictIdle() int {
	now := r.now()

	var evicted []*registryEntry
	r.mu.Lock()
	for id, entry := range r.sessions {
		if entry.session.retireIfIdle(now, r.ttl) {
			evicted = append(evicted, entry)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, entry := range evicted {
		if err := entry.advice.Close(); err != nil {
			log.WithError(err).WithField("session_id", entry.session.ID).Warn("failed to close chat handle")
		}
	}
	return len(evicted)
}

// CloseAll releases every session's chat handle.
func (r *SessionRegistry) CloseAll() {
	r.mu.Lock()
	entries := r.sessions
	r.sessions = make(map[uuid.UUID]*registryEntry)
	r.mu.Unlock()

	for _, entry := range entries {
		entry.session.retire()
		entry.advice.Close()
	}
}
