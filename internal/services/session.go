package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"nexus-backend/internal/models"
)

// Greeting seeds every new transcript.
const Greeting = "I'm Nexus Alpha. Need a strategic edge for your brand?"

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrBusy         = errors.New("an advice request is already in progress")
)

// Advisor produces an assistant reply for a visitor prompt.
type Advisor interface {
	GetAdvice(ctx context.Context, prompt string) string
}

// Notifier receives session events, for example to scroll the widget to the
// latest entry. Implementations must not block for long.
type Notifier interface {
	Notify(ctx context.Context, sessionID uuid.UUID, msg models.WSMessage)
}

type SessionOption func(*Session)

func WithNotifier(n Notifier) SessionOption {
	return func(s *Session) { s.notifier = n }
}

func WithVisitor(id uuid.UUID) SessionOption {
	return func(s *Session) { s.VisitorID = id }
}

func withClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// Session is one visitor's chat widget: the transcript plus the open and
// loading flags. At most one advice request is in flight per session.
type Session struct {
	ID        uuid.UUID
	VisitorID uuid.UUID
	CreatedAt time.Time

	advisor  Advisor
	notifier Notifier
	now      func() time.Time

	mu         sync.Mutex
	messages   []models.ChatMessage
	open       bool
	loading    bool
	retired    bool
	lastActive time.Time
}

func NewSession(advisor Advisor, opts ...SessionOption) *Session {
	s := &Session{
		ID:      uuid.New(),
		advisor: advisor,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.CreatedAt = s.now()
	s.lastActive = s.CreatedAt
	s.messages = []models.ChatMessage{{Role: models.RoleAssistant, Content: Greeting}}
	return s
}

// SendUserMessage appends the visitor's text, asks the advisor and appends
// its reply. Blank text returns ErrEmptyMessage, a call made while another
// is outstanding returns ErrBusy and a session the registry has dropped
// returns ErrSessionNotFound. None of them touch the transcript.
func (s *Session) SendUserMessage(ctx context.Context, text string) (models.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return models.ChatMessage{}, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.retired {
		s.mu.Unlock()
		return models.ChatMessage{}, ErrSessionNotFound
	}
	if s.loading {
		s.mu.Unlock()
		return models.ChatMessage{}, ErrBusy
	}
	s.loading = true
	idx := s.appendLocked(models.RoleUser, text)
	s.mu.Unlock()

	s.notify(ctx, models.WSMessage{
		Type:    models.EventMessageAppended,
		Payload: models.MessageAppended{Index: idx, Message: models.ChatMessage{Role: models.RoleUser, Content: text}},
	})
	s.notify(ctx, models.WSMessage{Type: models.EventStatusUpdate, Payload: models.StatusUpdate{Busy: true}})

	reply := models.ChatMessage{Role: models.RoleAssistant, Content: s.advisor.GetAdvice(ctx, text)}

	s.mu.Lock()
	idx = s.appendLocked(reply.Role, reply.Content)
	s.loading = false
	s.mu.Unlock()

	// The request context may be gone by now; the page still needs these.
	notifyCtx := context.WithoutCancel(ctx)
	s.notify(notifyCtx, models.WSMessage{
		Type:    models.EventMessageAppended,
		Payload: models.MessageAppended{Index: idx, Message: reply},
	})
	s.notify(notifyCtx, models.WSMessage{Type: models.EventStatusUpdate, Payload: models.StatusUpdate{Busy: false}})

	return reply, nil
}

func (s *Session) appendLocked(role models.Role, content string) int {
	s.messages = append(s.messages, models.ChatMessage{Role: role, Content: content})
	s.lastActive = s.now()
	return len(s.messages) - 1
}

func (s *Session) notify(ctx context.Context, msg models.WSMessage) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, s.ID, msg)
}

// Transcript returns a copy of the conversation in order.
func (s *Session) Transcript() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Session) IsBusy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Session) Open() {
	s.setOpen(true)
}

func (s *Session) Close() {
	s.setOpen(false)
}

func (s *Session) setOpen(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = open
	s.lastActive = s.now()
}

func (s *Session) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// State snapshots the session for the widget.
func (s *Session) State() models.ChatState {
	s.mu.Lock()
	defer s.mu.Unlock()

	transcript := make([]models.ChatMessage, len(s.messages))
	copy(transcript, s.messages)
	return models.ChatState{
		SessionID:  s.ID,
		Transcript: transcript,
		Busy:       s.loading,
		Open:       s.open,
	}
}

// retireIfIdle retires the session when it has been idle for longer than
// ttl. A session with a request in flight is never idle.
func (s *Session) retireIfIdle(now time.Time, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.retired || s.loading || now.Sub(s.lastActive) <= ttl {
		return false
	}
	s.retired = true
	return true
}

// retire stops the session from accepting messages.
func (s *Session) retire() {
	s.mu.Lock()
	s.retired = true
	s.mu.Unlock()
}
