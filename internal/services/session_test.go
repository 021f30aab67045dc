package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexus-backend/internal/models"
)

type funcAdvisor func(ctx context.Context, prompt string) string

func (f funcAdvisor) GetAdvice(ctx context.Context, prompt string) string { return f(ctx, prompt) }

type recordingNotifier struct {
	mu     sync.Mutex
	events []models.WSMessage
}

func (n *recordingNotifier) Notify(ctx context.Context, sessionID uuid.UUID, msg models.WSMessage) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, msg)
}

func (n *recordingNotifier) Events() []models.WSMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]models.WSMessage(nil), n.events...)
}

func TestNewSession_SeedsGreeting(t *testing.T) {
	s := NewSession(funcAdvisor(func(context.Context, string) string { return "" }))

	assert.Equal(t, []models.ChatMessage{{Role: models.RoleAssistant, Content: Greeting}}, s.Transcript())
	assert.False(t, s.IsBusy())
	assert.False(t, s.IsOpen())
	assert.NotEqual(t, uuid.Nil, s.ID)
}

func TestSession_AlternatingTranscript(t *testing.T) {
	s := NewSession(funcAdvisor(func(_ context.Context, prompt string) string {
		return "reply to " + prompt
	}))

	const n = 4
	for i := 0; i < n; i++ {
		reply, err := s.SendUserMessage(context.Background(), fmt.Sprintf("q%d", i))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("reply to q%d", i), reply.Content)
	}

	transcript := s.Transcript()
	require.Len(t, transcript, 1+2*n)
	for i := 0; i < n; i++ {
		assert.Equal(t, models.ChatMessage{Role: models.RoleUser, Content: fmt.Sprintf("q%d", i)}, transcript[1+2*i])
		assert.Equal(t, models.RoleAssistant, transcript[2+2*i].Role)
	}
	assert.False(t, s.IsBusy())
}

func TestSession_RejectsWhileBusy(t *testing.T) {
	release := make(chan struct{})
	var calls int
	var mu sync.Mutex
	s := NewSession(funcAdvisor(func(context.Context, string) string {
		mu.Lock()
		calls++
		mu.Unlock()
		<-release
		return "done"
	}))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := s.SendUserMessage(context.Background(), "first")
		assert.NoError(t, err)
	}()
	require.Eventually(t, s.IsBusy, time.Second, 5*time.Millisecond)

	_, err := s.SendUserMessage(context.Background(), "second")
	assert.ErrorIs(t, err, ErrBusy)
	assert.Len(t, s.Transcript(), 2)

	close(release)
	<-done

	mu.Lock()
	assert.Equal(t, 1, calls)
	mu.Unlock()
	assert.Len(t, s.Transcript(), 3)
	assert.False(t, s.IsBusy())
}

func TestSession_EmptyMessage(t *testing.T) {
	called := false
	s := NewSession(funcAdvisor(func(context.Context, string) string {
		called = true
		return "x"
	}))

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := s.SendUserMessage(context.Background(), text)
		assert.ErrorIs(t, err, ErrEmptyMessage)
	}
	assert.False(t, called)
	assert.Len(t, s.Transcript(), 1)
}

func TestSession_KeepsRawText(t *testing.T) {
	var got string
	s := NewSession(funcAdvisor(func(_ context.Context, prompt string) string {
		got = prompt
		return "ok"
	}))

	_, err := s.SendUserMessage(context.Background(), "  spaced out  ")
	require.NoError(t, err)
	assert.Equal(t, "  spaced out  ", got)
	assert.Equal(t, "  spaced out  ", s.Transcript()[1].Content)
}

// A failing model followed by a recovered one, end to end through the
// advice client.
func TestSession_FailureThenRecovery(t *testing.T) {
	opener := &fakeOpener{script: func(n int) *fakeChat {
		if n == 1 {
			return &fakeChat{replies: []scriptedReply{{err: fmt.Errorf("network down")}}}
		}
		return &fakeChat{replies: []scriptedReply{{text: "Focus on short-form video."}}}
	}}
	client := NewAdviceClient(opener, DefaultAdvisorConfig())
	s := NewSession(client)

	reply, err := s.SendUserMessage(context.Background(), "How do I grow on social?")
	require.NoError(t, err)
	assert.Equal(t, ApologyReply, reply.Content)

	reply, err = s.SendUserMessage(context.Background(), "Try again?")
	require.NoError(t, err)
	assert.Equal(t, "Focus on short-form video.", reply.Content)

	assert.Equal(t, []models.ChatMessage{
		{Role: models.RoleAssistant, Content: Greeting},
		{Role: models.RoleUser, Content: "How do I grow on social?"},
		{Role: models.RoleAssistant, Content: ApologyReply},
		{Role: models.RoleUser, Content: "Try again?"},
		{Role: models.RoleAssistant, Content: "Focus on short-form video."},
	}, s.Transcript())
	assert.Equal(t, 2, opener.Opens())
}

func TestSession_NotifiesAppends(t *testing.T) {
	notifier := &recordingNotifier{}
	s := NewSession(funcAdvisor(func(context.Context, string) string { return "answer" }), WithNotifier(notifier))

	_, err := s.SendUserMessage(context.Background(), "question")
	require.NoError(t, err)

	events := notifier.Events()
	require.Len(t, events, 4)

	assert.Equal(t, models.EventMessageAppended, events[0].Type)
	assert.Equal(t, models.MessageAppended{Index: 1, Message: models.ChatMessage{Role: models.RoleUser, Content: "question"}}, events[0].Payload)
	assert.Equal(t, models.WSMessage{Type: models.EventStatusUpdate, Payload: models.StatusUpdate{Busy: true}}, events[1])
	assert.Equal(t, models.MessageAppended{Index: 2, Message: models.ChatMessage{Role: models.RoleAssistant, Content: "answer"}}, events[2].Payload)
	assert.Equal(t, models.WSMessage{Type: models.EventStatusUpdate, Payload: models.StatusUpdate{Busy: false}}, events[3])
}

func TestSession_OpenClose(t *testing.T) {
	s := NewSession(funcAdvisor(func(context.Context, string) string { return "" }))

	s.Open()
	assert.True(t, s.IsOpen())
	assert.True(t, s.State().Open)

	s.Close()
	assert.False(t, s.IsOpen())
	assert.Len(t, s.Transcript(), 1)
}

func TestSession_TranscriptIsCopy(t *testing.T) {
	s := NewSession(funcAdvisor(func(context.Context, string) string { return "" }))

	tr := s.Transcript()
	tr[0].Content = "tampered"
	assert.Equal(t, Greeting, s.Transcript()[0].Content)
}
