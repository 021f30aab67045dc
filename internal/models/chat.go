package models

import (
	"time"

	"github.com/google/uuid"
)

// Role tags who authored a transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the payload sent to the chat endpoint.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the reply from the AI chat.
type ChatResponse struct {
	Reply      ChatMessage   `json:"reply"`
	Transcript []ChatMessage `json:"transcript"`
}

// ChatState is what the widget needs to render itself.
type ChatState struct {
	SessionID  uuid.UUID     `json:"session_id"`
	Transcript []ChatMessage `json:"transcript"`
	Busy       bool          `json:"busy"`
	Open       bool          `json:"open"`
}

type CreateSessionRequest struct {
	VisitorID string `json:"visitor_id"`
}

type CreateSessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	VisitorID uuid.UUID `json:"visitor_id"`
	ChatState
}
