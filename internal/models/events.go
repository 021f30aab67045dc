package models

// WebSocket message types
const (
	EventMessageAppended = "message_appended"
	EventStatusUpdate    = "status_update"
)

type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type MessageAppended struct {
	Index   int         `json:"index"`
	Message ChatMessage `json:"message"`
}

type StatusUpdate struct {
	Busy bool `json:"busy"`
}
