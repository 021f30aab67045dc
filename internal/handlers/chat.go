package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"nexus-backend/internal/middleware"
	"nexus-backend/internal/models"
	"nexus-backend/internal/services"
)

type sessionRegistry interface {
	Create(visitorID uuid.UUID) *services.Session
	Get(id uuid.UUID) (*services.Session, error)
}

type tokenIssuer interface {
	GenerateVisitorToken(sessionID, visitorID uuid.UUID) (string, time.Time, error)
}

type ChatHandler struct {
	sessions sessionRegistry
	tokens   tokenIssuer
}

func NewChatHandler(sessions sessionRegistry, tokens tokenIssuer) *ChatHandler {
	return &ChatHandler{
		sessions: sessions,
		tokens:   tokens,
	}
}

// CreateSession starts a chat for a page visit. Returning visitors send their
// visitor_id so the consent flag follows them.
func (h *ChatHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	visitorID := uuid.New()
	if req.VisitorID != "" {
		parsed, err := uuid.Parse(req.VisitorID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid visitor_id", r))
			return
		}
		visitorID = parsed
	}

	session := h.sessions.Create(visitorID)

	token, expiresAt, err := h.tokens.GenerateVisitorToken(session.ID, visitorID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to issue session token", r))
		return
	}

	writeJSON(w, http.StatusCreated, models.CreateSessionResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		VisitorID: visitorID,
		ChatState: session.State(),
	})
}

func (h *ChatHandler) session(w http.ResponseWriter, r *http.Request) (*services.Session, bool) {
	session, err := h.sessions.Get(middleware.GetSessionID(r.Context()))
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("SESSION_NOT_FOUND", "Chat session expired, start a new one", r))
		return nil, false
	}
	return session, true
}

func (h *ChatHandler) GetState(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, session.State())
}

func (h *ChatHandler) Open(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	session.Open()
	writeJSON(w, http.StatusOK, session.State())
}

func (h *ChatHandler) Close(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	session.Close()
	writeJSON(w, http.StatusOK, session.State())
}

// SendMessage blocks until the strategist answers. The reply is always a
// chat bubble: model failures come back as fixed apology text, not errors.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	reply, err := session.SendUserMessage(r.Context(), req.Message)
	switch {
	case errors.Is(err, services.ErrEmptyMessage):
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Message is required", r))
		return
	case errors.Is(err, services.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, errorResp("SESSION_NOT_FOUND", "Chat session expired, start a new one", r))
		return
	case errors.Is(err, services.ErrBusy):
		writeJSON(w, http.StatusConflict, errorResp("CHAT_BUSY", "Nexus Alpha is still answering your last message", r))
		return
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "An unexpected error occurred", r))
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{
		Reply:      reply,
		Transcript: session.Transcript(),
	})
}
