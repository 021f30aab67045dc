package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"nexus-backend/internal/middleware"
	"nexus-backend/internal/models"
)

// The page waits this long before showing the cookie banner.
const consentBannerDelay = 2 * time.Second

type consentStore interface {
	Accepted(ctx context.Context, visitorID uuid.UUID) (bool, error)
	Accept(ctx context.Context, visitorID uuid.UUID) error
}

type ConsentHandler struct {
	repo consentStore
}

func NewConsentHandler(repo consentStore) *ConsentHandler {
	return &ConsentHandler{repo: repo}
}

func (h *ConsentHandler) Get(w http.ResponseWriter, r *http.Request) {
	accepted, err := h.repo.Accepted(r.Context(), middleware.GetVisitorID(r.Context()))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to read consent", r))
		return
	}

	writeJSON(w, http.StatusOK, models.ConsentState{
		Accepted:      accepted,
		BannerDelayMs: int(consentBannerDelay / time.Millisecond),
	})
}

func (h *ConsentHandler) Accept(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Accept(r.Context(), middleware.GetVisitorID(r.Context())); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to store consent", r))
		return
	}

	writeJSON(w, http.StatusOK, models.ConsentState{
		Accepted:      true,
		BannerDelayMs: int(consentBannerDelay / time.Millisecond),
	})
}
