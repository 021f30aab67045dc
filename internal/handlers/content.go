package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"nexus-backend/internal/content"
)

type ContentHandler struct {
	site *content.Site
}

func NewContentHandler(site *content.Site) *ContentHandler {
	return &ContentHandler{site: site}
}

func (h *ContentHandler) Site(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.site)
}

func (h *ContentHandler) Legal(w http.ResponseWriter, r *http.Request) {
	notice, err := h.site.Notice(chi.URLParam(r, "kind"))
	if errors.Is(err, content.ErrUnknownNotice) {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Unknown legal notice", r))
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "An unexpected error occurred", r))
		return
	}

	writeJSON(w, http.StatusOK, notice)
}
