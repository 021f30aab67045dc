package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"nexus-backend/internal/models"
)

type inquiryService interface {
	Submit(ctx context.Context, req models.CreateInquiryRequest) (*models.Inquiry, error)
	List(ctx context.Context, limit, offset int) (*models.InquiryList, error)
}

type InquiryHandler struct {
	service inquiryService
}

func NewInquiryHandler(service inquiryService) *InquiryHandler {
	return &InquiryHandler{service: service}
}

func (h *InquiryHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.CreateInquiryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	inq, err := h.service.Submit(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Our team will be in touch shortly.",
		"id":      inq.ID,
	})
}

func (h *InquiryHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	list, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}
