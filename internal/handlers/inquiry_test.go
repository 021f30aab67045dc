package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexus-backend/internal/models"
	"nexus-backend/internal/services"
)

type stubInquiryService struct {
	submitted *models.CreateInquiryRequest
	err       error
	limit     int
	offset    int
}

func (s *stubInquiryService) Submit(ctx context.Context, req models.CreateInquiryRequest) (*models.Inquiry, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.submitted = &req
	return &models.Inquiry{ID: uuid.New(), Name: req.Name, Email: req.Email, Message: req.Message}, nil
}

func (s *stubInquiryService) List(ctx context.Context, limit, offset int) (*models.InquiryList, error) {
	s.limit, s.offset = limit, offset
	return &models.InquiryList{Inquiries: []*models.Inquiry{}, Total: 0}, nil
}

func TestInquiryHandler_Submit(t *testing.T) {
	svc := &stubInquiryService{}
	h := NewInquiryHandler(svc)

	body := []byte(`{"name":"Ada","email":"ada@example.com","message":"Rebrand please"}`)
	rr := httptest.NewRecorder()
	h.Submit(rr, httptest.NewRequest(http.MethodPost, "/api/v1/inquiries", bytes.NewReader(body)))

	assert.Equal(t, http.StatusCreated, rr.Code)
	require.NotNil(t, svc.submitted)
	assert.Equal(t, "Ada", svc.submitted.Name)
}

func TestInquiryHandler_SubmitValidationError(t *testing.T) {
	h := NewInquiryHandler(&stubInquiryService{
		err: &services.ValidationError{Fields: map[string]string{"email": "Invalid email format"}},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/inquiries", bytes.NewReader([]byte(`{"name":"Ada","email":"x","message":"hi"}`)))
	req.Header.Set("X-Request-ID", "req-1")
	rr := httptest.NewRecorder()
	h.Submit(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)

	var errResp models.ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&errResp))
	assert.Equal(t, "VALIDATION_ERROR", errResp.Error.Code)
	assert.Equal(t, "Invalid email format", errResp.Error.Fields["email"])
	assert.Equal(t, "req-1", errResp.Error.RequestID)
}

func TestInquiryHandler_ListPaging(t *testing.T) {
	svc := &stubInquiryService{}
	h := NewInquiryHandler(svc)

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/api/v1/admin/inquiries?limit=5&offset=10", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 5, svc.limit)
	assert.Equal(t, 10, svc.offset)
}
