package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexus-backend/internal/middleware"
	"nexus-backend/internal/models"
)

type stubConsentStore struct {
	accepted map[uuid.UUID]bool
	err      error
}

func (s *stubConsentStore) Accepted(ctx context.Context, visitorID uuid.UUID) (bool, error) {
	return s.accepted[visitorID], s.err
}

func (s *stubConsentStore) Accept(ctx context.Context, visitorID uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	s.accepted[visitorID] = true
	return nil
}

func TestConsentHandler_AcceptThenGet(t *testing.T) {
	store := &stubConsentStore{accepted: map[uuid.UUID]bool{}}
	h := NewConsentHandler(store)
	visitorID := uuid.New()

	newReq := func(method string) *http.Request {
		req := httptest.NewRequest(method, "/api/v1/consent", nil)
		return req.WithContext(middleware.WithVisitor(req.Context(), uuid.New(), visitorID))
	}

	rr := httptest.NewRecorder()
	h.Get(rr, newReq(http.MethodGet))
	require.Equal(t, http.StatusOK, rr.Code)

	var state models.ConsentState
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&state))
	assert.False(t, state.Accepted)
	assert.Equal(t, 2000, state.BannerDelayMs)

	rr = httptest.NewRecorder()
	h.Accept(rr, newReq(http.MethodPost))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.Get(rr, newReq(http.MethodGet))
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&state))
	assert.True(t, state.Accepted)
}

func TestConsentHandler_StoreError(t *testing.T) {
	h := NewConsentHandler(&stubConsentStore{err: errors.New("redis down")})

	rr := httptest.NewRecorder()
	h.Get(rr, httptest.NewRequest(http.MethodGet, "/api/v1/consent", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
