package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexus-backend/internal/content"
)

func legalRequest(kind string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/content/legal/"+kind, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("kind", kind)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestContentHandler_Legal(t *testing.T) {
	site, err := content.Load()
	require.NoError(t, err)
	h := NewContentHandler(site)

	rr := httptest.NewRecorder()
	h.Legal(rr, legalRequest("privacy"))
	require.Equal(t, http.StatusOK, rr.Code)

	var notice content.LegalNotice
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&notice))
	assert.NotEmpty(t, notice.Title)
	assert.NotEmpty(t, notice.Content)

	rr = httptest.NewRecorder()
	h.Legal(rr, legalRequest("refunds"))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestContentHandler_Site(t *testing.T) {
	site, err := content.Load()
	require.NoError(t, err)
	h := NewContentHandler(site)

	rr := httptest.NewRecorder()
	h.Site(rr, httptest.NewRequest(http.MethodGet, "/api/v1/content", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Contains(t, body, "services")
	assert.Contains(t, body, "portfolio")
	assert.NotContains(t, body, "legal")
}
