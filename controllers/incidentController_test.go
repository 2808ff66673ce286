package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"ktinsight-be/config"
	"ktinsight-be/gateway"
	"ktinsight-be/middlewares"
	"ktinsight-be/testutils"
)

func setupReviewRouter(backend *fakeBackend, cfg *config.Config) http.Handler {
	incidents := gateway.NewClient(backend.srv.URL, "service-role")
	r := testutils.SetupTestRouter()
	r.GET("/api/pending-incidents", middlewares.AdminAuth(cfg), ListPendingIncidents(incidents))
	r.POST("/api/review-incident", middlewares.AdminAuth(cfg), ReviewIncident(incidents))
	return r
}

func TestReviewIncident_ApproveWithToken(t *testing.T) {
	backend := newFakeBackend()
	defer backend.close()
	r := setupReviewRouter(backend, testConfig())

	req, _ := http.NewRequest(http.MethodPost, "/api/review-incident", strings.NewReader(`{"id":42,"status":"approved"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-admin-token", "secret")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "approved", backend.patched["eq.42"])

	var respBody map[string]any
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Equal(t, true, respBody["ok"])
}

func TestReviewIncident_StringIDAccepted(t *testing.T) {
	backend := newFakeBackend()
	defer backend.close()
	r := setupReviewRouter(backend, testConfig())

	req, _ := http.NewRequest(http.MethodPost, "/api/review-incident", strings.NewReader(`{"id":"42","status":"rejected"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-admin-token", "secret")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "rejected", backend.patched["eq.42"])
}

func TestReviewIncident_WrongTokenNoStateChange(t *testing.T) {
	backend := newFakeBackend()
	defer backend.close()
	r := setupReviewRouter(backend, testConfig())

	req, _ := http.NewRequest(http.MethodPost, "/api/review-incident", strings.NewReader(`{"id":42,"status":"approved"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-admin-token", "wrong")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Empty(t, backend.patched)
}

func TestReviewIncident_MissingTokenConfigFailsClosed(t *testing.T) {
	backend := newFakeBackend()
	defer backend.close()
	cfg := testConfig()
	cfg.AdminToken = ""
	r := setupReviewRouter(backend, cfg)

	req, _ := http.NewRequest(http.MethodPost, "/api/review-incident", strings.NewReader(`{"id":42,"status":"approved"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Empty(t, backend.patched)
}

func TestReviewIncident_InvalidStatus(t *testing.T) {
	backend := newFakeBackend()
	defer backend.close()
	r := setupReviewRouter(backend, testConfig())

	req, _ := http.NewRequest(http.MethodPost, "/api/review-incident", strings.NewReader(`{"id":42,"status":"deleted"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-admin-token", "secret")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Empty(t, backend.patched)
}

func TestListPendingIncidents_RequiresToken(t *testing.T) {
	backend := newFakeBackend()
	defer backend.close()
	r := setupReviewRouter(backend, testConfig())

	req, _ := http.NewRequest(http.MethodGet, "/api/pending-incidents", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	req.Header.Set("x-admin-token", "secret")
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.Code)
}
