package handler_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smokespecialist/smokespecialist/internal/api/handler"
	"github.com/smokespecialist/smokespecialist/internal/provider/resilience"
)

func TestOpsHandler_HealthCheck(t *testing.T) {
	h := handler.NewOpsHandler("1.2.3", "2026-08-01", nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	rec := httptest.NewRecorder()
	h.HealthCheck(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "OK", body["status"])

	details, ok := body["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "1.2.3", details["version"])
}

func TestOpsHandler_ReadinessCheck_OK(t *testing.T) {
	checks := map[string]handler.ReadinessChecker{
		"database": func(_ *http.Request) error { return nil },
	}
	h := handler.NewOpsHandler("test", "now", checks, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/ready", http.NoBody)
	rec := httptest.NewRecorder()
	h.ReadinessCheck(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"database":"ok"`)
}

func TestOpsHandler_ReadinessCheck_FailingCheck(t *testing.T) {
	checks := map[string]handler.ReadinessChecker{
		"database": func(_ *http.Request) error { return errors.New("connection refused") },
	}
	h := handler.NewOpsHandler("test", "now", checks, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/ready", http.NoBody)
	rec := httptest.NewRecorder()
	h.ReadinessCheck(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "DEGRADED")
	assert.Contains(t, rec.Body.String(), "connection refused")
}

func TestOpsHandler_ReadinessCheck_ProviderStates(t *testing.T) {
	registry := resilience.NewRegistry()
	cfg := resilience.DefaultClientConfig("fhir")
	cfg.Registry = registry
	_ = resilience.NewClient(cfg)

	h := handler.NewOpsHandler("test", "now", nil, registry)

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/ready", http.NoBody)
	rec := httptest.NewRecorder()
	h.ReadinessCheck(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	details, ok := body["details"].(map[string]interface{})
	require.True(t, ok)
	providers, ok := details["providers"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "closed", providers["fhir"])
}
