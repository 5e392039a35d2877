// Package handler provides HTTP handlers for the Smoke Specialist API.
package handler

import (
	"net/http"
	"time"

	"github.com/smokespecialist/smokespecialist/internal/api/models"
	"github.com/smokespecialist/smokespecialist/internal/api/response"
	"github.com/smokespecialist/smokespecialist/internal/provider/resilience"
)

// ReadinessChecker reports whether a dependency is ready to serve.
type ReadinessChecker func(r *http.Request) error

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	checks    map[string]ReadinessChecker
	registry  *resilience.Registry
}

// NewOpsHandler creates a new OpsHandler. The registry is optional; when set,
// readiness reports per-provider circuit breaker state.
func NewOpsHandler(version, buildTime string, checks map[string]ReadinessChecker, registry *resilience.Registry) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		checks:    checks,
		registry:  registry,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check. Reports
// DEGRADED with a 503 when any registered dependency check fails.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	status := models.HealthStatusOK
	details := make(map[string]interface{})

	for name, check := range h.checks {
		if err := check(r); err != nil {
			status = models.HealthStatusDegraded
			details[name] = err.Error()
		} else {
			details[name] = "ok"
		}
	}

	if h.registry != nil {
		providers := make(map[string]string)
		for _, ph := range h.registry.GetAllHealth() {
			providers[ph.Name] = ph.CircuitState.String()
			if ph.IsUnhealthy() {
				status = models.HealthStatusDegraded
			}
		}
		if len(providers) > 0 {
			details["providers"] = providers
		}
	}

	health := models.Health{
		Status: status,
		Time:   models.Timestamp(time.Now()),
	}
	if len(details) > 0 {
		health.Details = details
	}

	code := http.StatusOK
	if status != models.HealthStatusOK {
		code = http.StatusServiceUnavailable
	}
	response.JSON(w, r, code, health)
}
