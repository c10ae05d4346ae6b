package observability

import (
	"encoding/json"
	"net/http"
	"time"
)

// HealthStatus represents the health status of the service
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// HealthChecker reports service health. The relay holds no state and no
// database; the only dependency worth reporting is whether the gateway
// configuration was wired at startup.
type HealthChecker struct {
	gatewayBaseURL string
}

// NewHealthChecker creates a new HealthChecker
func NewHealthChecker(gatewayBaseURL string) *HealthChecker {
	return &HealthChecker{gatewayBaseURL: gatewayBaseURL}
}

// Check performs health checks and returns the status
func (h *HealthChecker) Check() HealthStatus {
	checks := make(map[string]string)
	overallStatus := "healthy"

	if h.gatewayBaseURL == "" {
		checks["gateway_config"] = "unhealthy: gateway base URL not configured"
		overallStatus = "unhealthy"
	} else {
		checks["gateway_config"] = "healthy"
	}

	return HealthStatus{
		Status:    overallStatus,
		Timestamp: time.Now(),
		Checks:    checks,
	}
}

// HealthHandler returns an HTTP handler for health checks
func (h *HealthChecker) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := h.Check()

		w.Header().Set("Content-Type", "application/json")
		if status.Status != "healthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(status)
	}
}
