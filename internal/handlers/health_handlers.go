package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
)

// Checker reports whether a dependency is reachable.
type Checker func(ctx context.Context) error

// HealthHandlers handles health check and monitoring endpoints
type HealthHandlers struct {
	checks   map[string]Checker
	critical map[string]bool
	version  string
	started  time.Time
	timeout  time.Duration
}

// NewHealthHandlers creates a new health handlers instance
func NewHealthHandlers(version string) *HealthHandlers {
	return &HealthHandlers{
		checks:   map[string]Checker{},
		critical: map[string]bool{},
		version:  version,
		started:  time.Now(),
		timeout:  2 * time.Second,
	}
}

// AddCheck registers a dependency. Critical dependencies gate readiness.
func (h *HealthHandlers) AddCheck(name string, critical bool, check Checker) *HealthHandlers {
	h.checks[name] = check
	h.critical[name] = critical
	return h
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
	Uptime    string            `json:"uptime"`
	Version   string            `json:"version"`
}

// HealthCheck performs comprehensive health checks
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	health := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  make(map[string]string),
		Version:   h.version,
		Uptime:    time.Since(h.started).Round(time.Second).String(),
	}

	for name, err := range h.run(c.Request().Context()) {
		if err != nil {
			health.Services[name] = "unhealthy"
			health.Status = "degraded"
		} else {
			health.Services[name] = "healthy"
		}
	}

	statusCode := http.StatusOK
	if health.Status == "degraded" {
		statusCode = http.StatusPartialContent
	}
	return c.JSON(statusCode, health)
}

// ReadinessCheck determines if the application is ready to serve traffic
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	var down []string
	for name, err := range h.run(c.Request().Context()) {
		if err != nil && h.critical[name] {
			down = append(down, name)
		}
	}
	if len(down) > 0 {
		sort.Strings(down)
		return c.JSON(http.StatusServiceUnavailable, map[string]any{
			"status":   "not_ready",
			"message":  "Critical services unavailable",
			"services": down,
		})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
	})
}

func (h *HealthHandlers) run(ctx context.Context) map[string]error {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	out := make(map[string]error, len(h.checks))
	for name, check := range h.checks {
		out[name] = check(ctx)
	}
	return out
}

// LivenessCheck determines if the application is running (basic liveness probe)
func (h *HealthHandlers) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
