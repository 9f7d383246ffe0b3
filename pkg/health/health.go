package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Checker is a function that checks the health of a dependency.
type Checker func(ctx context.Context) error

// Status represents the health status of a component.
type Status string

const (
	StatusUp       Status = "up"
	StatusDown     Status = "down"
	StatusDegraded Status = "degraded"
)

// Response is the JSON response returned by the health endpoint.
type Response struct {
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult is the result of a single health check.
type CheckResult struct {
	Status   Status `json:"status"`
	Critical bool   `json:"critical"`
	Error    string `json:"error,omitempty"`
}

type registration struct {
	checker  Checker
	critical bool
}

// Handler provides HTTP health check endpoints.
type Handler struct {
	mu       sync.RWMutex
	checkers map[string]registration
}

// NewHandler creates a new health check handler.
func NewHandler() *Handler {
	return &Handler{
		checkers: make(map[string]registration),
	}
}

// Register adds a named health checker. Registered checkers are critical by
// default; a failure makes readiness report down.
func (h *Handler) Register(name string, checker Checker) {
	h.RegisterCritical(name, checker)
}

// RegisterCritical adds a checker whose failure makes the service not ready.
func (h *Handler) RegisterCritical(name string, checker Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers[name] = registration{checker: checker, critical: true}
}

// RegisterNonCritical adds a checker whose failure degrades the service but
// keeps it ready. Readiness still returns 200 so the instance keeps receiving
// traffic while the dependency recovers.
func (h *Handler) RegisterNonCritical(name string, checker Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers[name] = registration{checker: checker, critical: false}
}

// LivenessHandler returns a simple liveness check (always 200 if the process is running).
func (h *Handler) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(Response{
			Status:    StatusUp,
			Timestamp: time.Now().UTC(),
		})
	}
}

// ReadinessHandler checks all registered dependencies. A failing critical
// checker yields 503/down; a failing non-critical one yields 200/degraded.
func (h *Handler) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		h.mu.RLock()
		checkers := make(map[string]registration, len(h.checkers))
		for k, v := range h.checkers {
			checkers[k] = v
		}
		h.mu.RUnlock()

		checks := make(map[string]CheckResult, len(checkers))
		overallStatus := StatusUp

		for name, reg := range checkers {
			if err := reg.checker(ctx); err != nil {
				checks[name] = CheckResult{Status: StatusDown, Critical: reg.critical, Error: err.Error()}
				if reg.critical {
					overallStatus = StatusDown
				} else if overallStatus == StatusUp {
					overallStatus = StatusDegraded
				}
			} else {
				checks[name] = CheckResult{Status: StatusUp, Critical: reg.critical}
			}
		}

		resp := Response{
			Status:    overallStatus,
			Timestamp: time.Now().UTC(),
			Checks:    checks,
		}

		w.Header().Set("Content-Type", "application/json")
		if overallStatus == StatusDown {
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}
		json.NewEncoder(w).Encode(resp)
	}
}
