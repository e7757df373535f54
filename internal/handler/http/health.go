// Package http provides the HTTP surface of the summarization service:
// health probes, Prometheus metrics and the shared middleware chain.
// Endpoint handlers live in the summarize subpackage.
package http

import (
	"context"
	"database/sql"
	"net/http"
	"sort"
	"time"

	"polysum/internal/handler/http/respond"
)

// Check statuses.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// HealthResponse is the JSON body of GET /health.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"` // RFC 3339
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus is the result of a single health check.
type CheckStatus struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// CircuitReporter exposes the circuit breaker state of an outbound dependency.
type CircuitReporter interface {
	CircuitOpen() bool
}

// CredentialReporter reports whether an outbound dependency is configured.
type CredentialReporter interface {
	Available() bool
}

// HealthHandler reports translation credentials, per-language backend
// circuits, the article fetcher circuit and, when the translation cache is
// PostgreSQL, database connectivity.
//
// Only a failed database ping makes the service unhealthy (503). Missing
// translation credentials or open circuits degrade it: requests that do not
// touch the affected dependency still succeed.
type HealthHandler struct {
	Version    string
	Translator CredentialReporter
	Backends   map[string]CircuitReporter // keyed by language tag
	Fetcher    CircuitReporter
	DB         *sql.DB
}

// ServeHTTP runs all checks and writes a HealthResponse.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]CheckStatus{
		"translation": h.checkTranslation(),
		"backends":    h.checkBackends(),
	}
	if h.Fetcher != nil {
		checks["article_fetch"] = circuitCheck(h.Fetcher.CircuitOpen())
	}
	if h.DB != nil {
		checks["database"] = h.checkDatabase(ctx)
	}

	status := StatusHealthy
	for _, c := range checks {
		if c.Status == StatusUnhealthy {
			status = StatusUnhealthy
			break
		}
		if c.Status == StatusDegraded {
			status = StatusDegraded
		}
	}

	code := http.StatusOK
	if status == StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, code, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	})
}

func (h *HealthHandler) checkTranslation() CheckStatus {
	if h.Translator == nil || !h.Translator.Available() {
		return CheckStatus{
			Status:  StatusDegraded,
			Message: "translation credentials not configured; only native-language input can be summarized",
		}
	}
	return CheckStatus{Status: StatusHealthy}
}

func (h *HealthHandler) checkBackends() CheckStatus {
	if len(h.Backends) == 0 {
		return CheckStatus{Status: StatusUnhealthy, Message: "no summarization backends configured"}
	}

	langs := make([]string, 0, len(h.Backends))
	for lang := range h.Backends {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	details := make(map[string]interface{}, len(langs))
	var open []string
	for _, lang := range langs {
		state := "closed"
		if h.Backends[lang].CircuitOpen() {
			state = "open"
			open = append(open, lang)
		}
		details[lang] = state
	}

	if len(open) > 0 {
		return CheckStatus{Status: StatusDegraded, Message: "circuit open for some backends", Details: details}
	}
	return CheckStatus{Status: StatusHealthy, Details: details}
}

func circuitCheck(open bool) CheckStatus {
	if open {
		return CheckStatus{Status: StatusDegraded, Message: "circuit open"}
	}
	return CheckStatus{Status: StatusHealthy}
}

func (h *HealthHandler) checkDatabase(ctx context.Context) CheckStatus {
	if err := h.DB.PingContext(ctx); err != nil {
		return CheckStatus{Status: StatusUnhealthy, Message: respond.SanitizeError(err)}
	}

	stats := h.DB.Stats()
	return CheckStatus{
		Status: StatusHealthy,
		Details: map[string]interface{}{
			"open_connections": stats.OpenConnections,
			"in_use":           stats.InUse,
			"idle":             stats.Idle,
			"wait_count":       stats.WaitCount,
		},
	}
}

// ReadyHandler answers readiness probes. The service is ready once its
// database, if any, accepts connections.
type ReadyHandler struct {
	DB *sql.DB
}

func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.DB != nil {
		if err := h.DB.PingContext(ctx); err != nil {
			http.Error(w, "database not ready", http.StatusServiceUnavailable)
			return
		}
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// LiveHandler answers liveness probes.
type LiveHandler struct{}

func (LiveHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("alive"))
}
