package http

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/cmlabs-hris/commission-backend-go/internal/handler/http/response"
)

const healthTimeout = 3 * time.Second

// Pinger is any backing service that can report its reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler interface {
	Health(w http.ResponseWriter, r *http.Request)
}

type healthHandlerImpl struct {
	checks map[string]Pinger
}

// NewHealthHandler reports "ok" or the error of each named check
func NewHealthHandler(checks map[string]Pinger) HealthHandler {
	return &healthHandlerImpl{checks: checks}
}

// Health handles GET /health
func (h *healthHandlerImpl) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := make(map[string]string, len(names))
	healthy := true
	for _, name := range names {
		if err := h.checks[name].Ping(ctx); err != nil {
			slog.WarnContext(ctx, "Health check failed", "check", name, "error", err)
			status[name] = err.Error()
			healthy = false
			continue
		}
		status[name] = "ok"
	}

	if !healthy {
		response.ServiceUnavailable(w, "Service unavailable", status)
		return
	}
	response.SuccessWithMessage(w, "Service healthy", status)
}
