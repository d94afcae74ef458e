package handle

import (
	"context"
	"net/http"
)

// HealthHandler reports liveness of the backing services. A check returning
// an error marks the whole endpoint degraded with a 503.
type HealthHandler struct {
	checks map[string]func(ctx context.Context) error
}

func NewHealthHandler(checks map[string]func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	report := make(map[string]string, len(h.checks))

	for name, check := range h.checks {
		if err := check(r.Context()); err != nil {
			report[name] = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			report[name] = "ok"
		}
	}

	jsonResponse(w, status, report)
}
