package handlers

import (
	"net/http"
	"time"

	"github.com/stockyardhq/stockyard/internal/server/response"
)

// HandleHealth handles GET /health and GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		response.ServiceUnavailable(w, "Database not available")
		return
	}

	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": "stockyard-api",
		"version": "v1",
		"uptime":  time.Since(h.startTime).Round(time.Second).String(),
		"cache": map[string]any{
			"items": h.cache.ItemCount(),
		},
	})
}

// HandleReady handles GET /ready. It answers readiness probes with a
// minimal body once the store accepts queries.
func (h *Handlers) HandleReady(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		response.ServiceUnavailable(w, "Database not available")
		return
	}
	response.OK(w, map[string]any{"status": "ready"})
}
