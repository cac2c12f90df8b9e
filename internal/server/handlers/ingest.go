package handlers

import (
	"net/http"

	"github.com/stockyardhq/stockyard/internal/server/response"
	"github.com/stockyardhq/stockyard/pkg/ingest"
)

// HandleIngest handles POST /api/v1/ingest. It scans the configured source
// directory, loads any new or changed workbooks, and returns the run report.
func (h *Handlers) HandleIngest(w http.ResponseWriter, r *http.Request) {
	if h.ingestRoot == "" {
		response.ServiceUnavailable(w, "No ingest directory configured")
		return
	}

	pipeline := ingest.New(h.store)
	report, err := pipeline.Run(r.Context(), h.ingestRoot)
	if err != nil {
		h.logger.Error().Err(err).Str("root", h.ingestRoot).Msg("Ingest run failed")
		response.ErrorFromType(w, err)
		return
	}

	// Stored data changed; cached listings and rollups are stale.
	h.cache.Clear()

	response.OK(w, report)
}

// HandleSourceFiles handles GET /api/v1/files. It returns the workbook
// ledger from past ingest runs.
func (h *Handlers) HandleSourceFiles(w http.ResponseWriter, r *http.Request) {
	limit := intParam(r, "limit", 100)
	files, err := h.store.SourceFiles(r.Context(), limit)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, map[string]any{"files": files, "count": len(files)})
}
