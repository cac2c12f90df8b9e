package handlers

import (
	"net/http"
	"time"

	"github.com/stockyardhq/stockyard/internal/server/response"
	"github.com/stockyardhq/stockyard/pkg/export"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// HandleExport handles GET /api/v1/export. It streams the full inventory
// workbook as an xlsx download.
func (h *Handlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	f, err := export.Workbook(r.Context(), h.store)
	if err != nil {
		h.logger.Error().Err(err).Msg("Export failed")
		response.ErrorFromType(w, err)
		return
	}
	defer f.Close()

	filename := "inventory_" + time.Now().Format("20060102_150405") + ".xlsx"
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := f.Write(w); err != nil {
		// Headers are already sent; nothing left to do but log.
		h.logger.Error().Err(err).Msg("Export stream interrupted")
	}
}
