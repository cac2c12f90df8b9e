package handlers

import (
	_ "embed"
	"net/http"
)

//go:embed dashboard.html
var dashboardHTML []byte

// HandleDashboard handles GET /. It serves the embedded single-page
// dashboard, which talks to the JSON API from the browser.
func (h *Handlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		response404(w)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(dashboardHTML)
}

func response404(w http.ResponseWriter) {
	http.Error(w, "not found", http.StatusNotFound)
}
