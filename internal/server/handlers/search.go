package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/stockyardhq/stockyard/internal/search"
	"github.com/stockyardhq/stockyard/internal/server/response"
)

// searchRequest is the body of POST /api/v1/search.
type searchRequest struct {
	Query string `json:"query"`
}

// HandleSearch handles POST /api/v1/search. The request body carries a
// natural-language query which is interpreted into a filter and executed.
func (h *Handlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err.Error())
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		response.BadRequest(w, "Missing query", "Provide a non-empty query string")
		return
	}

	q := search.Interpret(req.Query)

	if q.Summary {
		summary, err := h.store.Summary(r.Context())
		if err != nil {
			response.ErrorFromType(w, err)
			return
		}
		response.OK(w, map[string]any{
			"title":   q.Title,
			"summary": summary,
		})
		return
	}

	items, total, err := h.store.ListItems(r.Context(), q.Filter)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	response.OK(w, map[string]any{
		"title":  q.Title,
		"query":  req.Query,
		"filter": q.Filter,
		"items":  items,
		"total":  total,
	})
}
