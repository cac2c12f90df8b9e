package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/stockyardhq/stockyard/internal/server/cache"
	"github.com/stockyardhq/stockyard/internal/server/response"
	"github.com/stockyardhq/stockyard/pkg/inventory"
)

// HandleListItems handles GET /api/v1/items.
// Supported query parameters: q, brand, category, status, min_price,
// max_price, sort, order, limit, offset.
func (h *Handlers) HandleListItems(w http.ResponseWriter, r *http.Request) {
	// Check cache
	cacheKey := cache.ListKey(r.URL.RawQuery)
	if cached, found := h.cache.Get(cacheKey); found {
		response.OK(w, cached)
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		response.BadRequest(w, "Invalid query parameter", err.Error())
		return
	}

	items, total, err := h.store.ListItems(r.Context(), filter)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	result := map[string]any{
		"items": items,
		"pagination": map[string]any{
			"total":  total,
			"limit":  filter.Limit,
			"offset": filter.Offset,
			"count":  len(items),
		},
	}

	h.cache.Set(cacheKey, result)
	response.OK(w, result)
}

// HandleGetItem handles GET /api/v1/items/{part}.
func (h *Handlers) HandleGetItem(w http.ResponseWriter, r *http.Request, partNumber string) {
	cacheKey := cache.ItemKey(partNumber)
	if cached, found := h.cache.Get(cacheKey); found {
		response.OK(w, cached)
		return
	}

	item, err := h.store.GetItem(r.Context(), partNumber)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	h.cache.Set(cacheKey, item)
	response.OK(w, item)
}

// HandleUpdateItem handles PUT /api/v1/items/{part}. The body is a JSON
// object of field names to new values; every applied change lands in the
// audit log with source "api".
func (h *Handlers) HandleUpdateItem(w http.ResponseWriter, r *http.Request, partNumber string) {
	var fields map[string]string
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		response.BadRequest(w, "Invalid JSON body", err.Error())
		return
	}
	if len(fields) == 0 {
		response.BadRequest(w, "No fields to update", "body must map field names to values")
		return
	}

	if err := h.store.UpdateItemFields(r.Context(), partNumber, fields, "api"); err != nil {
		response.ErrorFromType(w, err)
		return
	}
	h.cache.Clear()

	item, err := h.store.GetItem(r.Context(), partNumber)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, item)
}

// HandleDeleteItem handles DELETE /api/v1/items/{part}.
func (h *Handlers) HandleDeleteItem(w http.ResponseWriter, r *http.Request, partNumber string) {
	if err := h.store.DeleteItem(r.Context(), partNumber); err != nil {
		response.ErrorFromType(w, err)
		return
	}
	h.cache.Clear()
	response.OK(w, map[string]any{"deleted": partNumber})
}

// HandleItemAudit handles GET /api/v1/items/{part}/audit. It returns the
// field-level change history recorded by enrichment runs.
func (h *Handlers) HandleItemAudit(w http.ResponseWriter, r *http.Request, partNumber string) {
	// Audit rows only exist for items the store knows about.
	if _, err := h.store.GetItem(r.Context(), partNumber); err != nil {
		response.ErrorFromType(w, err)
		return
	}

	entries, err := h.store.AuditLog(r.Context(), partNumber, 100)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, map[string]any{
		"part_number": partNumber,
		"entries":     entries,
	})
}

// parseFilter builds an item filter from request query parameters.
func parseFilter(r *http.Request) (inventory.Filter, error) {
	q := r.URL.Query()
	f := inventory.Filter{
		Text:     strings.TrimSpace(q.Get("q")),
		Brand:    strings.TrimSpace(q.Get("brand")),
		Category: strings.TrimSpace(q.Get("category")),
		SortBy:   q.Get("sort"),
		SortAsc:  strings.EqualFold(q.Get("order"), "asc"),
	}

	status, err := parseStatus(q.Get("status"))
	if err != nil {
		return f, err
	}
	f.Status = status

	if v := q.Get("min_price"); v != "" {
		f.MinPrice, err = strconv.ParseFloat(v, 64)
		if err != nil {
			return f, err
		}
	}
	if v := q.Get("max_price"); v != "" {
		f.MaxPrice, err = strconv.ParseFloat(v, 64)
		if err != nil {
			return f, err
		}
	}
	if v := q.Get("limit"); v != "" {
		f.Limit, err = strconv.Atoi(v)
		if err != nil {
			return f, err
		}
	}
	if v := q.Get("offset"); v != "" {
		f.Offset, err = strconv.Atoi(v)
		if err != nil {
			return f, err
		}
	}

	f.Normalize()
	return f, nil
}

// parseStatus accepts both the full status labels and short forms.
func parseStatus(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return "", nil
	case "in", "in stock", "in_stock":
		return inventory.StatusInStock, nil
	case "low", "low stock", "low_stock":
		return inventory.StatusLowStock, nil
	case "out", "out of stock", "out_of_stock":
		return inventory.StatusOutOfStock, nil
	}
	return "", &statusError{raw}
}

type statusError struct{ value string }

func (e *statusError) Error() string {
	return "unknown status " + strconv.Quote(e.value) + " (want in, low, or out)"
}
