package handlers

import (
	"net/http"
	"strconv"

	"github.com/stockyardhq/stockyard/internal/server/cache"
	"github.com/stockyardhq/stockyard/internal/server/response"
)

// HandleSummary handles GET /api/v1/stats.
func (h *Handlers) HandleSummary(w http.ResponseWriter, r *http.Request) {
	if cached, found := h.cache.Get(cache.StatsKey("summary")); found {
		response.OK(w, cached)
		return
	}

	summary, err := h.store.Summary(r.Context())
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	h.cache.Set(cache.StatsKey("summary"), summary)
	response.OK(w, summary)
}

// HandleBrandStats handles GET /api/v1/stats/brands.
func (h *Handlers) HandleBrandStats(w http.ResponseWriter, r *http.Request) {
	if cached, found := h.cache.Get(cache.StatsKey("brands")); found {
		response.OK(w, cached)
		return
	}

	stats, err := h.store.BrandStats(r.Context())
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	result := map[string]any{"brands": stats, "count": len(stats)}
	h.cache.Set(cache.StatsKey("brands"), result)
	response.OK(w, result)
}

// HandleCategoryStats handles GET /api/v1/stats/categories.
func (h *Handlers) HandleCategoryStats(w http.ResponseWriter, r *http.Request) {
	if cached, found := h.cache.Get(cache.StatsKey("categories")); found {
		response.OK(w, cached)
		return
	}

	stats, err := h.store.CategoryStats(r.Context())
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	result := map[string]any{"categories": stats, "count": len(stats)}
	h.cache.Set(cache.StatsKey("categories"), result)
	response.OK(w, result)
}

// HandlePriceBands handles GET /api/v1/stats/price-bands.
func (h *Handlers) HandlePriceBands(w http.ResponseWriter, r *http.Request) {
	if cached, found := h.cache.Get(cache.StatsKey("price-bands")); found {
		response.OK(w, cached)
		return
	}

	bands, err := h.store.PriceBandStats(r.Context())
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	result := map[string]any{"bands": bands}
	h.cache.Set(cache.StatsKey("price-bands"), result)
	response.OK(w, result)
}

// HandleLowStock handles GET /api/v1/low-stock.
func (h *Handlers) HandleLowStock(w http.ResponseWriter, r *http.Request) {
	limit := intParam(r, "limit", 50)
	items, err := h.store.LowStockItems(r.Context(), limit)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, map[string]any{"items": items, "count": len(items)})
}

// HandleHighValue handles GET /api/v1/high-value. The threshold query
// parameter overrides the default price floor.
func (h *Handlers) HandleHighValue(w http.ResponseWriter, r *http.Request) {
	var threshold float64
	if v := r.URL.Query().Get("threshold"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			response.BadRequest(w, "Invalid threshold", err.Error())
			return
		}
		threshold = parsed
	}

	limit := intParam(r, "limit", 50)
	items, err := h.store.HighValueItems(r.Context(), threshold, limit)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, map[string]any{"items": items, "count": len(items)})
}

// HandleBrands handles GET /api/v1/brands.
func (h *Handlers) HandleBrands(w http.ResponseWriter, r *http.Request) {
	if cached, found := h.cache.Get(cache.FacetKey("brands")); found {
		response.OK(w, cached)
		return
	}

	brands, err := h.store.Brands(r.Context())
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	result := map[string]any{"brands": brands, "count": len(brands)}
	h.cache.Set(cache.FacetKey("brands"), result)
	response.OK(w, result)
}

// HandleCategories handles GET /api/v1/categories.
func (h *Handlers) HandleCategories(w http.ResponseWriter, r *http.Request) {
	if cached, found := h.cache.Get(cache.FacetKey("categories")); found {
		response.OK(w, cached)
		return
	}

	categories, err := h.store.Categories(r.Context())
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	result := map[string]any{"categories": categories, "count": len(categories)}
	h.cache.Set(cache.FacetKey("categories"), result)
	response.OK(w, result)
}

// intParam parses an integer query parameter, falling back to def when the
// parameter is absent or malformed.
func intParam(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
