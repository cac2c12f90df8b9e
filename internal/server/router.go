package server

import (
	"net/http"
	"strings"

	"github.com/stockyardhq/stockyard/internal/server/handlers"
	"github.com/stockyardhq/stockyard/internal/server/middleware"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()

	h := handlers.New(s.store, s.cache, s.logger, s.config.IngestRoot, s.startTime)

	s.registerRoutes(mux, h)

	return s.applyMiddleware(mux)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	prefix := s.config.PathPrefix

	// Favicon handler (return 204 No Content to avoid 404 logs)
	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Public health endpoints (no auth required)
	mux.HandleFunc("/health", h.HandleHealth)
	mux.HandleFunc("/ready", h.HandleReady)
	mux.HandleFunc(prefix+"/health", h.HandleHealth)

	// Items endpoints
	mux.HandleFunc(prefix+"/items", methodGet(h.HandleListItems))
	mux.HandleFunc(prefix+"/items/", func(w http.ResponseWriter, r *http.Request) {
		parts := splitPath(strings.TrimPrefix(r.URL.Path, prefix+"/items/"))
		switch {
		case len(parts) == 1 && r.Method == http.MethodGet:
			h.HandleGetItem(w, r, parts[0])
		case len(parts) == 1 && r.Method == http.MethodPut:
			h.HandleUpdateItem(w, r, parts[0])
		case len(parts) == 1 && r.Method == http.MethodDelete:
			h.HandleDeleteItem(w, r, parts[0])
		case len(parts) == 2 && parts[1] == "audit" && r.Method == http.MethodGet:
			h.HandleItemAudit(w, r, parts[0])
		case len(parts) >= 1 && len(parts) <= 2:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		default:
			http.Error(w, "Not found", http.StatusNotFound)
		}
	})

	// Facet endpoints
	mux.HandleFunc(prefix+"/brands", methodGet(h.HandleBrands))
	mux.HandleFunc(prefix+"/categories", methodGet(h.HandleCategories))

	// Stats endpoints
	mux.HandleFunc(prefix+"/stats", methodGet(h.HandleSummary))
	mux.HandleFunc(prefix+"/stats/brands", methodGet(h.HandleBrandStats))
	mux.HandleFunc(prefix+"/stats/categories", methodGet(h.HandleCategoryStats))
	mux.HandleFunc(prefix+"/stats/price-bands", methodGet(h.HandlePriceBands))
	mux.HandleFunc(prefix+"/low-stock", methodGet(h.HandleLowStock))
	mux.HandleFunc(prefix+"/high-value", methodGet(h.HandleHighValue))

	// Natural-language search
	mux.HandleFunc(prefix+"/search", methodPost(h.HandleSearch))

	// Ingest endpoints
	mux.HandleFunc(prefix+"/ingest", methodPost(h.HandleIngest))
	mux.HandleFunc(prefix+"/files", methodGet(h.HandleSourceFiles))

	// Excel export
	mux.HandleFunc(prefix+"/export", methodGet(h.HandleExport))

	// Slack endpoints (mounted only when the bot is configured; they verify
	// their own request signatures)
	if s.slack != nil {
		mux.Handle("/slack/", http.StripPrefix("/slack", s.slack.Handler()))
	}

	// Dashboard
	mux.HandleFunc("/", h.HandleDashboard)
}

// applyMiddleware wraps handler with middleware chain.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	cfg := s.config

	// Rate limiting (if enabled)
	if cfg.RateLimit > 0 {
		rateLimiter := middleware.NewRateLimiter(cfg.RateLimit, s.logger)
		rateLimiter.TrustProxy = cfg.TrustProxy
		handler = middleware.RateLimit(rateLimiter)(handler)
	}

	// Authentication (if enabled)
	if cfg.AuthEnabled {
		authConfig := middleware.DefaultAuthConfig()
		authConfig.Enabled = true
		authConfig.HeaderName = cfg.AuthHeader
		handler = middleware.Auth(authConfig, s.logger)(handler)
	}

	// CORS (if enabled)
	if cfg.CORSEnabled {
		corsConfig := middleware.DefaultCORSConfig()
		if len(cfg.CORSOrigins) > 0 {
			corsConfig.AllowedOrigins = cfg.CORSOrigins
			corsConfig.AllowAll = false
		} else {
			corsConfig.AllowAll = true
		}
		handler = middleware.CORS(corsConfig)(handler)
	}

	// Logging and recovery (always enabled)
	handler = middleware.Logger(s.logger)(handler)
	handler = middleware.Recovery(s.logger)(handler)

	return handler
}

// methodGet restricts a handler to GET requests.
func methodGet(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

// methodPost restricts a handler to POST requests.
func methodPost(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

// splitPath splits a URL path into parts, removing empty strings.
func splitPath(path string) []string {
	parts := []string{}
	for _, part := range strings.Split(path, "/") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}
