package server

import (
	"net/http"
	"strings"

	"github.com/agentstation/sheetlink/internal/server/handlers"
	"github.com/agentstation/sheetlink/internal/server/middleware"
	"github.com/agentstation/sheetlink/internal/server/response"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()

	h := handlers.New(s.app, s.session, handlers.Defaults{
		Spreadsheet:    s.config.Spreadsheet,
		Worksheet:      s.config.Worksheet,
		MaxUploadBytes: s.config.MaxUploadBytes,
	}, s.logger)

	s.registerRoutes(mux, h)
	return s.applyMiddleware(mux)
}

// method restricts a handler to one HTTP method.
func method(m string, fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != m {
			response.MethodNotAllowed(w, r.Method)
			return
		}
		fn(w, r)
	}
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	prefix := s.config.PathPrefix

	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Dashboard
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		method(http.MethodGet, h.HandleDashboard)(w, r)
	})
	mux.HandleFunc("/actions/", method(http.MethodPost, func(w http.ResponseWriter, r *http.Request) {
		h.HandleAction(w, r, extractPathParam(r.URL.Path, "/actions/"))
	}))

	// Health
	mux.HandleFunc("/health", h.HandleHealth)
	mux.HandleFunc(prefix+"/health", h.HandleHealth)

	// Products
	mux.HandleFunc(prefix+"/products", method(http.MethodGet, h.HandleListProducts))
	mux.HandleFunc(prefix+"/products/refresh", method(http.MethodPost, h.HandleRefresh))
	mux.HandleFunc(prefix+"/products/", func(w http.ResponseWriter, r *http.Request) {
		parts := splitPath(strings.TrimPrefix(r.URL.Path, prefix+"/products/"))
		if len(parts) != 2 || parts[1] != "field" {
			response.NotFound(w, "Not found", r.URL.Path)
			return
		}
		method(http.MethodPost, func(w http.ResponseWriter, r *http.Request) {
			h.HandleUpdateField(w, r, parts[0])
		})(w, r)
	})

	// Sheet
	mux.HandleFunc(prefix+"/sheet", method(http.MethodGet, h.HandleSheet))
	mux.HandleFunc(prefix+"/sheet/export", method(http.MethodPost, h.HandleExport))
	mux.HandleFunc(prefix+"/sheet/import", method(http.MethodPost, h.HandleImport))

	// Upload preview
	mux.HandleFunc(prefix+"/preview", method(http.MethodPost, h.HandlePreview))
}

// applyMiddleware wraps handler with middleware chain.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	cfg := s.config

	var chain []func(http.Handler) http.Handler
	chain = append(chain,
		middleware.Recovery(s.logger),
		middleware.RequestID,
		middleware.Logger(s.logger),
	)
	if cfg.AuthEnabled {
		authConfig := middleware.DefaultAuthConfig()
		authConfig.Enabled = true
		authConfig.APIKey = cfg.APIKey
		authConfig.HeaderName = cfg.AuthHeader
		authConfig.PublicPaths = []string{"/health", cfg.PathPrefix + "/health", "/favicon.ico"}
		chain = append(chain, middleware.Auth(authConfig, s.logger))
	}

	return middleware.Chain(chain...)(handler)
}

// extractPathParam extracts path parameter from URL.
func extractPathParam(path, prefix string) string {
	trimmed := strings.TrimPrefix(path, prefix)
	parts := strings.Split(trimmed, "/")
	if len(parts) > 0 {
		return parts[0]
	}
	return ""
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
