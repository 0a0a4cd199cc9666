package ui

import "net/http"

// RegisterRoutes registers all UI routes to the provided mux
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /ui", h.Menu)
	mux.HandleFunc("GET /ui/{$}", h.Menu)
	mux.HandleFunc("GET /ui/theme.css", h.Theme)
	mux.HandleFunc("POST /ui/close", h.Close)
}
