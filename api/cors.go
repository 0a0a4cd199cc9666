package api

import (
	"net/http"

	"github.com/b0bbywan/go-powermenu/config"
	"github.com/b0bbywan/go-powermenu/logger"
)

// corsMiddleware lets pages on the configured origins drive the menu.
// Preflight requests are answered here and never reach the mux.
func corsMiddleware(cfg *config.CORSConfig) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(cfg.Origins))
	for _, o := range cfg.Origins {
		allowed[o] = true
	}
	wildcard := allowed["*"]
	logger.Info("[api] CORS enabled, origins: %v", cfg.Origins)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			switch origin := r.Header.Get("Origin"); {
			case origin == "":
			case wildcard:
				h.Set("Access-Control-Allow-Origin", "*")
			case allowed[origin]:
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
			}

			if r.Method != http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type")
			w.WriteHeader(http.StatusNoContent)
		})
	}
}
