package api

import (
	"net/http"

	"github.com/b0bbywan/go-powermenu/backend"
	"github.com/b0bbywan/go-powermenu/backend/power"
	"github.com/b0bbywan/go-powermenu/logger"
	"github.com/b0bbywan/go-powermenu/ui"
)

func (s *Server) registerServerRoutes(b *backend.Backend) {
	s.mux.HandleFunc(
		"GET /server",
		JSONHandler(func(w http.ResponseWriter, r *http.Request) (any, error) {
			return b.GetServerDeviceInfo()
		}),
	)

	// SSE event stream
	if s.broadcaster != nil {
		s.mux.HandleFunc("GET /events", sseHandler(s.broadcaster))
		logger.Info("[api] SSE route registered at /events")
	}
}

func (s *Server) registerPowerRoutes(p *power.Dispatcher) {
	s.mux.HandleFunc(
		"GET /power",
		JSONHandler(func(w http.ResponseWriter, r *http.Request) (any, error) {
			return p.Actions(r.Context()), nil
		}),
	)
	s.mux.HandleFunc(
		"POST /power/{action}",
		dispatchHandler(p),
	)
	s.mux.HandleFunc(
		"POST /close",
		closeHandler(p),
	)
}

func (s *Server) registerWMRoutes(b *backend.Backend) {
	s.mux.HandleFunc(
		"GET /wm",
		JSONHandler(func(w http.ResponseWriter, r *http.Request) (any, error) {
			if b.Power != nil {
				return b.Power.Detect(r.Context()), nil
			}
			det, err := b.WM.Detect(r.Context())
			if err != nil {
				logger.Debug("[api] window manager detection: %v", err)
			}
			return det, nil
		}),
	)
}

func (s *Server) registerUIRoutes(b *backend.Backend) {
	uiHandler := ui.NewHandler(s.config.UI, s.config.Port, b.Theme)
	uiHandler.RegisterRoutes(s.mux)
	logger.Info("[api] UI routes registered at /ui")
}
