package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/b0bbywan/go-powermenu/backend"
	"github.com/b0bbywan/go-powermenu/config"
	"github.com/b0bbywan/go-powermenu/logger"
)

type Server struct {
	mux         *http.ServeMux
	config      *config.ApiConfig
	ui          bool
	broadcaster *backend.Broadcaster
}

func NewServer(ctx context.Context, cfg *config.ApiConfig, b *backend.Backend) *Server {
	if cfg == nil || !cfg.Enabled {
		return nil
	}

	var broadcaster *backend.Broadcaster
	if b != nil {
		broadcaster = b.NewBroadcaster(ctx)
	}

	server := &Server{
		mux:         http.NewServeMux(),
		config:      cfg,
		ui:          cfg.UI != nil && cfg.UI.Enabled,
		broadcaster: broadcaster,
	}
	server.register(b)
	return server
}

// Run binds every listen address before serving so a second instance fails
// right away instead of opening a menu that cannot be reached. It returns
// once ctx is cancelled and all servers have shut down.
func (s *Server) Run(ctx context.Context) error {
	var handler http.Handler = s.mux
	if s.config.CORS != nil {
		handler = corsMiddleware(s.config.CORS)(handler)
	}

	listeners := make([]net.Listener, 0, len(s.config.Listens))
	for _, addr := range s.config.Listens {
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			for _, l := range listeners {
				l.Close()
			}
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		listeners = append(listeners, ln)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		// request contexts end with ctx so open event streams do not hold up shutdown
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, len(listeners))
	var wg sync.WaitGroup
	for _, ln := range listeners {
		wg.Add(1)
		go func(ln net.Listener) {
			defer wg.Done()
			logger.Info("[api] http server running on %s", ln.Addr())
			if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
				errCh <- fmt.Errorf("server %s: %w", ln.Addr(), err)
			}
		}(ln)
	}

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Info("[api] shutdown error: %v", err)
	}

	wg.Wait()
	close(errCh)
	if runErr == nil {
		runErr = <-errCh
	}
	return runErr
}

func (s *Server) register(b *backend.Backend) {
	if b == nil {
		return
	}

	// The menu is the only page: send browsers opening the bare URL there.
	s.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" && s.ui {
			http.Redirect(w, r, "/ui", http.StatusFound)
			return
		}
		http.NotFound(w, r)
	})

	// server routes
	s.registerServerRoutes(b)

	if b.Power != nil {
		s.registerPowerRoutes(b.Power)
	}

	if b.WM != nil || b.Power != nil {
		s.registerWMRoutes(b)
	}

	// UI routes
	if s.ui {
		s.registerUIRoutes(b)
	}
}
