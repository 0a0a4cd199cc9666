package cli

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/b0bbywan/go-powermenu/api"
	"github.com/b0bbywan/go-powermenu/backend"
	"github.com/b0bbywan/go-powermenu/config"
	"github.com/b0bbywan/go-powermenu/logger"
	"github.com/b0bbywan/go-powermenu/ui"
)

func newServeCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the menu and open it with the configured launcher",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(parent context.Context, cfg *config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	// Global context for the entire application, also cancelled when the menu closes
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	b, err := backend.New(ctx, cfg, nil, cancel)
	if err != nil {
		return fmt.Errorf("backend initialization failed: %w", err)
	}

	if err := b.Start(); err != nil {
		b.Close()
		return fmt.Errorf("backend start failed: %w", err)
	}

	server := api.NewServer(ctx, cfg.Api, b)
	if server == nil {
		b.Close()
		return fmt.Errorf("api is disabled, nothing to serve")
	}

	// Channel to synchronize shutdown
	shutdownDone := make(chan struct{})
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		select {
		case <-sigChan:
			logger.Info("[%s] Shutdown signal received, stopping server...", config.AppName)
		case <-ctx.Done():
			logger.Info("[%s] menu closed, stopping server...", config.AppName)
		}

		cancel()
		b.Close()
		close(shutdownDone)
	}()

	if cfg.Api.UI != nil && cfg.Api.UI.Enabled {
		go launch(ctx, b, cfg)
	}

	logger.Info("[%s] started", config.AppName)
	if err := server.Run(ctx); err != nil && err != http.ErrServerClosed {
		logger.Error("[%s] http server error: %v", config.AppName, err)
		cancel()
		<-shutdownDone
		return err
	}

	<-shutdownDone
	logger.Info("[%s] stopped", config.AppName)
	return nil
}

// launch opens the menu once the loopback listener accepts connections.
func launch(ctx context.Context, b *backend.Backend, cfg *config.Config) {
	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Api.Port)
	if err := waitForListener(ctx, addr, 5*time.Second); err != nil {
		logger.Error("[ui] menu not reachable on %s: %v", addr, err)
		return
	}
	url := "http://" + addr + "/ui"
	if err := ui.Launch(ctx, b.Runner, cfg.Api.UI.Launcher, url); err != nil {
		logger.Error("[ui] launcher failed: %v", err)
	}
}

func waitForListener(ctx context.Context, addr string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		conn, err := net.DialTimeout("tcp", addr, 200*time.Millisecond)
		if err == nil {
			return conn.Close()
		}
		if time.Now().After(deadline) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
}
