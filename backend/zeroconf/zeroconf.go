// Package zeroconf advertises the menu API over mDNS so a phone on the LAN
// can find it. It only runs when the API is bound to a LAN address.
package zeroconf

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"sync"

	"github.com/grandcat/zeroconf"

	"github.com/b0bbywan/go-powermenu/config"
	"github.com/b0bbywan/go-powermenu/logger"
)

var errStarted = errors.New("zeroconf: service already published")

type ZeroConfBackend struct {
	Config *config.ZeroConfig

	ctx     context.Context
	cancel  context.CancelFunc
	mu      sync.Mutex
	server  *zeroconf.Server
	actions []string
}

// New returns nil when disabled or when the API only listens on loopback.
// A wildcard bind advertises on every interface.
func New(ctx context.Context, cfg *config.ZeroConfig) (*ZeroConfBackend, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}
	if len(cfg.Listen) == 0 && !cfg.AllInterfaces {
		logger.Warn("[zeroconf] enabled but the API only listens on loopback, not advertising")
		return nil, nil
	}

	subCtx, cancel := context.WithCancel(ctx)
	return &ZeroConfBackend{Config: cfg, ctx: subCtx, cancel: cancel}, nil
}

// instanceName appends the host name so several machines can coexist.
func (z *ZeroConfBackend) instanceName() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return z.Config.InstanceName
	}
	return fmt.Sprintf("%s on %s", z.Config.InstanceName, host)
}

// interfaces is nil for a wildcard bind, which zeroconf reads as all interfaces.
func (z *ZeroConfBackend) interfaces() []net.Interface {
	if z.Config.AllInterfaces {
		return nil
	}
	return z.Config.Listen
}

// records is the TXT payload: the configured records plus the action list.
func (z *ZeroConfBackend) records() []string {
	txt := append([]string(nil), z.Config.TxtRecords...)
	if len(z.actions) > 0 {
		txt = append(txt, "actions="+strings.Join(z.actions, ","))
	}
	return txt
}

// SetActions advertises which actions the menu offers. It may be called
// before or after Start.
func (z *ZeroConfBackend) SetActions(actions []string) {
	z.mu.Lock()
	defer z.mu.Unlock()

	z.actions = append([]string(nil), actions...)
	if z.server != nil {
		z.server.SetText(z.records())
	}
}

// Start publishes the service until the context is cancelled or Close is called.
func (z *ZeroConfBackend) Start() error {
	z.mu.Lock()
	defer z.mu.Unlock()

	if z.server != nil {
		return errStarted
	}

	name := z.instanceName()
	server, err := zeroconf.Register(name, z.Config.ServiceType, z.Config.Domain, z.Config.Port, z.records(), z.interfaces())
	if err != nil {
		return fmt.Errorf("zeroconf: register %q: %w", name, err)
	}
	z.server = server
	logger.Info("[zeroconf] published '%s' (type: %s, port: %d)", name, z.Config.ServiceType, z.Config.Port)

	ctx := z.ctx
	go func() {
		<-ctx.Done()
		z.Close()
	}()
	return nil
}

// Close withdraws the service. Safe to call more than once.
func (z *ZeroConfBackend) Close() {
	z.mu.Lock()
	defer z.mu.Unlock()

	if z.server != nil {
		z.server.Shutdown()
		z.server = nil
		logger.Debug("[zeroconf] '%s' withdrawn", z.Config.InstanceName)
	}
	if z.cancel != nil {
		z.cancel()
		z.cancel = nil
	}
}
