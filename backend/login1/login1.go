package login1

import (
	"context"
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"

	idbus "github.com/b0bbywan/go-powermenu/backend/internal/dbus"
	"github.com/b0bbywan/go-powermenu/config"
	"github.com/b0bbywan/go-powermenu/logger"
)

var errNotConnected = errors.New("login1: not connected")

// New creates a new Login1 backend
func New(ctx context.Context, cfg *config.Login1Config) (*Login1Backend, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, err
	}

	if !idbus.HasOwner(ctx, conn, LOGIN1_PREFIX) {
		if closeErr := conn.Close(); closeErr != nil {
			logger.Warn("[login1] failed to close D-Bus connection: %v", closeErr)
		}
		return nil, fmt.Errorf("%s is not available on the system bus", LOGIN1_PREFIX)
	}

	backend := &Login1Backend{
		conn: conn,
		ctx:  ctx,
	}

	caps, err := backend.Capabilities()
	if err != nil {
		logger.Warn("[login1] capability check failed: %v", err)
	}
	logger.Info("[login1] backend initialized (reboot=%v poweroff=%v suspend=%v)", caps.Reboot, caps.PowerOff, caps.Suspend)
	return backend, nil
}

// Close cleanly closes the connection
func (l *Login1Backend) Close() {
	if l.conn != nil {
		if err := l.conn.Close(); err != nil {
			logger.Error("[login1] failed to close D-Bus connection: %v", err)
		}
		l.conn = nil
	}
}

func (l *Login1Backend) Reboot() error {
	l.mu.RLock()
	allowed := l.CanReboot
	l.mu.RUnlock()
	if !allowed {
		return &CapabilityError{Required: "reboot capability"}
	}
	logger.Info("[login1] Reboot requested")
	return l.call(LOGIN1_METHOD_REBOOT)
}

func (l *Login1Backend) PowerOff() error {
	l.mu.RLock()
	allowed := l.CanPoweroff
	l.mu.RUnlock()
	if !allowed {
		return &CapabilityError{Required: "poweroff capability"}
	}
	logger.Info("[login1] PowerOff requested")
	return l.call(LOGIN1_METHOD_POWEROFF)
}

func (l *Login1Backend) Suspend() error {
	l.mu.RLock()
	allowed := l.CanSuspend
	l.mu.RUnlock()
	if !allowed {
		return &CapabilityError{Required: "suspend capability"}
	}
	logger.Info("[login1] Suspend requested")
	return l.call(LOGIN1_METHOD_SUSPEND)
}

// call invokes a Manager action with interactive=true so polkit may prompt.
func (l *Login1Backend) call(method string) error {
	if l.conn == nil {
		return errNotConnected
	}
	return idbus.CallMethod(l.ctx, l.object(), method, true)
}

func (l *Login1Backend) object() dbus.BusObject {
	return l.conn.Object(LOGIN1_PREFIX, dbus.ObjectPath(LOGIN1_PATH))
}

// Capabilities queries logind and refreshes the Can* flags.
// A failed query leaves the matching flag false.
func (l *Login1Backend) Capabilities() (Capabilities, error) {
	if l.conn == nil {
		return Capabilities{}, errNotConnected
	}

	var errs []error
	check := func(method string) bool {
		ok, err := l.checkCapability(method)
		if err != nil {
			logger.Debug("[login1] %s failed: %v", method, err)
			errs = append(errs, fmt.Errorf("%s: %w", method, err))
		}
		return ok
	}

	caps := Capabilities{
		Reboot:   check(LOGIN1_CAPABILITY_REBOOT),
		PowerOff: check(LOGIN1_CAPABILITY_POWEROFF),
		Suspend:  check(LOGIN1_CAPABILITY_SUSPEND),
	}

	l.mu.Lock()
	l.CanReboot = caps.Reboot
	l.CanPoweroff = caps.PowerOff
	l.CanSuspend = caps.Suspend
	l.mu.Unlock()

	return caps, errors.Join(errs...)
}

func (l *Login1Backend) checkCapability(method string) (bool, error) {
	result, err := idbus.CallString(l.ctx, l.object(), method)
	if err != nil {
		return false, err
	}
	return capabilityAllowed(result), nil
}

// capabilityAllowed interprets logind's Can* answers. "challenge" means
// polkit will ask for authentication, which the interactive call allows.
func capabilityAllowed(answer string) bool {
	switch answer {
	case "yes", "challenge":
		return true
	default:
		return false
	}
}
