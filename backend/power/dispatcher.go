package power

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/b0bbywan/go-powermenu/backend/commands"
	"github.com/b0bbywan/go-powermenu/backend/login1"
	"github.com/b0bbywan/go-powermenu/backend/wm"
	"github.com/b0bbywan/go-powermenu/cache"
	"github.com/b0bbywan/go-powermenu/config"
	"github.com/b0bbywan/go-powermenu/events"
	"github.com/b0bbywan/go-powermenu/logger"
)

var errNoRunner = errors.New("no command runner configured")

// closeFlushTimeout bounds how long closing waits for menu.closed to be handled.
const closeFlushTimeout = 500 * time.Millisecond

// Dispatcher turns actions into command invocations.
type Dispatcher struct {
	cfg      config.PowerConfig
	table    *Table
	runner   commands.Runner
	detector WMDetector
	system   SystemPower
	closer   *Closer
	caps     *cache.Cache[login1.Capabilities]

	eventsC  chan events.Event
	consumed atomic.Bool
}

func New(cfg *config.PowerConfig, table *Table, deps Deps) (*Dispatcher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("power: missing configuration")
	}
	if table == nil {
		t, err := NewTable(nil)
		if err != nil {
			return nil, err
		}
		table = t
	}

	d := &Dispatcher{
		cfg:      *cfg,
		table:    table,
		runner:   deps.Runner,
		detector: deps.Detector,
		system:   deps.System,
		caps:     cache.New[login1.Capabilities](cfg.CapabilitiesTTL),
		eventsC:  make(chan events.Event, 16),
	}
	d.closer = NewCloser(cfg.CloseCommand, deps.Runner, deps.Cancel)
	d.closer.notify = d.publishSync

	if cfg.Method == MethodLogin1 && d.system == nil {
		logger.Warn("[power] login1 unavailable, falling back to systemctl")
	}
	return d, nil
}

// Events returns the dispatcher event stream. Once a consumer has taken it,
// menu.closed is only considered sent after the consumer acknowledged it.
func (d *Dispatcher) Events() <-chan events.Event {
	d.consumed.Store(true)
	return d.eventsC
}

func (d *Dispatcher) notify(e events.Event) {
	select {
	case d.eventsC <- e:
	default:
		logger.Warn("[power] event channel full, dropping %s event", e.Type)
	}
}

// publishSync queues e and waits for the consumer to handle it, so the event
// gets out before the application context is cancelled.
func (d *Dispatcher) publishSync(e events.Event) {
	e, handled := e.WithAck()
	d.notify(e)
	if !d.consumed.Load() {
		return
	}

	timer := time.NewTimer(closeFlushTimeout)
	defer timer.Stop()
	select {
	case <-handled:
	case <-timer.C:
		logger.Warn("[power] %s not handled within %v", e.Type, closeFlushTimeout)
	}
}

// Method returns the mechanism used for shutdown, reboot and suspend.
func (d *Dispatcher) Method() string {
	if d.cfg.Method == MethodLogin1 && d.system != nil {
		return MethodLogin1
	}
	return MethodSystemctl
}

// Table returns the command table in use.
func (d *Dispatcher) Table() *Table {
	return d.table
}

// Dispatch performs a. Every failure is returned, and recorded in the Outcome.
func (d *Dispatcher) Dispatch(ctx context.Context, a Action) (*Outcome, error) {
	o := &Outcome{
		ID:        uuid.NewString(),
		Action:    a,
		Method:    MethodSystemctl,
		StartedAt: time.Now(),
	}
	logger.Info("[power] %s requested (%s)", a, o.ID)
	d.notify(events.Event{Type: events.TypeActionRequested, Data: ActionEvent{ID: o.ID, Action: a}})

	err := d.dispatch(ctx, a, o)
	o.Duration = time.Since(o.StartedAt)

	data := ActionEvent{ID: o.ID, Action: a}
	if o.WM != nil {
		data.WM = o.WM.Kind
	}

	if err != nil {
		o.Err = err
		o.Error = err.Error()
		o.CloseMenu = false
		data.Error = o.Error
		logger.Error("[power] %s failed: %v", a, err)
		d.notify(events.Event{Type: events.TypeActionFailed, Data: data})
		return o, err
	}

	logger.Info("[power] %s completed in %v", a, o.Duration)
	d.notify(events.Event{Type: events.TypeActionCompleted, Data: data})
	return o, nil
}

func (d *Dispatcher) dispatch(ctx context.Context, a Action, o *Outcome) error {
	switch a {
	case Shutdown, Reboot:
		return d.systemAction(ctx, a, o)
	case Suspend:
		return d.suspend(ctx, o)
	case Logout:
		return d.logout(ctx, o)
	case Lockscreen:
		if err := d.lock(ctx, o); err != nil {
			return err
		}
		o.CloseMenu = d.cfg.LockCloseMenu
		return nil
	default:
		return &UnknownActionError{Name: string(a)}
	}
}

// suspend locks the session first so it is never resumed unlocked. An
// unsupported window manager only skips the lock.
func (d *Dispatcher) suspend(ctx context.Context, o *Outcome) error {
	locked := false
	if d.cfg.SuspendLock {
		err := d.lock(ctx, o)
		var unsupported *UnsupportedError
		switch {
		case errors.As(err, &unsupported):
			logger.Warn("[power] suspending without lock: %v", err)
		case err != nil:
			return fmt.Errorf("lock before suspend: %w", err)
		default:
			locked = true
		}
	}

	if err := d.systemAction(ctx, Suspend, o); err != nil {
		return err
	}
	o.CloseMenu = locked && d.cfg.LockCloseMenu
	return nil
}

func (d *Dispatcher) logout(ctx context.Context, o *Outcome) error {
	det := d.detect(ctx, o)
	cmd, ok := d.table.Lookup(Logout, det.Kind)
	if !ok {
		return &UnsupportedError{Action: Logout, WM: det.Kind}
	}
	return d.run(ctx, cmd, o)
}

func (d *Dispatcher) lock(ctx context.Context, o *Outcome) error {
	det := d.detect(ctx, o)
	cmd, ok := d.table.Lookup(Lockscreen, det.Kind)
	if !ok {
		return &UnsupportedError{Action: Lockscreen, WM: det.Kind}
	}
	return d.run(ctx, cmd, o)
}

func (d *Dispatcher) systemAction(ctx context.Context, a Action, o *Outcome) error {
	if d.useLogin1(a) {
		o.Method = MethodLogin1
		err := d.login1Call(a)
		var capErr *login1.CapabilityError
		if errors.As(err, &capErr) {
			d.caps.Delete(capsCacheKey)
		}
		return err
	}

	cmd, ok := d.table.Lookup(a, wm.Unknown)
	if !ok {
		return &UnsupportedError{Action: a, WM: wm.Unknown}
	}
	return d.run(ctx, cmd, o)
}

func (d *Dispatcher) useLogin1(a Action) bool {
	return a.system() && d.Method() == MethodLogin1 && !d.table.Overridden(a)
}

func (d *Dispatcher) login1Call(a Action) error {
	switch a {
	case Shutdown:
		return d.system.PowerOff()
	case Reboot:
		return d.system.Reboot()
	case Suspend:
		return d.system.Suspend()
	default:
		return &UnknownActionError{Name: string(a)}
	}
}

func (d *Dispatcher) run(ctx context.Context, cmd commands.Command, o *Outcome) error {
	if d.runner == nil {
		return errNoRunner
	}
	logger.Debug("[power] running %s", cmd)
	res, err := d.runner.Run(ctx, cmd)
	o.Steps = append(o.Steps, res)
	return err
}

// detect queries the window manager once and records it on the outcome.
func (d *Dispatcher) detect(ctx context.Context, o *Outcome) wm.Detection {
	if o != nil && o.WM != nil {
		return *o.WM
	}
	det := wm.Detection{Kind: wm.Unknown, Source: wm.SourceNone}
	if d.detector != nil {
		var err error
		det, err = d.detector.Detect(ctx)
		if err != nil {
			logger.Warn("[power] window manager detection failed: %v", err)
		}
	}
	if o != nil {
		o.WM = &det
	}
	return det
}

// Detect exposes the current window manager.
func (d *Dispatcher) Detect(ctx context.Context) wm.Detection {
	return d.detect(ctx, nil)
}

// Actions lists the menu entries with their current availability.
func (d *Dispatcher) Actions(ctx context.Context) []ActionInfo {
	var (
		caps    *login1.Capabilities
		capsErr error
	)
	if d.Method() == MethodLogin1 {
		c, err := d.caps.GetOrLoad(capsCacheKey, d.system.Capabilities)
		if err != nil {
			logger.Warn("[power] capability query failed: %v", err)
			capsErr = err
		}
		caps = &c
	}
	det := d.Detect(ctx)

	out := make([]ActionInfo, 0, len(All))
	for _, a := range All {
		info := ActionInfo{Action: a, Label: a.Label(), Icon: a.Icon(), Available: true}
		switch {
		case a.NeedsWM():
			if _, ok := d.table.Lookup(a, det.Kind); !ok {
				info.Available = false
				info.Reason = fmt.Sprintf("unsupported window manager %s", det.Kind)
			}
		case caps != nil && d.useLogin1(a):
			if !capabilityFor(*caps, a) {
				info.Available = false
				info.Reason = "not allowed by logind"
				if capsErr != nil {
					info.Reason = "logind capability query failed: " + capsErr.Error()
				}
			}
		}
		out = append(out, info)
	}
	return out
}

func capabilityFor(c login1.Capabilities, a Action) bool {
	switch a {
	case Shutdown:
		return c.PowerOff
	case Reboot:
		return c.Reboot
	case Suspend:
		return c.Suspend
	}
	return false
}

// CloseMenu runs the termination command and stops the application.
func (d *Dispatcher) CloseMenu(ctx context.Context) error {
	return d.closer.Close(ctx)
}
