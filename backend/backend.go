package backend

import (
	"context"

	"github.com/b0bbywan/go-powermenu/backend/commands"
	"github.com/b0bbywan/go-powermenu/backend/login1"
	"github.com/b0bbywan/go-powermenu/backend/power"
	"github.com/b0bbywan/go-powermenu/backend/theme"
	"github.com/b0bbywan/go-powermenu/backend/wm"
	"github.com/b0bbywan/go-powermenu/backend/zeroconf"
	"github.com/b0bbywan/go-powermenu/config"
	"github.com/b0bbywan/go-powermenu/logger"
)

type Backend struct {
	Login1   *login1.Login1Backend
	Power    *power.Dispatcher
	Theme    *theme.ThemeBackend
	Zeroconf *zeroconf.ZeroConfBackend
	WM       *wm.Detector
	Runner   commands.Runner
}

// New wires every backend. runner may be nil, in which case commands are
// executed for real. cancel is called once the menu is closed.
func New(ctx context.Context, cfg *config.Config, runner commands.Runner, cancel context.CancelFunc) (*Backend, error) {
	if runner == nil {
		runner = commands.NewExecRunner(cfg.Commands.Timeout)
	}
	backend := Backend{
		Runner: runner,
		WM:     wm.NewDetector(cfg.WM, runner),
	}

	l, err := login1.New(ctx, cfg.Login1)
	if err != nil {
		logger.Error("[backend] login1 unavailable: %v", err)
	}
	backend.Login1 = l

	table, err := power.NewTable(cfg.Commands.Overrides)
	if err != nil {
		return nil, err
	}

	deps := power.Deps{
		Runner:   runner,
		Detector: backend.WM,
		Cancel:   cancel,
	}
	if l != nil {
		deps.System = l
	}
	p, err := power.New(cfg.Power, table, deps)
	if err != nil {
		backend.Close()
		return nil, err
	}
	backend.Power = p

	th, err := theme.New(ctx, cfg.Theme)
	if err != nil {
		logger.Warn("[backend] theme disabled: %v", err)
	}
	backend.Theme = th

	z, err := zeroconf.New(ctx, cfg.Zeroconf)
	if err != nil {
		backend.Close()
		return nil, err
	}
	backend.Zeroconf = z

	return &backend, nil
}

func (b *Backend) Start() error {
	if b.Theme != nil {
		if err := b.Theme.Start(); err != nil {
			logger.Warn("[backend] theme watcher not started: %v", err)
		}
	}

	if b.Zeroconf != nil {
		if b.Power != nil {
			names := make([]string, 0, len(power.All))
			for _, a := range power.All {
				names = append(names, string(a))
			}
			b.Zeroconf.SetActions(names)
		}
		if err := b.Zeroconf.Start(); err != nil {
			return err
		}
	}

	return nil
}

func (b *Backend) Close() {
	if b.Zeroconf != nil {
		b.Zeroconf.Close()
	}
	if b.Theme != nil {
		b.Theme.Close()
	}
	if b.Login1 != nil {
		b.Login1.Close()
	}
}
