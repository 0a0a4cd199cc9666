package wm

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/b0bbywan/go-powermenu/backend/commands"
	"github.com/b0bbywan/go-powermenu/config"
	"github.com/b0bbywan/go-powermenu/logger"
)

const (
	SourceOverride = "override"
	SourceWmctrl   = "wmctrl"
	SourceX11      = "x11"
	SourceEnv      = "env"
	SourceNone     = "none"
)

var errNoName = errors.New("window manager did not report a name")

// Detector queries the window manager on every call. Results are never cached:
// the session can change under a long-running menu.
type Detector struct {
	override Kind
	runner   commands.Runner
	x11Name  func() (string, error)
	getenv   func(string) string
}

func NewDetector(cfg *config.WMConfig, runner commands.Runner) *Detector {
	d := &Detector{
		runner:  runner,
		x11Name: x11WindowManagerName,
		getenv:  os.Getenv,
	}
	if cfg != nil && cfg.Override != "" {
		if k, ok := ParseKind(cfg.Override); ok {
			d.override = k
		} else {
			logger.Warn("[wm] ignoring unknown override %q", cfg.Override)
		}
	}
	return d
}

// Detect returns the current window manager. When every check fails the
// Kind is Unknown and the last check error is returned alongside.
func (d *Detector) Detect(ctx context.Context) (Detection, error) {
	if d.override != "" {
		return Detection{Kind: d.override, Name: string(d.override), Source: SourceOverride}, nil
	}

	var lastErr error

	if d.runner != nil {
		name, err := d.wmctrl(ctx)
		if err == nil {
			return d.found(name, SourceWmctrl), nil
		}
		logger.Debug("[wm] wmctrl query failed: %v", err)
		lastErr = err
	}

	if d.x11Name != nil {
		name, err := d.x11Name()
		if err == nil && name != "" {
			return d.found(name, SourceX11), nil
		}
		if err != nil {
			logger.Debug("[wm] x11 query failed: %v", err)
			lastErr = err
		}
	}

	if d.getenv("HYPRLAND_INSTANCE_SIGNATURE") != "" {
		return d.found(string(Hyprland), SourceEnv), nil
	}

	if lastErr == nil {
		lastErr = errNoName
	}
	return Detection{Kind: Unknown, Source: SourceNone}, lastErr
}

func (d *Detector) found(name, source string) Detection {
	det := Detection{Kind: Match(name), Name: name, Source: source}
	logger.Debug("[wm] detected %q (%s) via %s", det.Name, det.Kind, det.Source)
	return det
}

func (d *Detector) wmctrl(ctx context.Context) (string, error) {
	res, err := d.runner.Run(ctx, commands.New("wmctrl", "-m"))
	if err != nil {
		return "", err
	}
	name := parseWmctrl(res.Stdout)
	if name == "" {
		return "", errNoName
	}
	return name, nil
}

// parseWmctrl extracts the Name: line of `wmctrl -m`.
func parseWmctrl(out string) string {
	for _, line := range strings.Split(out, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok || strings.TrimSpace(key) != "Name" {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "N/A" {
			return ""
		}
		return value
	}
	return ""
}
