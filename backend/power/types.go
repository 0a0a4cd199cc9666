package power

import (
	"context"
	"time"

	"github.com/b0bbywan/go-powermenu/backend/commands"
	"github.com/b0bbywan/go-powermenu/backend/login1"
	"github.com/b0bbywan/go-powermenu/backend/wm"
	"github.com/b0bbywan/go-powermenu/config"
)

const (
	MethodSystemctl = config.MethodSystemctl
	MethodLogin1    = config.MethodLogin1

	capsCacheKey = "capabilities"
)

// SystemPower performs shutdown, reboot and suspend without spawning a process.
type SystemPower interface {
	PowerOff() error
	Reboot() error
	Suspend() error
	Capabilities() (login1.Capabilities, error)
}

// WMDetector reports the running window manager.
type WMDetector interface {
	Detect(ctx context.Context) (wm.Detection, error)
}

// Deps are the collaborators of a Dispatcher. System may be nil, in which
// case power actions always go through the Runner.
type Deps struct {
	Runner   commands.Runner
	Detector WMDetector
	System   SystemPower
	// Cancel stops the application once the menu is closed.
	Cancel context.CancelFunc
}

// Outcome is the result of one dispatch.
type Outcome struct {
	ID        string            `json:"id"`
	Action    Action            `json:"action"`
	Method    string            `json:"method"`
	WM        *wm.Detection     `json:"wm,omitempty"`
	Steps     []commands.Result `json:"steps"`
	StartedAt time.Time         `json:"started_at"`
	Duration  time.Duration     `json:"duration_ns"`
	// CloseMenu asks the caller to close the menu once it has replied.
	CloseMenu bool   `json:"close_menu"`
	Error     string `json:"error,omitempty"`
	Err       error  `json:"-"`
}

// ActionInfo describes a menu entry.
type ActionInfo struct {
	Action    Action `json:"action"`
	Label     string `json:"label"`
	Icon      string `json:"icon"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// ActionEvent is the payload of action.* events.
type ActionEvent struct {
	ID     string  `json:"id"`
	Action Action  `json:"action"`
	WM     wm.Kind `json:"wm,omitempty"`
	Error  string  `json:"error,omitempty"`
}

// MenuEvent is the payload of menu.closed.
type MenuEvent struct {
	Command string `json:"command,omitempty"`
	Error   string `json:"error,omitempty"`
}
