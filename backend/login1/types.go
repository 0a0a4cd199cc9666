package login1

import (
	"context"
	"sync"

	"github.com/godbus/dbus/v5"

	idbus "github.com/b0bbywan/go-powermenu/backend/internal/dbus"
)

// ErrTimeout is returned when logind does not answer in time.
var ErrTimeout = idbus.ErrTimeout

// ReplyError is returned when logind answers with an unexpected body.
type ReplyError = idbus.ReplyError

// Login1Backend manages poweroff, reboot and suspend through systemd-logind
type Login1Backend struct {
	conn *dbus.Conn
	ctx  context.Context
	mu   sync.RWMutex

	CanReboot   bool
	CanPoweroff bool
	CanSuspend  bool
}

// Capabilities is a snapshot of what logind currently allows.
type Capabilities struct {
	Reboot   bool `json:"reboot"`
	PowerOff bool `json:"power_off"`
	Suspend  bool `json:"suspend"`
}

// CapabilityError indicates that logind does not allow the action.
type CapabilityError struct {
	Required string
}

func (e *CapabilityError) Error() string {
	return "action not allowed (requires " + e.Required + ")"
}
