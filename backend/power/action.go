package power

import "strings"

// Action is one of the menu entries.
type Action string

const (
	Shutdown   Action = "shutdown"
	Reboot     Action = "reboot"
	Suspend    Action = "suspend"
	Logout     Action = "logout"
	Lockscreen Action = "lockscreen"
)

// All lists the actions in menu order.
var All = []Action{Shutdown, Reboot, Suspend, Logout, Lockscreen}

var aliases = map[string]Action{
	"poweroff":  Shutdown,
	"power_off": Shutdown,
	"restart":   Reboot,
	"exit":      Logout,
	"lock":      Lockscreen,
}

var labels = map[Action]string{
	Shutdown:   "Shutdown",
	Reboot:     "Reboot",
	Suspend:    "Suspend",
	Logout:     "Logout",
	Lockscreen: "Lock Screen",
}

// freedesktop icon names
var icons = map[Action]string{
	Shutdown:   "system-shutdown",
	Reboot:     "system-reboot",
	Suspend:    "system-suspend",
	Logout:     "system-log-out",
	Lockscreen: "system-lock-screen",
}

// ParseAction accepts an action tag or alias, case-insensitively.
func ParseAction(s string) (Action, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, a := range All {
		if string(a) == name {
			return a, nil
		}
	}
	if a, ok := aliases[name]; ok {
		return a, nil
	}
	return "", &UnknownActionError{Name: s}
}

func (a Action) Label() string {
	return labels[a]
}

func (a Action) Icon() string {
	return icons[a]
}

// NeedsWM reports whether the command depends on the window manager.
func (a Action) NeedsWM() bool {
	return a == Logout || a == Lockscreen
}

// system reports whether the action maps to a logind Manager method.
func (a Action) system() bool {
	return a == Shutdown || a == Reboot || a == Suspend
}
