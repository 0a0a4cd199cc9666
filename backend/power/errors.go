package power

import (
	"fmt"

	"github.com/b0bbywan/go-powermenu/backend/wm"
)

// UnknownActionError is returned for names that are neither an action nor an alias.
type UnknownActionError struct {
	Name string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("unknown action: %q", e.Name)
}

// UnsupportedError is returned when no command is known for the running
// window manager. Nothing was executed.
type UnsupportedError struct {
	Action Action
	WM     wm.Kind
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s is not supported under window manager %s", e.Action, e.WM)
}
