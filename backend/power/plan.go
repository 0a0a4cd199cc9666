package power

import (
	"fmt"
	"sort"
	"strings"

	"github.com/b0bbywan/go-powermenu/backend/commands"
	"github.com/b0bbywan/go-powermenu/backend/wm"
)

// KeyDefault selects the entry used when no window manager specific one exists.
const KeyDefault = "default"

var (
	systemctlPoweroff = commands.New("systemctl", "poweroff")
	systemctlReboot   = commands.New("systemctl", "reboot")
	systemctlSuspend  = commands.New("systemctl", "suspend")

	hyprlock         = commands.Command{Name: "hyprlock", Detach: true}
	betterlockscreen = commands.Command{Name: "betterlockscreen", Args: []string{"-l"}, Detach: true}
)

func builtin() map[Action]map[string]commands.Command {
	return map[Action]map[string]commands.Command{
		Shutdown: {KeyDefault: systemctlPoweroff},
		Reboot:   {KeyDefault: systemctlReboot},
		Suspend:  {KeyDefault: systemctlSuspend},
		Logout: {
			string(wm.Hyprland): commands.New("hyprctl", "dispatch", "exit"),
			string(wm.DWM):      commands.New("pkill", "dwm"),
			string(wm.LG3D):     commands.New("qtile", "cmd-obj", "-o", "cmd", "-f", "shutdown"),
			string(wm.Qtile):    commands.New("qtile", "cmd-obj", "-o", "cmd", "-f", "shutdown"),
		},
		Lockscreen: {
			string(wm.Hyprland): hyprlock,
			string(wm.DWM):      betterlockscreen,
			string(wm.LG3D):     betterlockscreen,
			string(wm.Qtile):    betterlockscreen,
		},
	}
}

// Table resolves an action and window manager to the command to run.
type Table struct {
	entries    map[Action]map[string]commands.Command
	overridden map[Action]bool
}

// NewTable returns the built-in table with overrides applied. Overrides are
// keyed by action (or alias) then by window manager name or "default".
func NewTable(overrides map[string]map[string][]string) (*Table, error) {
	t := &Table{
		entries:    builtin(),
		overridden: map[Action]bool{},
	}

	for name, kinds := range overrides {
		a, err := ParseAction(name)
		if err != nil {
			return nil, fmt.Errorf("commands.%s: %w", name, err)
		}
		for key, argv := range kinds {
			if len(argv) == 0 {
				continue
			}
			entry, err := entryKey(a, key)
			if err != nil {
				return nil, fmt.Errorf("commands.%s.%s: %w", name, key, err)
			}
			cmd := commands.New(argv...)
			cmd.Detach = a == Lockscreen
			t.entries[a][entry] = cmd
			t.overridden[a] = true
		}
	}

	return t, nil
}

func entryKey(a Action, key string) (string, error) {
	if strings.EqualFold(key, KeyDefault) {
		return KeyDefault, nil
	}
	if !a.NeedsWM() {
		return "", fmt.Errorf("%s does not depend on the window manager, use %q", a, KeyDefault)
	}
	k, ok := wm.ParseKind(key)
	if !ok || !k.Known() {
		return "", fmt.Errorf("unknown window manager %q (known: %v)", key, wm.Kinds)
	}
	return string(k), nil
}

// Lookup returns the command for a under kind, falling back to the default entry.
func (t *Table) Lookup(a Action, kind wm.Kind) (commands.Command, bool) {
	byKind := t.entries[a]
	if cmd, ok := byKind[string(kind)]; ok {
		return cmd, true
	}
	cmd, ok := byKind[KeyDefault]
	return cmd, ok
}

// Overridden reports whether the configuration replaced any entry of a.
func (t *Table) Overridden(a Action) bool {
	return t.overridden[a]
}

// Entries lists the table as "action/key" -> command, sorted, for display.
func (t *Table) Entries() []string {
	var out []string
	for _, a := range All {
		for key, cmd := range t.entries[a] {
			out = append(out, fmt.Sprintf("%s/%s: %s", a, key, cmd))
		}
	}
	sort.Strings(out)
	return out
}
