package ui

import (
	"fmt"
	"strings"
)

// KeyBinding is a keyboard shortcut as the page script matches it against
// KeyboardEvent fields.
type KeyBinding struct {
	Key   string `json:"key"`
	Ctrl  bool   `json:"ctrl"`
	Alt   bool   `json:"alt"`
	Shift bool   `json:"shift"`
	Meta  bool   `json:"meta"`
	Label string `json:"label"`
}

var keyAliases = map[string]string{
	"esc":    "escape",
	"escape": "escape",
	"space":  " ",
	"return": "enter",
	"enter":  "enter",
}

// ParseKeyBinding reads "Super+C", "ctrl+alt+q" or "Escape".
func ParseKeyBinding(s string) (KeyBinding, error) {
	parts := strings.Split(strings.TrimSpace(s), "+")
	if len(parts) == 0 || strings.TrimSpace(parts[len(parts)-1]) == "" {
		return KeyBinding{}, fmt.Errorf("empty key binding %q", s)
	}

	var kb KeyBinding
	labels := make([]string, 0, len(parts))
	for _, mod := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(mod)) {
		case "ctrl", "control":
			kb.Ctrl = true
			labels = append(labels, "CTRL")
		case "alt":
			kb.Alt = true
			labels = append(labels, "ALT")
		case "shift":
			kb.Shift = true
			labels = append(labels, "SHIFT")
		case "super", "meta", "mod4", "win":
			kb.Meta = true
			labels = append(labels, "SUPER")
		default:
			return KeyBinding{}, fmt.Errorf("unknown modifier %q in %q", mod, s)
		}
	}

	key := strings.ToLower(strings.TrimSpace(parts[len(parts)-1]))
	if alias, ok := keyAliases[key]; ok {
		key = alias
	}
	kb.Key = key
	label := strings.ToUpper(key)
	if key == " " {
		label = "SPACE"
	}
	kb.Label = strings.Join(append(labels, label), "+")
	return kb, nil
}

// IsEscape reports whether the binding is the bare Escape key.
func (k KeyBinding) IsEscape() bool {
	return k.Key == "escape" && !k.Ctrl && !k.Alt && !k.Shift && !k.Meta
}
