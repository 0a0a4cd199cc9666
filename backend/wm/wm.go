// Package wm identifies the running window manager.
package wm

import "strings"

// Kind is the enumerated window manager identity.
type Kind string

const (
	Hyprland Kind = "Hyprland"
	LG3D     Kind = "LG3D"
	DWM      Kind = "dwm"
	Qtile    Kind = "Qtile"
	Unknown  Kind = "Unknown"
)

// Kinds lists every known window manager, Unknown excluded.
var Kinds = []Kind{Hyprland, LG3D, DWM, Qtile}

var byName = func() map[string]Kind {
	m := make(map[string]Kind, len(Kinds))
	for _, k := range Kinds {
		m[strings.ToLower(string(k))] = k
	}
	return m
}()

// Match maps a reported window manager name to its Kind. The comparison is
// an exact, case-insensitive match on the trimmed name.
func Match(name string) Kind {
	if k, ok := byName[strings.ToLower(strings.TrimSpace(name))]; ok {
		return k
	}
	return Unknown
}

// ParseKind accepts a Kind name, including "unknown".
func ParseKind(s string) (Kind, bool) {
	if strings.EqualFold(strings.TrimSpace(s), string(Unknown)) {
		return Unknown, true
	}
	k := Match(s)
	return k, k != Unknown
}

func (k Kind) Known() bool {
	return k != Unknown && k != ""
}

// Detection is the outcome of one window manager query.
type Detection struct {
	Kind   Kind   `json:"kind"`
	Name   string `json:"name"`
	Source string `json:"source"`
}
