package wm

import (
	"errors"
	"os"
	"strings"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

var errNoDisplay = errors.New("DISPLAY is not set")

// x11WindowManagerName reads the EWMH supporting-WM window and its name,
// which is what `wmctrl -m` reports.
func x11WindowManagerName() (string, error) {
	if os.Getenv("DISPLAY") == "" {
		return "", errNoDisplay
	}

	conn, err := xgb.NewConn()
	if err != nil {
		return "", err
	}
	defer conn.Close()

	root := xproto.Setup(conn).DefaultScreen(conn).Root

	atoms := map[string]xproto.Atom{}
	for _, name := range []string{"_NET_SUPPORTING_WM_CHECK", "_NET_WM_NAME", "UTF8_STRING"} {
		reply, err := xproto.InternAtom(conn, true, uint16(len(name)), name).Reply()
		if err != nil {
			return "", err
		}
		atoms[name] = reply.Atom
	}
	if atoms["_NET_SUPPORTING_WM_CHECK"] == xproto.AtomNone {
		return "", errors.New("window manager is not EWMH compliant")
	}

	check, err := xproto.GetProperty(conn, false, root, atoms["_NET_SUPPORTING_WM_CHECK"], xproto.AtomWindow, 0, 1).Reply()
	if err != nil {
		return "", err
	}
	if len(check.Value) < 4 {
		return "", errors.New("_NET_SUPPORTING_WM_CHECK not set")
	}
	win := xproto.Window(xgb.Get32(check.Value))

	name, err := xproto.GetProperty(conn, false, win, atoms["_NET_WM_NAME"], atoms["UTF8_STRING"], 0, 256).Reply()
	if err == nil && len(name.Value) > 0 {
		return strings.TrimRight(string(name.Value), "\x00"), nil
	}

	legacy, err := xproto.GetProperty(conn, false, win, xproto.AtomWmName, xproto.AtomString, 0, 256).Reply()
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(legacy.Value), "\x00"), nil
}
