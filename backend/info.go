package backend

import (
	"os"
	"os/user"
	"runtime"

	"github.com/b0bbywan/go-powermenu/config"
	"github.com/b0bbywan/go-powermenu/logger"
)

const UNKNOWN = "unknown"

type ServerDeviceInfo struct {
	Hostname   string   `json:"hostname"`
	OSPlatform string   `json:"os_platform"`
	APISW      string   `json:"api_sw"`
	APIVersion string   `json:"api_version"`
	Session    Session  `json:"session"`
	Backends   Backends `json:"backends"`
}

// Session describes the graphical login the menu acts on.
type Session struct {
	User    string `json:"user"`
	Type    string `json:"type,omitempty"`
	Desktop string `json:"desktop,omitempty"`
	Seat    string `json:"seat,omitempty"`
}

type Backends struct {
	Power       bool   `json:"power"`
	PowerMethod string `json:"power_method"`
	Login1      bool   `json:"login1"`
	Theme       bool   `json:"theme"`
	Zeroconf    bool   `json:"zeroconf"`
}

func (b *Backend) GetServerDeviceInfo() (ServerDeviceInfo, error) {
	hostname, err := os.Hostname()
	if err != nil {
		logger.Debug("[backend] failed to get hostname: %v", err)
		hostname = UNKNOWN
	}

	var method string
	if b.Power != nil {
		method = b.Power.Method()
	}

	return ServerDeviceInfo{
		Hostname:   hostname,
		OSPlatform: runtime.GOOS + "/" + runtime.GOARCH,
		APISW:      config.AppName,
		APIVersion: config.AppVersion,
		Session:    currentSession(os.Getenv),
		Backends: Backends{
			Power:       b.Power != nil,
			PowerMethod: method,
			Login1:      b.Login1 != nil,
			Theme:       b.Theme != nil && b.Theme.Exists(),
			Zeroconf:    b.Zeroconf != nil,
		},
	}, nil
}

func currentSession(getenv func(string) string) Session {
	s := Session{
		User:    UNKNOWN,
		Type:    sessionType(getenv),
		Desktop: getenv("XDG_CURRENT_DESKTOP"),
		Seat:    getenv("XDG_SEAT"),
	}
	if u, err := user.Current(); err == nil {
		s.User = u.Username
	} else if name := getenv("USER"); name != "" {
		s.User = name
	}
	return s
}

// sessionType reports the graphical session kind (x11, wayland) when known.
func sessionType(getenv func(string) string) string {
	if s := getenv("XDG_SESSION_TYPE"); s != "" {
		return s
	}
	if getenv("WAYLAND_DISPLAY") != "" {
		return "wayland"
	}
	if getenv("DISPLAY") != "" {
		return "x11"
	}
	return ""
}
