package ui

// ServerInfo mirrors GET /server.
type ServerInfo struct {
	Hostname   string   `json:"hostname"`
	OSPlatform string   `json:"os_platform"`
	APISW      string   `json:"api_sw"`
	APIVersion string   `json:"api_version"`
	Session    Session  `json:"session"`
	Backends   Backends `json:"backends"`
}

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

// Action mirrors one entry of GET /power.
type Action struct {
	Action    string `json:"action"`
	Label     string `json:"label"`
	Icon      string `json:"icon"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// MenuView is the data of the menu page.
type MenuView struct {
	Title      string
	ServerInfo *ServerInfo
	Actions    []Action
	CloseKey   KeyBinding
	Theme      bool
}
