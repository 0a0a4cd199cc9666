package config

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/b0bbywan/go-powermenu/logger"
)

var levelStrings = map[logger.Level]string{
	logger.DEBUG: "DEBUG",
	logger.INFO:  "INFO",
	logger.WARN:  "WARN",
	logger.ERROR: "ERROR",
	logger.FATAL: "FATAL",
}

// effective mirrors the config file layout so the dump can be pasted back.
type effective struct {
	Bind string `yaml:"bind"`
	Api  struct {
		Enabled bool     `yaml:"enabled"`
		Port    int      `yaml:"port"`
		Listens []string `yaml:"listens,flow"`
		Cors    struct {
			Origins []string `yaml:"origins,flow"`
		} `yaml:"cors"`
	} `yaml:"api"`
	UI struct {
		Enabled  bool     `yaml:"enabled"`
		Launcher []string `yaml:"launcher,flow"`
		CloseKey string   `yaml:"close_key"`
	} `yaml:"ui"`
	Power struct {
		Method          string `yaml:"method"`
		CapabilitiesTTL string `yaml:"capabilities_ttl"`
	} `yaml:"power"`
	Suspend struct {
		Lock bool `yaml:"lock"`
	} `yaml:"suspend"`
	Lockscreen struct {
		CloseMenu bool `yaml:"close_menu"`
	} `yaml:"lockscreen"`
	Close struct {
		Command []string `yaml:"command,flow"`
	} `yaml:"close"`
	Commands map[string]any `yaml:"commands"`
	WM       struct {
		Override string `yaml:"override"`
	} `yaml:"wm"`
	Theme struct {
		File string `yaml:"file"`
	} `yaml:"theme"`
	Zeroconf struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"zeroconf"`
	Log struct {
		Level   string            `yaml:"level"`
		Levels  map[string]string `yaml:"levels,omitempty"`
		Journal bool              `yaml:"journal"`
	} `yaml:"log"`
}

// YAML renders the effective configuration in config file form.
func (c *Config) YAML() ([]byte, error) {
	var e effective

	if c.Api != nil {
		e.Bind = c.Api.Bind
		e.Api.Enabled = c.Api.Enabled
		e.Api.Port = c.Api.Port
		e.Api.Listens = c.Api.Listens
		if c.Api.CORS != nil {
			e.Api.Cors.Origins = c.Api.CORS.Origins
		}
		if c.Api.UI != nil {
			e.UI.Enabled = c.Api.UI.Enabled
			e.UI.Launcher = c.Api.UI.Launcher
			e.UI.CloseKey = c.Api.UI.CloseKey
		}
	}

	if c.Power != nil {
		e.Power.Method = c.Power.Method
		e.Power.CapabilitiesTTL = c.Power.CapabilitiesTTL.String()
		e.Suspend.Lock = c.Power.SuspendLock
		e.Lockscreen.CloseMenu = c.Power.LockCloseMenu
		e.Close.Command = c.Power.CloseCommand
	}

	e.Commands = map[string]any{}
	if c.Commands != nil {
		e.Commands["timeout"] = c.Commands.Timeout.String()
		for action, kinds := range c.Commands.Overrides {
			e.Commands[action] = kinds
		}
	}

	if c.WM != nil {
		e.WM.Override = c.WM.Override
	}
	if c.Theme != nil {
		e.Theme.File = c.Theme.File
	}
	if c.Zeroconf != nil {
		e.Zeroconf.Enabled = c.Zeroconf.Enabled
	}
	if c.Log != nil {
		e.Log.Level = levelStrings[c.Log.Level]
		e.Log.Journal = c.Log.Journal
		if len(c.Log.Levels) > 0 {
			e.Log.Levels = make(map[string]string, len(c.Log.Levels))
			for component, level := range c.Log.Levels {
				e.Log.Levels[component] = strings.ToLower(levelStrings[level])
			}
		}
	}

	return yaml.Marshal(&e)
}
