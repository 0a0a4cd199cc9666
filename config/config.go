package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/b0bbywan/go-powermenu/logger"
)

const (
	AppName     = "powermenu"
	AppVersion  = "0.1.0"
	serviceType = "_http._tcp"
	domain      = "local."

	MethodSystemctl = "systemctl"
	MethodLogin1    = "login1"
)

type Config struct {
	Api      *ApiConfig
	Power    *PowerConfig
	Login1   *Login1Config
	Commands *CommandsConfig
	WM       *WMConfig
	Theme    *ThemeConfig
	Zeroconf *ZeroConfig
	Log      *LogConfig
}

type ApiConfig struct {
	Enabled bool
	Port    int
	Bind    string
	Listens []string
	CORS    *CORSConfig
	UI      *UIConfig
}

type CORSConfig struct {
	Origins []string
}

type UIConfig struct {
	Enabled  bool
	Launcher []string
	CloseKey string
}

type PowerConfig struct {
	Method          string
	CapabilitiesTTL time.Duration
	SuspendLock     bool
	LockCloseMenu   bool
	CloseCommand    []string
}

type Login1Config struct {
	Enabled bool
}

type CommandsConfig struct {
	Timeout time.Duration
	// Overrides maps action -> window manager kind (or "default") -> argv.
	Overrides map[string]map[string][]string
}

type WMConfig struct {
	Override string
}

type ThemeConfig struct {
	File string
}

type ZeroConfig struct {
	Enabled      bool
	InstanceName string
	ServiceType  string
	Domain       string
	Port         int
	TxtRecords   []string

	// Listen restricts the advertisement to these interfaces. It is empty
	// both for loopback binds and for wildcard binds; AllInterfaces tells them apart.
	Listen        []net.Interface
	AllInterfaces bool
}

type LogConfig struct {
	Level   logger.Level
	Levels  map[string]logger.Level
	Journal bool
}

// ParseLogLevel converts a string to a logger.Level. Unknown names map to WARN.
func ParseLogLevel(levelStr string) logger.Level {
	switch strings.ToUpper(strings.TrimSpace(levelStr)) {
	case "DEBUG":
		return logger.DEBUG
	case "INFO":
		return logger.INFO
	case "WARN":
		return logger.WARN
	case "ERROR":
		return logger.ERROR
	case "FATAL":
		return logger.FATAL
	default:
		return logger.WARN // default
	}
}

func interfaceForIP(ip string) (*net.Interface, error) {
	if ip == "127.0.0.1" || isWildcard(ip) {
		return nil, nil
	}
	listenIP := net.ParseIP(ip)
	if listenIP == nil {
		return nil, fmt.Errorf("invalid bind: %s", ip)
	}
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	for _, iface := range ifaces {
		addrs, _ := iface.Addrs()
		for _, addr := range addrs {
			var ifaceIP net.IP

			switch v := addr.(type) {
			case *net.IPNet:
				ifaceIP = v.IP
			case *net.IPAddr:
				ifaceIP = v.IP
			}

			if ifaceIP != nil && ifaceIP.Equal(listenIP) {
				return &iface, nil
			}
		}
	}

	return nil, fmt.Errorf("no interface found for IP %s", ip)
}

func isWildcard(bind string) bool {
	return bind == "0.0.0.0" || bind == "::"
}

// listenAddrs always includes loopback: the UI talks to the API over 127.0.0.1.
func listenAddrs(bind string, port int) []string {
	loopback := fmt.Sprintf("127.0.0.1:%d", port)
	if bind == "" || bind == "127.0.0.1" {
		return []string{loopback}
	}
	if isWildcard(bind) {
		return []string{fmt.Sprintf(":%d", port)}
	}
	return []string{loopback, net.JoinHostPort(bind, fmt.Sprint(port))}
}

func defaultThemeFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", AppName, "style.css")
}

// processName is the name killall matches for the running binary.
func processName(args []string) string {
	if len(args) == 0 || args[0] == "" {
		return AppName
	}
	return filepath.Base(args[0])
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("bind", "127.0.0.1")
	v.SetDefault("api.enabled", true)
	v.SetDefault("api.port", 8019)
	v.SetDefault("api.cors.origins", []string{})

	v.SetDefault("ui.enabled", true)
	v.SetDefault("ui.launcher", []string{})
	v.SetDefault("ui.close_key", "Escape")

	v.SetDefault("power.method", MethodSystemctl)
	v.SetDefault("power.capabilities_ttl", "30s")
	v.SetDefault("suspend.lock", true)
	v.SetDefault("lockscreen.close_menu", true)
	v.SetDefault("close.command", []string{"killall", processName(os.Args)})

	v.SetDefault("commands.timeout", "10s")

	v.SetDefault("wm.override", "")
	v.SetDefault("theme.file", defaultThemeFile())
	v.SetDefault("zeroconf.enabled", false)

	v.SetDefault("log.level", "WARN")
	v.SetDefault("log.levels", map[string]string{})
	v.SetDefault("log.journal", false)
}

// New reads the configuration from file (optional), environment and defaults.
// An explicit path overrides the /etc and ~/.config lookup.
func New(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")                       // name of config file (without extension)
		v.SetConfigType("yaml")                         // config file format
		v.AddConfigPath(filepath.Join("/etc", AppName)) // Global configuration path
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", AppName)) // User config path
		}
	}

	if err := v.ReadInConfig(); err != nil {
		_, isNotFound := err.(viper.ConfigFileNotFoundError)
		switch {
		case path != "":
			return nil, fmt.Errorf("read config %s: %w", path, err)
		case !isNotFound:
			// Config file is optional, continue with defaults
			logger.Warn("[config] failed to read config: %v", err)
		}
	} else {
		logger.Debug("[config] using %s", v.ConfigFileUsed())
	}

	return Load(v)
}

// Load builds a Config from an already populated viper instance.
func Load(v *viper.Viper) (*Config, error) {
	port := v.GetInt("api.port")
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid port: %d", port)
	}

	bind := v.GetString("bind")
	var interfaces []net.Interface
	inet, err := interfaceForIP(bind)
	if err == nil && inet != nil {
		interfaces = append(interfaces, *inet)
	}

	method := strings.ToLower(v.GetString("power.method"))
	switch method {
	case MethodSystemctl, MethodLogin1:
	default:
		return nil, fmt.Errorf("invalid power.method %q (want %s or %s)", method, MethodSystemctl, MethodLogin1)
	}

	capsTTL := v.GetDuration("power.capabilities_ttl")
	if capsTTL < 0 {
		capsTTL = 0
	}

	timeout := v.GetDuration("commands.timeout")
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	var cors *CORSConfig
	if origins := v.GetStringSlice("api.cors.origins"); len(origins) > 0 {
		cors = &CORSConfig{Origins: origins}
	}

	apiCfg := ApiConfig{
		Enabled: v.GetBool("api.enabled"),
		Port:    port,
		Bind:    bind,
		Listens: listenAddrs(bind, port),
		CORS:    cors,
		UI: &UIConfig{
			Enabled:  v.GetBool("ui.enabled"),
			Launcher: v.GetStringSlice("ui.launcher"),
			CloseKey: v.GetString("ui.close_key"),
		},
	}

	powerCfg := PowerConfig{
		Method:          method,
		CapabilitiesTTL: capsTTL,
		SuspendLock:     v.GetBool("suspend.lock"),
		LockCloseMenu:   v.GetBool("lockscreen.close_menu"),
		CloseCommand:    v.GetStringSlice("close.command"),
	}

	cmdCfg := CommandsConfig{
		Timeout:   timeout,
		Overrides: commandOverrides(v),
	}

	zerocfg := ZeroConfig{
		Enabled:      v.GetBool("zeroconf.enabled"),
		InstanceName: AppName,
		ServiceType:  serviceType,
		Port:         port,
		Domain:       domain,
		TxtRecords:   []string{"version=" + AppVersion, "path=/ui"},
		Listen:       interfaces,

		AllInterfaces: isWildcard(bind),
	}

	logCfg := LogConfig{
		Level:   ParseLogLevel(v.GetString("log.level")),
		Levels:  map[string]logger.Level{},
		Journal: v.GetBool("log.journal"),
	}
	for component, level := range v.GetStringMapString("log.levels") {
		logCfg.Levels[component] = ParseLogLevel(level)
	}

	cfg := Config{
		Api:      &apiCfg,
		Power:    &powerCfg,
		Login1:   &Login1Config{Enabled: method == MethodLogin1},
		Commands: &cmdCfg,
		WM:       &WMConfig{Override: v.GetString("wm.override")},
		Theme:    &ThemeConfig{File: v.GetString("theme.file")},
		Zeroconf: &zerocfg,
		Log:      &logCfg,
	}

	return &cfg, nil
}

// commandOverrides reads commands.<action>.<kind> string lists.
// Action and kind names are validated by the power package.
func commandOverrides(v *viper.Viper) map[string]map[string][]string {
	out := map[string]map[string][]string{}
	for action, raw := range v.GetStringMap("commands") {
		if action == "timeout" {
			continue
		}
		kinds, ok := raw.(map[string]interface{})
		if !ok {
			logger.Warn("[config] commands.%s must be a map of window manager to command", action)
			continue
		}
		for kind := range kinds {
			argv := v.GetStringSlice("commands." + action + "." + kind)
			if len(argv) == 0 {
				continue
			}
			if out[action] == nil {
				out[action] = map[string][]string{}
			}
			out[action][kind] = argv
		}
	}
	return out
}
