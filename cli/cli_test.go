package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b0bbywan/go-powermenu/logger"
)

// execute runs the root command with a config file holding content.
func execute(t *testing.T, content string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", path}, args...))
	err := cmd.Execute()
	return out.String(), err
}

const dwmConfig = `
wm:
  override: dwm
log:
  level: error
`

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "powermenu version 0.1.0")
	assert.Contains(t, out, runtime.Version())
}

func TestConfigCommand(t *testing.T) {
	out, err := execute(t, "api:\n  port: 9001\nui:\n  close_key: Super+C\n", "config")
	require.NoError(t, err)
	assert.Contains(t, out, "port: 9001")
	assert.Contains(t, out, "close_key: Super+C")
	assert.Contains(t, out, "method: systemctl")
}

func TestConfigCommandInvalidFile(t *testing.T) {
	_, err := execute(t, "api:\n  port: 0\n", "config")
	assert.Error(t, err)
}

func TestWMCommandOverride(t *testing.T) {
	out, err := execute(t, dwmConfig, "wm")
	require.NoError(t, err)
	assert.Equal(t, "dwm\tdwm\toverride\n", out)
}

func TestRunDryRunSystemAction(t *testing.T) {
	out, err := execute(t, dwmConfig, "run", "--dry-run", "restart")
	require.NoError(t, err)
	assert.Equal(t, "systemctl reboot\n", out)
}

func TestRunDryRunIgnoresLogin1(t *testing.T) {
	out, err := execute(t, "power:\n  method: login1\n", "run", "-n", "poweroff")
	require.NoError(t, err)
	assert.Equal(t, "systemctl poweroff\n", out)
}

func TestRunDryRunLockscreen(t *testing.T) {
	out, err := execute(t, dwmConfig, "run", "--dry-run", "lock")
	require.NoError(t, err)
	assert.Contains(t, out, "window manager: dwm (dwm via override)")
	assert.Contains(t, out, "betterlockscreen -l")
}

func TestRunDryRunSuspendLocksFirst(t *testing.T) {
	out, err := execute(t, dwmConfig, "run", "--dry-run", "suspend")
	require.NoError(t, err)
	assert.Contains(t, out, "betterlockscreen -l\nsystemctl suspend\n")
}

func TestRunUnknownAction(t *testing.T) {
	_, err := execute(t, dwmConfig, "run", "hibernate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hibernate")
}

func TestRunRequiresAction(t *testing.T) {
	_, err := execute(t, dwmConfig, "run")
	assert.Error(t, err)
}

func TestActionsCommands(t *testing.T) {
	content := dwmConfig + "commands:\n  logout:\n    dwm: [loginctl, terminate-session, self]\n"
	out, err := execute(t, content, "actions", "--commands")
	require.NoError(t, err)
	assert.Contains(t, out, "logout/dwm: loginctl terminate-session self")
	assert.Contains(t, out, "reboot/default: systemctl reboot")
}

func TestLoadConfigLogLevelOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: error\n"), 0o600))

	cfg, err := loadConfig(&Options{ConfigPath: path, LogLevel: "debug"})
	require.NoError(t, err)
	assert.Equal(t, logger.DEBUG, cfg.Log.Level)
}
