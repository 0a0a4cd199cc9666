package zeroconf

import (
	"context"
	"net"
	"strings"
	"testing"

	"github.com/b0bbywan/go-powermenu/config"
)

func TestNew_Nil(t *testing.T) {
	backend, err := New(context.Background(), nil)
	if err != nil || backend != nil {
		t.Errorf("New(nil) = %v, %v; want nil, nil", backend, err)
	}
}

func TestNew_Disabled(t *testing.T) {
	cfg := &config.ZeroConfig{Enabled: false}
	backend, err := New(context.Background(), cfg)

	if err != nil {
		t.Errorf("New() with disabled config returned error: %v", err)
	}
	if backend != nil {
		t.Error("New() with disabled config should return nil backend")
	}
}

func TestNew_LoopbackOnly(t *testing.T) {
	cfg := &config.ZeroConfig{
		Enabled: true,
		Listen:  []net.Interface{},
	}
	backend, err := New(context.Background(), cfg)

	if err != nil {
		t.Errorf("New() with no interfaces returned error: %v", err)
	}
	if backend != nil {
		t.Error("New() with no interfaces should return nil backend")
	}
}

func TestNew_WildcardBind(t *testing.T) {
	cfg := &config.ZeroConfig{
		Enabled:       true,
		InstanceName:  "powermenu",
		AllInterfaces: true,
	}
	backend, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New() with a wildcard bind returned error: %v", err)
	}
	if backend == nil {
		t.Fatal("New() with a wildcard bind should advertise")
	}
	defer backend.Close()

	if ifaces := backend.interfaces(); ifaces != nil {
		t.Errorf("interfaces() = %v, want nil (all interfaces)", ifaces)
	}
}

func TestNew_WithInterfaces(t *testing.T) {
	ifaces, err := net.Interfaces()
	if err != nil || len(ifaces) == 0 {
		t.Skip("No network interfaces available for testing")
	}

	cfg := &config.ZeroConfig{
		Enabled:      true,
		InstanceName: "powermenu",
		ServiceType:  "_http._tcp",
		Domain:       "local.",
		Port:         8019,
		TxtRecords:   []string{"version=test", "path=/ui"},
		Listen:       []net.Interface{ifaces[0]},
	}

	backend, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New() with valid config returned error: %v", err)
	}
	if backend == nil {
		t.Fatal("New() with valid config should return non-nil backend")
	}
	if backend.Config != cfg {
		t.Error("backend.Config should match provided config")
	}
	if backend.cancel == nil {
		t.Error("backend.cancel should not be nil")
	}

	if name := backend.instanceName(); !strings.HasPrefix(name, "powermenu") {
		t.Errorf("instanceName() = %q, want powermenu prefix", name)
	}

	backend.Close()
	if backend.cancel != nil {
		t.Error("Close() should release the context")
	}
}

func TestRecords(t *testing.T) {
	z := &ZeroConfBackend{Config: &config.ZeroConfig{TxtRecords: []string{"version=test", "path=/ui"}}}
	if got := strings.Join(z.records(), " "); got != "version=test path=/ui" {
		t.Errorf("records() = %q", got)
	}

	z.SetActions([]string{"shutdown", "reboot"})
	want := "version=test path=/ui actions=shutdown,reboot"
	if got := strings.Join(z.records(), " "); got != want {
		t.Errorf("records() = %q, want %q", got, want)
	}
	if len(z.Config.TxtRecords) != 2 {
		t.Error("records() must not modify the configured TXT records")
	}
}

func TestClose_Idempotent(t *testing.T) {
	z := &ZeroConfBackend{}

	z.Close()
	z.Close()
	z.Close()
}
