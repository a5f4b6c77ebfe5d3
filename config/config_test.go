package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testConfig = `
grpc-server:
  address: ":57400"
devices:
  - name: r1
    network-os: ios
    sbi:
      type: ssh
      address: 192.0.2.10
      credentials:
        username: admin
        password: admin
  - name: r2
    network-os: vyos
    sbi:
      type: telnet
      address: 192.0.2.11
      port: 2023
    sync:
      interval: 30s
`

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(file, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return file
}

func TestNew(t *testing.T) {
	cfg, err := New(writeConfig(t, testConfig))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if cfg.GRPCServer.Address != ":57400" {
		t.Errorf("grpc address = %q, want %q", cfg.GRPCServer.Address, ":57400")
	}
	if cfg.GRPCServer.MaxRecvMsgSize != defaultMaxRecvMsgSize {
		t.Errorf("max-recv-msg-size = %d, want default %d", cfg.GRPCServer.MaxRecvMsgSize, defaultMaxRecvMsgSize)
	}
	if len(cfg.Devices) != 2 {
		t.Fatalf("got %d devices, want 2", len(cfg.Devices))
	}
	r1, r2 := cfg.Devices[0], cfg.Devices[1]
	if r1.SBI.Port != defaultSSHPort {
		t.Errorf("r1 port = %d, want default %d", r1.SBI.Port, defaultSSHPort)
	}
	if r1.SBI.Timeout != defaultTimeout {
		t.Errorf("r1 timeout = %v, want default %v", r1.SBI.Timeout, defaultTimeout)
	}
	if r2.SBI.Port != 2023 {
		t.Errorf("r2 port = %d, want 2023", r2.SBI.Port)
	}
	if r2.Sync.Interval != 30*time.Second {
		t.Errorf("r2 sync interval = %v, want 30s", r2.Sync.Interval)
	}
	if cfg.Cache.TTL != defaultCacheTTL {
		t.Errorf("cache ttl = %v, want default %v", cfg.Cache.TTL, defaultCacheTTL)
	}
}

func TestNewNoFile(t *testing.T) {
	cfg, err := New("")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if cfg.GRPCServer.Address != defaultGRPCAddress {
		t.Errorf("grpc address = %q, want default %q", cfg.GRPCServer.Address, defaultGRPCAddress)
	}
}

func TestValidateSetDefaults(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{
			name: "noop device needs no address",
			cfg: &Config{
				Devices: []*DeviceConfig{
					{Name: "r1", NetworkOS: "ios", SBI: &SBI{Type: "noop"}},
				},
			},
		},
		{
			name: "duplicate device name",
			cfg: &Config{
				Devices: []*DeviceConfig{
					{Name: "r1", NetworkOS: "ios", SBI: &SBI{Type: "noop"}},
					{Name: "r1", NetworkOS: "vyos", SBI: &SBI{Type: "noop"}},
				},
			},
			wantErr: true,
		},
		{
			name: "missing network os",
			cfg: &Config{
				Devices: []*DeviceConfig{
					{Name: "r1", SBI: &SBI{Type: "noop"}},
				},
			},
			wantErr: true,
		},
		{
			name: "missing sbi",
			cfg: &Config{
				Devices: []*DeviceConfig{
					{Name: "r1", NetworkOS: "ios"},
				},
			},
			wantErr: true,
		},
		{
			name: "unknown sbi type",
			cfg: &Config{
				Devices: []*DeviceConfig{
					{Name: "r1", NetworkOS: "ios", SBI: &SBI{Type: "serial", Address: "192.0.2.10"}},
				},
			},
			wantErr: true,
		},
		{
			name: "ssh without address",
			cfg: &Config{
				Devices: []*DeviceConfig{
					{Name: "r1", NetworkOS: "ios", SBI: &SBI{Type: "ssh"}},
				},
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.validateSetDefaults()
			if (err != nil) != tt.wantErr {
				t.Errorf("validateSetDefaults() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
