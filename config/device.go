package config

import (
	"errors"
	"fmt"
	"time"
)

const (
	sbiSSH    = "ssh"
	sbiTelnet = "telnet"
	sbiNOOP   = "noop"
)

type DeviceConfig struct {
	Name      string `yaml:"name,omitempty" json:"name,omitempty"`
	NetworkOS string `yaml:"network-os,omitempty" json:"network-os,omitempty"`
	SBI       *SBI   `yaml:"sbi,omitempty" json:"sbi,omitempty"`
	Sync      *Sync  `yaml:"sync,omitempty" json:"sync,omitempty"`
}

type SBI struct {
	// Southbound transport type, one of: ssh, telnet, noop
	Type    string `yaml:"type,omitempty" json:"type,omitempty"`
	Address string `yaml:"address,omitempty" json:"address,omitempty"`
	Port    uint32 `yaml:"port,omitempty" json:"port,omitempty"`
	// Device credentials
	Credentials *Creds `yaml:"credentials,omitempty" json:"credentials,omitempty"`
	// ConnectRetry
	ConnectRetry time.Duration `yaml:"connect-retry,omitempty" json:"connect-retry,omitempty"`
	// Timeout
	Timeout time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
}

type Creds struct {
	Username string `yaml:"username,omitempty" json:"username,omitempty"`
	Password string `yaml:"password,omitempty" json:"password,omitempty"`
	// Enable holds the privilege escalation secret, where the platform uses one.
	Enable string `yaml:"enable,omitempty" json:"enable,omitempty"`
}

type Sync struct {
	Interval time.Duration `yaml:"interval,omitempty" json:"interval,omitempty"`
}

type CacheConfig struct {
	TTL time.Duration `yaml:"ttl,omitempty" json:"ttl,omitempty"`
}

func (d *DeviceConfig) validateSetDefaults() error {
	if d.Name == "" {
		return errors.New("device name is required")
	}
	if d.NetworkOS == "" {
		return fmt.Errorf("device %q: network-os is required", d.Name)
	}
	if d.SBI == nil {
		return fmt.Errorf("device %q: sbi definition is required", d.Name)
	}
	if err := d.SBI.validateSetDefaults(); err != nil {
		return fmt.Errorf("device %q: %v", d.Name, err)
	}
	if d.Sync != nil && d.Sync.Interval <= 0 {
		d.Sync.Interval = defaultSyncInterval
	}
	return nil
}

func (s *SBI) validateSetDefaults() error {
	switch s.Type {
	case sbiNOOP:
	case sbiSSH:
		if s.Address == "" {
			return errors.New("missing SBI address")
		}
		if s.Port == 0 {
			s.Port = defaultSSHPort
		}
	case sbiTelnet:
		if s.Address == "" {
			return errors.New("missing SBI address")
		}
		if s.Port == 0 {
			s.Port = defaultTelnetPort
		}
	default:
		return fmt.Errorf("unknown sbi type: %q", s.Type)
	}

	if s.ConnectRetry < time.Second {
		s.ConnectRetry = time.Second
	}
	if s.Timeout <= 0 {
		s.Timeout = defaultTimeout
	}
	return nil
}

func (c *CacheConfig) setDefaults() {
	if c.TTL <= 0 {
		c.TTL = defaultCacheTTL
	}
}
