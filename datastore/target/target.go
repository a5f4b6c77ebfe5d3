package target

import (
	"context"
	"fmt"

	"github.com/iptecharch/cliconf-server/cliconf"
	"github.com/iptecharch/cliconf-server/config"
	"github.com/iptecharch/cliconf-server/datastore/target/driver/scrapligo"
)

// New opens the southbound command channel for a device. The returned Conn
// is connected and, where the platform uses one, already privilege escalated.
func New(ctx context.Context, name string, cfg *config.SBI) (cliconf.Conn, error) {
	switch cfg.Type {
	case "ssh":
		return scrapligo.New(ctx, name, cfg, scrapligo.TransportSSH)
	case "telnet":
		return scrapligo.New(ctx, name, cfg, scrapligo.TransportTelnet)
	case "noop":
		return newNoopConn(name), nil
	}
	return nil, fmt.Errorf("unknown sbi type %q", cfg.Type)
}
