package target

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/iptecharch/cliconf-server/cliconf"
)

// noopConn accepts every command and returns empty output. It stands in for
// a real device in tests and dry runs.
type noopConn struct {
	name string
}

func newNoopConn(name string) *noopConn {
	return &noopConn{name: name}
}

func (c *noopConn) Send(ctx context.Context, cmd *cliconf.Command) (string, error) {
	if cmd == nil || cmd.Input == "" {
		return "", fmt.Errorf("no command to send")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	log.Debugf("target %s: noop send %q", c.name, cmd.Input)
	return "", nil
}

func (c *noopConn) Close() error { return nil }
