package scrapligo

import (
	"context"
	"fmt"

	"github.com/scrapli/scrapligo/channel"
	"github.com/scrapli/scrapligo/driver/generic"
	"github.com/scrapli/scrapligo/driver/options"
	"github.com/scrapli/scrapligo/util"
	log "github.com/sirupsen/logrus"

	"github.com/iptecharch/cliconf-server/cliconf"
	"github.com/iptecharch/cliconf-server/config"
)

// scrapligo transport types behind the sbi ssh / telnet config values.
const (
	TransportSSH    = "standard"
	TransportTelnet = "telnet"
)

// Conn drives a device CLI through the scrapligo generic driver. One command
// is in flight at a time, the dialects never pipeline.
type Conn struct {
	name   string
	driver *generic.Driver
}

// New opens the connection to the device. When the credentials carry an
// enable secret the session is escalated right after open, so the dialects
// always talk to a privileged prompt.
func New(ctx context.Context, name string, cfg *config.SBI, transport string) (*Conn, error) {
	opts := []util.Option{
		options.WithTransportType(transport),
		options.WithAuthNoStrictKey(),
		options.WithPort(int(cfg.Port)),
		options.WithTimeoutOps(cfg.Timeout),
	}
	if cfg.Credentials != nil {
		opts = append(opts,
			options.WithAuthUsername(cfg.Credentials.Username),
			options.WithAuthPassword(cfg.Credentials.Password),
		)
	}

	d, err := generic.NewDriver(cfg.Address, opts...)
	if err != nil {
		return nil, err
	}
	if err := d.Open(); err != nil {
		return nil, err
	}
	log.Infof("target %s: connected to %s:%d", name, cfg.Address, cfg.Port)

	c := &Conn{
		name:   name,
		driver: d,
	}
	if cfg.Credentials != nil && cfg.Credentials.Enable != "" {
		if err := c.escalate(ctx, cfg.Credentials.Enable); err != nil {
			d.Close()
			return nil, fmt.Errorf("privilege escalation failed: %v", err)
		}
	}
	return c, nil
}

func (c *Conn) escalate(ctx context.Context, secret string) error {
	_, err := c.Send(ctx, &cliconf.Command{
		Input:  "enable",
		Prompt: "Password:",
		Answer: secret,
	})
	return err
}

// Send maps a dialect command onto the driver: plain commands collect a
// response, prompt/answer commands run interactively, send-only commands are
// written raw without waiting for output.
func (c *Conn) Send(ctx context.Context, cmd *cliconf.Command) (string, error) {
	if cmd == nil || cmd.Input == "" {
		return "", fmt.Errorf("no command to send")
	}
	// the driver is not context aware, honor cancellation between commands
	if err := ctx.Err(); err != nil {
		return "", err
	}
	log.Debugf("target %s: sending %q", c.name, cmd.Input)

	switch {
	case cmd.SendOnly:
		return "", c.driver.Channel.WriteAndReturn([]byte(cmd.Input), false)
	case cmd.Prompt != "":
		r, err := c.driver.SendInteractive([]*channel.SendInteractiveEvent{
			{
				ChannelInput:    cmd.Input,
				ChannelResponse: cmd.Prompt,
			},
			{
				ChannelInput: cmd.Answer,
				HideInput:    true,
			},
		})
		if err != nil {
			return "", err
		}
		if r.Failed != nil {
			return "", r.Failed
		}
		return r.Result, nil
	default:
		r, err := c.driver.SendCommand(cmd.Input)
		if err != nil {
			return "", err
		}
		if r.Failed != nil {
			return "", r.Failed
		}
		return r.Result, nil
	}
}

func (c *Conn) Close() error {
	log.Infof("target %s: closing connection", c.name)
	return c.driver.Close()
}
