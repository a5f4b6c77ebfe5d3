package target

import (
	"context"
	"testing"
	"time"

	"github.com/iptecharch/cliconf-server/cliconf"
	"github.com/iptecharch/cliconf-server/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		sbi     *config.SBI
		wantErr bool
	}{
		{
			name: "noop",
			sbi:  &config.SBI{Type: "noop"},
		},
		{
			name:    "unknown type",
			sbi:     &config.SBI{Type: "carrier-pigeon"},
			wantErr: true,
		},
		{
			name:    "empty type",
			sbi:     &config.SBI{},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, err := New(context.TODO(), "dev1", tt.sbi)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			defer conn.Close()
			out, err := conn.Send(context.TODO(), &cliconf.Command{Input: "show running-config"})
			if err != nil {
				t.Fatalf("Send() error = %v", err)
			}
			if out != "" {
				t.Errorf("Send() = %q, want empty output from the noop conn", out)
			}
		})
	}
}

func TestNoopConnSend(t *testing.T) {
	conn := newNoopConn("dev1")

	if _, err := conn.Send(context.TODO(), nil); err == nil {
		t.Error("Send(nil) error = nil, want error")
	}
	if _, err := conn.Send(context.TODO(), &cliconf.Command{}); err == nil {
		t.Error("Send(empty) error = nil, want error")
	}

	ctx, cancel := context.WithTimeout(context.TODO(), time.Millisecond)
	defer cancel()
	<-ctx.Done()
	if _, err := conn.Send(ctx, &cliconf.Command{Input: "show version"}); err == nil {
		t.Error("Send() with expired context error = nil, want error")
	}
}
