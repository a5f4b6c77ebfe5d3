package cliconf

import (
	"context"
	"encoding/json"
	"testing"
)

// fakeConn scripts a device session: every command sent is recorded and
// answered with a canned reply, or failed when the input is listed in fail.
type fakeConn struct {
	sent   []*Command
	reply  map[string]string
	fail   map[string]error
	closed bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		reply: map[string]string{},
		fail:  map[string]error{},
	}
}

func (f *fakeConn) Send(_ context.Context, cmd *Command) (string, error) {
	f.sent = append(f.sent, cmd)
	if err, ok := f.fail[cmd.Input]; ok {
		return "", err
	}
	return f.reply[cmd.Input], nil
}

func (f *fakeConn) Close() error {
	f.closed = true
	return nil
}

func (f *fakeConn) inputs() []string {
	ins := make([]string, 0, len(f.sent))
	for _, cmd := range f.sent {
		ins = append(ins, cmd.Input)
	}
	return ins
}

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		networkOS string
		wantErr   bool
	}{
		{
			name:      "ios",
			networkOS: OSIOS,
		},
		{
			name:      "vyos",
			networkOS: OSVyOS,
		},
		{
			name:      "unknown network OS",
			networkOS: "junos",
			wantErr:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(tt.networkOS, newFakeConn())
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			switch tt.networkOS {
			case OSIOS:
				if _, ok := got.(*iosCliconf); !ok {
					t.Errorf("New() = %T, want *iosCliconf", got)
				}
			case OSVyOS:
				if _, ok := got.(*vyosCliconf); !ok {
					t.Errorf("New() = %T, want *vyosCliconf", got)
				}
			}
		})
	}
}

func TestRun(t *testing.T) {
	tests := []struct {
		name      string
		networkOS string
	}{
		{name: "ios", networkOS: OSIOS},
		{name: "vyos", networkOS: OSVyOS},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := newFakeConn()
			conn.reply["clear counters"] = "confirmed"
			cc, err := New(tt.networkOS, conn)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			out, err := cc.Run(context.TODO(), &Command{
				Input:  "clear counters",
				Prompt: `\[confirm\]`,
				Answer: "y",
			})
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if out != "confirmed" {
				t.Errorf("Run() = %q, want %q", out, "confirmed")
			}
			if len(conn.sent) != 1 || conn.sent[0].Prompt != `\[confirm\]` || conn.sent[0].Answer != "y" {
				t.Errorf("Run() sent %+v", conn.sent)
			}
			if _, err := cc.Run(context.TODO(), nil); err == nil {
				t.Error("Run() with empty command expected error")
			}
		})
	}
}

// callers key on the capability flag names, including the two that kept
// their historical spelling without the trailing "s".
func TestDeviceOperationsJSONKeys(t *testing.T) {
	b, err := json.Marshal(&DeviceOperations{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]bool
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	wantKeys := []string{
		"supports_diff_replace",
		"supports_commit",
		"supports_rollback",
		"supports_defaults",
		"supports_onbox_diff",
		"supports_commit_comment",
		"supports_multiline_delimiter",
		"support_diff_match",
		"support_diff_ignore_lines",
		"supports_generate_diff",
		"supports_replace",
	}
	if len(m) != len(wantKeys) {
		t.Errorf("got %d keys, want %d", len(m), len(wantKeys))
	}
	for _, key := range wantKeys {
		if _, ok := m[key]; !ok {
			t.Errorf("missing key %q in %s", key, b)
		}
	}
}
