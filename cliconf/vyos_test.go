package cliconf

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

const vyosShowVersion = `Version:      VyOS 1.1.8
Description:  VyOS 1.1.8 (helium)
Built by:     maintainers@vyos.net
Built on:     Sat Nov 11 13:44:36 UTC 2017
System type:  x86 64-bit
Boot via:     image
Hypervisor:   KVM
HW model:     Standard-PC-i440FX-PIIX-1996
HW S/N:       Unknown
`

func TestVyOSGetConfig(t *testing.T) {
	type args struct {
		req *GetConfigRequest
	}
	tests := []struct {
		name string
		args args
		want string
	}{
		{
			name: "default format",
			args: args{req: &GetConfigRequest{}},
			want: "show configuration commands",
		},
		{
			name: "set format",
			args: args{req: &GetConfigRequest{Format: "set"}},
			want: "show configuration commands",
		},
		{
			name: "text format",
			args: args{req: &GetConfigRequest{Format: "text"}},
			want: "show configuration",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := newFakeConn()
			conn.reply[tt.want] = "set system host-name r1"
			cc := newVyOS(conn)
			got, err := cc.GetConfig(context.TODO(), tt.args.req)
			if err != nil {
				t.Fatalf("GetConfig() error = %v", err)
			}
			if got != "set system host-name r1" {
				t.Errorf("GetConfig() = %q", got)
			}
			if !reflect.DeepEqual(conn.inputs(), []string{tt.want}) {
				t.Errorf("GetConfig() sent %v, want [%q]", conn.inputs(), tt.want)
			}
		})
	}
}

func TestVyOSGetDiff(t *testing.T) {
	type args struct {
		req *DiffRequest
	}
	tests := []struct {
		name    string
		args    args
		want    *DiffResponse
		wantErr bool
	}{
		{
			name: "set candidate against empty running",
			args: args{req: &DiffRequest{
				Candidate: "set system host-name r1",
			}},
			want: &DiffResponse{
				ConfigDiff: "set system host-name r1",
				Commands:   []string{"set system host-name r1"},
			},
		},
		{
			name: "quotes do not force a change",
			args: args{req: &DiffRequest{
				Candidate: "set system host-name 'r1'",
				Running:   "set system host-name r1",
			}},
			want: &DiffResponse{},
		},
		{
			name: "brace config rendered to set commands",
			args: args{req: &DiffRequest{
				Candidate: "interfaces {\n    ethernet eth0 {\n        address 192.0.2.1/24\n    }\n}",
			}},
			want: &DiffResponse{
				ConfigDiff: "set interfaces ethernet eth0 address 192.0.2.1/24",
				Commands:   []string{"set interfaces ethernet eth0 address 192.0.2.1/24"},
			},
		},
		{
			name: "match none returns candidate verbatim",
			args: args{req: &DiffRequest{
				Candidate: "set system ntp server 192.0.2.10\ndelete service telnet",
				Running:   "set system ntp server 192.0.2.10",
				Match:     "none",
			}},
			want: &DiffResponse{
				ConfigDiff: "set system ntp server 192.0.2.10\ndelete service telnet",
				Commands:   []string{"set system ntp server 192.0.2.10", "delete service telnet"},
			},
		},
		{
			name: "delete emitted once for multiple prefix matches",
			args: args{req: &DiffRequest{
				Candidate: "delete interfaces ethernet eth0",
				Running:   "set interfaces ethernet eth0 address '192.0.2.1/24'\nset interfaces ethernet eth0 description 'uplink'",
			}},
			want: &DiffResponse{
				ConfigDiff: "delete interfaces ethernet eth0",
				Commands:   []string{"delete interfaces ethernet eth0"},
			},
		},
		{
			name: "delete without running match suppressed",
			args: args{req: &DiffRequest{
				Candidate: "delete system ntp",
				Running:   "set system host-name r1",
			}},
			want: &DiffResponse{},
		},
		{
			name: "line must be set or delete",
			args: args{req: &DiffRequest{
				Candidate: "set system host-name r1\nupdate system ntp",
				Running:   "set system host-name r2",
			}},
			wantErr: true,
		},
		{
			name:    "missing candidate",
			args:    args{req: &DiffRequest{Running: "set system host-name r1"}},
			wantErr: true,
		},
		{
			name: "replace rejected",
			args: args{req: &DiffRequest{
				Candidate: "set system host-name r1",
				Replace:   "line",
			}},
			wantErr: true,
		},
		{
			name: "path rejected",
			args: args{req: &DiffRequest{
				Candidate: "set system host-name r1",
				Path:      []string{"interfaces"},
			}},
			wantErr: true,
		},
		{
			name: "ignore lines rejected",
			args: args{req: &DiffRequest{
				Candidate:   "set system host-name r1",
				IgnoreLines: []string{"^set system ntp"},
			}},
			wantErr: true,
		},
		{
			name: "strict match rejected",
			args: args{req: &DiffRequest{
				Candidate: "set system host-name r1",
				Match:     "strict",
			}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc := newVyOS(newFakeConn())
			got, err := cc.GetDiff(context.TODO(), tt.args.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GetDiff() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("GetDiff() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestVyOSEditConfig(t *testing.T) {
	tests := []struct {
		name        string
		commit      bool
		replace     bool
		comment     string
		compareOut  string
		fail        map[string]error
		noCandidate bool
		wantSent    []string
		want        *EditConfigResponse
		wantErr     bool
		errContains string
	}{
		{
			name:       "no pending changes",
			commit:     true,
			compareOut: "No changes between working and active configurations.\n",
			wantSent:   []string{"configure", "set system host-name r2", "compare", "exit"},
			want:       &EditConfigResponse{Response: []string{"staged"}},
		},
		{
			name:       "commit applies pending changes",
			commit:     true,
			compareOut: "+set system host-name 'r2'\n",
			wantSent:   []string{"configure", "set system host-name r2", "compare", "commit", "exit"},
			want: &EditConfigResponse{
				Diff:      "+set system host-name 'r2'\n",
				Response:  []string{"staged"},
				Committed: true,
			},
		},
		{
			name:       "commit comment",
			commit:     true,
			comment:    "weekly change",
			compareOut: "+set system host-name 'r2'\n",
			wantSent:   []string{"configure", "set system host-name r2", "compare", `commit comment "weekly change"`, "exit"},
			want: &EditConfigResponse{
				Diff:      "+set system host-name 'r2'\n",
				Response:  []string{"staged"},
				Committed: true,
			},
		},
		{
			name:        "failed commit discards once",
			commit:      true,
			compareOut:  "+set system host-name 'r2'\n",
			fail:        map[string]error{"commit": errors.New("out of memory")},
			wantSent:    []string{"configure", "set system host-name r2", "compare", "commit", "exit discard"},
			wantErr:     true,
			errContains: "commit failed: out of memory",
		},
		{
			name:       "failed discard after failed commit",
			commit:     true,
			compareOut: "+set system host-name 'r2'\n",
			fail: map[string]error{
				"commit":       errors.New("out of memory"),
				"exit discard": errors.New("session gone"),
			},
			wantSent:    []string{"configure", "set system host-name r2", "compare", "commit", "exit discard"},
			wantErr:     true,
			errContains: "discard after failed commit also failed: session gone",
		},
		{
			name:       "no commit discards pending changes",
			compareOut: "+set system host-name 'r2'\n",
			wantSent:   []string{"configure", "set system host-name r2", "compare", "exit discard"},
			want: &EditConfigResponse{
				Diff:     "+set system host-name 'r2'\n",
				Response: []string{"staged"},
			},
		},
		{
			name:     "replace not supported",
			commit:   true,
			replace:  true,
			wantSent: []string{},
			wantErr:  true,
		},
		{
			name:        "empty candidate",
			commit:      true,
			noCandidate: true,
			wantSent:    []string{},
			wantErr:     true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := newFakeConn()
			conn.reply["set system host-name r2"] = "staged"
			conn.reply["compare"] = tt.compareOut
			for in, err := range tt.fail {
				conn.fail[in] = err
			}
			cc := newVyOS(conn)
			req := &EditConfigRequest{
				Candidate: []*Command{{Input: "set system host-name r2"}},
				Commit:    tt.commit,
				Replace:   tt.replace,
				Comment:   tt.comment,
			}
			if tt.noCandidate {
				req.Candidate = nil
			}
			got, err := cc.EditConfig(context.TODO(), req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("EditConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("EditConfig() error = %v, want it to contain %q", err, tt.errContains)
			}
			if !reflect.DeepEqual(conn.inputs(), tt.wantSent) {
				t.Errorf("EditConfig() sent %v, want %v", conn.inputs(), tt.wantSent)
			}
			if tt.wantErr {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("EditConfig() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestVyOSEditBannerUnsupported(t *testing.T) {
	cc := newVyOS(newFakeConn())
	_, err := cc.EditBanner(context.TODO(), &EditBannerRequest{
		Candidate: map[string]string{"banner motd": "maintenance"},
		Commit:    true,
	})
	if err == nil {
		t.Fatal("EditBanner() expected error")
	}
}

func TestVyOSGetDeviceInfo(t *testing.T) {
	conn := newFakeConn()
	conn.reply["show version"] = vyosShowVersion
	conn.reply["show host name"] = "vyos-r1\n"
	cc := newVyOS(conn)
	info, err := cc.GetDeviceInfo(context.TODO())
	if err != nil {
		t.Fatalf("GetDeviceInfo() error = %v", err)
	}
	want := &DeviceInfo{
		NetworkOS: OSVyOS,
		Version:   "VyOS 1.1.8",
		Model:     "Standard-PC-i440FX-PIIX-1996",
		Hostname:  "vyos-r1",
	}
	if !reflect.DeepEqual(info, want) {
		t.Errorf("GetDeviceInfo() = %+v, want %+v", info, want)
	}
}

func TestVyOSGetCapabilities(t *testing.T) {
	conn := newFakeConn()
	conn.reply["show version"] = vyosShowVersion
	conn.reply["show host name"] = "vyos-r1\n"
	cc := newVyOS(conn)
	caps, err := cc.GetCapabilities(context.TODO())
	if err != nil {
		t.Fatalf("GetCapabilities() error = %v", err)
	}
	wantRPC := []string{"get_config", "edit_config", "get_capabilities", "get", "commit", "discard_changes", "get_diff"}
	if !reflect.DeepEqual(caps.RPC, wantRPC) {
		t.Errorf("GetCapabilities() rpc = %v, want %v", caps.RPC, wantRPC)
	}
	if !caps.DeviceOperations.SupportsCommit || caps.DeviceOperations.SupportsDiffReplace {
		t.Errorf("GetCapabilities() device_operations = %+v", caps.DeviceOperations)
	}
	if want := []string{"set", "text"}; !reflect.DeepEqual(caps.Format, want) {
		t.Errorf("GetCapabilities() format = %v, want %v", caps.Format, want)
	}
	if want := []string{"line", "none"}; !reflect.DeepEqual(caps.DiffMatch, want) {
		t.Errorf("GetCapabilities() diff_match = %v, want %v", caps.DiffMatch, want)
	}
	if len(caps.DiffReplace) != 0 {
		t.Errorf("GetCapabilities() diff_replace = %v, want empty", caps.DiffReplace)
	}
}
