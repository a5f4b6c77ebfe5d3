package cliconf

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/iptecharch/cliconf-server/cliconf/netconfig"
)

var (
	vyosVersionRE = regexp.MustCompile(`Version:\s*(.+)`)
	vyosModelRE   = regexp.MustCompile(`HW model:\s*(\S+)`)
)

// vyosCliconf speaks the VyOS style dialect: a real candidate datastore with
// commit / discard, curly-brace configuration rendered to set commands.
type vyosCliconf struct {
	conn Conn
}

func newVyOS(conn Conn) *vyosCliconf {
	return &vyosCliconf{conn: conn}
}

func (c *vyosCliconf) GetConfig(ctx context.Context, req *GetConfigRequest) (string, error) {
	if req == nil {
		req = &GetConfigRequest{}
	}
	cmd := "show configuration commands"
	if req.Format == "text" {
		cmd = "show configuration"
	}
	return c.conn.Send(ctx, &Command{Input: cmd})
}

func (c *vyosCliconf) GetDiff(ctx context.Context, req *DiffRequest) (*DiffResponse, error) {
	if req == nil || req.Candidate == "" {
		return nil, fmt.Errorf("candidate configuration is required to generate diff")
	}
	ov := c.GetOptionValues()
	match := req.Match
	if match == "" {
		match = netconfig.MatchLine
	}
	if !containsString(ov.DiffMatch, match) {
		return nil, fmt.Errorf("invalid match value %q, valid values are %s", match, strings.Join(ov.DiffMatch, ", "))
	}
	if req.Replace != "" {
		return nil, fmt.Errorf("diff replace is not supported on vyos")
	}
	if len(req.IgnoreLines) > 0 {
		return nil, fmt.Errorf("diff ignore lines is not supported on vyos")
	}
	if len(req.Path) > 0 {
		return nil, fmt.Errorf("diff path is not supported on vyos")
	}

	var candidateCommands []string
	if netconfig.SetFormat(req.Candidate) {
		candidateCommands = splitLines(strings.TrimSpace(req.Candidate))
	} else {
		obj := netconfig.New(4)
		obj.LoadString(req.Candidate)
		candidateCommands = netconfig.ToSetCommands(obj)
	}

	if match == netconfig.MatchNone {
		return &DiffResponse{
			ConfigDiff: strings.Join(candidateCommands, "\n"),
			Commands:   candidateCommands,
		}, nil
	}

	commands, err := netconfig.SetDiff(candidateCommands, splitLines(req.Running))
	if err != nil {
		return nil, err
	}
	resp := &DiffResponse{}
	if len(commands) > 0 {
		resp.ConfigDiff = strings.Join(commands, "\n")
		resp.Commands = commands
	}
	return resp, nil
}

// EditConfig stages the candidate in configure mode, then drives the
// candidate datastore: no pending changes exits cleanly, commit failures are
// compensated with a single discard, commit=false always discards.
func (c *vyosCliconf) EditConfig(ctx context.Context, req *EditConfigRequest) (*EditConfigResponse, error) {
	if req == nil || len(req.Candidate) == 0 {
		return nil, fmt.Errorf("must provide a candidate config to load")
	}
	if req.Replace {
		return nil, fmt.Errorf("configuration replace is not supported on vyos")
	}

	resp := &EditConfigResponse{Response: []string{}}
	if _, err := c.conn.Send(ctx, &Command{Input: "configure"}); err != nil {
		return nil, err
	}
	for _, cmd := range req.Candidate {
		out, err := c.conn.Send(ctx, cmd)
		if err != nil {
			return nil, err
		}
		resp.Response = append(resp.Response, out)
	}

	out, err := c.conn.Send(ctx, &Command{Input: "compare"})
	if err != nil {
		return nil, err
	}
	if strings.HasPrefix(out, "No changes") {
		if _, err := c.conn.Send(ctx, &Command{Input: "exit"}); err != nil {
			return nil, err
		}
		return resp, nil
	}
	resp.Diff = out

	if !req.Commit {
		if err := c.discardChanges(ctx); err != nil {
			return nil, err
		}
		return resp, nil
	}

	if err := c.commit(ctx, req.Comment); err != nil {
		commitErr := fmt.Errorf("commit failed: %v", err)
		if derr := c.discardChanges(ctx); derr != nil {
			return nil, fmt.Errorf("%v, discard after failed commit also failed: %v", commitErr, derr)
		}
		return nil, commitErr
	}
	if _, err := c.conn.Send(ctx, &Command{Input: "exit"}); err != nil {
		return nil, err
	}
	resp.Committed = true
	return resp, nil
}

func (c *vyosCliconf) commit(ctx context.Context, comment string) error {
	cmd := "commit"
	if comment != "" {
		cmd = fmt.Sprintf("commit comment %q", comment)
	}
	_, err := c.conn.Send(ctx, &Command{Input: cmd})
	return err
}

func (c *vyosCliconf) discardChanges(ctx context.Context) error {
	_, err := c.conn.Send(ctx, &Command{Input: "exit discard"})
	return err
}

func (c *vyosCliconf) EditBanner(ctx context.Context, req *EditBannerRequest) (*EditBannerResponse, error) {
	return nil, fmt.Errorf("edit_banner is not supported on vyos")
}

func (c *vyosCliconf) Run(ctx context.Context, cmd *Command) (string, error) {
	if cmd == nil || cmd.Input == "" {
		return "", fmt.Errorf("must provide a command to execute")
	}
	return c.conn.Send(ctx, cmd)
}

func (c *vyosCliconf) GetDeviceInfo(ctx context.Context) (*DeviceInfo, error) {
	out, err := c.Run(ctx, &Command{Input: "show version"})
	if err != nil {
		return nil, err
	}

	info := &DeviceInfo{NetworkOS: OSVyOS}
	if m := vyosVersionRE.FindStringSubmatch(out); m != nil {
		info.Version = strings.TrimSpace(m[1])
	}
	if m := vyosModelRE.FindStringSubmatch(out); m != nil {
		info.Model = m[1]
	}
	host, err := c.Run(ctx, &Command{Input: "show host name"})
	if err != nil {
		return nil, err
	}
	info.Hostname = strings.TrimSpace(host)
	return info, nil
}

func (c *vyosCliconf) GetDeviceOperations() *DeviceOperations {
	return &DeviceOperations{
		SupportsCommit:        true,
		SupportsRollback:      true,
		SupportsCommitComment: true,
		SupportsDiffMatch:     true,
		SupportsGenerateDiff:  true,
	}
}

func (c *vyosCliconf) GetOptionValues() *OptionValues {
	return &OptionValues{
		Format:      []string{"set", "text"},
		DiffMatch:   []string{netconfig.MatchLine, netconfig.MatchNone},
		DiffReplace: []string{},
	}
}

func (c *vyosCliconf) GetCapabilities(ctx context.Context) (*Capabilities, error) {
	info, err := c.GetDeviceInfo(ctx)
	if err != nil {
		return nil, err
	}
	ov := c.GetOptionValues()
	return &Capabilities{
		RPC:              append(append([]string{}, baseRPCs...), "commit", "discard_changes", "get_diff"),
		NetworkAPI:       "cliconf",
		DeviceInfo:       info,
		DeviceOperations: c.GetDeviceOperations(),
		Format:           ov.Format,
		DiffMatch:        ov.DiffMatch,
		DiffReplace:      ov.DiffReplace,
	}, nil
}

// splitLines splits device output into lines the way the diff engine expects:
// empty input yields no lines and a trailing newline does not produce a
// trailing empty element.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
