package cliconf

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/iptecharch/cliconf-server/cliconf/netconfig"
)

const defaultMultilineDelimiter = "@"

// bannerSettleDelay lets the device drain one multi-line banner before the
// next one is pushed.
const bannerSettleDelay = 100 * time.Millisecond

var (
	iosVersionRE  = regexp.MustCompile(`Version (\S+)`)
	iosModelRE    = regexp.MustCompile(`(?m)^Cisco (.+) \(revision`)
	iosHostnameRE = regexp.MustCompile(`(?m)^(.+) uptime`)
)

// iosCliconf speaks the IOS style dialect: hierarchical indentation based
// configuration, no candidate store, banners delimited by ^C.
type iosCliconf struct {
	conn Conn
}

func newIOS(conn Conn) *iosCliconf {
	return &iosCliconf{conn: conn}
}

func (c *iosCliconf) GetConfig(ctx context.Context, req *GetConfigRequest) (string, error) {
	if req == nil {
		req = &GetConfigRequest{}
	}
	source := req.Source
	if source == "" {
		source = SourceRunning
	}
	var cmd string
	switch source {
	case SourceRunning:
		cmd = "show running-config"
	case SourceStartup:
		cmd = "show startup-config"
	default:
		return "", fmt.Errorf("fetching configuration from %q is not supported", req.Source)
	}
	if len(req.Filter) > 0 {
		cmd = strings.TrimSpace(cmd + " " + strings.Join(req.Filter, " "))
	}
	return c.conn.Send(ctx, &Command{Input: cmd})
}

func (c *iosCliconf) GetDiff(ctx context.Context, req *DiffRequest) (*DiffResponse, error) {
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
	replace := req.Replace
	if replace == "" {
		replace = netconfig.ReplaceLine
	}
	if !containsString(ov.DiffReplace, replace) {
		return nil, fmt.Errorf("invalid replace value %q, valid values are %s", replace, strings.Join(ov.DiffReplace, ", "))
	}

	wantSrc, wantBanners := netconfig.ExtractBanners(req.Candidate, netconfig.DefaultBannerDelimiter)
	candidateObj := netconfig.New(1)
	candidateObj.LoadString(wantSrc)

	var (
		diffObjs    []*netconfig.ConfigLine
		haveBanners map[string]string
	)
	if req.Running != "" && match != netconfig.MatchNone {
		haveSrc, hb := netconfig.ExtractBanners(req.Running, netconfig.DefaultBannerDelimiter)
		haveBanners = hb
		runningObj := netconfig.New(1)
		if err := runningObj.WithIgnoreLines(req.IgnoreLines); err != nil {
			return nil, err
		}
		runningObj.LoadString(haveSrc)
		var err error
		diffObjs, err = netconfig.Diff(candidateObj, runningObj, &netconfig.DiffOptions{
			Match:   match,
			Replace: replace,
			Path:    req.Path,
		})
		if err != nil {
			return nil, err
		}
	} else {
		diffObjs = candidateObj.Items()
	}

	resp := &DiffResponse{
		BannerDiff: netconfig.DiffBanners(wantBanners, haveBanners),
	}
	if len(diffObjs) > 0 {
		resp.ConfigDiff = netconfig.Dumps(diffObjs, netconfig.DumpCommands)
		resp.Commands = make([]string, 0, len(diffObjs))
		for _, obj := range diffObjs {
			resp.Commands = append(resp.Commands, obj.Text)
		}
	}
	return resp, nil
}

func (c *iosCliconf) EditConfig(ctx context.Context, req *EditConfigRequest) (*EditConfigResponse, error) {
	if req == nil || len(req.Candidate) == 0 {
		return nil, fmt.Errorf("must provide a candidate config to load")
	}
	if req.Replace && !c.GetDeviceOperations().SupportsReplace {
		return nil, fmt.Errorf("configuration replace is not supported on ios")
	}

	resp := &EditConfigResponse{Response: []string{}}
	if !req.Commit {
		// there is no candidate store on this platform, without commit
		// nothing is sent
		return resp, nil
	}

	if _, err := c.conn.Send(ctx, &Command{Input: "configure terminal"}); err != nil {
		return nil, err
	}
	for _, cmd := range req.Candidate {
		if cmd.Input == "end" || strings.HasPrefix(cmd.Input, "!") {
			continue
		}
		out, err := c.conn.Send(ctx, cmd)
		if err != nil {
			return nil, err
		}
		resp.Response = append(resp.Response, out)
	}
	if _, err := c.conn.Send(ctx, &Command{Input: "end"}); err != nil {
		return nil, err
	}
	resp.Committed = true
	return resp, nil
}

func (c *iosCliconf) EditBanner(ctx context.Context, req *EditBannerRequest) (*EditBannerResponse, error) {
	if req == nil || len(req.Candidate) == 0 {
		return nil, fmt.Errorf("must provide banners to load")
	}
	delimiter := req.MultilineDelimiter
	if delimiter == "" {
		delimiter = defaultMultilineDelimiter
	}

	keys := make([]string, 0, len(req.Candidate))
	for k := range req.Candidate {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	resp := &EditBannerResponse{Response: []string{}}
	if req.Commit {
		var results []string
		for _, key := range keys {
			inputs := []string{
				"config terminal",
				key + " " + delimiter,
				req.Candidate[key],
				delimiter,
				"end",
			}
			for _, in := range inputs {
				out, err := c.conn.Send(ctx, &Command{Input: in, SendOnly: true})
				if err != nil {
					return nil, err
				}
				results = append(results, out)
			}
			time.Sleep(bannerSettleDelay)
			out, err := c.conn.Send(ctx, &Command{Input: "\n"})
			if err != nil {
				return nil, err
			}
			results = append(results, out)
		}
		if len(results) > 2 {
			resp.Response = results[1 : len(results)-1]
		}
	}

	if req.Diff {
		b, err := json.Marshal(req.Candidate)
		if err != nil {
			return nil, err
		}
		resp.Diff = string(b)
	}
	return resp, nil
}

func (c *iosCliconf) Run(ctx context.Context, cmd *Command) (string, error) {
	if cmd == nil || cmd.Input == "" {
		return "", fmt.Errorf("must provide a command to execute")
	}
	return c.conn.Send(ctx, cmd)
}

func (c *iosCliconf) GetDeviceInfo(ctx context.Context) (*DeviceInfo, error) {
	out, err := c.Run(ctx, &Command{Input: "show version"})
	if err != nil {
		return nil, err
	}
	data := strings.TrimSpace(out)

	info := &DeviceInfo{NetworkOS: OSIOS}
	if m := iosVersionRE.FindStringSubmatch(data); m != nil {
		info.Version = strings.Trim(m[1], ",")
	}
	if m := iosModelRE.FindStringSubmatch(data); m != nil {
		info.Model = m[1]
	}
	if m := iosHostnameRE.FindStringSubmatch(data); m != nil {
		info.Hostname = m[1]
	}
	return info, nil
}

func (c *iosCliconf) GetDeviceOperations() *DeviceOperations {
	return &DeviceOperations{
		SupportsDiffReplace:     true,
		SupportsDefaults:        true,
		SupportsDiffMatch:       true,
		SupportsDiffIgnoreLines: true,
		SupportsGenerateDiff:    true,
	}
}

func (c *iosCliconf) GetOptionValues() *OptionValues {
	return &OptionValues{
		Format:      []string{"text"},
		DiffMatch:   []string{netconfig.MatchLine, netconfig.MatchStrict, netconfig.MatchExact, netconfig.MatchNone},
		DiffReplace: []string{netconfig.ReplaceLine, netconfig.ReplaceBlock},
	}
}

func (c *iosCliconf) GetCapabilities(ctx context.Context) (*Capabilities, error) {
	info, err := c.GetDeviceInfo(ctx)
	if err != nil {
		return nil, err
	}
	ov := c.GetOptionValues()
	return &Capabilities{
		RPC:              append(append([]string{}, baseRPCs...), "edit_banner", "get_diff"),
		NetworkAPI:       "cliconf",
		DeviceInfo:       info,
		DeviceOperations: c.GetDeviceOperations(),
		Format:           ov.Format,
		DiffMatch:        ov.DiffMatch,
		DiffReplace:      ov.DiffReplace,
	}, nil
}
