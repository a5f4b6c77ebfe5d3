/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/openconfig/gnmi/proto/gnmi"
	"github.com/openconfig/gnmi/proto/gnmi_ext"
	gtarget "github.com/openconfig/gnmic/target"
	"github.com/spf13/cobra"

	"github.com/iptecharch/cliconf-server/cliconf"
	"github.com/iptecharch/cliconf-server/utils"
)

var diffPaths []string
var ignoreLines []string
var local bool

// configDiffCmd represents the config diff command
var configDiffCmd = &cobra.Command{
	Use:          "diff",
	Short:        "diff a candidate configuration against the running config",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if device == "" {
			return errors.New("a device name must be specified with --device")
		}
		candidate, err := readCandidate()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		t, err := createTarget(ctx)
		if err != nil {
			return err
		}
		defer t.Close()
		if local {
			return localDiff(ctx, t, candidate)
		}
		ext, err := utils.JSONExtension(&utils.RequestOptions{
			Candidate:   candidate,
			Match:       match,
			IgnoreLines: ignoreLines,
		})
		if err != nil {
			return err
		}
		pathElems := append([]string{"diff"}, diffPaths...)
		rsp, err := t.Get(ctx, &gnmi.GetRequest{
			Prefix:    utils.TargetPrefix(device),
			Path:      []*gnmi.Path{utils.Path(pathElems...)},
			Encoding:  gnmi.Encoding_ASCII,
			Extension: []*gnmi_ext.Extension{ext},
		})
		if err != nil {
			return err
		}
		if format != "" {
			return printMsg(rsp)
		}
		for _, n := range rsp.GetNotification() {
			for _, upd := range n.GetUpdate() {
				d := &cliconf.DiffResponse{}
				if err := json.Unmarshal(upd.GetVal().GetJsonVal(), d); err != nil {
					return err
				}
				printDiff(d)
			}
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configDiffCmd)
	configDiffCmd.Flags().StringVarP(&candidateFile, "file", "f", "", "candidate configuration file")
	configDiffCmd.Flags().StringVarP(&match, "match", "", "", "diff match mode, one of: line, strict, exact, none")
	configDiffCmd.Flags().StringArrayVarP(&diffPaths, "path", "", []string{}, "limit the diff to a config subtree")
	configDiffCmd.Flags().StringArrayVarP(&ignoreLines, "ignore-lines", "", []string{}, "running config lines to ignore, regular expressions")
	configDiffCmd.Flags().BoolVarP(&local, "local", "", false, "compute the diff client side against the fetched running config")
}

// localDiff runs the device's own diff engine on the client, using the server
// only to learn the network OS and fetch the running config.
func localDiff(ctx context.Context, t *gtarget.Target, candidate string) error {
	infoRsp, err := t.Get(ctx, &gnmi.GetRequest{
		Prefix: utils.TargetPrefix(device),
		Path:   []*gnmi.Path{utils.Path("device-info")},
	})
	if err != nil {
		return err
	}
	info := &cliconf.DeviceInfo{}
	for _, n := range infoRsp.GetNotification() {
		for _, upd := range n.GetUpdate() {
			if err := json.Unmarshal(upd.GetVal().GetJsonVal(), info); err != nil {
				return err
			}
		}
	}
	runRsp, err := t.Get(ctx, &gnmi.GetRequest{
		Prefix:   utils.TargetPrefix(device),
		Path:     []*gnmi.Path{utils.Path("running")},
		Encoding: gnmi.Encoding_ASCII,
	})
	if err != nil {
		return err
	}
	running := ""
	for _, n := range runRsp.GetNotification() {
		for _, upd := range n.GetUpdate() {
			running = upd.GetVal().GetAsciiVal()
		}
	}
	// the dialect never touches the connection when diffing
	dialect, err := cliconf.New(info.NetworkOS, nil)
	if err != nil {
		return err
	}
	d, err := dialect.GetDiff(ctx, &cliconf.DiffRequest{
		Candidate:   candidate,
		Running:     running,
		Match:       match,
		Path:        diffPaths,
		IgnoreLines: ignoreLines,
	})
	if err != nil {
		return err
	}
	printDiff(d)
	return nil
}

func printDiff(d *cliconf.DiffResponse) {
	if d.ConfigDiff != "" {
		fmt.Println(d.ConfigDiff)
	}
	keys := make([]string, 0, len(d.BannerDiff))
	for k := range d.BannerDiff {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%s:\n%s\n", k, d.BannerDiff[k])
	}
}
