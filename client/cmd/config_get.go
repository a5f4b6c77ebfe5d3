/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/openconfig/gnmi/proto/gnmi"
	"github.com/spf13/cobra"

	"github.com/iptecharch/cliconf-server/utils"
)

var source string
var noCache bool

// configGetCmd represents the config get command
var configGetCmd = &cobra.Command{
	Use:          "get",
	Short:        "get a device configuration",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if device == "" {
			return errors.New("a device name must be specified with --device")
		}
		req := &gnmi.GetRequest{
			Prefix:   utils.TargetPrefix(device),
			Path:     []*gnmi.Path{utils.Path(source)},
			Encoding: gnmi.Encoding_ASCII,
		}
		if noCache {
			ext, err := utils.JSONExtension(&utils.RequestOptions{NoCache: true})
			if err != nil {
				return err
			}
			req.Extension = append(req.Extension, ext)
		}
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		t, err := createTarget(ctx)
		if err != nil {
			return err
		}
		defer t.Close()
		rsp, err := t.Get(ctx, req)
		if err != nil {
			return err
		}
		if format != "" {
			return printMsg(rsp)
		}
		for _, n := range rsp.GetNotification() {
			for _, upd := range n.GetUpdate() {
				fmt.Println(upd.GetVal().GetAsciiVal())
			}
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configGetCmd.Flags().StringVarP(&source, "source", "", "running", "config source, 'running' or 'startup'")
	configGetCmd.Flags().BoolVarP(&noCache, "no-cache", "", false, "bypass the server side config cache")
}
