/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"

	"github.com/openconfig/gnmi/proto/gnmi"
	"github.com/spf13/cobra"

	"github.com/iptecharch/cliconf-server/utils"
)

// deviceInfoCmd represents the device-info command
var deviceInfoCmd = &cobra.Command{
	Use:          "device-info",
	Short:        "query a device's OS, version, model and hostname",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if device == "" {
			return errors.New("a device name must be specified with --device")
		}
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		t, err := createTarget(ctx)
		if err != nil {
			return err
		}
		defer t.Close()
		rsp, err := t.Get(ctx, &gnmi.GetRequest{
			Prefix: utils.TargetPrefix(device),
			Path:   []*gnmi.Path{utils.Path("device-info")},
		})
		if err != nil {
			return err
		}
		if format != "" {
			return printMsg(rsp)
		}
		return printJSONUpdates(rsp)
	},
}

func init() {
	rootCmd.AddCommand(deviceInfoCmd)
}
