/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/openconfig/gnmi/proto/gnmi"
	"github.com/spf13/cobra"

	"github.com/iptecharch/cliconf-server/utils"
)

// capabilitiesCmd represents the capabilities command. Without a device it
// reports the server's capabilities, with one the device's dialect
// capabilities.
var capabilitiesCmd = &cobra.Command{
	Use:          "capabilities",
	Short:        "query server or device capabilities",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		t, err := createTarget(ctx)
		if err != nil {
			return err
		}
		defer t.Close()
		if device == "" {
			rsp, err := t.Capabilities(ctx)
			if err != nil {
				return err
			}
			return printMsg(rsp)
		}
		rsp, err := t.Get(ctx, &gnmi.GetRequest{
			Prefix: utils.TargetPrefix(device),
			Path:   []*gnmi.Path{utils.Path("capabilities")},
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
	rootCmd.AddCommand(capabilitiesCmd)
}

// printJSONUpdates renders the JSON payloads of a get response, indented.
func printJSONUpdates(rsp *gnmi.GetResponse) error {
	for _, n := range rsp.GetNotification() {
		for _, upd := range n.GetUpdate() {
			buf := &bytes.Buffer{}
			if err := json.Indent(buf, upd.GetVal().GetJsonVal(), "", "  "); err != nil {
				return err
			}
			fmt.Println(buf.String())
		}
	}
	return nil
}
