/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/AlekSi/pointer"
	"github.com/openconfig/gnmi/proto/gnmi"
	"github.com/openconfig/gnmi/proto/gnmi_ext"
	"github.com/spf13/cobra"
	"google.golang.org/protobuf/encoding/prototext"

	"github.com/iptecharch/cliconf-server/utils"
)

var noCommit bool
var comment string
var replaceMode string
var fullLoad bool
var multilineDelimiter string

// configSetCmd represents the config set command
var configSetCmd = &cobra.Command{
	Use:          "set",
	Short:        "apply a candidate configuration to a device",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if device == "" {
			return errors.New("a device name must be specified with --device")
		}
		candidate, err := readCandidate()
		if err != nil {
			return err
		}
		opts := &utils.RequestOptions{
			Comment:            comment,
			Match:              match,
			Replace:            replaceMode,
			MultilineDelimiter: multilineDelimiter,
		}
		if noCommit {
			opts.Commit = pointer.ToBool(false)
		}
		ext, err := utils.JSONExtension(opts)
		if err != nil {
			return err
		}
		upd := &gnmi.Update{
			Path: utils.Path("running"),
			Val:  utils.AsciiVal(candidate),
		}
		req := &gnmi.SetRequest{
			Prefix:    utils.TargetPrefix(device),
			Extension: []*gnmi_ext.Extension{ext},
		}
		if fullLoad {
			req.Replace = append(req.Replace, upd)
		} else {
			req.Update = append(req.Update, upd)
		}
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		t, err := createTarget(ctx)
		if err != nil {
			return err
		}
		defer t.Close()
		fmt.Println("request:")
		fmt.Println(prototext.Format(req))
		rsp, err := t.Set(ctx, req)
		if err != nil {
			return err
		}
		fmt.Println("response:")
		if err := printMsg(rsp); err != nil {
			return err
		}
		return printEditResults(rsp.GetExtension())
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configSetCmd.Flags().StringVarP(&candidateFile, "file", "f", "", "candidate configuration file")
	configSetCmd.Flags().BoolVarP(&noCommit, "no-commit", "", false, "stage the change without committing it")
	configSetCmd.Flags().StringVarP(&comment, "comment", "", "", "commit comment, where the platform supports one")
	configSetCmd.Flags().StringVarP(&match, "match", "", "", "diff match mode, one of: line, strict, exact, none")
	configSetCmd.Flags().StringVarP(&replaceMode, "replace", "", "", "diff replace mode, one of: line, block")
	configSetCmd.Flags().BoolVarP(&fullLoad, "full-load", "", false, "load the full candidate without diffing it first")
	configSetCmd.Flags().StringVarP(&multilineDelimiter, "multiline-delimiter", "", "", "sentinel wrapping banner bodies, defaults to '@'")
}

// printEditResults renders the edit results carried in the response
// extensions.
func printEditResults(exts []*gnmi_ext.Extension) error {
	for _, ext := range exts {
		re := ext.GetRegisteredExt()
		if re.GetId() != gnmi_ext.ExtensionID_EID_EXPERIMENTAL {
			continue
		}
		buf := &bytes.Buffer{}
		if err := json.Indent(buf, re.GetMsg(), "", "  "); err != nil {
			return err
		}
		fmt.Println("edit result:")
		fmt.Println(buf.String())
	}
	return nil
}
