/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/AlekSi/pointer"
	homedir "github.com/mitchellh/go-homedir"
	gtarget "github.com/openconfig/gnmic/target"
	"github.com/openconfig/gnmic/types"
	"github.com/spf13/cobra"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"
)

var addr string
var device string
var format string
var timeout time.Duration

var tlsCA string
var tlsCert string
var tlsKey string
var skipVerify bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use: "cliconfctl",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&addr, "address", "a", "localhost:56000", "cliconf server address")
	rootCmd.PersistentFlags().StringVarP(&device, "device", "d", "", "device (gNMI target) name")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "", "", "print format, '', 'prototext' or 'json'")
	rootCmd.PersistentFlags().DurationVarP(&timeout, "timeout", "", 30*time.Second, "request timeout")
	rootCmd.PersistentFlags().StringVarP(&tlsCA, "tls-ca", "", "", "TLS CA certificate file")
	rootCmd.PersistentFlags().StringVarP(&tlsCert, "tls-cert", "", "", "TLS certificate file")
	rootCmd.PersistentFlags().StringVarP(&tlsKey, "tls-key", "", "", "TLS key file")
	rootCmd.PersistentFlags().BoolVarP(&skipVerify, "skip-verify", "", false, "skip TLS certificate verification")
}

// createTarget dials the cliconf server as a gNMI target.
func createTarget(ctx context.Context) (*gtarget.Target, error) {
	tc := &types.TargetConfig{
		Name:    addr,
		Address: addr,
		Timeout: timeout,
	}
	if tlsCA != "" || tlsCert != "" || tlsKey != "" || skipVerify {
		ca, err := homedir.Expand(tlsCA)
		if err != nil {
			return nil, err
		}
		cert, err := homedir.Expand(tlsCert)
		if err != nil {
			return nil, err
		}
		key, err := homedir.Expand(tlsKey)
		if err != nil {
			return nil, err
		}
		tc.TLSCA = &ca
		tc.TLSCert = &cert
		tc.TLSKey = &key
		tc.SkipVerify = pointer.ToBool(skipVerify)
	} else {
		tc.Insecure = pointer.ToBool(true)
	}
	t := gtarget.NewTarget(tc)
	err := t.CreateGNMIClient(ctx)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func printMsg(m proto.Message) error {
	switch format {
	case "json":
		b, err := protojson.MarshalOptions{Indent: "  "}.Marshal(m)
		if err != nil {
			return err
		}
		fmt.Println(string(b))
	default:
		fmt.Println(prototext.Format(m))
	}
	return nil
}
