/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
)

var candidateFile string
var match string

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "read, diff and change device configurations",
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func readCandidate() (string, error) {
	if candidateFile == "" {
		return "", errors.New("a candidate file must be specified with --file")
	}
	fn, err := homedir.Expand(candidateFile)
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(fn)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
