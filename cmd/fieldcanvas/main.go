// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command fieldcanvas renders particle fields offscreen and inspects
// settings and shaders without a host application.
//
//	fieldcanvas render --animation spiral --frames 120 --every 30 --out ./frames
//	fieldcanvas settings > settings.toml
//	fieldcanvas shaders --animation julia_set --cache /tmp/shaders
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"github.com/gogpu/fieldcanvas"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:           "fieldcanvas",
	Short:         "Render and inspect fieldcanvas particle fields",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		l := log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "fieldcanvas",
		})
		l.SetLevel(log.InfoLevel)
		if verbose {
			l.SetLevel(log.DebugLevel)
		}
		fieldcanvas.SetLogger(slog.New(l))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.AddCommand(renderCmd, settingsCmd, shadersCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fieldcanvas: %v\n", err)
		os.Exit(1)
	}
}
