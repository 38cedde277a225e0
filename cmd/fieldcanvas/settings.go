// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"os"

	"github.com/gogpu/fieldcanvas"
	"github.com/gogpu/fieldcanvas/field"
	"github.com/gogpu/fieldcanvas/player"
	"github.com/spf13/cobra"
)

var settingsFlags struct {
	file      string
	animation string
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Print effective settings as TOML",
	Long: `Print the default settings, or the settings read from --file, as a
settings.toml document. Invalid files are reported and nothing is printed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(settingsFlags.file, settingsFlags.animation)
		if err != nil {
			return err
		}
		return s.Encode(os.Stdout)
	},
}

func init() {
	f := settingsCmd.Flags()
	f.StringVarP(&settingsFlags.file, "file", "f", "", "settings.toml to validate")
	f.StringVarP(&settingsFlags.animation, "animation", "a", "", "override the animation")
}

// loadSettings reads path (defaults when empty) and applies an animation
// override, switching the field type to match.
func loadSettings(path, animation string) (fieldcanvas.Settings, error) {
	s := fieldcanvas.DefaultSettings()
	if path != "" {
		var err error
		if s, err = fieldcanvas.LoadSettings(path); err != nil {
			return s, err
		}
	}
	if animation != "" {
		a, err := field.ParseAnimation(animation)
		if err != nil {
			return s, err
		}
		s.Animation = a
		s.FieldType = player.Params{Animation: a}.FieldType()
	}
	return s, s.Validate()
}
