// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"

	"github.com/gogpu/fieldcanvas"
	"github.com/spf13/cobra"
)

var renderFlags struct {
	settings  string
	animation string
	out       string
	width     int
	height    int
	frames    int
	every     int
	fps       int32
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render frames offscreen and save PNG snapshots",
	Long: `Render drives a canvas bound to the offscreen image layer. Every --every
frames, and after the last one, the frame is saved as PNG below
<out>/fieldcanvas/sessions/<session>/.`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

func init() {
	f := renderCmd.Flags()
	f.StringVarP(&renderFlags.settings, "settings", "s", "", "settings.toml to render with")
	f.StringVarP(&renderFlags.animation, "animation", "a", "", "override the animation")
	f.StringVarP(&renderFlags.out, "out", "o", "out", "scratch directory")
	f.IntVar(&renderFlags.width, "width", 800, "canvas width in pixels")
	f.IntVar(&renderFlags.height, "height", 600, "canvas height in pixels")
	f.IntVarP(&renderFlags.frames, "frames", "n", 120, "frames to render")
	f.IntVar(&renderFlags.every, "every", 0, "snapshot interval in frames, 0 for the last frame only")
	f.Int32Var(&renderFlags.fps, "fps", 0, "frame cap, 0 renders every call")
}

func runRender(cmd *cobra.Command, args []string) error {
	if renderFlags.frames < 1 {
		return errors.New("--frames must be positive")
	}
	s, err := loadSettings(renderFlags.settings, renderFlags.animation)
	if err != nil {
		return err
	}

	desc := fieldcanvas.Descriptor{
		View:               1,
		Layer:              1,
		MaximumFrames:      renderFlags.fps,
		TemporaryDirectory: renderFlags.out,
		Callback: func(code int32) {
			fieldcanvas.Logger().Debug("status", "code", fieldcanvas.Status(code).String())
		},
	}
	c, err := fieldcanvas.New(desc,
		fieldcanvas.WithLayerBackend("image"),
		fieldcanvas.WithDefaultSize(renderFlags.width, renderFlags.height),
		fieldcanvas.WithSettings(s),
		fieldcanvas.WithKeepScratch(),
	)
	if err != nil {
		return err
	}
	defer c.Close()

	for i := 1; i <= renderFlags.frames; i++ {
		if err := c.EnterFrame(); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		last := i == renderFlags.frames
		if !last && (renderFlags.every <= 0 || i%renderFlags.every != 0) {
			continue
		}
		path, err := c.Snapshot(fmt.Sprintf("frame-%05d", i))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	return c.Close()
}
