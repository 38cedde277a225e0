// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command fieldcanvas-desktop runs a canvas in a gogpu window.
//
// The window stands in for the iOS host: its GPU context backs a
// CanvasLayer, OnDraw plays the display link and Space pauses or resumes
// the animation.
//
//	fieldcanvas-desktop -animation lid_driven_cavity -fps 60
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"github.com/gogpu/fieldcanvas"
	"github.com/gogpu/fieldcanvas/field"
	"github.com/gogpu/fieldcanvas/layer"
	"github.com/gogpu/fieldcanvas/player"
	"github.com/gogpu/gg/integration/ggcanvas"
	"github.com/gogpu/gogpu"
	"github.com/gogpu/gpucontext"
)

func main() {
	var (
		width     = flag.Int("width", 1024, "window width")
		height    = flag.Int("height", 768, "window height")
		fps       = flag.Int("fps", 0, "frame cap, 0 follows the display")
		animation = flag.String("animation", "", "animation to start with")
		tmp       = flag.String("tmp", os.TempDir(), "scratch directory")
		watch     = flag.Bool("watch", true, "reload settings.toml on change")
		verbose   = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "fieldcanvas",
	})
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}
	fieldcanvas.SetLogger(slog.New(logger))

	app := gogpu.NewApp(gogpu.DefaultConfig().
		WithTitle("fieldcanvas").
		WithSize(*width, *height).
		WithContinuousRender(true))

	var (
		canvas *fieldcanvas.Canvas
		bound  *layer.CanvasLayer
		frame  *gogpu.Context
	)

	// present draws into the window of the frame being rendered.
	present := func(c *ggcanvas.Canvas) error {
		return c.RenderTo(frame.AsTextureDrawer())
	}

	app.OnDraw(func(dc *gogpu.Context) {
		w, h := dc.Width(), dc.Height()
		if w <= 0 || h <= 0 {
			return
		}
		frame = dc

		if canvas == nil {
			provider := app.GPUContextProvider()
			if provider == nil {
				return
			}
			var err error
			bound, err = layer.NewCanvasLayer(provider, w, h, present)
			if err != nil {
				logger.Fatal("bind window", "err", err)
			}
			canvas, err = newCanvas(bound, provider, *tmp, int32(*fps), *animation, *watch)
			if err != nil {
				logger.Fatal("create canvas", "err", err)
			}
		}

		bound.SetSize(w, h)
		if err := canvas.EnterFrame(); err != nil {
			logger.Debug("frame", "err", err)
		}
	})

	app.EventSource().OnKeyPress(func(key gpucontext.Key, _ gpucontext.Modifiers) {
		if key != gpucontext.KeySpace || canvas == nil {
			return
		}
		toggle := canvas.Pause
		if canvas.Paused() {
			toggle = canvas.Resume
		}
		if err := toggle(); err != nil {
			logger.Warn("toggle pause", "err", err)
		}
	})

	app.OnClose(func() {
		if canvas != nil {
			if err := canvas.Close(); err != nil {
				logger.Warn("close", "err", err)
			}
		}
	})

	if err := app.Run(); err != nil {
		logger.Fatal("run", "err", err)
	}
}

func newCanvas(l layer.Layer, provider gpucontext.DeviceProvider, tmp string, fps int32, animation string, watch bool) (*fieldcanvas.Canvas, error) {
	opts := []fieldcanvas.Option{
		fieldcanvas.WithLayer(l),
		fieldcanvas.WithDeviceProvider(provider),
	}
	if watch {
		opts = append(opts, fieldcanvas.WithSettingsWatch())
	}
	if animation != "" {
		a, err := field.ParseAnimation(animation)
		if err != nil {
			return nil, err
		}
		s := fieldcanvas.DefaultSettings()
		s.Animation = a
		s.FieldType = player.Params{Animation: a}.FieldType()
		opts = append(opts, fieldcanvas.WithSettings(s))
	}

	desc := fieldcanvas.Descriptor{
		MaximumFrames:      fps,
		TemporaryDirectory: tmp,
		Callback: func(code int32) {
			fieldcanvas.Logger().Info("status", "code", fieldcanvas.Status(code).String())
		},
	}
	return fieldcanvas.New(desc, opts...)
}
