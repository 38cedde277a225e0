// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fieldcanvas

import (
	"log/slog"
	"math/rand/v2"

	"github.com/benbjohnson/clock"
	"github.com/gogpu/fieldcanvas/layer"
	"github.com/gogpu/fieldcanvas/shader"
	"github.com/gogpu/gpucontext"
)

// Option configures a Canvas during creation.
//
// Example:
//
//	// Offscreen canvas with a fake clock
//	c, err := fieldcanvas.New(desc,
//	    fieldcanvas.WithLayerBackend("image"),
//	    fieldcanvas.WithClock(clock.NewMock()))
type Option func(*options)

type options struct {
	layer       layer.Layer
	backend     string
	clock       clock.Clock
	logger      *slog.Logger
	settings    *Settings
	watch       bool
	provider    gpucontext.DeviceProvider
	present     layer.Presenter
	keepScratch bool
	width       int
	height      int
	rng         *rand.Rand
	compile     shader.Compiler
}

// defaultOptions returns the default canvas options.
func defaultOptions() options {
	return options{
		clock:  clock.New(),
		width:  800,
		height: 600,
	}
}

// WithLayer uses l instead of binding the descriptor's layer through the
// registry. The canvas closes l on Close.
func WithLayer(l layer.Layer) Option {
	return func(o *options) {
		o.layer = l
	}
}

// WithLayerBackend binds the descriptor's layer with a named backend
// instead of the best available one.
func WithLayerBackend(name string) Option {
	return func(o *options) {
		o.backend = name
	}
}

// WithClock sets the clock used for frame pacing.
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithLogger sets a logger for this canvas. The package logger is used
// otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithSettings starts the canvas with s instead of reading settings.toml.
func WithSettings(s Settings) Option {
	return func(o *options) {
		o.settings = &s
	}
}

// WithSettingsWatch reloads settings.toml whenever it changes. Reloads are
// applied at the start of the next frame.
func WithSettingsWatch() Option {
	return func(o *options) {
		o.watch = true
	}
}

// WithDeviceProvider supplies the host's GPU device. It is passed to layer
// backends and, when it exposes a HAL device, used to create shader modules.
func WithDeviceProvider(p gpucontext.DeviceProvider) Option {
	return func(o *options) {
		o.provider = p
	}
}

// WithPresenter hands finished frames to the host when the canvas binds a
// gpucontext layer from WithDeviceProvider. A device provider without a
// presenter fails New with layer.ErrInvalidOptions.
func WithPresenter(p layer.Presenter) Option {
	return func(o *options) {
		o.present = p
	}
}

// WithKeepScratch keeps the session directory after Close.
func WithKeepScratch() Option {
	return func(o *options) {
		o.keepScratch = true
	}
}

// WithDefaultSize sets the size used by layers that cannot report one.
// Non-positive sizes are ignored.
func WithDefaultSize(width, height int) Option {
	return func(o *options) {
		if width > 0 && height > 0 {
			o.width, o.height = width, height
		}
	}
}

// WithRand seeds particle placement, for reproducible frames.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		o.rng = r
	}
}

// WithShaderCompiler replaces the naga WGSL compiler used to fill the
// shader cache.
func WithShaderCompiler(compile shader.Compiler) Option {
	return func(o *options) {
		o.compile = compile
	}
}
