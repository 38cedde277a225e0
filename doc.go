// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package fieldcanvas is a frame-driven particle field renderer that a
// native host embeds through a small C ABI.
//
// The host lends its view and compositing layer in a [Descriptor], gets a
// [Canvas] from [New] and calls [Canvas.EnterFrame] once per display
// refresh. Each frame advects particles through an analytic vector field
// (package field) or a lattice-Boltzmann fluid (package lbm), draws their
// fading trails with gg and presents the result into the layer (package
// layer). Status changes reach the host through the descriptor's callback
// as [Status] codes.
//
// # Quick start
//
//	c, err := fieldcanvas.New(fieldcanvas.Descriptor{
//	    View:               view,
//	    Layer:              metalLayer,
//	    MaximumFrames:      60,
//	    TemporaryDirectory: tmp,
//	    Callback:           func(code int32) { log.Println(fieldcanvas.Status(code)) },
//	})
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//	for range displayLink {
//	    _ = c.EnterFrame()
//	}
//
// # Scratch directory
//
// Every file the canvas reads or writes lives below
// <TemporaryDirectory>/fieldcanvas: settings.toml, the compiled shader
// cache and one session directory per canvas for snapshots.
//
// # Logging
//
// The package is silent by default. [SetLogger] installs an slog.Logger
// that is shared with gg and the shader package.
//
// # C ABI
//
// cmd/libfieldcanvas builds a C archive exporting create_wgpu_canvas,
// enter_frame and release_wgpu_canvas over struct ios_obj.
package fieldcanvas
