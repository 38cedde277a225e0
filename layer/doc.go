// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package layer binds a rendering context to the host's compositing layer.
//
// A Layer hands out one Drawable per frame; the canvas renders into a
// gg.Context and presents it into that drawable. Backends register
// themselves by priority:
//
//   - metal (100, iOS only): a host-owned CAMetalLayer, written with
//     replaceRegion and presented with [drawable present]
//   - gpucontext (50): a gogpu window through ggcanvas, needs
//     Options.Provider and Options.Present
//   - image (10): an offscreen image that keeps the last frame
//
// New picks the highest priority backend that accepts the options.
package layer
