// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package shader holds the WGSL compute passes of the particle field and
// turns them into GPU shader modules.
//
// WGSL is compiled to SPIR-V with naga. Results are cached per source text
// in memory and on disk (xxhash keyed, snappy compressed), so a canvas
// created again in the same scratch directory skips the compiler. When the
// host provides a HAL device, [Build] creates one hal.ShaderModule per pass.
package shader
