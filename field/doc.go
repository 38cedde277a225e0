// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package field implements the CPU side of the particle field: analytic
// velocity fields, trajectory particles advected through any
// [VelocitySource], and the fading trail buffer they paint into.
//
// All positions are canvas pixels with the origin at the top-left corner.
// Time is measured in 60 Hz steps so that hosts running at other refresh
// rates produce the same motion.
package field
