// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package lbm is a small D2Q9 lattice-Boltzmann solver used as the velocity
// source for fluid particle animations.
//
// A [Lattice] covers the canvas with one cell per [PixelSize] pixels. Cells
// are bulk fluid, solid walls, obstacles, inlets that impose a velocity, or
// outlets that let the flow leave. User input adds obstacles ([Lattice.AddObstacle])
// or drags the fluid with short-lived inlets ([Lattice.AddExternalForce]).
package lbm
