// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package player runs a particle animation and renders it into a
// [gg.Context].
//
// A [FieldPlayer] moves particles through an analytic vector field. A
// [FluidPlayer] moves them through a lattice-Boltzmann fluid that reacts to
// taps and drags. Both keep a trail buffer that fades every frame and draw
// into the context's pixmap directly; fluid obstacles are drawn with gg
// paths on top.
package player
