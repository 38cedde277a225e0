// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package player

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/fieldcanvas/field"
)

// MaxPointSize is the largest particle footprint in pixels.
const MaxPointSize = 8

// ErrInvalidParams is wrapped by every Params validation error.
var ErrInvalidParams = errors.New("player: invalid params")

// Params holds the tunable state of a player.
type Params struct {
	Animation field.Animation
	Color     ColorType
	// Count is the requested number of particles. The actual count follows
	// the particle grid and may be slightly larger.
	Count int
	// Lifetime is the particle life in 60 Hz steps. 1 or less selects inflow.
	Lifetime float64
	// PointSize is the particle footprint edge in pixels.
	PointSize int
	// Viscosity is the fluid viscosity in [0, 1]. Ignored by field players.
	Viscosity float64
	// FadeOut multiplies trail opacity once per 60 Hz step.
	FadeOut float64
	// ShowField paints the velocity magnitude under the particles.
	ShowField bool
}

// DefaultParams returns the parameters of a fresh canvas.
func DefaultParams() Params {
	return Params{
		Animation: field.AnimationPoiseuille,
		Color:     ColorSpeed,
		Count:     30000,
		Lifetime:  120,
		PointSize: 1,
		Viscosity: 0.02,
		FadeOut:   0.96,
	}
}

// Validate checks every field range.
func (p Params) Validate() error {
	switch {
	case p.Animation > field.AnimationCustom:
		return fmt.Errorf("%w: animation %d", ErrInvalidParams, p.Animation)
	case p.Color > ColorSpeed:
		return fmt.Errorf("%w: particle color %d", ErrInvalidParams, p.Color)
	case p.Count < 1 || p.Count > field.MaxParticles:
		return fmt.Errorf("%w: particles count %d not in [1, %d]", ErrInvalidParams, p.Count, field.MaxParticles)
	case math.IsNaN(p.Lifetime) || p.Lifetime < 0:
		return fmt.Errorf("%w: particle lifetime %v", ErrInvalidParams, p.Lifetime)
	case p.PointSize < 1 || p.PointSize > MaxPointSize:
		return fmt.Errorf("%w: point size %d not in [1, %d]", ErrInvalidParams, p.PointSize, MaxPointSize)
	case math.IsNaN(p.Viscosity) || p.Viscosity < 0 || p.Viscosity > 1:
		return fmt.Errorf("%w: fluid viscosity %v not in [0, 1]", ErrInvalidParams, p.Viscosity)
	case math.IsNaN(p.FadeOut) || p.FadeOut < 0 || p.FadeOut > 1:
		return fmt.Errorf("%w: fade out factor %v not in [0, 1]", ErrInvalidParams, p.FadeOut)
	}
	return nil
}

// FieldType returns the field type that runs p.Animation.
func (p Params) FieldType() FieldType {
	if p.Animation.IsFluid() {
		return FieldTypeFluid
	}
	return FieldTypeField
}
