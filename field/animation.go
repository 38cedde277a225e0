// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package field

import (
	"errors"
	"fmt"
)

// ErrUnknownAnimation is returned when an animation name cannot be parsed.
var ErrUnknownAnimation = errors.New("field: unknown animation")

// Animation selects how the velocity field of a canvas is produced.
//
// The first three values are analytic vector fields evaluated by [New].
// The remaining values are fluid scenarios simulated by package lbm.
type Animation uint8

const (
	// AnimationBasic is a linear shear flow around the horizontal center line.
	AnimationBasic Animation = iota

	// AnimationJuliaSet iterates z² + c over the canvas.
	AnimationJuliaSet

	// AnimationSpiral is a rotating field whose magnitude oscillates with radius.
	AnimationSpiral

	// AnimationPoiseuille is channel flow past three obstacles.
	AnimationPoiseuille

	// AnimationLidDrivenCavity is a closed box driven by a moving top wall.
	AnimationLidDrivenCavity

	// AnimationCustom is a closed box that is only stirred by touch input.
	AnimationCustom
)

var animationNames = [...]string{
	AnimationBasic:           "basic",
	AnimationJuliaSet:        "julia_set",
	AnimationSpiral:          "spiral",
	AnimationPoiseuille:      "poiseuille",
	AnimationLidDrivenCavity: "lid_driven_cavity",
	AnimationCustom:          "custom",
}

// String returns the settings-file name of the animation.
func (a Animation) String() string {
	if int(a) < len(animationNames) {
		return animationNames[a]
	}
	return fmt.Sprintf("Animation(%d)", uint8(a))
}

// IsField reports whether a is an analytic vector field.
func (a Animation) IsField() bool {
	return a <= AnimationSpiral
}

// IsFluid reports whether a is a lattice-Boltzmann scenario.
func (a Animation) IsFluid() bool {
	return a >= AnimationPoiseuille && a <= AnimationCustom
}

// ParseAnimation converts a settings-file name into an Animation.
func ParseAnimation(s string) (Animation, error) {
	for i, name := range animationNames {
		if name == s {
			return Animation(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAnimation, s)
}

// MarshalText implements encoding.TextMarshaler.
func (a Animation) MarshalText() ([]byte, error) {
	if int(a) >= len(animationNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAnimation, uint8(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Animation) UnmarshalText(text []byte) error {
	v, err := ParseAnimation(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}
