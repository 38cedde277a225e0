// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package player

import (
	"errors"
	"fmt"

	"github.com/gogpu/fieldcanvas/field"
)

// FieldType selects the velocity source behind the particles.
type FieldType uint8

const (
	// FieldTypeField advects particles through an analytic vector field.
	FieldTypeField FieldType = iota
	// FieldTypeFluid advects particles through a lattice-Boltzmann fluid.
	FieldTypeFluid
)

var fieldTypeNames = [...]string{
	FieldTypeField: "field",
	FieldTypeFluid: "fluid",
}

// ErrUnknownFieldType is returned when parsing an unknown field type name.
var ErrUnknownFieldType = errors.New("player: unknown field type")

// String returns the field type name.
func (t FieldType) String() string {
	if int(t) < len(fieldTypeNames) {
		return fieldTypeNames[t]
	}
	return fmt.Sprintf("FieldType(%d)", uint8(t))
}

// ParseFieldType parses a field type name.
func ParseFieldType(s string) (FieldType, error) {
	for i, name := range fieldTypeNames {
		if name == s {
			return FieldType(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFieldType, s)
}

// MarshalText implements encoding.TextMarshaler.
func (t FieldType) MarshalText() ([]byte, error) {
	if int(t) >= len(fieldTypeNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFieldType, uint8(t))
	}
	return []byte(fieldTypeNames[t]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *FieldType) UnmarshalText(b []byte) error {
	v, err := ParseFieldType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Accepts reports whether anim can run under field type t.
func (t FieldType) Accepts(anim field.Animation) bool {
	switch t {
	case FieldTypeField:
		return anim.IsField()
	case FieldTypeFluid:
		return anim.IsFluid()
	default:
		return false
	}
}

// DefaultAnimation returns the animation a field type starts with.
func (t FieldType) DefaultAnimation() field.Animation {
	if t == FieldTypeFluid {
		return field.AnimationPoiseuille
	}
	return field.AnimationBasic
}

// ColorType selects how trail pixels are coloured.
type ColorType uint8

const (
	// ColorUniform paints every particle white.
	ColorUniform ColorType = iota
	// ColorMovementAngle maps the heading of a particle to a hue.
	ColorMovementAngle
	// ColorSpeed maps the speed of a particle to a cold-to-hot ramp.
	ColorSpeed
)

var colorTypeNames = [...]string{
	ColorUniform:       "uniform",
	ColorMovementAngle: "movement_angle",
	ColorSpeed:         "speed",
}

// ErrUnknownColorType is returned when parsing an unknown colour type name.
var ErrUnknownColorType = errors.New("player: unknown particle color type")

// String returns the colour type name.
func (c ColorType) String() string {
	if int(c) < len(colorTypeNames) {
		return colorTypeNames[c]
	}
	return fmt.Sprintf("ColorType(%d)", uint8(c))
}

// ParseColorType parses a colour type name.
func ParseColorType(s string) (ColorType, error) {
	for i, name := range colorTypeNames {
		if name == s {
			return ColorType(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownColorType, s)
}

// MarshalText implements encoding.TextMarshaler.
func (c ColorType) MarshalText() ([]byte, error) {
	if int(c) >= len(colorTypeNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownColorType, uint8(c))
	}
	return []byte(colorTypeNames[c]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *ColorType) UnmarshalText(b []byte) error {
	v, err := ParseColorType(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
