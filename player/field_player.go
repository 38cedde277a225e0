// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package player

import (
	"fmt"
	"math/rand/v2"

	"github.com/gogpu/fieldcanvas/field"
	"github.com/gogpu/gg"
)

// fieldSpeed scales analytic field velocities to pixels per step.
const fieldSpeed = 0.15

// FieldBackground is the clear colour of field animations.
var FieldBackground = gg.RGB(0.1, 0.15, 0.17)

// FieldPlayer moves particles through an analytic vector field.
type FieldPlayer struct {
	*scene
	field *field.Field
	heat  fieldHeat
}

// NewFieldPlayer creates a player for one of the field animations.
func NewFieldPlayer(width, height int, p Params, rng *rand.Rand) (*FieldPlayer, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if !FieldTypeField.Accepts(p.Animation) {
		return nil, fmt.Errorf("%w: %s is not a field animation", ErrFieldTypeMismatch, p.Animation)
	}
	f, err := field.New(width, height, p.Animation)
	if err != nil {
		return nil, err
	}
	s, err := newScene(width, height, p, rng, FieldBackground, fieldSpeed)
	if err != nil {
		return nil, err
	}
	fp := &FieldPlayer{scene: s, field: f}
	fp.heat = newFieldHeat(f)
	return fp, nil
}

// Field returns the current vector field.
func (fp *FieldPlayer) Field() *field.Field { return fp.field }

// EnterFrame implements Player.
func (fp *FieldPlayer) EnterFrame(dc *gg.Context, dt float64) error {
	if err := fp.checkTarget(dc); err != nil {
		return err
	}
	dt = normalizeDT(dt)
	fp.fade(dt)
	fp.move(fp.field, dt)
	fp.draw(dc, fp.heat)
	return nil
}

// SetParams implements Player.
func (fp *FieldPlayer) SetParams(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if !FieldTypeField.Accepts(p.Animation) {
		return fmt.Errorf("%w: %s is not a field animation", ErrFieldTypeMismatch, p.Animation)
	}
	if p.Animation != fp.params.Animation {
		f, err := field.New(fp.width, fp.height, p.Animation)
		if err != nil {
			return err
		}
		fp.field = f
		fp.heat = newFieldHeat(f)
	}
	fp.setParams(p)
	return nil
}

// Reset implements Player.
func (fp *FieldPlayer) Reset() { fp.reset() }

// Click implements Player. Vector fields ignore input.
func (fp *FieldPlayer) Click(x, y float64) {}

// TouchBegin implements Player.
func (fp *FieldPlayer) TouchBegin() {}

// TouchMove implements Player.
func (fp *FieldPlayer) TouchMove(x, y float64) {}

// TouchEnd implements Player.
func (fp *FieldPlayer) TouchEnd() {}

// fieldHeat exposes field cell speeds to the heat map.
type fieldHeat struct {
	f    *field.Field
	peak float64
}

func newFieldHeat(f *field.Field) fieldHeat {
	h := fieldHeat{f: f}
	cols, rows := f.Size()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			h.peak = max(h.peak, f.Cell(x, y).Len())
		}
	}
	return h
}

func (h fieldHeat) HeatSize() (cols, rows int) { return h.f.Size() }
func (h fieldHeat) HeatAt(x, y int) float64    { return h.f.Cell(x, y).Len() }
func (h fieldHeat) MaxHeat() float64           { return h.peak }
