// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package field

import (
	"errors"
	"fmt"
	"math"
)

// PixelDistance is the edge length, in canvas pixels, of one field cell.
const PixelDistance = 4

// maxCellSpeed bounds the magnitude of a single cell velocity. The Julia set
// iteration diverges for most of the plane and would otherwise produce Inf.
const maxCellSpeed = 24.0

// ErrNotFieldAnimation is returned when a fluid scenario is passed to New.
var ErrNotFieldAnimation = errors.New("field: animation is not a vector field")

// ErrInvalidSize is returned for non-positive canvas dimensions.
var ErrInvalidSize = errors.New("field: invalid size")

// Vec2 is a 2D vector in canvas pixel space (Y down).
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Angle returns the direction of v in radians, in (-π, π].
func (v Vec2) Angle() float64 { return math.Atan2(v.Y, v.X) }

// VelocitySource yields a velocity, in pixels per step, at a canvas position.
type VelocitySource interface {
	Velocity(p Vec2) Vec2
}

// Field is an analytic velocity field sampled on a coarse lattice.
type Field struct {
	anim       Animation
	cols, rows int
	space      Vec2
	cells      []Vec2
}

// New evaluates anim over a lattice covering a width x height canvas.
func New(width, height int, anim Animation) (*Field, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidSize, width, height)
	}
	if !anim.IsField() {
		return nil, fmt.Errorf("%w: %s", ErrNotFieldAnimation, anim)
	}

	f := &Field{
		anim:  anim,
		cols:  max(width/PixelDistance, 2),
		rows:  max(height/PixelDistance, 2),
		space: NormalizedSpace(width, height),
	}
	f.cells = make([]Vec2, f.cols*f.rows)

	fn := velocityFuncs[anim]
	for y := 0; y < f.rows; y++ {
		for x := 0; x < f.cols; x++ {
			f.cells[y*f.cols+x] = clampVelocity(fn(f, x, y))
		}
	}
	return f, nil
}

// NormalizedSpace returns the extent of the canvas in a space where the
// shorter side spans [-1, 1].
func NormalizedSpace(width, height int) Vec2 {
	if width >= height {
		return Vec2{X: float64(width) / float64(height), Y: 1}
	}
	return Vec2{X: 1, Y: float64(height) / float64(width)}
}

// Animation returns the animation the field was built from.
func (f *Field) Animation() Animation { return f.anim }

// Size returns the lattice dimensions.
func (f *Field) Size() (cols, rows int) { return f.cols, f.rows }

// Cell returns the velocity stored at lattice cell (x, y).
// Coordinates are clamped to the lattice.
func (f *Field) Cell(x, y int) Vec2 {
	x = min(max(x, 0), f.cols-1)
	y = min(max(y, 0), f.rows-1)
	return f.cells[y*f.cols+x]
}

// Velocity samples the field at a canvas position with bilinear filtering.
func (f *Field) Velocity(p Vec2) Vec2 {
	gx := p.X/PixelDistance - 0.5
	gy := p.Y/PixelDistance - 0.5
	x0 := int(math.Floor(gx))
	y0 := int(math.Floor(gy))
	tx := gx - float64(x0)
	ty := gy - float64(y0)

	a := f.Cell(x0, y0)
	b := f.Cell(x0+1, y0)
	c := f.Cell(x0, y0+1)
	d := f.Cell(x0+1, y0+1)

	top := a.Scale(1 - tx).Add(b.Scale(tx))
	bottom := c.Scale(1 - tx).Add(d.Scale(tx))
	return top.Scale(1 - ty).Add(bottom.Scale(ty))
}

type velocityFunc func(f *Field, x, y int) Vec2

var velocityFuncs = [...]velocityFunc{
	AnimationBasic:    basicVelocity,
	AnimationJuliaSet: juliaVelocity,
	AnimationSpiral:   spiralVelocity,
}

// centered maps a lattice cell into [-1, 1] on both axes.
func (f *Field) centered(x, y int) Vec2 {
	return Vec2{
		X: float64(x)/(float64(f.cols)/2) - 1,
		Y: float64(y)/(float64(f.rows)/2) - 1,
	}
}

func basicVelocity(f *Field, _, y int) Vec2 {
	ny := float64(y) - float64(f.rows)/2
	return Vec2{X: 0.1 * ny, Y: -0.2 * ny}.Scale(0.5)
}

func juliaVelocity(f *Field, x, y int) Vec2 {
	c := f.centered(x, y)
	c = Vec2{X: c.X * f.space.X, Y: c.Y * f.space.Y}
	z := Vec2{X: 0.4, Y: 0.5}
	for i := 0; i < 8; i++ {
		c = Vec2{X: c.X*c.X - c.Y*c.Y, Y: 2 * c.X * c.Y}.Add(z)
	}
	return c.Scale(4)
}

func spiralVelocity(f *Field, x, y int) Vec2 {
	c := f.centered(x, y)
	r := c.Len()
	if r == 0 {
		return Vec2{}
	}
	theta := math.Atan2(c.Y, c.X)
	v := Vec2{X: c.Y, Y: -c.X}.Scale(1 / r)
	t := math.Sqrt(r*10) + theta + 0.1
	v = v.Scale(math.Sin(t))
	v = v.Scale(v.Len() * 10)
	return v.Add(c.Scale(0.2))
}

func clampVelocity(v Vec2) Vec2 {
	if math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsInf(v.X, 0) || math.IsInf(v.Y, 0) {
		return Vec2{}
	}
	if l := v.Len(); l > maxCellSpeed {
		return v.Scale(maxCellSpeed / l)
	}
	return v
}
