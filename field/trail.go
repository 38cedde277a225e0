// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package field

import "math"

// minAlpha is the opacity below which a trail pixel is cleared.
const minAlpha = 1.0 / 255

// Trail accumulates particle footprints that fade out over time.
// Each pixel keeps the opacity, speed and heading of the last particle
// that crossed it.
type Trail struct {
	width, height int
	alpha         []float32
	speed         []float32
	angle         []float32
}

// NewTrail allocates an empty trail buffer.
func NewTrail(width, height int) *Trail {
	n := max(width, 0) * max(height, 0)
	return &Trail{
		width:  width,
		height: height,
		alpha:  make([]float32, n),
		speed:  make([]float32, n),
		angle:  make([]float32, n),
	}
}

// Size returns the buffer dimensions.
func (t *Trail) Size() (width, height int) { return t.width, t.height }

// Clear erases every footprint.
func (t *Trail) Clear() {
	clear(t.alpha)
	clear(t.speed)
	clear(t.angle)
}

// Fade multiplies every opacity by factor.
func (t *Trail) Fade(factor float64) {
	f := float32(factor)
	for i, a := range t.alpha {
		if a == 0 {
			continue
		}
		a *= f
		if a < minAlpha {
			a = 0
		}
		t.alpha[i] = a
	}
}

// Stamp paints a size x size footprint for p.
func (t *Trail) Stamp(p Particle, size int) {
	if p.Fade <= 0 {
		return
	}
	size = max(size, 1)
	x0 := int(math.Floor(p.Pos.X)) - (size-1)/2
	y0 := int(math.Floor(p.Pos.Y)) - (size-1)/2
	speed := float32(p.Step.Len())
	angle := float32(p.Step.Angle())
	alpha := float32(p.Fade)

	for y := max(y0, 0); y < min(y0+size, t.height); y++ {
		row := y * t.width
		for x := max(x0, 0); x < min(x0+size, t.width); x++ {
			i := row + x
			if alpha >= t.alpha[i] {
				t.alpha[i] = alpha
			}
			t.speed[i] = speed
			t.angle[i] = angle
		}
	}
}

// StampAll stamps every particle of s.
func (t *Trail) StampAll(s *System, size int) {
	for _, p := range s.particles {
		t.Stamp(p, size)
	}
}

// At returns the footprint at pixel (x, y). Out-of-range pixels are empty.
func (t *Trail) At(x, y int) (alpha, speed, angle float32) {
	if x < 0 || y < 0 || x >= t.width || y >= t.height {
		return 0, 0, 0
	}
	i := y*t.width + x
	return t.alpha[i], t.speed[i], t.angle[i]
}

// Row returns the opacity, speed and heading slices of row y.
func (t *Trail) Row(y int) (alpha, speed, angle []float32) {
	start := y * t.width
	end := start + t.width
	return t.alpha[start:end], t.speed[start:end], t.angle[start:end]
}
