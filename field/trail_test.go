// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package field

import (
	"math"
	"testing"
)

func TestTrailStamp(t *testing.T) {
	tr := NewTrail(10, 10)
	p := Particle{Pos: Vec2{X: 4.2, Y: 5.7}, Fade: 0.8, Step: Vec2{X: 3, Y: 4}}

	tr.Stamp(p, 1)

	a, s, ang := tr.At(4, 5)
	if math.Abs(float64(a)-0.8) > 1e-6 {
		t.Errorf("alpha = %v, want 0.8", a)
	}
	if s != 5 {
		t.Errorf("speed = %v, want 5", s)
	}
	if want := float32(math.Atan2(4, 3)); ang != want {
		t.Errorf("angle = %v, want %v", ang, want)
	}
	if a, _, _ := tr.At(5, 5); a != 0 {
		t.Errorf("neighbour alpha = %v, want 0 for point size 1", a)
	}
}

func TestTrailStampPointSize(t *testing.T) {
	tr := NewTrail(10, 10)
	tr.Stamp(Particle{Pos: Vec2{X: 5, Y: 5}, Fade: 1}, 3)

	count := 0
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if a, _, _ := tr.At(x, y); a > 0 {
				count++
			}
		}
	}
	if count != 9 {
		t.Errorf("stamped pixels = %d, want 9", count)
	}
}

func TestTrailStampClipsAtEdges(t *testing.T) {
	tr := NewTrail(4, 4)
	tr.Stamp(Particle{Pos: Vec2{X: 0, Y: 0}, Fade: 1}, 4)
	tr.Stamp(Particle{Pos: Vec2{X: -20, Y: 50}, Fade: 1}, 2)

	if a, _, _ := tr.At(0, 0); a != 1 {
		t.Errorf("corner alpha = %v, want 1", a)
	}
}

func TestTrailFade(t *testing.T) {
	tr := NewTrail(2, 1)
	tr.Stamp(Particle{Pos: Vec2{X: 0, Y: 0}, Fade: 1}, 1)
	tr.Stamp(Particle{Pos: Vec2{X: 1, Y: 0}, Fade: 0.003}, 1)

	tr.Fade(0.5)

	if a, _, _ := tr.At(0, 0); a != 0.5 {
		t.Errorf("faded alpha = %v, want 0.5", a)
	}
	if a, _, _ := tr.At(1, 0); a != 0 {
		t.Errorf("faint alpha = %v, want cleared to 0", a)
	}
}

func TestTrailIgnoresInvisibleParticles(t *testing.T) {
	tr := NewTrail(4, 4)
	tr.Stamp(Particle{Pos: Vec2{X: 1, Y: 1}, Fade: 0}, 1)
	if a, _, _ := tr.At(1, 1); a != 0 {
		t.Errorf("alpha = %v, want 0 for a particle that has not faded in", a)
	}
}
