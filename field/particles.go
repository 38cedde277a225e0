// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package field

import (
	"math"
	"math/rand/v2"
)

// MaxParticles is the upper bound on particles in one System.
const MaxParticles = 205000

// fadeInStep is how much a particle's opacity grows per 60 Hz step.
const fadeInStep = 0.1

// Particle is a single trajectory particle.
type Particle struct {
	// Pos is the current position in canvas pixels.
	Pos Vec2
	// Initial is where the particle respawns.
	Initial Vec2
	// Life is the remaining life in 60 Hz steps. Unused in inflow mode.
	Life float64
	// Fade is the particle opacity, ramping from 0 after a respawn.
	Fade float64
	// Step is the displacement applied by the last update.
	Step Vec2
}

// GridSize lays count particles out on a grid with the canvas aspect ratio.
func GridSize(width, height, count int) (cols, rows int) {
	if width <= 0 || height <= 0 || count <= 0 {
		return 0, 0
	}
	count = min(count, MaxParticles)
	x := math.Ceil(math.Sqrt(float64(count) * float64(width) / float64(height)))
	cols = int(x)
	rows = int(math.Ceil(x * float64(height) / float64(width)))
	return max(cols, 1), max(rows, 1)
}

// System owns the particles of one canvas.
//
// A lifetime of 1 or less selects inflow mode: particles spawn near the
// left edge and live until they leave the canvas. Otherwise each particle
// starts with a random age and respawns at its initial position when its
// life runs out.
type System struct {
	width, height int
	cols, rows    int
	stepX, stepY  float64
	lifetime      float64
	rng           *rand.Rand
	particles     []Particle
}

// NewSystem creates and seeds a particle system.
func NewSystem(width, height, count int, lifetime float64, rng *rand.Rand) *System {
	cols, rows := GridSize(width, height, count)
	s := &System{
		width:    width,
		height:   height,
		cols:     cols,
		rows:     rows,
		lifetime: lifetime,
		rng:      rng,
	}
	if cols > 1 {
		s.stepX = float64(width) / float64(cols-1)
	} else {
		s.stepX = float64(width)
	}
	if rows > 1 {
		s.stepY = float64(height) / float64(rows-1)
	} else {
		s.stepY = float64(height)
	}
	s.Reset()
	return s
}

// Len returns the number of live particles.
func (s *System) Len() int { return len(s.particles) }

// Grid returns the particle grid dimensions.
func (s *System) Grid() (cols, rows int) { return s.cols, s.rows }

// Particles exposes the particle slice. Callers must not retain it across Reset.
func (s *System) Particles() []Particle { return s.particles }

// Inflow reports whether the system runs in inflow mode.
func (s *System) Inflow() bool { return s.lifetime <= 1 }

// Reset reseeds every particle.
func (s *System) Reset() {
	n := min(s.cols*s.rows, MaxParticles)
	if cap(s.particles) < n {
		s.particles = make([]Particle, 0, n)
	}
	s.particles = s.particles[:0]

	for x := 0; x < s.cols; x++ {
		px := s.stepX * float64(x)
		for y := 0; y < s.rows; y++ {
			if len(s.particles) == n {
				return
			}
			pos := Vec2{
				X: px + s.jitter(s.stepX),
				Y: s.stepY*float64(y) + s.jitter(s.stepY),
			}
			p := Particle{Pos: pos, Initial: pos}
			if s.Inflow() {
				p.Initial = Vec2{X: s.rng.Float64() * s.stepX, Y: pos.Y}
			} else {
				p.Life = s.rng.Float64() * s.lifetime
			}
			s.particles = append(s.particles, p)
		}
	}
}

// Step advances every particle through src.
//
// speed scales the sampled velocity and dt is the elapsed time in 60 Hz
// steps, so a 120 Hz host passes 0.5.
func (s *System) Step(src VelocitySource, speed, dt float64) {
	w, h := float64(s.width), float64(s.height)
	for i := range s.particles {
		p := &s.particles[i]
		d := src.Velocity(p.Pos).Scale(speed * dt)
		p.Pos = p.Pos.Add(d)
		p.Step = d

		dead := p.Pos.X < 0 || p.Pos.Y < 0 || p.Pos.X >= w || p.Pos.Y >= h ||
			math.IsNaN(p.Pos.X) || math.IsNaN(p.Pos.Y)
		if !s.Inflow() {
			p.Life -= dt
			dead = dead || p.Life <= 0
		}
		if dead {
			s.respawn(p)
			continue
		}
		p.Fade = math.Min(1, p.Fade+fadeInStep*dt)
	}
}

func (s *System) respawn(p *Particle) {
	p.Fade = 0
	p.Step = Vec2{}
	if s.Inflow() {
		p.Pos = Vec2{X: s.rng.Float64() * s.stepX, Y: p.Initial.Y}
		return
	}
	p.Pos = p.Initial
	p.Life = s.lifetime
}

// jitter returns a uniform value in [-step, step].
func (s *System) jitter(step float64) float64 {
	return (s.rng.Float64()*2 - 1) * step
}
