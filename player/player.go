// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package player

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/gogpu/fieldcanvas/field"
	"github.com/gogpu/gg"
)

// Player errors.
var (
	// ErrFieldTypeMismatch is returned by SetParams when the new animation
	// needs a different kind of player.
	ErrFieldTypeMismatch = errors.New("player: animation needs a different field type")

	// ErrTargetSize is returned by EnterFrame when the drawing context does
	// not match the player size.
	ErrTargetSize = errors.New("player: drawing context size mismatch")
)

// Player advances a particle animation and draws it into a gg context.
type Player interface {
	// EnterFrame advances the simulation by dt 60 Hz steps and renders the
	// result into dc, which must be Size() pixels large.
	EnterFrame(dc *gg.Context, dt float64) error

	// SetParams applies new parameters. Changing the animation within the
	// same field type rebuilds the velocity source.
	SetParams(p Params) error

	// Params returns the current parameters.
	Params() Params

	// Size returns the canvas size in pixels.
	Size() (width, height int)

	// Reset reseeds the particles and restores the velocity source.
	Reset()

	// Click handles a tap at canvas pixel (x, y).
	Click(x, y float64)

	// TouchBegin, TouchMove and TouchEnd handle a drag gesture.
	TouchBegin()
	TouchMove(x, y float64)
	TouchEnd()
}

// New creates the player matching p.Animation.
// A nil rng is replaced by a randomly seeded one.
func New(width, height int, p Params, rng *rand.Rand) (Player, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if p.FieldType() == FieldTypeFluid {
		return NewFluidPlayer(width, height, p, rng)
	}
	return NewFieldPlayer(width, height, p, rng)
}

// scene is the particle state shared by every player.
type scene struct {
	width, height int
	params        Params
	rng           *rand.Rand
	particles     *field.System
	trail         *field.Trail
	background    gg.RGBA
	speed         float64
	palette       *palette
	heat          heatmap
}

func newScene(width, height int, p Params, rng *rand.Rand, background gg.RGBA, speed float64) (*scene, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", field.ErrInvalidSize, width, height)
	}
	return &scene{
		width:      width,
		height:     height,
		params:     p,
		rng:        rng,
		particles:  field.NewSystem(width, height, p.Count, p.Lifetime, rng),
		trail:      field.NewTrail(width, height),
		background: background,
		speed:      speed,
		palette:    newPalette(p.Color),
	}, nil
}

// Params returns the current parameters.
func (s *scene) Params() Params { return s.params }

// Size returns the canvas size in pixels.
func (s *scene) Size() (width, height int) { return s.width, s.height }

// setParams applies the particle related parameters of p.
func (s *scene) setParams(p Params) {
	old := s.params
	s.params = p
	if p.Count != old.Count || p.Lifetime != old.Lifetime || p.Animation != old.Animation {
		s.particles = field.NewSystem(s.width, s.height, p.Count, p.Lifetime, s.rng)
		s.trail.Clear()
	}
	if p.Color != old.Color {
		s.palette = newPalette(p.Color)
	}
}

func (s *scene) reset() {
	s.particles.Reset()
	s.trail.Clear()
}

// fade decays the trail for dt steps.
func (s *scene) fade(dt float64) {
	s.trail.Fade(math.Pow(s.params.FadeOut, dt))
}

// move advects the particles through src and stamps their new positions.
func (s *scene) move(src field.VelocitySource, dt float64) {
	s.particles.Step(src, s.speed, dt)
	s.trail.StampAll(s.particles, s.params.PointSize)
}

// draw fills dc with the background, the optional heat map and the trails.
func (s *scene) draw(dc *gg.Context, heat heatSource) {
	pm := dc.ResizeTarget()
	pm.Clear(s.background)
	if s.params.ShowField && heat != nil {
		s.heat.paint(pm, heat)
	}
	s.composite(pm)
}

func (s *scene) checkTarget(dc *gg.Context) error {
	if dc == nil {
		return fmt.Errorf("%w: nil context", ErrTargetSize)
	}
	if dc.Width() != s.width || dc.Height() != s.height {
		return fmt.Errorf("%w: context %dx%d, player %dx%d",
			ErrTargetSize, dc.Width(), dc.Height(), s.width, s.height)
	}
	return nil
}

// normalizeDT maps invalid frame steps to zero.
func normalizeDT(dt float64) float64 {
	if math.IsNaN(dt) || dt < 0 || math.IsInf(dt, 0) {
		return 0
	}
	return dt
}
