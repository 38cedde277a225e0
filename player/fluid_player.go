// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package player

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/gogpu/fieldcanvas/field"
	"github.com/gogpu/fieldcanvas/lbm"
	"github.com/gogpu/gg"
)

const (
	// fluidSpeed scales lattice velocities to pixels per step.
	fluidSpeed = 8.15
	// fluidSubsteps is the number of solver steps per 60 Hz frame.
	fluidSubsteps = 3
	// maxDragJump discards touch moves longer than this many pixels.
	maxDragJump = 300
)

// FluidBackground is the clear colour of fluid animations.
var FluidBackground = gg.RGB(0.2, 0.2, 0.25)

// FluidPlayer moves particles through a lattice-Boltzmann fluid.
// Taps add obstacles and drags push the fluid.
type FluidPlayer struct {
	*scene
	lattice *lbm.Lattice
	prev    field.Vec2
}

// NewFluidPlayer creates a player for one of the fluid scenarios.
func NewFluidPlayer(width, height int, p Params, rng *rand.Rand) (*FluidPlayer, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if !FieldTypeFluid.Accepts(p.Animation) {
		return nil, fmt.Errorf("%w: %s is not a fluid animation", ErrFieldTypeMismatch, p.Animation)
	}
	l, err := newLattice(width, height, p)
	if err != nil {
		return nil, err
	}
	s, err := newScene(width, height, p, rng, FluidBackground, fluidSpeed)
	if err != nil {
		return nil, err
	}
	return &FluidPlayer{scene: s, lattice: l}, nil
}

func newLattice(width, height int, p Params) (*lbm.Lattice, error) {
	return lbm.New(width/lbm.PixelSize, height/lbm.PixelSize, scenarioOf(p.Animation), p.Viscosity)
}

func scenarioOf(a field.Animation) lbm.Scenario {
	switch a {
	case field.AnimationLidDrivenCavity:
		return lbm.LidDrivenCavity
	case field.AnimationCustom:
		return lbm.Custom
	default:
		return lbm.Poiseuille
	}
}

// Lattice returns the fluid solver.
func (fp *FluidPlayer) Lattice() *lbm.Lattice { return fp.lattice }

// EnterFrame implements Player.
func (fp *FluidPlayer) EnterFrame(dc *gg.Context, dt float64) error {
	if err := fp.checkTarget(dc); err != nil {
		return err
	}
	dt = normalizeDT(dt)
	fp.fade(dt)
	if steps := int(math.Round(fluidSubsteps * dt)); dt > 0 {
		src := latticeSource{fp.lattice}
		for range max(steps, 1) {
			fp.lattice.Step()
			fp.move(src, 1)
		}
	}
	fp.draw(dc, latticeHeat{fp.lattice})
	return fp.drawObstacles(dc)
}

func (fp *FluidPlayer) drawObstacles(dc *gg.Context) error {
	obstacles := fp.lattice.Obstacles()
	if len(obstacles) == 0 {
		return nil
	}
	dc.SetLineWidth(1.5)
	for _, c := range obstacles {
		x, y, r := c.X*lbm.PixelSize, c.Y*lbm.PixelSize, c.R*lbm.PixelSize
		dc.DrawCircle(x, y, r)
		dc.SetRGBA(0.12, 0.12, 0.16, 1)
		if err := dc.FillPreserve(); err != nil {
			return err
		}
		dc.SetRGBA(0.85, 0.85, 0.9, 0.9)
		if err := dc.Stroke(); err != nil {
			return err
		}
	}
	return nil
}

// SetParams implements Player.
func (fp *FluidPlayer) SetParams(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if !FieldTypeFluid.Accepts(p.Animation) {
		return fmt.Errorf("%w: %s is not a fluid animation", ErrFieldTypeMismatch, p.Animation)
	}
	switch {
	case p.Animation != fp.params.Animation:
		l, err := newLattice(fp.width, fp.height, p)
		if err != nil {
			return err
		}
		fp.lattice = l
	case p.Viscosity != fp.params.Viscosity:
		if err := fp.lattice.SetViscosity(p.Viscosity); err != nil {
			return err
		}
	}
	fp.setParams(p)
	return nil
}

// Reset implements Player.
func (fp *FluidPlayer) Reset() {
	fp.lattice.Reset()
	fp.reset()
	fp.prev = field.Vec2{}
}

// Click implements Player by dropping an obstacle under the tap.
func (fp *FluidPlayer) Click(x, y float64) {
	if x <= 0 || y <= 0 {
		return
	}
	fp.lattice.AddObstacle(int(x)/lbm.PixelSize, int(y)/lbm.PixelSize)
}

// TouchBegin implements Player.
func (fp *FluidPlayer) TouchBegin() { fp.prev = field.Vec2{} }

// TouchMove implements Player by pushing the fluid along the drag.
func (fp *FluidPlayer) TouchMove(x, y float64) {
	pos := field.Vec2{X: x, Y: y}
	if x <= 0 || y <= 0 {
		fp.prev = field.Vec2{}
		return
	}
	if fp.prev == (field.Vec2{}) || pos.Sub(fp.prev).Len() > maxDragJump {
		fp.prev = pos
		return
	}
	fp.lattice.AddExternalForce(fp.prev.X, fp.prev.Y, pos.X, pos.Y)
	fp.prev = pos
}

// TouchEnd implements Player.
func (fp *FluidPlayer) TouchEnd() { fp.prev = field.Vec2{} }

// latticeSource samples the lattice at canvas pixel positions.
type latticeSource struct{ l *lbm.Lattice }

func (s latticeSource) Velocity(p field.Vec2) field.Vec2 {
	vx, vy := s.l.Sample(p.X/lbm.PixelSize, p.Y/lbm.PixelSize)
	return field.Vec2{X: vx, Y: vy}
}

// latticeHeat exposes lattice cell speeds to the heat map.
type latticeHeat struct{ l *lbm.Lattice }

func (h latticeHeat) HeatSize() (cols, rows int) { return h.l.Size() }

func (h latticeHeat) HeatAt(x, y int) float64 {
	vx, vy := h.l.Velocity(x, y)
	return math.Hypot(vx, vy)
}

func (h latticeHeat) MaxHeat() float64 { return h.l.MaxSpeed() }
