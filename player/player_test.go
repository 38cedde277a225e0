// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package player

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/gogpu/fieldcanvas/field"
	"github.com/gogpu/fieldcanvas/lbm"
	"github.com/gogpu/gg"
)

func testRand() *rand.Rand { return rand.New(rand.NewPCG(7, 11)) }

func fieldParams(a field.Animation) Params {
	p := DefaultParams()
	p.Animation = a
	p.Count = 500
	p.Color = ColorUniform
	return p
}

func newContext(t *testing.T, w, h int) *gg.Context {
	t.Helper()
	dc := gg.NewContext(w, h)
	t.Cleanup(func() { _ = dc.Close() })
	return dc
}

// countNot counts pixels whose RGB differs from c.
func countNot(pm *gg.Pixmap, c gg.RGBA) int {
	want := [3]uint8{to8(c.R), to8(c.G), to8(c.B)}
	data := pm.Data()
	n := 0
	for i := 0; i < len(data); i += 4 {
		for k := 0; k < 3; k++ {
			d := int(data[i+k]) - int(want[k])
			if d > 1 || d < -1 {
				n++
				break
			}
		}
	}
	return n
}

func TestNewSelectsPlayer(t *testing.T) {
	p, err := New(200, 100, fieldParams(field.AnimationSpiral), testRand())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.(*FieldPlayer); !ok {
		t.Errorf("New(spiral) = %T, want *FieldPlayer", p)
	}

	p, err = New(200, 100, fieldParams(field.AnimationLidDrivenCavity), nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.(*FluidPlayer); !ok {
		t.Errorf("New(lid_driven_cavity) = %T, want *FluidPlayer", p)
	}
	if w, h := p.Size(); w != 200 || h != 100 {
		t.Errorf("Size() = %dx%d, want 200x100", w, h)
	}
}

func TestNewRejectsInvalidParams(t *testing.T) {
	p := DefaultParams()
	p.PointSize = 0
	if _, err := New(100, 100, p, testRand()); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("New() error = %v, want ErrInvalidParams", err)
	}
	if _, err := New(0, 100, DefaultParams(), testRand()); err == nil {
		t.Error("New(0x100) should fail")
	}
}

func TestEnterFrameTargetSize(t *testing.T) {
	p, err := New(64, 64, fieldParams(field.AnimationBasic), testRand())
	if err != nil {
		t.Fatal(err)
	}
	if err := p.EnterFrame(newContext(t, 32, 64), 1); !errors.Is(err, ErrTargetSize) {
		t.Errorf("EnterFrame(32x64) error = %v, want ErrTargetSize", err)
	}
	if err := p.EnterFrame(nil, 1); !errors.Is(err, ErrTargetSize) {
		t.Errorf("EnterFrame(nil) error = %v, want ErrTargetSize", err)
	}
}

func TestFieldPlayerDrawsTrails(t *testing.T) {
	const w, h = 160, 120
	p, err := NewFieldPlayer(w, h, fieldParams(field.AnimationSpiral), testRand())
	if err != nil {
		t.Fatal(err)
	}
	dc := newContext(t, w, h)

	for range 5 {
		if err := p.EnterFrame(dc, 1); err != nil {
			t.Fatalf("EnterFrame: %v", err)
		}
	}

	pm := dc.ResizeTarget()
	changed := countNot(pm, FieldBackground)
	if changed == 0 {
		t.Fatal("no particle pixels drawn")
	}
	if changed > w*h/2 {
		t.Errorf("%d of %d pixels changed, want mostly background", changed, w*h)
	}
}

func TestFieldPlayerZeroStepDrawsBackground(t *testing.T) {
	p, err := NewFieldPlayer(40, 40, fieldParams(field.AnimationBasic), testRand())
	if err != nil {
		t.Fatal(err)
	}
	dc := newContext(t, 40, 40)
	if err := p.EnterFrame(dc, 0); err != nil {
		t.Fatal(err)
	}
	if n := countNot(dc.ResizeTarget(), FieldBackground); n != 0 {
		t.Errorf("%d pixels differ from the background before any particle faded in", n)
	}
}

func TestShowFieldPaintsHeatMap(t *testing.T) {
	params := fieldParams(field.AnimationSpiral)
	params.ShowField = true
	p, err := NewFieldPlayer(80, 80, params, testRand())
	if err != nil {
		t.Fatal(err)
	}
	dc := newContext(t, 80, 80)
	if err := p.EnterFrame(dc, 0); err != nil {
		t.Fatal(err)
	}
	if n := countNot(dc.ResizeTarget(), FieldBackground); n < 80*80/2 {
		t.Errorf("heat map changed %d pixels, want most of the canvas", n)
	}
}

func TestFieldPlayerSetParams(t *testing.T) {
	p, err := NewFieldPlayer(100, 100, fieldParams(field.AnimationBasic), testRand())
	if err != nil {
		t.Fatal(err)
	}

	next := p.Params()
	next.Animation = field.AnimationJuliaSet
	next.Color = ColorMovementAngle
	if err := p.SetParams(next); err != nil {
		t.Fatal(err)
	}
	if p.Field().Animation() != field.AnimationJuliaSet {
		t.Errorf("field animation = %v, want julia_set", p.Field().Animation())
	}
	if p.Params().Color != ColorMovementAngle {
		t.Errorf("color = %v, want movement_angle", p.Params().Color)
	}

	next.Animation = field.AnimationPoiseuille
	if err := p.SetParams(next); !errors.Is(err, ErrFieldTypeMismatch) {
		t.Errorf("SetParams(poiseuille) error = %v, want ErrFieldTypeMismatch", err)
	}

	next = p.Params()
	next.Count = 2000
	if err := p.SetParams(next); err != nil {
		t.Fatal(err)
	}
	if p.particles.Len() < 2000 {
		t.Errorf("particles = %d, want at least 2000", p.particles.Len())
	}
}

func TestFluidPlayerClickAddsObstacle(t *testing.T) {
	p, err := NewFluidPlayer(400, 400, fieldParams(field.AnimationCustom), testRand())
	if err != nil {
		t.Fatal(err)
	}
	p.Click(-5, 10)
	p.Click(4, 4)
	if n := len(p.Lattice().Obstacles()); n != 0 {
		t.Fatalf("edge clicks added %d obstacles", n)
	}
	p.Click(200, 200)
	if n := len(p.Lattice().Obstacles()); n != 1 {
		t.Fatalf("obstacles = %d, want 1", n)
	}
	if m := p.Lattice().Cell(50, 50).Material; m != lbm.Obstacle {
		t.Errorf("cell under tap = %v, want obstacle", m)
	}

	p.Reset()
	if n := len(p.Lattice().Obstacles()); n != 0 {
		t.Errorf("obstacles after Reset = %d, want 0", n)
	}
}

func TestFluidPlayerDragPushesFluid(t *testing.T) {
	p, err := NewFluidPlayer(400, 400, fieldParams(field.AnimationCustom), testRand())
	if err != nil {
		t.Fatal(err)
	}

	p.TouchBegin()
	p.TouchMove(100, 200)
	if c := p.Lattice().Cell(25, 50); c.Material != lbm.Bulk {
		t.Fatalf("first move changed the lattice: %+v", c)
	}
	p.TouchMove(140, 200)
	if c := p.Lattice().Cell(25, 50); c.Material != lbm.Inlet || c.VX <= 0 {
		t.Errorf("drag cell = %+v, want inlet pushing +x", c)
	}

	// A jump longer than the drag limit only moves the anchor.
	p.TouchMove(140+maxDragJump+10, 200)
	if c := p.Lattice().Cell(60, 50); c.Material != lbm.Bulk {
		t.Errorf("long jump changed the lattice: %+v", c)
	}
	p.TouchEnd()
	if p.prev != (field.Vec2{}) {
		t.Errorf("TouchEnd left anchor %v", p.prev)
	}
}

func TestFluidPlayerDrawsObstacles(t *testing.T) {
	params := fieldParams(field.AnimationCustom)
	params.Count = 1
	p, err := NewFluidPlayer(400, 400, params, testRand())
	if err != nil {
		t.Fatal(err)
	}
	p.Click(200, 200)
	dc := newContext(t, 400, 400)
	if err := p.EnterFrame(dc, 1); err != nil {
		t.Fatal(err)
	}

	got := dc.ResizeTarget().GetPixel(202, 202)
	want := gg.RGB(0.12, 0.12, 0.16)
	if math.Abs(got.R-want.R) > 0.02 || math.Abs(got.B-want.B) > 0.02 {
		t.Errorf("obstacle centre = %+v, want %+v", got, want)
	}
	corner := dc.ResizeTarget().GetPixel(390, 10)
	if math.Abs(corner.R-FluidBackground.R) > 0.02 {
		t.Errorf("corner = %+v, want background", corner)
	}
}

func TestFluidPlayerSetParams(t *testing.T) {
	p, err := NewFluidPlayer(200, 200, fieldParams(field.AnimationPoiseuille), testRand())
	if err != nil {
		t.Fatal(err)
	}
	next := p.Params()
	next.Viscosity = 0.5
	if err := p.SetParams(next); err != nil {
		t.Fatal(err)
	}
	if tau := p.Lattice().Tau(); math.Abs(tau-2) > 1e-9 {
		t.Errorf("Tau() = %v, want 2", tau)
	}

	next.Animation = field.AnimationLidDrivenCavity
	if err := p.SetParams(next); err != nil {
		t.Fatal(err)
	}
	if s := p.Lattice().Scenario(); s != lbm.LidDrivenCavity {
		t.Errorf("scenario = %v, want lid_driven_cavity", s)
	}

	next.Animation = field.AnimationBasic
	if err := p.SetParams(next); !errors.Is(err, ErrFieldTypeMismatch) {
		t.Errorf("SetParams(basic) error = %v, want ErrFieldTypeMismatch", err)
	}
}

func TestPalette(t *testing.T) {
	u := newPalette(ColorUniform)
	if u[0] != [3]uint8{255, 255, 255} || u[255] != [3]uint8{255, 255, 255} {
		t.Errorf("uniform palette = %v..%v, want white", u[0], u[255])
	}
	s := newPalette(ColorSpeed)
	if slow := s[0]; slow[2] <= slow[0] {
		t.Errorf("slow colour %v should be blue", slow)
	}
	if fast := s[255]; fast[0] <= fast[2] {
		t.Errorf("fast colour %v should be red", fast)
	}
}

func TestNormalizeDT(t *testing.T) {
	for _, dt := range []float64{-1, math.NaN(), math.Inf(1)} {
		if got := normalizeDT(dt); got != 0 {
			t.Errorf("normalizeDT(%v) = %v, want 0", dt, got)
		}
	}
	if got := normalizeDT(0.5); got != 0.5 {
		t.Errorf("normalizeDT(0.5) = %v", got)
	}
}
