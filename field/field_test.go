// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package field

import (
	"errors"
	"math"
	"testing"
)

func TestParseAnimation(t *testing.T) {
	tests := []struct {
		name    string
		want    Animation
		wantErr bool
	}{
		{"basic", AnimationBasic, false},
		{"julia_set", AnimationJuliaSet, false},
		{"spiral", AnimationSpiral, false},
		{"poiseuille", AnimationPoiseuille, false},
		{"lid_driven_cavity", AnimationLidDrivenCavity, false},
		{"custom", AnimationCustom, false},
		{"spirl", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAnimation(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownAnimation) {
					t.Errorf("ParseAnimation(%q) error = %v, want ErrUnknownAnimation", tt.name, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAnimation(%q) unexpected error: %v", tt.name, err)
			}
			if got != tt.want {
				t.Errorf("ParseAnimation(%q) = %v, want %v", tt.name, got, tt.want)
			}
			if got.String() != tt.name {
				t.Errorf("String() = %q, want %q", got.String(), tt.name)
			}
		})
	}
}

func TestAnimationText(t *testing.T) {
	var a Animation
	if err := a.UnmarshalText([]byte("lid_driven_cavity")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if a != AnimationLidDrivenCavity {
		t.Errorf("UnmarshalText = %v, want lid_driven_cavity", a)
	}
	if _, err := Animation(42).MarshalText(); err == nil {
		t.Error("MarshalText(42) should fail")
	}
}

func TestAnimationKinds(t *testing.T) {
	for _, a := range []Animation{AnimationBasic, AnimationJuliaSet, AnimationSpiral} {
		if !a.IsField() || a.IsFluid() {
			t.Errorf("%v: IsField=%v IsFluid=%v, want field only", a, a.IsField(), a.IsFluid())
		}
	}
	for _, a := range []Animation{AnimationPoiseuille, AnimationLidDrivenCavity, AnimationCustom} {
		if a.IsField() || !a.IsFluid() {
			t.Errorf("%v: IsField=%v IsFluid=%v, want fluid only", a, a.IsField(), a.IsFluid())
		}
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := New(0, 100, AnimationBasic); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("New(0, 100) error = %v, want ErrInvalidSize", err)
	}
	if _, err := New(100, 100, AnimationPoiseuille); !errors.Is(err, ErrNotFieldAnimation) {
		t.Errorf("New(poiseuille) error = %v, want ErrNotFieldAnimation", err)
	}
}

func TestBasicField(t *testing.T) {
	f, err := New(400, 200, AnimationBasic)
	if err != nil {
		t.Fatal(err)
	}
	cols, rows := f.Size()
	if cols != 100 || rows != 50 {
		t.Fatalf("Size() = %dx%d, want 100x50", cols, rows)
	}

	// Center row is at rest, rows above and below move in opposite directions.
	if v := f.Cell(10, rows/2); v != (Vec2{}) {
		t.Errorf("center row velocity = %v, want zero", v)
	}
	top := f.Cell(10, 0)
	want := Vec2{X: 0.05 * -25, Y: -0.1 * -25}
	if math.Abs(top.X-want.X) > 1e-9 || math.Abs(top.Y-want.Y) > 1e-9 {
		t.Errorf("top row velocity = %v, want %v", top, want)
	}
	bottom := f.Cell(10, rows-1)
	if bottom.X <= 0 || bottom.Y >= 0 {
		t.Errorf("bottom row velocity = %v, want +x -y", bottom)
	}
}

func TestVelocityAtCellCenter(t *testing.T) {
	f, err := New(64, 64, AnimationSpiral)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range [][2]int{{0, 0}, {3, 7}, {15, 15}} {
		p := Vec2{X: float64(c[0]*PixelDistance) + 2, Y: float64(c[1]*PixelDistance) + 2}
		got := f.Velocity(p)
		want := f.Cell(c[0], c[1])
		if math.Abs(got.X-want.X) > 1e-9 || math.Abs(got.Y-want.Y) > 1e-9 {
			t.Errorf("Velocity(%v) = %v, want cell value %v", p, got, want)
		}
	}
}

func TestFieldValuesAreFinite(t *testing.T) {
	for _, a := range []Animation{AnimationBasic, AnimationJuliaSet, AnimationSpiral} {
		t.Run(a.String(), func(t *testing.T) {
			f, err := New(320, 480, a)
			if err != nil {
				t.Fatal(err)
			}
			cols, rows := f.Size()
			for y := 0; y < rows; y++ {
				for x := 0; x < cols; x++ {
					v := f.Cell(x, y)
					if math.IsNaN(v.X) || math.IsInf(v.X, 0) || math.IsNaN(v.Y) || math.IsInf(v.Y, 0) {
						t.Fatalf("cell (%d,%d) = %v, want finite", x, y, v)
					}
					if v.Len() > maxCellSpeed+1e-9 {
						t.Fatalf("cell (%d,%d) speed %v exceeds %v", x, y, v.Len(), maxCellSpeed)
					}
				}
			}
		})
	}
}

func TestNormalizedSpace(t *testing.T) {
	if got := NormalizedSpace(200, 100); got != (Vec2{X: 2, Y: 1}) {
		t.Errorf("NormalizedSpace(200,100) = %v", got)
	}
	if got := NormalizedSpace(100, 400); got != (Vec2{X: 1, Y: 4}) {
		t.Errorf("NormalizedSpace(100,400) = %v", got)
	}
}
