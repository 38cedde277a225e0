// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package lbm

import (
	"errors"
	"fmt"
	"math"
)

// PixelSize is the edge length, in canvas pixels, of one lattice cell.
const PixelSize = 4

// ObstacleRadius is the radius, in cells, of every circular obstacle.
const ObstacleRadius = 16

const (
	inletVelocity = 0.12
	lidVelocity   = 0.1
	maxForce      = 0.12
	forceSteps    = 30
)

// Errors returned by New and SetViscosity.
var (
	ErrInvalidSize      = errors.New("lbm: invalid lattice size")
	ErrInvalidViscosity = errors.New("lbm: viscosity must be in [0, 1]")
	ErrUnknownScenario  = errors.New("lbm: unknown scenario")
)

// Material classifies a lattice cell.
type Material int32

// Cell materials.
const (
	Bulk     Material = 1
	Boundary Material = 2
	Inlet    Material = 3
	Obstacle Material = 4
	Outlet   Material = 5
)

// String returns the material name.
func (m Material) String() string {
	switch m {
	case Bulk:
		return "bulk"
	case Boundary:
		return "boundary"
	case Inlet:
		return "inlet"
	case Obstacle:
		return "obstacle"
	case Outlet:
		return "outlet"
	default:
		return fmt.Sprintf("Material(%d)", int32(m))
	}
}

// Solid reports whether populations bounce back off m.
func (m Material) Solid() bool { return m == Boundary || m == Obstacle }

// Scenario selects the initial materials of a lattice.
type Scenario uint8

// Scenarios.
const (
	// Poiseuille is channel flow from an inlet on the left to an outlet on
	// the right, past three cylinders.
	Poiseuille Scenario = iota
	// LidDrivenCavity is a closed box whose top row drags the fluid along.
	LidDrivenCavity
	// Custom is a closed box at rest. Flow comes only from user input.
	Custom
)

func (s Scenario) String() string {
	switch s {
	case Poiseuille:
		return "poiseuille"
	case LidDrivenCavity:
		return "lid_driven_cavity"
	case Custom:
		return "custom"
	default:
		return fmt.Sprintf("Scenario(%d)", uint8(s))
	}
}

// Cell is the per-cell material state.
type Cell struct {
	Material Material
	// BlockIter counts the steps left before a timed inlet turns back into
	// bulk fluid. -1 marks a permanent material.
	BlockIter int32
	// VX, VY is the velocity an inlet imposes.
	VX, VY float32
}

// Circle is an obstacle outline in lattice coordinates.
type Circle struct {
	X, Y, R float64
}

// Lattice is a D2Q9 lattice-Boltzmann fluid with BGK collisions.
//
// Directions:
//
//	6 2 5
//	3 0 1
//	7 4 8
//
// with Y growing downwards like canvas pixels.
type Lattice struct {
	nx, ny    int
	scenario  Scenario
	viscosity float64
	omega     float64

	cells     []Cell
	obstacles []Circle

	// Populations are stored direction-major: f[d*n+i].
	f, tmp   []float64
	rho      []float64
	ux, uy   []float64
	maxSpeed float64
}

var (
	ex      = [9]int{0, 1, 0, -1, 0, 1, -1, -1, 1}
	ey      = [9]int{0, 0, -1, 0, 1, -1, -1, 1, 1}
	weights = [9]float64{4.0 / 9, 1.0 / 9, 1.0 / 9, 1.0 / 9, 1.0 / 9, 1.0 / 36, 1.0 / 36, 1.0 / 36, 1.0 / 36}
	inverse = [9]int{0, 3, 4, 1, 2, 7, 8, 5, 6}
)

// New creates an nx x ny lattice initialised for scenario.
func New(nx, ny int, scenario Scenario, viscosity float64) (*Lattice, error) {
	if nx < 3 || ny < 3 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, nx, ny)
	}
	if scenario > Custom {
		return nil, fmt.Errorf("%w: %d", ErrUnknownScenario, scenario)
	}
	n := nx * ny
	l := &Lattice{
		nx:       nx,
		ny:       ny,
		scenario: scenario,
		cells:    make([]Cell, n),
		f:        make([]float64, 9*n),
		tmp:      make([]float64, 9*n),
		rho:      make([]float64, n),
		ux:       make([]float64, n),
		uy:       make([]float64, n),
	}
	if err := l.SetViscosity(viscosity); err != nil {
		return nil, err
	}
	l.Reset()
	return l, nil
}

// Size returns the lattice dimensions in cells.
func (l *Lattice) Size() (nx, ny int) { return l.nx, l.ny }

// Scenario returns the scenario the lattice resets to.
func (l *Lattice) Scenario() Scenario { return l.scenario }

// Tau returns the BGK relaxation time.
func (l *Lattice) Tau() float64 { return 1 / l.omega }

// SetViscosity sets the kinematic viscosity. tau = 3*viscosity + 0.5.
func (l *Lattice) SetViscosity(v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidViscosity, v)
	}
	l.viscosity = v
	l.omega = 1 / (3*v + 0.5)
	return nil
}

// Cell returns the material state of cell (x, y).
func (l *Lattice) Cell(x, y int) Cell { return l.cells[y*l.nx+x] }

// Obstacles returns the circular obstacles currently in the lattice.
// The slice is reused by Reset and AddObstacle.
func (l *Lattice) Obstacles() []Circle { return l.obstacles }

// Reset restores the scenario materials and puts the fluid at rest.
func (l *Lattice) Reset() {
	l.obstacles = l.obstacles[:0]
	for y := 0; y < l.ny; y++ {
		for x := 0; x < l.nx; x++ {
			l.cells[y*l.nx+x] = l.initialCell(x, y)
		}
	}
	if l.scenario == Poiseuille {
		nx, ny := float64(l.nx), float64(l.ny)
		for _, c := range []Circle{
			{X: nx/7 - ObstacleRadius, Y: ny / 2, R: ObstacleRadius},
			{X: nx / 5, Y: ny / 3, R: ObstacleRadius},
			{X: nx / 5, Y: ny * 0.66, R: ObstacleRadius},
		} {
			l.fillCircle(c)
		}
	}

	n := l.nx * l.ny
	for i, c := range l.cells {
		vx, vy := 0.0, 0.0
		if c.Material == Inlet {
			vx, vy = float64(c.VX), float64(c.VY)
		}
		for d := 0; d < 9; d++ {
			l.f[d*n+i] = equilibrium(d, 1, vx, vy)
		}
		l.rho[i], l.ux[i], l.uy[i] = 1, vx, vy
	}
	copy(l.tmp, l.f)
	l.maxSpeed = 0
}

func (l *Lattice) initialCell(x, y int) Cell {
	c := Cell{Material: Bulk, BlockIter: -1}
	edgeX := x == 0 || x == l.nx-1
	edgeY := y == 0 || y == l.ny-1
	switch l.scenario {
	case Poiseuille:
		switch {
		case edgeY:
			c.Material = Boundary
		case x == 0:
			c.Material = Inlet
			c.VX = inletVelocity
		case x == l.nx-1:
			c.Material = Outlet
		}
	case LidDrivenCavity:
		switch {
		case edgeX || y == l.ny-1:
			c.Material = Boundary
		case y == 0:
			c.Material = Inlet
			c.VX = lidVelocity
		}
	case Custom:
		if edgeX || edgeY {
			c.Material = Boundary
		}
	}
	return c
}

// fillCircle turns the bulk cells covered by c into obstacle cells.
func (l *Lattice) fillCircle(c Circle) {
	y0 := max(int(math.Floor(c.Y-c.R)), 0)
	y1 := min(int(math.Ceil(c.Y+c.R)), l.ny-1)
	x0 := max(int(math.Floor(c.X-c.R)), 0)
	x1 := min(int(math.Ceil(c.X+c.R)), l.nx-1)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			i := y*l.nx + x
			if l.cells[i].Material != Bulk {
				continue
			}
			if math.Hypot(float64(x)+0.5-c.X, float64(y)+0.5-c.Y) <= c.R {
				l.cells[i] = Cell{Material: Obstacle, BlockIter: -1}
			}
		}
	}
	l.obstacles = append(l.obstacles, c)
}

// AddObstacle places a circular obstacle centred on cell (x, y).
// It reports false when the circle would touch the lattice edge.
func (l *Lattice) AddObstacle(x, y int) bool {
	const r = ObstacleRadius
	if x < r || x >= l.nx-(r+2) || y < r || y >= l.ny-(r+2) {
		return false
	}
	l.fillCircle(Circle{X: float64(x) + 0.5, Y: float64(y) + 0.5, R: r})
	return true
}

// AddExternalForce drags the fluid along the segment from (x0, y0) to
// (x1, y1), given in canvas pixels. Cells along the segment become inlets
// for a few steps, pushing in the drag direction with a speed that grows
// with the segment length.
func (l *Lattice) AddExternalForce(x0, y0, x1, y1 float64) int {
	dx, dy := x1-x0, y1-y0
	dis := math.Hypot(dx, dy)
	if dis == 0 || math.IsNaN(dis) {
		return 0
	}
	force := math.Min(0.1*dis/20, maxForce)
	angle := math.Atan2(dy, dx)
	vx := float32(force * math.Cos(angle))
	vy := float32(force * math.Sin(angle))

	c := math.Ceil(dis / (PixelSize - 1))
	step := dis / c
	changed := 0
	for i := 0; i < int(c); i++ {
		px := math.Round(x0 + math.Cos(angle)*step*float64(i))
		py := math.Round(y0 + math.Sin(angle)*step*float64(i))
		if px < 0 || py < 0 {
			continue
		}
		x, y := int(px)/PixelSize, int(py)/PixelSize
		if x < 1 || x >= l.nx-2 || y < 1 || y >= l.ny-2 {
			continue
		}
		idx := y*l.nx + x
		cell := l.cells[idx]
		if cell.Material != Bulk && !(cell.Material == Inlet && cell.BlockIter > 0) {
			continue
		}
		l.cells[idx] = Cell{Material: Inlet, BlockIter: forceSteps, VX: vx, VY: vy}
		changed++
	}
	return changed
}

func equilibrium(d int, rho, ux, uy float64) float64 {
	eu := float64(ex[d])*ux + float64(ey[d])*uy
	uu := ux*ux + uy*uy
	return weights[d] * rho * (1 + 3*eu + 4.5*eu*eu - 1.5*uu)
}
