// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package lbm

import "math"

// Step advances the fluid by one lattice time step: pull streaming with
// bounce-back off solid cells, inlet and outlet conditions, then a BGK
// collision.
func (l *Lattice) Step() {
	n := l.nx * l.ny
	var fin [9]float64
	l.maxSpeed = 0

	for y := 0; y < l.ny; y++ {
		for x := 0; x < l.nx; x++ {
			i := y*l.nx + x
			cell := &l.cells[i]
			if cell.Material.Solid() {
				for d := 0; d < 9; d++ {
					l.tmp[d*n+i] = weights[d]
				}
				l.rho[i], l.ux[i], l.uy[i] = 1, 0, 0
				continue
			}

			for d := 0; d < 9; d++ {
				sx, sy := x-ex[d], y-ey[d]
				if sx < 0 || sy < 0 || sx >= l.nx || sy >= l.ny || l.cells[sy*l.nx+sx].Material.Solid() {
					fin[d] = l.f[inverse[d]*n+i]
					continue
				}
				fin[d] = l.f[d*n+sy*l.nx+sx]
			}

			var rho, ux, uy float64
			if cell.Material == Inlet {
				rho, ux, uy = 1, float64(cell.VX), float64(cell.VY)
				for d := 0; d < 9; d++ {
					fin[d] = equilibrium(d, rho, ux, uy)
				}
				if cell.BlockIter > 0 {
					cell.BlockIter--
					if cell.BlockIter == 0 {
						*cell = Cell{Material: Bulk, BlockIter: -1}
					}
				}
			} else {
				rho, ux, uy = moments(&fin)
				if !finite(rho, ux, uy) || rho <= 0 {
					rho, ux, uy = 1, 0, 0
					for d := 0; d < 9; d++ {
						fin[d] = weights[d]
					}
				}
			}

			for d := 0; d < 9; d++ {
				feq := equilibrium(d, rho, ux, uy)
				l.tmp[d*n+i] = fin[d] + l.omega*(feq-fin[d])
			}
			l.rho[i], l.ux[i], l.uy[i] = rho, ux, uy
		}
	}

	// Outlets copy their upstream neighbour so the flow leaves freely.
	for y := 0; y < l.ny; y++ {
		for x := 1; x < l.nx; x++ {
			i := y*l.nx + x
			if l.cells[i].Material != Outlet {
				continue
			}
			for d := 0; d < 9; d++ {
				l.tmp[d*n+i] = l.tmp[d*n+i-1]
			}
			l.rho[i], l.ux[i], l.uy[i] = l.rho[i-1], l.ux[i-1], l.uy[i-1]
		}
	}

	for i := 0; i < n; i++ {
		if s := math.Hypot(l.ux[i], l.uy[i]); s > l.maxSpeed {
			l.maxSpeed = s
		}
	}
	l.f, l.tmp = l.tmp, l.f
}

func moments(f *[9]float64) (rho, ux, uy float64) {
	for d := 0; d < 9; d++ {
		rho += f[d]
		ux += float64(ex[d]) * f[d]
		uy += float64(ey[d]) * f[d]
	}
	if rho != 0 {
		ux /= rho
		uy /= rho
	}
	return rho, ux, uy
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Velocity returns the macroscopic velocity of cell (x, y) in cells per step.
func (l *Lattice) Velocity(x, y int) (vx, vy float64) {
	i := y*l.nx + x
	return l.ux[i], l.uy[i]
}

// Density returns the macroscopic density of cell (x, y).
func (l *Lattice) Density(x, y int) float64 { return l.rho[y*l.nx+x] }

// MaxSpeed returns the largest cell speed seen by the last Step.
func (l *Lattice) MaxSpeed() float64 { return l.maxSpeed }

// Mass returns the total density of all fluid cells.
func (l *Lattice) Mass() float64 {
	n := l.nx * l.ny
	var m float64
	for i, c := range l.cells {
		if c.Material.Solid() {
			continue
		}
		for d := 0; d < 9; d++ {
			m += l.f[d*n+i]
		}
	}
	return m
}

// Sample returns the bilinearly filtered velocity at lattice coordinates
// (x, y), where cell (i, j) has its centre at (i+0.5, j+0.5). Coordinates
// are clamped to the lattice.
func (l *Lattice) Sample(x, y float64) (vx, vy float64) {
	gx := x - 0.5
	gy := y - 0.5
	x0 := int(math.Floor(gx))
	y0 := int(math.Floor(gy))
	tx := gx - float64(x0)
	ty := gy - float64(y0)

	at := func(cx, cy int) (float64, float64) {
		cx = min(max(cx, 0), l.nx-1)
		cy = min(max(cy, 0), l.ny-1)
		i := cy*l.nx + cx
		return l.ux[i], l.uy[i]
	}
	ax, ay := at(x0, y0)
	bx, by := at(x0+1, y0)
	cx, cy := at(x0, y0+1)
	dx, dy := at(x0+1, y0+1)

	vx = (ax*(1-tx)+bx*tx)*(1-ty) + (cx*(1-tx)+dx*tx)*ty
	vy = (ay*(1-tx)+by*tx)*(1-ty) + (cy*(1-tx)+dy*tx)*ty
	return vx, vy
}
