// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package player

import (
	"image"
	"math"

	"github.com/gogpu/gg"
	xdraw "golang.org/x/image/draw"
)

// speedRange is the trail speed, in pixels per step, mapped to the hot end
// of the speed palette.
const speedRange = 3.0

// heatAlpha is the opacity of the velocity heat map.
const heatAlpha = 0.45

// palette is a 256 entry colour lookup table.
type palette [256][3]uint8

func newPalette(ct ColorType) *palette {
	var p palette
	for i := range p {
		t := float64(i) / 255
		var c gg.RGBA
		switch ct {
		case ColorMovementAngle:
			c = gg.HSL(t*360, 0.8, 0.6)
		case ColorSpeed:
			c = speedColor(t)
		default:
			c = gg.White
		}
		p[i] = [3]uint8{to8(c.R), to8(c.G), to8(c.B)}
	}
	return &p
}

// speedColor ramps from blue (slow) to red (fast).
func speedColor(t float64) gg.RGBA {
	return gg.HSL(240-240*t, 0.9, 0.55)
}

func to8(v float64) uint8 {
	return uint8(math.Round(math.Min(math.Max(v, 0), 1) * 255))
}

// index maps a trail sample to its palette entry.
func (s *scene) index(speed, angle float32) uint8 {
	var t float64
	switch s.params.Color {
	case ColorMovementAngle:
		t = (float64(angle) + math.Pi) / (2 * math.Pi)
	case ColorSpeed:
		t = float64(speed) / speedRange
	}
	return to8(t)
}

// composite blends the trail buffer over the pixels of pm.
func (s *scene) composite(pm *gg.Pixmap) {
	data := pm.Data()
	w := min(pm.Width(), s.width)
	h := min(pm.Height(), s.height)
	stride := pm.Width() * 4
	for y := 0; y < h; y++ {
		alpha, speed, angle := s.trail.Row(y)
		row := data[y*stride:]
		for x := 0; x < w; x++ {
			a := alpha[x]
			if a <= 0 {
				continue
			}
			c := s.palette[s.index(speed[x], angle[x])]
			i := x * 4
			row[i+0] = blend(row[i+0], c[0], a)
			row[i+1] = blend(row[i+1], c[1], a)
			row[i+2] = blend(row[i+2], c[2], a)
			row[i+3] = 255
		}
	}
}

func blend(dst, src uint8, a float32) uint8 {
	return uint8(float32(dst)*(1-a) + float32(src)*a + 0.5)
}

// heatSource exposes a coarse grid of speeds for the heat map.
type heatSource interface {
	HeatSize() (cols, rows int)
	HeatAt(x, y int) float64
	MaxHeat() float64
}

// heatmap renders a heatSource at its own resolution and scales it over the
// canvas with bilinear filtering.
type heatmap struct {
	img *image.RGBA
}

func (h *heatmap) paint(pm *gg.Pixmap, src heatSource) {
	cols, rows := src.HeatSize()
	peak := src.MaxHeat()
	if cols <= 0 || rows <= 0 || peak <= 0 || math.IsNaN(peak) {
		return
	}
	if h.img == nil || h.img.Rect.Dx() != cols || h.img.Rect.Dy() != rows {
		h.img = image.NewRGBA(image.Rect(0, 0, cols, rows))
	}

	a := to8(heatAlpha)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			t := src.HeatAt(x, y) / peak
			c := speedColor(math.Min(math.Max(t, 0), 1))
			i := h.img.PixOffset(x, y)
			// image.RGBA is alpha-premultiplied.
			h.img.Pix[i+0] = to8(c.R * heatAlpha)
			h.img.Pix[i+1] = to8(c.G * heatAlpha)
			h.img.Pix[i+2] = to8(c.B * heatAlpha)
			h.img.Pix[i+3] = a
		}
	}

	dst := &image.RGBA{
		Pix:    pm.Data(),
		Stride: pm.Width() * 4,
		Rect:   image.Rect(0, 0, pm.Width(), pm.Height()),
	}
	xdraw.ApproxBiLinear.Scale(dst, dst.Rect, h.img, h.img.Rect, xdraw.Over, nil)
}
