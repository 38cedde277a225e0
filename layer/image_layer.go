// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layer

import (
	"image"
	"sync"

	"github.com/gogpu/gg"
)

// ImageLayer is an offscreen layer backed by an *image.RGBA.
//
// It keeps the last presented frame and counts presents. It is the fallback
// backend on hosts without a compositor and the target of the offscreen
// renderer.
//
// Example:
//
//	l := layer.NewImageLayer(800, 600)
//	defer l.Close()
//
//	d, _ := l.NextDrawable()
//	_ = d.Present(dc)
//	img := l.Last()
type ImageLayer struct {
	mu     sync.Mutex
	width  int
	height int
	last   *image.RGBA
	frames uint64
	closed bool
}

// NewImageLayer creates an offscreen layer. Non-positive sizes become 1.
func NewImageLayer(width, height int) *ImageLayer {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	return &ImageLayer{width: width, height: height}
}

// DrawableSize returns the current drawable size.
func (l *ImageLayer) DrawableSize() (width, height int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.width, l.height
}

// SetSize changes the drawable size, as a rotation would on a device.
// Non-positive sizes are ignored.
func (l *ImageLayer) SetSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.width, l.height = width, height
}

// NextDrawable returns a drawable of the current size.
func (l *ImageLayer) NextDrawable() (Drawable, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil, ErrClosed
	}
	return &imageDrawable{layer: l, width: l.width, height: l.height}, nil
}

// Frames returns the number of presented frames.
func (l *ImageLayer) Frames() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frames
}

// Last returns a copy of the last presented frame, or nil before the first.
func (l *ImageLayer) Last() *image.RGBA {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.last == nil {
		return nil
	}
	img := image.NewRGBA(l.last.Rect)
	copy(img.Pix, l.last.Pix)
	return img
}

// Close marks the layer closed. Close is idempotent.
func (l *ImageLayer) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}

type imageDrawable struct {
	layer  *ImageLayer
	width  int
	height int
}

func (d *imageDrawable) Present(dc *gg.Context) error {
	if err := checkSize(dc, d.width, d.height); err != nil {
		return err
	}
	l := d.layer
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrClosed
	}
	if l.last == nil || l.last.Rect.Dx() != d.width || l.last.Rect.Dy() != d.height {
		l.last = image.NewRGBA(image.Rect(0, 0, d.width, d.height))
	}
	copy(l.last.Pix, dc.ResizeTarget().Data())
	l.frames++
	return nil
}
