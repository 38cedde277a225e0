// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layer

import (
	"fmt"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/integration/ggcanvas"
	"github.com/gogpu/gpucontext"
)

// Presenter hands a ggcanvas.Canvas to the host's window for this frame.
// The canvas is marked dirty before the call.
type Presenter func(c *ggcanvas.Canvas) error

// TextureDrawerPresenter returns a Presenter that draws the canvas with dc,
// typically obtained from gogpu.Context.AsTextureDrawer().
func TextureDrawerPresenter(dc gpucontext.TextureDrawer) Presenter {
	return func(c *ggcanvas.Canvas) error {
		return c.RenderTo(dc)
	}
}

// CanvasLayer presents frames through a gogpu host via ggcanvas.
//
// The host's GPU context provides the device; the layer only uploads the
// finished pixmap and asks the Presenter to draw it.
type CanvasLayer struct {
	mu      sync.Mutex
	canvas  *ggcanvas.Canvas
	present Presenter
	width   int
	height  int
	closed  bool
}

// NewCanvasLayer binds a layer to a gpucontext provider.
func NewCanvasLayer(provider gpucontext.DeviceProvider, width, height int, present Presenter) (*CanvasLayer, error) {
	if present == nil {
		return nil, fmt.Errorf("%w: nil presenter", ErrInvalidOptions)
	}
	c, err := ggcanvas.New(provider, width, height)
	if err != nil {
		return nil, fmt.Errorf("layer: %w", err)
	}
	return &CanvasLayer{
		canvas:  c,
		present: present,
		width:   width,
		height:  height,
	}, nil
}

// Canvas returns the underlying ggcanvas.
func (l *CanvasLayer) Canvas() *ggcanvas.Canvas {
	return l.canvas
}

// DrawableSize returns the size the host last reported.
func (l *CanvasLayer) DrawableSize() (width, height int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.width, l.height
}

// SetSize records a new window size. The canvas is resized on the next
// NextDrawable. Non-positive sizes are ignored.
func (l *CanvasLayer) SetSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.width, l.height = width, height
}

// NextDrawable resizes the canvas to the current size if needed.
func (l *CanvasLayer) NextDrawable() (Drawable, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil, ErrClosed
	}
	if err := l.canvas.Resize(l.width, l.height); err != nil {
		return nil, fmt.Errorf("layer: %w", err)
	}
	return canvasDrawable{l}, nil
}

// Close releases the canvas texture. Close is idempotent.
func (l *CanvasLayer) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	return l.canvas.Close()
}

type canvasDrawable struct {
	layer *CanvasLayer
}

func (d canvasDrawable) Present(dc *gg.Context) error {
	l := d.layer
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrClosed
	}
	w, h := l.canvas.Size()
	if err := checkSize(dc, w, h); err != nil {
		return err
	}
	dst := l.canvas.Context()
	copy(dst.ResizeTarget().Data(), dc.ResizeTarget().Data())
	l.canvas.MarkDirty()
	return l.present(l.canvas)
}
