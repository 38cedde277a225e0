// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layer

import (
	"errors"
	"fmt"

	"github.com/gogpu/gg"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Layer is a compositing target that the host owns and the canvas presents
// into. Implementations never retain or release the host's native objects.
type Layer interface {
	// DrawableSize returns the current size of drawables in pixels.
	// It may change between frames, for example on rotation.
	DrawableSize() (width, height int)

	// NextDrawable acquires the drawable for the next frame.
	// Returns ErrNoDrawable when none is available right now.
	NextDrawable() (Drawable, error)

	// Close releases the binding. The host layer itself stays alive.
	Close() error
}

// Drawable is one frame's worth of layer storage.
type Drawable interface {
	// Present copies the context's pixels into the drawable and hands it to
	// the compositor. The context must match the drawable size.
	Present(dc *gg.Context) error
}

// Options configures a layer backend.
type Options struct {
	// View is the host's view handle. Borrowed.
	View uintptr

	// Layer is the host's compositing layer handle. Borrowed.
	Layer uintptr

	// Width and Height size backends that cannot query a drawable size.
	Width  int
	Height int

	// Format is the pixel format requested from GPU layers.
	// Zero selects BGRA8Unorm.
	Format gputypes.TextureFormat

	// Provider and Present drive the gpucontext backend.
	Provider gpucontext.DeviceProvider
	Present  Presenter
}

// format returns the requested pixel format or the default.
func (o Options) format() gputypes.TextureFormat {
	if o.Format == gputypes.TextureFormatUndefined {
		return gputypes.TextureFormatBGRA8Unorm
	}
	return o.Format
}

// Errors.
var (
	// ErrClosed is returned by layers and drawables used after Close.
	ErrClosed = errors.New("layer: closed")

	// ErrNoDrawable is returned when the compositor has no free drawable.
	ErrNoDrawable = errors.New("layer: no drawable available")

	// ErrSizeMismatch is returned when a context does not match its drawable.
	ErrSizeMismatch = errors.New("layer: context size does not match drawable")

	// ErrInvalidOptions is returned by factories given unusable options.
	// It ends backend selection in New.
	ErrInvalidOptions = errors.New("layer: invalid options")

	// ErrUnsupported is returned by factories whose backend does not apply
	// to the options, for example a native backend given no native handle.
	// New moves on to the next backend.
	ErrUnsupported = errors.New("layer: backend does not apply to these options")

	// ErrNoDevice is returned when the system has no GPU device for a layer.
	ErrNoDevice = errors.New("layer: no GPU device")

	// ErrPresented is returned when a drawable is presented twice.
	ErrPresented = errors.New("layer: drawable already presented")
)

// checkSize verifies that dc can be copied into a w by h drawable.
func checkSize(dc *gg.Context, w, h int) error {
	if dc == nil {
		return fmt.Errorf("%w: nil context", ErrSizeMismatch)
	}
	if dc.Width() != w || dc.Height() != h {
		return fmt.Errorf("%w: context %dx%d, drawable %dx%d", ErrSizeMismatch, dc.Width(), dc.Height(), w, h)
	}
	return nil
}
