// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fieldcanvas

import "fmt"

// Descriptor carries the resources a host lends to a canvas. It mirrors the
// C struct ios_obj field by field.
//
// View and Layer are borrowed: the canvas never retains, releases or frees
// them, and the host must keep them alive until Close returns.
type Descriptor struct {
	// View is the host's view handle (a UIView on iOS).
	View uintptr

	// Layer is the compositing layer inside View (a CAMetalLayer on iOS).
	Layer uintptr

	// MaximumFrames caps the frame rate in frames per second.
	// Zero means uncapped.
	MaximumFrames int32

	// TemporaryDirectory is a writable directory for scratch files.
	// The string is copied; the host buffer need not outlive New.
	TemporaryDirectory string

	// Callback receives status codes in order, one at a time, after the
	// canvas lock is released. It may call back into the canvas. May be nil.
	Callback func(code int32)
}

// Validate checks the descriptor without touching the file system.
func (d Descriptor) Validate() error {
	switch {
	case d.View == 0:
		return fmt.Errorf("%w: nil view", ErrInvalidDescriptor)
	case d.Layer == 0:
		return fmt.Errorf("%w: nil layer", ErrInvalidDescriptor)
	case d.MaximumFrames < 0:
		return fmt.Errorf("%w: negative maximum frames %d", ErrInvalidDescriptor, d.MaximumFrames)
	case d.TemporaryDirectory == "":
		return fmt.Errorf("%w: empty temporary directory", ErrInvalidDescriptor)
	}
	return nil
}
