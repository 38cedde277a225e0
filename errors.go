// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fieldcanvas

import "errors"

// Canvas errors.
var (
	// ErrInvalidDescriptor is wrapped by every descriptor validation error.
	ErrInvalidDescriptor = errors.New("fieldcanvas: invalid descriptor")

	// ErrClosed is returned by operations on a released canvas.
	ErrClosed = errors.New("fieldcanvas: canvas closed")

	// ErrOutsideScratch is returned for paths that escape the scratch root.
	ErrOutsideScratch = errors.New("fieldcanvas: path escapes the scratch directory")

	// ErrInvalidSettings is wrapped by settings parse and validation errors.
	ErrInvalidSettings = errors.New("fieldcanvas: invalid settings")

	// ErrNoFrame is returned by Snapshot before the first presented frame.
	ErrNoFrame = errors.New("fieldcanvas: no frame presented yet")
)
