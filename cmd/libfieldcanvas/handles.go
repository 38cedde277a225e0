// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"sync"

	"github.com/gogpu/fieldcanvas"
)

// canvases holds every canvas handed to the host, keyed by the address of
// its struct wgpu_canvas. Pointers from the host are looked up here before
// anything touches them, so NULL and released pointers are never read.
var canvases = newHandleSet()

// handleSet maps live C handles to their canvas.
type handleSet struct {
	mu   sync.Mutex
	live map[uintptr]*fieldcanvas.Canvas
}

func newHandleSet() *handleSet {
	return &handleSet{live: make(map[uintptr]*fieldcanvas.Canvas)}
}

// add registers c under addr.
func (s *handleSet) add(addr uintptr, c *fieldcanvas.Canvas) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.live[addr] = c
}

// get returns the canvas registered under addr, or nil.
func (s *handleSet) get(addr uintptr) *fieldcanvas.Canvas {
	if addr == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live[addr]
}

// take unregisters addr and returns its canvas. Only the first take of a
// handle returns non-nil.
func (s *handleSet) take(addr uintptr) *fieldcanvas.Canvas {
	if addr == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.live[addr]
	delete(s.live, addr)
	return c
}

// len returns the number of live handles.
func (s *handleSet) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

// hostDescriptor builds a descriptor from the fields of struct ios_obj.
// The view and layer stay borrowed.
func hostDescriptor(view, layer uintptr, maximumFrames int32, tmp string, callback func(int32)) fieldcanvas.Descriptor {
	return fieldcanvas.Descriptor{
		View:               view,
		Layer:              layer,
		MaximumFrames:      maximumFrames,
		TemporaryDirectory: tmp,
		Callback:           callback,
	}
}

// createCanvas creates a canvas for the host, or returns nil after logging
// why the descriptor was rejected.
func createCanvas(desc fieldcanvas.Descriptor, opts ...fieldcanvas.Option) *fieldcanvas.Canvas {
	c, err := fieldcanvas.New(desc, opts...)
	if err != nil {
		fieldcanvas.Logger().Error("create_wgpu_canvas failed", "err", err)
		return nil
	}
	return c
}

// releaseCanvas unregisters addr and closes its canvas. It reports whether
// addr was live, in which case the caller frees the C struct.
func releaseCanvas(s *handleSet, addr uintptr) bool {
	c := s.take(addr)
	if c == nil {
		return false
	}
	if err := c.Close(); err != nil {
		fieldcanvas.Logger().Warn("release_wgpu_canvas", "err", err)
	}
	return true
}

// callCanvas runs fn on the canvas behind addr and maps the result to the
// 0 or -1 returned by the canvas_* exports.
func callCanvas(s *handleSet, addr uintptr, name string, fn func(c *fieldcanvas.Canvas) error) int32 {
	c := s.get(addr)
	if c == nil {
		return -1
	}
	if err := fn(c); err != nil {
		fieldcanvas.Logger().Warn(name, "err", err)
		return -1
	}
	return 0
}
