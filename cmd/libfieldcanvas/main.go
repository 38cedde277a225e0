// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command libfieldcanvas builds the C archive linked into iOS hosts:
//
//	GOOS=ios GOARCH=arm64 CGO_ENABLED=1 go build -buildmode=c-archive \
//	    -o libfieldcanvas.a ./cmd/libfieldcanvas
//
// The host includes libfieldcanvas.h, fills a struct ios_obj and calls
// enter_frame from its display link. Log output goes to stderr; set
// FIELDCANVAS_LOG to debug, info, warn or error to change the level.
package main

/*
#include <stdlib.h>
#include "libfieldcanvas.h"

struct wgpu_canvas {
	uint32_t magic;
};
*/
import "C"

import (
	"log/slog"
	"os"
	"unsafe"

	"github.com/charmbracelet/log"
	"github.com/gogpu/fieldcanvas"
	"github.com/gogpu/fieldcanvas/field"
	"github.com/gogpu/fieldcanvas/player"
)

// canvasMagic marks allocations made by create_wgpu_canvas in memory dumps.
const canvasMagic = 0x46434e56 // "FCNV"

func init() {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "fieldcanvas",
	})
	l.SetLevel(log.WarnLevel)
	if lvl, err := log.ParseLevel(os.Getenv("FIELDCANVAS_LOG")); err == nil {
		l.SetLevel(lvl)
	}
	fieldcanvas.SetLogger(slog.New(l))
}

func main() {}

// descriptorOf copies the host descriptor. The handles stay borrowed.
func descriptorOf(obj C.struct_ios_obj) fieldcanvas.Descriptor {
	var tmp string
	if obj.temporary_directory != nil {
		tmp = C.GoString(obj.temporary_directory)
	}
	var callback func(int32)
	if cb := obj.callback_to_swift; cb != nil {
		callback = func(code int32) { notify(cb, code) }
	}
	return hostDescriptor(uintptr(obj.view), uintptr(obj.metal_layer), int32(obj.maximum_frames), tmp, callback)
}

// lookup returns the canvas behind p, or nil for NULL and released handles.
// p itself is never dereferenced.
func lookup(p *C.struct_wgpu_canvas) *fieldcanvas.Canvas {
	return canvases.get(uintptr(unsafe.Pointer(p)))
}

//export create_wgpu_canvas
func create_wgpu_canvas(obj C.struct_ios_obj) *C.struct_wgpu_canvas { //nolint:revive // C ABI name
	c := createCanvas(descriptorOf(obj))
	if c == nil {
		return nil
	}
	p := (*C.struct_wgpu_canvas)(C.calloc(1, C.size_t(unsafe.Sizeof(C.struct_wgpu_canvas{}))))
	if p == nil {
		_ = c.Close()
		return nil
	}
	p.magic = canvasMagic
	canvases.add(uintptr(unsafe.Pointer(p)), c)
	return p
}

//export enter_frame
func enter_frame(p *C.struct_wgpu_canvas) { //nolint:revive // C ABI name
	c := lookup(p)
	if c == nil {
		return
	}
	// Per-frame failures reach the host through the status callback.
	if err := c.EnterFrame(); err != nil {
		fieldcanvas.Logger().Debug("enter_frame", "err", err)
	}
}

//export release_wgpu_canvas
func release_wgpu_canvas(p *C.struct_wgpu_canvas) { //nolint:revive // C ABI name
	if !releaseCanvas(canvases, uintptr(unsafe.Pointer(p))) {
		return
	}
	p.magic = 0
	C.free(unsafe.Pointer(p))
}

// call runs fn on the canvas behind p and maps the result to 0 or -1.
func call(p *C.struct_wgpu_canvas, name string, fn func(c *fieldcanvas.Canvas) error) C.int32_t {
	return C.int32_t(callCanvas(canvases, uintptr(unsafe.Pointer(p)), name, fn))
}

//export canvas_set_field_type
func canvas_set_field_type(p *C.struct_wgpu_canvas, t C.int32_t) C.int32_t { //nolint:revive // C ABI name
	return call(p, "canvas_set_field_type", func(c *fieldcanvas.Canvas) error {
		if t < 0 {
			return player.ErrUnknownFieldType
		}
		return c.SetFieldType(player.FieldType(t))
	})
}

//export canvas_set_animation
func canvas_set_animation(p *C.struct_wgpu_canvas, a C.int32_t) C.int32_t { //nolint:revive // C ABI name
	return call(p, "canvas_set_animation", func(c *fieldcanvas.Canvas) error {
		if a < 0 || a > C.int32_t(field.AnimationCustom) {
			return field.ErrUnknownAnimation
		}
		return c.SetAnimation(field.Animation(a))
	})
}

//export canvas_set_particles_count
func canvas_set_particles_count(p *C.struct_wgpu_canvas, n C.int32_t) C.int32_t { //nolint:revive // C ABI name
	return call(p, "canvas_set_particles_count", func(c *fieldcanvas.Canvas) error {
		return c.SetParticlesCount(int(n))
	})
}

//export canvas_set_fluid_viscosity
func canvas_set_fluid_viscosity(p *C.struct_wgpu_canvas, v C.float) C.int32_t { //nolint:revive // C ABI name
	return call(p, "canvas_set_fluid_viscosity", func(c *fieldcanvas.Canvas) error {
		return c.SetFluidViscosity(float64(v))
	})
}

//export canvas_reset
func canvas_reset(p *C.struct_wgpu_canvas) C.int32_t { //nolint:revive // C ABI name
	return call(p, "canvas_reset", (*fieldcanvas.Canvas).Reset)
}

//export canvas_pause
func canvas_pause(p *C.struct_wgpu_canvas) C.int32_t { //nolint:revive // C ABI name
	return call(p, "canvas_pause", (*fieldcanvas.Canvas).Pause)
}

//export canvas_resume
func canvas_resume(p *C.struct_wgpu_canvas) C.int32_t { //nolint:revive // C ABI name
	return call(p, "canvas_resume", (*fieldcanvas.Canvas).Resume)
}

//export canvas_click
func canvas_click(p *C.struct_wgpu_canvas, x, y C.float) C.int32_t { //nolint:revive // C ABI name
	return call(p, "canvas_click", func(c *fieldcanvas.Canvas) error {
		return c.Click(float64(x), float64(y))
	})
}

//export canvas_touch
func canvas_touch(p *C.struct_wgpu_canvas, phase C.int32_t, x, y C.float) C.int32_t { //nolint:revive // C ABI name
	return call(p, "canvas_touch", func(c *fieldcanvas.Canvas) error {
		return c.Touch(fieldcanvas.TouchPhase(phase), float64(x), float64(y))
	})
}
