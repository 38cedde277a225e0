// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build ios

package layer

/*
#cgo CFLAGS: -Werror -xobjective-c -fmodules -fobjc-arc
#cgo LDFLAGS: -framework UIKit -framework QuartzCore -framework Metal

@import UIKit;
@import Metal;
@import QuartzCore.CAMetalLayer;

#include <stdint.h>
#include <CoreFoundation/CoreFoundation.h>

static int fc_metal_bind(uintptr_t viewRef, uintptr_t layerRef) {
	@autoreleasepool {
		id obj = (__bridge id)(void *)layerRef;
		if (![obj isKindOfClass:[CAMetalLayer class]]) {
			return -1;
		}
		CAMetalLayer *layer = (CAMetalLayer *)obj;
		if (layer.device == nil) {
			layer.device = MTLCreateSystemDefaultDevice();
			if (layer.device == nil) {
				return -2;
			}
		}
		layer.pixelFormat = MTLPixelFormatBGRA8Unorm;
		// Drawables are written from the CPU with replaceRegion.
		layer.framebufferOnly = NO;
		UIView *view = (__bridge UIView *)(void *)viewRef;
		layer.contentsScale = view.contentScaleFactor;
		return 0;
	}
}

static void fc_metal_drawable_size(uintptr_t layerRef, int *w, int *h) {
	@autoreleasepool {
		CAMetalLayer *layer = (__bridge CAMetalLayer *)(void *)layerRef;
		CGSize size = layer.bounds.size;
		size.width *= layer.contentsScale;
		size.height *= layer.contentsScale;
		if (!CGSizeEqualToSize(layer.drawableSize, size)) {
			layer.drawableSize = size;
		}
		*w = (int)size.width;
		*h = (int)size.height;
	}
}

static CFTypeRef fc_metal_next_drawable(uintptr_t layerRef) {
	@autoreleasepool {
		CAMetalLayer *layer = (__bridge CAMetalLayer *)(void *)layerRef;
		id<CAMetalDrawable> drawable = [layer nextDrawable];
		if (drawable == nil) {
			return NULL;
		}
		return CFBridgingRetain(drawable);
	}
}

static int fc_metal_present(CFTypeRef drawableRef, const void *pixels, int w, int h, int stride) {
	@autoreleasepool {
		id<CAMetalDrawable> drawable = CFBridgingRelease(drawableRef);
		id<MTLTexture> tex = drawable.texture;
		if ((int)tex.width != w || (int)tex.height != h) {
			return -1;
		}
		[tex replaceRegion:MTLRegionMake2D(0, 0, w, h)
		       mipmapLevel:0
		         withBytes:pixels
		       bytesPerRow:stride];
		[drawable present];
		return 0;
	}
}

static void fc_metal_release_drawable(CFTypeRef drawableRef) {
	CFRelease(drawableRef);
}
*/
import "C"

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/gogpu/gg"
	"github.com/gogpu/gputypes"
)

// metalLayer presents into a host-owned CAMetalLayer.
//
// Pixels are uploaded with replaceRegion, so the layer is configured with
// framebufferOnly = NO and BGRA8Unorm. The host's view and layer are borrowed
// and never retained past a call.
type metalLayer struct {
	mu      sync.Mutex
	view    C.uintptr_t
	layer   C.uintptr_t
	pending C.CFTypeRef
	bgra    []byte
	closed  bool
}

func newMetalLayer(opts Options) (Layer, error) {
	if opts.View == 0 || opts.Layer == 0 {
		return nil, fmt.Errorf("%w: metal needs a view and a layer", ErrUnsupported)
	}
	if f := opts.format(); f != gputypes.TextureFormatBGRA8Unorm {
		return nil, fmt.Errorf("%w: metal format %v", ErrInvalidOptions, f)
	}
	l := &metalLayer{view: C.uintptr_t(opts.View), layer: C.uintptr_t(opts.Layer)}
	switch C.fc_metal_bind(l.view, l.layer) {
	case 0:
	case -1:
		return nil, fmt.Errorf("%w: layer is not a CAMetalLayer", ErrInvalidOptions)
	default:
		return nil, fmt.Errorf("%w: MTLCreateSystemDefaultDevice returned nil", ErrNoDevice)
	}
	return l, nil
}

// DrawableSize returns the layer bounds in pixels and keeps the layer's
// drawableSize in sync with them.
func (l *metalLayer) DrawableSize() (width, height int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return 0, 0
	}
	var w, h C.int
	C.fc_metal_drawable_size(l.layer, &w, &h)
	return int(w), int(h)
}

func (l *metalLayer) NextDrawable() (Drawable, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil, ErrClosed
	}
	l.dropPending()
	d := C.fc_metal_next_drawable(l.layer)
	if d == 0 {
		return nil, ErrNoDrawable
	}
	l.pending = d
	return &metalDrawable{layer: l, ref: d}, nil
}

// dropPending releases a drawable that was acquired but never presented.
// Must be called with lock held.
func (l *metalLayer) dropPending() {
	if l.pending != 0 {
		C.fc_metal_release_drawable(l.pending)
		l.pending = 0
	}
}

func (l *metalLayer) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	l.dropPending()
	l.bgra = nil
	return nil
}

type metalDrawable struct {
	layer *metalLayer
	ref   C.CFTypeRef
}

func (d *metalDrawable) Present(dc *gg.Context) error {
	if dc == nil {
		return fmt.Errorf("%w: nil context", ErrSizeMismatch)
	}
	l := d.layer
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrClosed
	}
	if l.pending != d.ref {
		return ErrPresented
	}

	pm := dc.ResizeTarget()
	w, h := pm.Width(), pm.Height()
	l.bgra = swizzleBGRA(l.bgra, pm.Data())

	// fc_metal_present consumes the drawable reference.
	l.pending = 0
	if C.fc_metal_present(d.ref, unsafe.Pointer(&l.bgra[0]), C.int(w), C.int(h), C.int(w*4)) != 0 {
		return fmt.Errorf("%w: context %dx%d", ErrSizeMismatch, w, h)
	}
	return nil
}

func init() {
	Register("metal", 100, newMetalLayer, nil)
}
