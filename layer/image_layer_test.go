// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layer

import (
	"errors"
	"testing"

	"github.com/gogpu/gg"
)

func newContext(t *testing.T, w, h int) *gg.Context {
	t.Helper()
	dc := gg.NewContext(w, h)
	t.Cleanup(func() { _ = dc.Close() })
	return dc
}

func TestImageLayerPresent(t *testing.T) {
	l := NewImageLayer(20, 10)
	if l.Last() != nil {
		t.Fatal("Last() before any present should be nil")
	}

	dc := newContext(t, 20, 10)
	dc.ResizeTarget().Clear(gg.RGB(1, 0, 0))

	for range 3 {
		d, err := l.NextDrawable()
		if err != nil {
			t.Fatal(err)
		}
		if err := d.Present(dc); err != nil {
			t.Fatal(err)
		}
	}

	if l.Frames() != 3 {
		t.Errorf("Frames() = %d, want 3", l.Frames())
	}
	img := l.Last()
	if img.Bounds().Dx() != 20 || img.Bounds().Dy() != 10 {
		t.Fatalf("Last() bounds = %v", img.Bounds())
	}
	if c := img.RGBAAt(5, 5); c.R != 255 || c.G != 0 || c.A != 255 {
		t.Errorf("Last() pixel = %v, want opaque red", c)
	}

	// Last returns a copy.
	img.Pix[0] = 7
	if l.Last().Pix[0] == 7 {
		t.Error("Last() shares storage with the layer")
	}
}

func TestImageLayerSizeMismatch(t *testing.T) {
	l := NewImageLayer(20, 10)
	d, err := l.NextDrawable()
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Present(newContext(t, 10, 10)); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("Present(10x10) error = %v, want ErrSizeMismatch", err)
	}
	if err := d.Present(nil); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("Present(nil) error = %v, want ErrSizeMismatch", err)
	}
	if l.Frames() != 0 {
		t.Errorf("Frames() = %d after failed presents", l.Frames())
	}
}

func TestImageLayerSetSize(t *testing.T) {
	l := NewImageLayer(0, -3)
	if w, h := l.DrawableSize(); w != 1 || h != 1 {
		t.Errorf("DrawableSize() = %dx%d, want 1x1", w, h)
	}
	l.SetSize(30, 40)
	l.SetSize(0, 10)
	if w, h := l.DrawableSize(); w != 30 || h != 40 {
		t.Errorf("DrawableSize() = %dx%d, want 30x40", w, h)
	}
}

func TestImageLayerClose(t *testing.T) {
	l := NewImageLayer(4, 4)
	d, err := l.NextDrawable()
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	if err := l.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
	if _, err := l.NextDrawable(); !errors.Is(err, ErrClosed) {
		t.Errorf("NextDrawable() after Close = %v, want ErrClosed", err)
	}
	if err := d.Present(newContext(t, 4, 4)); !errors.Is(err, ErrClosed) {
		t.Errorf("Present() after Close = %v, want ErrClosed", err)
	}
}
