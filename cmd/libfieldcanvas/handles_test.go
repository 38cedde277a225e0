// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/gogpu/fieldcanvas"
)

func fakeCompile(string) ([]byte, error) {
	return []byte{0x03, 0x02, 0x23, 0x07, 0, 0, 1, 0}, nil
}

func testOptions() []fieldcanvas.Option {
	s := fieldcanvas.DefaultSettings()
	s.ParticlesCount = 100
	return []fieldcanvas.Option{
		fieldcanvas.WithLayerBackend("image"),
		fieldcanvas.WithDefaultSize(64, 48),
		fieldcanvas.WithSettings(s),
		fieldcanvas.WithShaderCompiler(fakeCompile),
	}
}

type statusLog struct {
	mu    sync.Mutex
	codes []fieldcanvas.Status
}

func (l *statusLog) callback(code int32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.codes = append(l.codes, fieldcanvas.Status(code))
}

func (l *statusLog) got() []fieldcanvas.Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.codes)
}

func TestHostDescriptor(t *testing.T) {
	called := false
	desc := hostDescriptor(0x10, 0x20, 30, "/tmp/x", func(int32) { called = true })
	if desc.View != 0x10 || desc.Layer != 0x20 || desc.MaximumFrames != 30 || desc.TemporaryDirectory != "/tmp/x" {
		t.Errorf("hostDescriptor() = %+v", desc)
	}
	desc.Callback(0)
	if !called {
		t.Error("callback not forwarded")
	}
	if desc := hostDescriptor(1, 1, 0, "", nil); desc.Callback != nil {
		t.Error("nil callback became non-nil")
	}
}

func TestCreateCanvasRejectsDescriptor(t *testing.T) {
	tests := []struct {
		name string
		desc fieldcanvas.Descriptor
	}{
		{"zero layer", hostDescriptor(1, 0, 60, t.TempDir(), nil)},
		{"zero view", hostDescriptor(0, 1, 60, t.TempDir(), nil)},
		{"negative frame cap", hostDescriptor(1, 1, -1, t.TempDir(), nil)},
		{"no temporary directory", hostDescriptor(1, 1, 60, "", nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &statusLog{}
			tt.desc.Callback = log.callback
			if c := createCanvas(tt.desc, testOptions()...); c != nil {
				_ = c.Close()
				t.Fatal("createCanvas() returned a canvas, want nil")
			}
			if got := log.got(); len(got) != 0 {
				t.Errorf("callbacks = %v, want none", got)
			}
		})
	}
}

func TestHandleLifecycle(t *testing.T) {
	log := &statusLog{}
	c := createCanvas(hostDescriptor(1, 1, 0, t.TempDir(), log.callback), testOptions()...)
	if c == nil {
		t.Fatal("createCanvas() = nil")
	}

	set := newHandleSet()
	const addr = 0x1000
	set.add(addr, c)

	if got := set.get(0); got != nil {
		t.Errorf("get(NULL) = %v, want nil", got)
	}
	if got := set.get(addr + 8); got != nil {
		t.Errorf("get(unknown) = %v, want nil", got)
	}
	if got := set.get(addr); got != c {
		t.Fatalf("get(live) = %v, want the canvas", got)
	}

	frame := func(c *fieldcanvas.Canvas) error { return c.EnterFrame() }
	if rc := callCanvas(set, addr, "enter_frame", frame); rc != 0 {
		t.Errorf("callCanvas(live) = %d, want 0", rc)
	}
	if c.Frames() != 1 {
		t.Errorf("Frames() = %d, want 1", c.Frames())
	}
	failing := func(*fieldcanvas.Canvas) error { return errors.New("rejected") }
	if rc := callCanvas(set, addr, "canvas_reset", failing); rc != -1 {
		t.Errorf("callCanvas(failing) = %d, want -1", rc)
	}
	if rc := callCanvas(set, 0, "canvas_reset", frame); rc != -1 {
		t.Errorf("callCanvas(NULL) = %d, want -1", rc)
	}

	if !releaseCanvas(set, addr) {
		t.Fatal("releaseCanvas(live) = false")
	}
	if set.len() != 0 {
		t.Errorf("len() after release = %d", set.len())
	}

	// Stale handles are ignored without touching the released canvas.
	if got := set.get(addr); got != nil {
		t.Errorf("get(stale) = %v, want nil", got)
	}
	if releaseCanvas(set, addr) {
		t.Error("second releaseCanvas() = true, want false")
	}
	if releaseCanvas(set, 0) {
		t.Error("releaseCanvas(NULL) = true, want false")
	}
	if rc := callCanvas(set, addr, "canvas_pause", frame); rc != -1 {
		t.Errorf("callCanvas(stale) = %d, want -1", rc)
	}

	want := []fieldcanvas.Status{fieldcanvas.StatusCreated, fieldcanvas.StatusReleased}
	if got := log.got(); !slices.Equal(got, want) {
		t.Errorf("callbacks = %v, want %v", got, want)
	}
}

func TestHandleSetConcurrentRelease(t *testing.T) {
	c := createCanvas(hostDescriptor(1, 1, 0, t.TempDir(), nil), testOptions()...)
	if c == nil {
		t.Fatal("createCanvas() = nil")
	}
	set := newHandleSet()
	const addr = 0x2000
	set.add(addr, c)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		released int
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = callCanvas(set, addr, "enter_frame", (*fieldcanvas.Canvas).EnterFrame)
			if releaseCanvas(set, addr) {
				mu.Lock()
				released++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if released != 1 {
		t.Errorf("releases = %d, want exactly 1", released)
	}
}
