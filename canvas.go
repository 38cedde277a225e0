// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fieldcanvas

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gogpu/fieldcanvas/field"
	"github.com/gogpu/fieldcanvas/layer"
	"github.com/gogpu/fieldcanvas/player"
	"github.com/gogpu/fieldcanvas/shader"
	"github.com/gogpu/gg"
	"github.com/gogpu/wgpu/hal"
	"github.com/google/uuid"
)

// Canvas is a rendering context bound to a host layer.
//
// Every method is safe to call from any goroutine; calls are serialized.
// The host is expected to drive EnterFrame from one thread, typically its
// display link.
//
// Status codes reach the descriptor's callback after the call that raised
// them has released the canvas, so the callback may call back into the
// Canvas. Codes are delivered in order and one at a time. A code raised
// while another goroutine is inside the callback is delivered by that
// goroutine once its callback returns.
type Canvas struct {
	mu      sync.Mutex
	pending atomic.Pointer[Settings]

	callback func(int32)
	log      *slog.Logger

	cbMu     sync.Mutex
	outbox   []Status
	draining bool

	layer  layer.Layer
	dc     *gg.Context
	player player.Player
	rng    *rand.Rand
	pacer  *pacer

	scratch     *scratchDir
	keepScratch bool
	shaders     *shader.Cache
	device      hal.Device
	modules     *shader.Set
	watcher     *settingsWatcher

	width     atomic.Int32
	height    atomic.Int32
	frames    atomic.Uint64
	paused    atomic.Bool
	presented bool
	closed    bool
}

// New creates a canvas from a host descriptor.
//
// It binds the descriptor's layer, sizes the drawing context from the
// layer's drawable size, loads settings.toml from the scratch directory,
// prepares the compute shaders and reports StatusCreated. On failure nothing
// is reported and every resource acquired so far is released.
//
// With WithLayer the descriptor's View and Layer handles are not used and
// may be zero.
func New(desc Descriptor, opts ...Option) (*Canvas, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	check := desc
	if o.layer != nil {
		check.View, check.Layer = 1, 1
	}
	if err := check.Validate(); err != nil {
		return nil, err
	}

	log := o.logger
	if log == nil {
		log = Logger()
	}

	scratch, err := newScratchDir(desc.TemporaryDirectory)
	if err != nil {
		return nil, err
	}

	c := &Canvas{
		callback:    desc.Callback,
		log:         log.With("session", scratch.ID().String()),
		scratch:     scratch,
		keepScratch: o.keepScratch,
		pacer:       newPacer(o.clock, desc.MaximumFrames),
		rng:         o.rng,
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if err := c.init(desc, o); err != nil {
		_ = c.release()
		return nil, err
	}

	w, h := c.dc.Width(), c.dc.Height()
	c.log.Info("fieldcanvas: canvas created",
		"size", fmt.Sprintf("%dx%d", w, h),
		"animation", c.player.Params().Animation.String(),
		"max_fps", desc.MaximumFrames)
	c.notify(StatusCreated)
	c.flush()
	return c, nil
}

// init acquires every resource of a new canvas.
func (c *Canvas) init(desc Descriptor, o options) error {
	settings := o.settings
	if settings == nil {
		s, err := LoadSettings(c.scratch.settingsPath())
		if err != nil {
			return err
		}
		settings = &s
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	c.layer = o.layer
	if c.layer == nil {
		lopts := layer.Options{
			View:     desc.View,
			Layer:    desc.Layer,
			Width:    o.width,
			Height:   o.height,
			Provider: o.provider,
			Present:  o.present,
		}
		var err error
		if o.backend != "" {
			c.layer, err = layer.NewByName(o.backend, lopts)
		} else {
			c.layer, err = layer.New(lopts)
		}
		if err != nil {
			return fmt.Errorf("fieldcanvas: bind layer: %w", err)
		}
	}

	w, h := c.layer.DrawableSize()
	if w <= 0 || h <= 0 {
		w, h = o.width, o.height
	}
	c.dc = gg.NewContext(w, h)
	c.width.Store(int32(w))
	c.height.Store(int32(h))

	p, err := player.New(w, h, settings.Params(), c.rng)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	c.player = p

	c.shaders, err = shader.NewCache(c.scratch.shaders(), o.compile)
	if err != nil {
		c.log.Warn("fieldcanvas: shader cache disabled", "err", err)
		c.shaders = nil
	}
	if o.provider != nil {
		if dev, err := shader.DeviceFrom(o.provider); err == nil {
			c.device = dev
		} else {
			c.log.Info("fieldcanvas: shader modules disabled", "err", err)
		}
	}
	c.prepareShaders(settings.Animation)

	if o.watch {
		c.watcher, err = watchSettings(c.scratch.settingsPath(), c.log, c.queueSettings)
		if err != nil {
			return err
		}
	}
	return nil
}

// prepareShaders compiles the shaders of anim into the cache and, with a
// HAL device, replaces the shader modules. Failures are logged; the CPU
// renderer does not depend on them.
func (c *Canvas) prepareShaders(anim field.Animation) {
	if c.shaders == nil {
		return
	}
	if c.device == nil {
		if _, err := shader.Compile(c.shaders, anim); err != nil {
			c.log.Warn("fieldcanvas: shader compile failed", "animation", anim.String(), "err", err)
		}
		return
	}
	set, err := shader.Build(c.device, c.shaders, anim)
	if err != nil {
		c.log.Warn("fieldcanvas: shader modules failed", "animation", anim.String(), "err", err)
		return
	}
	c.modules.Destroy()
	c.modules = set
}

// queueSettings stores settings for the next frame. Called by the watcher.
func (c *Canvas) queueSettings(s Settings) {
	c.pending.Store(&s)
}

// notify queues s for the host callback. flush delivers it.
func (c *Canvas) notify(s Status) {
	c.log.Debug("fieldcanvas: status", "status", s.String())
	if c.callback == nil {
		return
	}
	c.cbMu.Lock()
	c.outbox = append(c.outbox, s)
	c.cbMu.Unlock()
}

// flush delivers queued status codes. It must be called without mu held.
// Only one goroutine delivers at a time; codes queued meanwhile are picked
// up by the delivering goroutine.
func (c *Canvas) flush() {
	c.cbMu.Lock()
	if c.draining {
		c.cbMu.Unlock()
		return
	}
	c.draining = true
	for len(c.outbox) > 0 {
		s := c.outbox[0]
		c.outbox = c.outbox[1:]
		c.cbMu.Unlock()
		c.deliver(s)
		c.cbMu.Lock()
	}
	c.draining = false
	c.cbMu.Unlock()
}

// deliver calls the host callback. A panicking callback does not leave the
// outbox stuck.
func (c *Canvas) deliver(s Status) {
	defer func() {
		if r := recover(); r != nil {
			c.cbMu.Lock()
			c.draining = false
			c.cbMu.Unlock()
			panic(r)
		}
	}()
	c.callback(int32(s))
}

// locked runs fn with the canvas lock held unless the canvas is closed, then
// delivers the status codes fn raised.
func (c *Canvas) locked(fn func() error) error {
	defer c.flush()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return fn()
}

// EnterFrame advances and presents one frame.
//
// It returns nil when a frame was presented or deliberately skipped because
// the canvas is paused or the frame cap has not elapsed. A frame that could
// not be acquired or presented returns an error and is reported as
// StatusFrameDropped or StatusFrameFailed; the canvas stays usable.
func (c *Canvas) EnterFrame() error {
	return c.locked(c.enterFrame)
}

func (c *Canvas) enterFrame() error {
	if s := c.pending.Swap(nil); s != nil {
		if err := c.applyParams(s.Params()); err != nil {
			c.log.Warn("fieldcanvas: settings reload rejected", "err", err)
		} else {
			c.log.Info("fieldcanvas: settings reloaded", "animation", s.Animation.String())
			c.notify(StatusSettingsReloaded)
		}
	}

	if c.paused.Load() || !c.pacer.due() {
		return nil
	}

	if err := c.syncSize(); err != nil {
		c.log.Warn("fieldcanvas: resize rejected", "err", err)
		c.notify(StatusFrameFailed)
		return err
	}

	d, err := c.layer.NextDrawable()
	if err != nil {
		if errors.Is(err, layer.ErrNoDrawable) {
			c.log.Debug("fieldcanvas: frame dropped", "frame", c.frames.Load())
			c.notify(StatusFrameDropped)
		} else {
			c.log.Warn("fieldcanvas: acquire drawable", "err", err)
			c.notify(StatusFrameFailed)
		}
		return fmt.Errorf("fieldcanvas: acquire drawable: %w", err)
	}

	if err := c.player.EnterFrame(c.dc, c.pacer.step()); err != nil {
		c.log.Warn("fieldcanvas: render", "err", err)
		c.notify(StatusFrameFailed)
		return fmt.Errorf("fieldcanvas: render: %w", err)
	}
	if err := d.Present(c.dc); err != nil {
		c.log.Warn("fieldcanvas: present", "err", err)
		c.notify(StatusFrameFailed)
		return fmt.Errorf("fieldcanvas: present: %w", err)
	}
	c.frames.Add(1)
	c.presented = true
	return nil
}

// syncSize follows drawable size changes. A zero size, as reported by a
// view that is not laid out yet, keeps the current size. On failure the
// context, the player and Size all keep the previous size.
func (c *Canvas) syncSize() error {
	w, h := c.layer.DrawableSize()
	if w <= 0 || h <= 0 || (w == c.dc.Width() && h == c.dc.Height()) {
		return nil
	}
	p, err := player.New(w, h, c.player.Params(), c.rng)
	if err != nil {
		return fmt.Errorf("fieldcanvas: resize to %dx%d: %w", w, h, err)
	}
	if err := c.dc.Resize(w, h); err != nil {
		return fmt.Errorf("fieldcanvas: resize to %dx%d: %w", w, h, err)
	}
	c.player = p
	c.presented = false
	c.width.Store(int32(w))
	c.height.Store(int32(h))
	c.log.Info("fieldcanvas: resized", "size", fmt.Sprintf("%dx%d", w, h))
	c.notify(StatusResized)
	return nil
}

// applyParams switches to p, replacing the player when the field type
// changes.
func (c *Canvas) applyParams(p player.Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	old := c.player.Params()
	if p.FieldType() != old.FieldType() {
		w, h := c.player.Size()
		np, err := player.New(w, h, p, c.rng)
		if err != nil {
			return err
		}
		c.player = np
	} else if err := c.player.SetParams(p); err != nil {
		return err
	}
	if p.Animation != old.Animation {
		c.prepareShaders(p.Animation)
	}
	return nil
}

// update edits a copy of the current parameters and applies it.
func (c *Canvas) update(fn func(p *player.Params)) error {
	return c.locked(func() error {
		p := c.player.Params()
		fn(&p)
		return c.applyParams(p)
	})
}

// Close releases the canvas: it stops the settings watcher, destroys the
// shader modules, closes the layer binding (the host layer stays alive),
// removes the session directory and reports StatusReleased.
// Close is idempotent.
func (c *Canvas) Close() error {
	defer c.flush()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	err := c.release()
	c.log.Info("fieldcanvas: canvas released", "frames", c.frames.Load())
	c.notify(StatusReleased)
	return err
}

// release frees everything init acquired. Safe on a partly built canvas.
func (c *Canvas) release() error {
	var errs []error
	if c.watcher != nil {
		errs = append(errs, c.watcher.Close())
	}
	c.modules.Destroy()
	if c.layer != nil {
		errs = append(errs, c.layer.Close())
	}
	if c.dc != nil {
		errs = append(errs, c.dc.Close())
	}
	if !c.keepScratch {
		errs = append(errs, c.scratch.removeSession())
	}
	return errors.Join(errs...)
}

// Snapshot writes the last presented frame as PNG into the session
// directory and reports StatusSnapshotSaved. A missing .png extension is
// added. It returns the written path.
func (c *Canvas) Snapshot(name string) (string, error) {
	var path string
	err := c.locked(func() error {
		if !c.presented {
			return ErrNoFrame
		}
		if !strings.EqualFold(filepath.Ext(name), ".png") {
			name += ".png"
		}
		p, err := c.scratch.sessionPath(name)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return fmt.Errorf("fieldcanvas: snapshot: %w", err)
		}
		f, err := os.Create(p)
		if err != nil {
			return fmt.Errorf("fieldcanvas: snapshot: %w", err)
		}
		if err := c.dc.EncodePNG(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("fieldcanvas: snapshot: %w", err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("fieldcanvas: snapshot: %w", err)
		}
		path = p
		c.notify(StatusSnapshotSaved)
		return nil
	})
	return path, err
}

// SetFieldType switches between field and fluid animations. The current
// animation is kept when it belongs to t, otherwise t's default is used.
func (c *Canvas) SetFieldType(t player.FieldType) error {
	if t > player.FieldTypeFluid {
		return fmt.Errorf("%w: %d", player.ErrUnknownFieldType, uint8(t))
	}
	return c.update(func(p *player.Params) {
		if !t.Accepts(p.Animation) {
			p.Animation = t.DefaultAnimation()
		}
	})
}

// SetAnimation switches the animation, changing the field type if needed.
func (c *Canvas) SetAnimation(a field.Animation) error {
	return c.update(func(p *player.Params) { p.Animation = a })
}

// SetFluidViscosity sets the fluid viscosity in [0, 1].
func (c *Canvas) SetFluidViscosity(v float64) error {
	return c.update(func(p *player.Params) { p.Viscosity = v })
}

// SetParticlesCount sets the requested particle count.
func (c *Canvas) SetParticlesCount(n int) error {
	return c.update(func(p *player.Params) { p.Count = n })
}

// SetParticleColor sets how trails are coloured.
func (c *Canvas) SetParticleColor(ct player.ColorType) error {
	return c.update(func(p *player.Params) { p.Color = ct })
}

// SetParticlePointSize sets the particle footprint in pixels.
func (c *Canvas) SetParticlePointSize(n int) error {
	return c.update(func(p *player.Params) { p.PointSize = n })
}

// SetShowField toggles the velocity heat map.
func (c *Canvas) SetShowField(show bool) error {
	return c.update(func(p *player.Params) { p.ShowField = show })
}

// Reset reseeds the particles and restores the velocity source.
func (c *Canvas) Reset() error {
	return c.locked(func() error {
		c.player.Reset()
		return nil
	})
}

// Pause stops frame advancement. EnterFrame returns nil without rendering
// until Resume.
func (c *Canvas) Pause() error {
	return c.locked(func() error {
		c.paused.Store(true)
		return nil
	})
}

// Resume restarts frame advancement.
func (c *Canvas) Resume() error {
	return c.locked(func() error {
		c.paused.Store(false)
		return nil
	})
}

// Click handles a tap at drawable pixel (x, y).
func (c *Canvas) Click(x, y float64) error {
	return c.locked(func() error {
		c.player.Click(x, y)
		return nil
	})
}

// TouchPhase is the stage of a drag gesture.
type TouchPhase int32

// Touch phases. The values are part of the C ABI.
const (
	TouchBegan TouchPhase = iota
	TouchMoved
	TouchEnded
)

// Touch handles one drag event at drawable pixel (x, y).
func (c *Canvas) Touch(phase TouchPhase, x, y float64) error {
	return c.locked(func() error {
		switch phase {
		case TouchBegan:
			c.player.TouchBegin()
			c.player.TouchMove(x, y)
		case TouchMoved:
			c.player.TouchMove(x, y)
		case TouchEnded:
			c.player.TouchEnd()
		default:
			return fmt.Errorf("fieldcanvas: unknown touch phase %d", phase)
		}
		return nil
	})
}

// Settings returns the current settings.
func (c *Canvas) Settings() (Settings, error) {
	var s Settings
	err := c.locked(func() error {
		s = settingsFromParams(c.player.Params())
		return nil
	})
	return s, err
}

// Size returns the drawing context size in pixels.
func (c *Canvas) Size() (width, height int) {
	return int(c.width.Load()), int(c.height.Load())
}

// Frames returns the number of presented frames.
func (c *Canvas) Frames() uint64 {
	return c.frames.Load()
}

// Paused reports whether the canvas is paused.
func (c *Canvas) Paused() bool {
	return c.paused.Load()
}

// SessionID identifies the canvas' scratch session.
func (c *Canvas) SessionID() uuid.UUID {
	return c.scratch.ID()
}

// Layer returns the bound layer.
func (c *Canvas) Layer() layer.Layer {
	return c.layer
}
