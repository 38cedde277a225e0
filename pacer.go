// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fieldcanvas

import (
	"time"

	"github.com/benbjohnson/clock"
)

// pacer enforces the frame rate cap.
//
// A frame is due when at least three quarters of an interval have passed
// since the last rendered frame, so display-link jitter does not drop every
// other frame when the cap equals the refresh rate.
type pacer struct {
	clock    clock.Clock
	interval time.Duration
	last     time.Time
	started  bool
}

func newPacer(c clock.Clock, fps int32) *pacer {
	p := &pacer{clock: c}
	if fps > 0 {
		p.interval = time.Second / time.Duration(fps)
	}
	return p
}

// due reports whether a frame should be rendered now and, if so, records it.
func (p *pacer) due() bool {
	now := p.clock.Now()
	if p.interval > 0 && p.started && now.Before(p.last.Add(p.interval-p.interval/4)) {
		return false
	}
	p.last = now
	p.started = true
	return true
}

// step returns the simulation step of one frame in 60 Hz units.
func (p *pacer) step() float64 {
	if p.interval == 0 {
		return 1
	}
	return p.interval.Seconds() * 60
}
