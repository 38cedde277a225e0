// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fieldcanvas

import "fmt"

// Status is the code passed to the host's status callback.
type Status int32

// Status codes. The values are part of the C ABI.
const (
	// StatusCreated is reported once when construction succeeds.
	StatusCreated Status = 0
	// StatusReleased is reported once by Close.
	StatusReleased Status = 1
	// StatusResized is reported when the drawable size changed.
	StatusResized Status = 2
	// StatusFrameDropped is reported when the layer had no drawable.
	StatusFrameDropped Status = 3
	// StatusFrameFailed is reported when rendering or presenting failed.
	StatusFrameFailed Status = 4
	// StatusSettingsReloaded is reported when a changed settings file was applied.
	StatusSettingsReloaded Status = 5
	// StatusSnapshotSaved is reported when Snapshot wrote a file.
	StatusSnapshotSaved Status = 6
)

var statusNames = [...]string{
	StatusCreated:          "created",
	StatusReleased:         "released",
	StatusResized:          "resized",
	StatusFrameDropped:     "frame_dropped",
	StatusFrameFailed:      "frame_failed",
	StatusSettingsReloaded: "settings_reloaded",
	StatusSnapshotSaved:    "snapshot_saved",
}

func (s Status) String() string {
	if s >= 0 && int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", int32(s))
}
