// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/fieldcanvas/field"
)

//go:embed wgsl/*.wgsl wgsl/velocity/*.wgsl
var sources embed.FS

// Shader names, also used as cache labels and module labels.
const (
	FieldSetting     = "field_setting"
	TrajectoryUpdate = "trajectory_update"
)

// velocityMarker is replaced by the per-animation velocity code.
const velocityMarker = "// #insert_velocity_code"

// ErrNoVelocityCode is returned for animations without an analytic field.
var ErrNoVelocityCode = errors.New("shader: animation has no velocity code")

func readSource(path string) (string, error) {
	b, err := sources.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("shader: %w", err)
	}
	return string(b), nil
}

// FieldSettingSource returns the field setting pass with the velocity code
// of anim inserted.
func FieldSettingSource(anim field.Animation) (string, error) {
	if !anim.IsField() {
		return "", fmt.Errorf("%w: %s", ErrNoVelocityCode, anim)
	}
	base, err := readSource("wgsl/" + FieldSetting + ".wgsl")
	if err != nil {
		return "", err
	}
	code, err := readSource("wgsl/velocity/" + anim.String() + ".wgsl")
	if err != nil {
		return "", err
	}
	if !strings.Contains(base, velocityMarker) {
		return "", fmt.Errorf("shader: %s has no velocity marker", FieldSetting)
	}
	return strings.Replace(base, velocityMarker, code, 1), nil
}

// TrajectoryUpdateSource returns the particle update pass.
func TrajectoryUpdateSource() (string, error) {
	return readSource("wgsl/" + TrajectoryUpdate + ".wgsl")
}

// Sources returns every shader needed by anim, keyed by shader name.
func Sources(anim field.Animation) (map[string]string, error) {
	out := make(map[string]string, 2)
	if anim.IsField() {
		src, err := FieldSettingSource(anim)
		if err != nil {
			return nil, err
		}
		out[FieldSetting] = src
	}
	src, err := TrajectoryUpdateSource()
	if err != nil {
		return nil, err
	}
	out[TrajectoryUpdate] = src
	return out, nil
}
