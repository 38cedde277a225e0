// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fieldcanvas

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gogpu/fieldcanvas/field"
	"github.com/gogpu/fieldcanvas/player"
	"github.com/pelletier/go-toml/v2"
)

// SettingsFile is the name of the settings file inside the scratch root.
const SettingsFile = "settings.toml"

// Settings is the persisted configuration of a canvas.
//
// Example settings.toml:
//
//	field_type = "fluid"
//	animation = "lid_driven_cavity"
//	particle_color = "movement_angle"
//	particles_count = 20000
type Settings struct {
	FieldType        player.FieldType `toml:"field_type"`
	Animation        field.Animation  `toml:"animation"`
	ParticleColor    player.ColorType `toml:"particle_color"`
	ParticlesCount   int              `toml:"particles_count"`
	ParticleLifetime int              `toml:"particle_lifetime"`
	PointSize        int              `toml:"point_size"`
	FluidViscosity   float64          `toml:"fluid_viscosity"`
	FadeOutFactor    float64          `toml:"fade_out_factor"`
	ShowField        bool             `toml:"show_field"`
}

// DefaultSettings returns the settings of a canvas without a settings file.
func DefaultSettings() Settings {
	return settingsFromParams(player.DefaultParams())
}

func settingsFromParams(p player.Params) Settings {
	return Settings{
		FieldType:        p.FieldType(),
		Animation:        p.Animation,
		ParticleColor:    p.Color,
		ParticlesCount:   p.Count,
		ParticleLifetime: int(p.Lifetime),
		PointSize:        p.PointSize,
		FluidViscosity:   p.Viscosity,
		FadeOutFactor:    p.FadeOut,
		ShowField:        p.ShowField,
	}
}

// Params converts s to player parameters.
func (s Settings) Params() player.Params {
	return player.Params{
		Animation: s.Animation,
		Color:     s.ParticleColor,
		Count:     s.ParticlesCount,
		Lifetime:  float64(s.ParticleLifetime),
		PointSize: s.PointSize,
		Viscosity: s.FluidViscosity,
		FadeOut:   s.FadeOutFactor,
		ShowField: s.ShowField,
	}
}

// Validate checks every field and that the animation belongs to the field type.
func (s Settings) Validate() error {
	if !s.FieldType.Accepts(s.Animation) {
		return fmt.Errorf("%w: animation %s is not a %s animation", ErrInvalidSettings, s.Animation, s.FieldType)
	}
	if s.ParticleLifetime < 0 {
		return fmt.Errorf("%w: particle lifetime %d", ErrInvalidSettings, s.ParticleLifetime)
	}
	if err := s.Params().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	return nil
}

// presence records which selector keys a settings file sets.
type presence struct {
	FieldType *string `toml:"field_type"`
	Animation *string `toml:"animation"`
}

// ReadSettings decodes TOML settings from r on top of the defaults.
//
// A file that only names a field type gets that type's default animation;
// a file that only names an animation gets the matching field type.
// Unknown keys are rejected.
func ReadSettings(r io.Reader) (Settings, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Settings{}, fmt.Errorf("fieldcanvas: read settings: %w", err)
	}

	s := DefaultSettings()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return Settings{}, fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}

	var p presence
	if err := toml.Unmarshal(data, &p); err != nil {
		return Settings{}, fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	switch {
	case p.FieldType != nil && p.Animation == nil:
		s.Animation = s.FieldType.DefaultAnimation()
	case p.FieldType == nil && p.Animation != nil:
		s.FieldType = settingsFromParams(s.Params()).FieldType
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// LoadSettings reads the settings file at path. A missing file yields the
// defaults.
func LoadSettings(path string) (Settings, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("fieldcanvas: open settings: %w", err)
	}
	defer f.Close()

	s, err := ReadSettings(f)
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return s, nil
}

// Encode writes s as TOML.
func (s Settings) Encode(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(s); err != nil {
		return fmt.Errorf("fieldcanvas: encode settings: %w", err)
	}
	return nil
}
