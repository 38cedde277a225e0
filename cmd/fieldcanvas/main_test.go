// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/fieldcanvas"
	"github.com/gogpu/fieldcanvas/field"
	"github.com/gogpu/fieldcanvas/player"
)

func TestLoadSettings(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "settings.toml")
	if err := os.WriteFile(file, []byte("particles_count = 1000\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		path      string
		animation string
		wantAnim  field.Animation
		wantType  player.FieldType
		wantCount int
		wantErr   bool
	}{
		{"defaults", "", "", field.AnimationPoiseuille, player.FieldTypeFluid, 30000, false},
		{"file", file, "", field.AnimationPoiseuille, player.FieldTypeFluid, 1000, false},
		{"override switches type", file, "spiral", field.AnimationSpiral, player.FieldTypeField, 1000, false},
		{"unknown animation", "", "vortex", 0, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := loadSettings(tt.path, tt.animation)
			if tt.wantErr {
				if err == nil {
					t.Error("loadSettings() succeeded, want error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if s.Animation != tt.wantAnim || s.FieldType != tt.wantType || s.ParticlesCount != tt.wantCount {
				t.Errorf("loadSettings() = %s/%s/%d", s.FieldType, s.Animation, s.ParticlesCount)
			}
		})
	}
}

func TestLoadSettingsInvalidFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "settings.toml")
	if err := os.WriteFile(file, []byte("point_size = 40\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := loadSettings(file, ""); !errors.Is(err, fieldcanvas.ErrInvalidSettings) {
		t.Errorf("loadSettings() = %v, want ErrInvalidSettings", err)
	}
}

func TestRenderCommand(t *testing.T) {
	out := t.TempDir()
	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{"render",
		"--animation", "basic", "--width", "120", "--height", "80",
		"--frames", "4", "--every", "2", "--out", out})
	if err := rootCmd.Execute(); err != nil {
		t.Fatal(err)
	}

	paths := strings.Fields(stdout.String())
	if len(paths) != 2 {
		t.Fatalf("render printed %d paths, want 2: %q", len(paths), stdout.String())
	}
	for _, p := range paths {
		if !strings.HasPrefix(p, out) && !strings.Contains(p, filepath.Base(out)) {
			t.Errorf("snapshot %s outside %s", p, out)
		}
		if _, err := os.Stat(p); err != nil {
			t.Error(err)
		}
	}
}
