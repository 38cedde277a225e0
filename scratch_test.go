// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fieldcanvas

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestScratchLayout(t *testing.T) {
	s, err := newScratchDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, dir := range []string{s.shaders(), s.session} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("%s missing: %v", dir, err)
		}
	}
	if filepath.Base(s.session) != s.ID().String() {
		t.Errorf("session dir %s is not named after %s", s.session, s.ID())
	}

	other, err := newScratchDir(filepath.Dir(s.root))
	if err != nil {
		t.Fatal(err)
	}
	if other.session == s.session {
		t.Error("two sessions share a directory")
	}
}

func TestScratchRejectsEscapes(t *testing.T) {
	s, err := newScratchDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		ok   bool
	}{
		{"frame.png", true},
		{"nested/frame.png", true},
		{"nested/../frame.png", true},
		{"../other/frame.png", false},
		{"../" + s.ID().String() + "/frame.png", true},
		{"../../settings.toml", false},
		{"../../shaders/x.spv", false},
		{"../../../escape.png", false},
		{"../../../../etc/passwd", false},
		{"../../..", false},
		{".", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.sessionPath(tt.name)
			if tt.ok && err != nil {
				t.Errorf("sessionPath(%q) error = %v", tt.name, err)
			}
			if !tt.ok && !errors.Is(err, ErrOutsideScratch) {
				t.Errorf("sessionPath(%q) error = %v, want ErrOutsideScratch", tt.name, err)
			}
		})
	}

	if _, err := s.resolve(s.root); !errors.Is(err, ErrOutsideScratch) {
		t.Errorf("resolve(root) error = %v, want ErrOutsideScratch", err)
	}
}

func TestScratchRemoveSession(t *testing.T) {
	s, err := newScratchDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	p, err := s.sessionPath("frame.png")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte("png"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := s.removeSession(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(s.session); !os.IsNotExist(err) {
		t.Errorf("session dir still exists: %v", err)
	}
	if _, err := os.Stat(s.shaders()); err != nil {
		t.Errorf("shader cache removed with the session: %v", err)
	}
}

func TestScratchTemporaryDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := newScratchDir(file); !errors.Is(err, ErrInvalidDescriptor) {
		t.Errorf("newScratchDir(file) error = %v, want ErrInvalidDescriptor", err)
	}

	missing := filepath.Join(dir, "missing", "tmp")
	if _, err := newScratchDir(missing); err != nil {
		t.Errorf("newScratchDir(missing) error = %v, want the directory created", err)
	}
}
