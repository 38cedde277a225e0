// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fieldcanvas

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Scratch layout below the host's temporary directory.
const (
	scratchName  = "fieldcanvas"
	sessionsName = "sessions"
	shadersName  = "shaders"
)

// scratchDir confines every file the canvas writes to
// <TemporaryDirectory>/fieldcanvas.
//
//	fieldcanvas/
//	    settings.toml      read, never written
//	    shaders/           compiled SPIR-V, shared by sessions
//	    sessions/<uuid>/   snapshots of one canvas, removed on Close
type scratchDir struct {
	root    string
	id      uuid.UUID
	session string
}

// newScratchDir creates the scratch tree for a new session. tmp is created
// when missing.
func newScratchDir(tmp string) (*scratchDir, error) {
	abs, err := filepath.Abs(tmp)
	if err != nil {
		return nil, fmt.Errorf("%w: temporary directory: %w", ErrInvalidDescriptor, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("%w: temporary directory: %w", ErrInvalidDescriptor, err)
	}
	// Resolve symlinks so containment checks compare real paths
	// (/var -> /private/var on iOS).
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	}

	id := uuid.New()
	s := &scratchDir{
		root: filepath.Join(abs, scratchName),
		id:   id,
	}
	s.session = filepath.Join(s.root, sessionsName, id.String())
	for _, dir := range []string{s.shaders(), s.session} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("fieldcanvas: create scratch dir: %w", err)
		}
	}
	return s, nil
}

// ID returns the session identifier.
func (s *scratchDir) ID() uuid.UUID { return s.id }

func (s *scratchDir) settingsPath() string { return filepath.Join(s.root, SettingsFile) }

func (s *scratchDir) shaders() string { return filepath.Join(s.root, shadersName) }

// sessionPath returns name resolved inside the session directory. Paths
// into other sessions or the rest of the scratch tree are rejected.
func (s *scratchDir) sessionPath(name string) (string, error) {
	return within(s.session, filepath.Join(s.session, name))
}

// resolve cleans p and verifies that it stays below the root.
func (s *scratchDir) resolve(p string) (string, error) {
	return within(s.root, p)
}

// within cleans p and verifies that it lies strictly below base.
func within(base, p string) (string, error) {
	clean := filepath.Clean(p)
	rel, err := filepath.Rel(base, clean)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", fmt.Errorf("%w: %s", ErrOutsideScratch, p)
	}
	return clean, nil
}

// removeSession deletes the session directory and everything in it.
func (s *scratchDir) removeSession() error {
	if _, err := s.resolve(s.session); err != nil {
		return err
	}
	return os.RemoveAll(s.session)
}
