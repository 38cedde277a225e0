// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fieldcanvas

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// settingsWatcher reloads a settings file when it changes on disk.
//
// The parent directory is watched rather than the file, so editors that
// replace the file by rename are seen too. Parsed settings are handed to
// onChange from the watcher goroutine; invalid files are logged and skipped.
type settingsWatcher struct {
	fs       *fsnotify.Watcher
	path     string
	log      *slog.Logger
	onChange func(Settings)
	done     chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
}

func watchSettings(path string, log *slog.Logger, onChange func(Settings)) (*settingsWatcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fieldcanvas: settings watcher: %w", err)
	}
	if err := fsWatch.Add(filepath.Dir(path)); err != nil {
		_ = fsWatch.Close()
		return nil, fmt.Errorf("fieldcanvas: watch %s: %w", filepath.Dir(path), err)
	}

	w := &settingsWatcher{
		fs:       fsWatch,
		path:     filepath.Clean(path),
		log:      log,
		onChange: onChange,
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

func (w *settingsWatcher) run() {
	defer w.wg.Done()
	for {
		select {
		case e, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(e.Name) != w.path || e.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			s, err := LoadSettings(w.path)
			if err != nil {
				w.log.Warn("fieldcanvas: ignoring settings change", "path", w.path, "err", err)
				continue
			}
			w.log.Debug("fieldcanvas: settings changed", "path", w.path)
			w.onChange(s)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("fieldcanvas: settings watcher", "err", err)

		case <-w.done:
			return
		}
	}
}

// Close stops the watcher and waits for its goroutine. Close is idempotent.
func (w *settingsWatcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
		w.wg.Wait()
	})
	return err
}
