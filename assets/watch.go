// SPDX-License-Identifier: EPL-2.0

package assets

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads loaded files when they change on disk, until ctx is done.
// A reloaded sound is used by its next play; playing sounds and the current
// music track keep the clip they started with. Files that fail to decode
// (often because they are still being written) keep their previous clip.
func (s *Store) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer w.Close()

	for _, dir := range s.watchedDirs() {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				s.reload(ev.Name)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("asset watcher", "error", err)
		}
	}
}

func (s *Store) watchedDirs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var dirs []string
	for path := range s.sources {
		dir := filepath.Dir(path)
		if !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}
	slices.Sort(dirs)
	return dirs
}

// reload decodes path again for everything loaded from it and returns how
// many assets were replaced.
func (s *Store) reload(path string) int {
	path = filepath.Clean(path)

	s.mu.RLock()
	list := slices.Clone(s.sources[path])
	s.mu.RUnlock()

	n := 0
	for _, src := range list {
		var err error
		switch src.kind {
		case kindMusic:
			_, err = s.LoadMusic(src.name, path)
		default:
			_, err = s.Load(src.name, path, src.volume)
		}

		if err != nil {
			s.log.Warn("asset reload failed", "name", src.name, "path", path, "error", err)
			continue
		}
		s.log.Debug("asset reloaded", "name", src.name, "path", path)
		n++
	}
	return n
}
