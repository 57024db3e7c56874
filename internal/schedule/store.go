package schedule

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

var active atomic.Pointer[Schedule]

func init() {
	active.Store(Default())
}

// Current returns the active schedule.
func Current() *Schedule {
	return active.Load()
}

// Set replaces the active schedule.
func Set(s *Schedule) {
	active.Store(s)
	log.Info().Str("version", s.Version).Str("currency", s.Currency).Msg("poverty schedule activated")
}

// Reset restores the embedded schedule.
func Reset() {
	active.Store(Default())
}

// Load loads the schedule at path and activates it.
func Load(path string) error {
	s, err := LoadFile(path)
	if err != nil {
		return err
	}

	Set(s)
	return nil
}

// Watch reloads the schedule at path whenever the file changes, until ctx is done.
//
// The directory is watched instead of the file because editors and config
// management tools usually replace files instead of writing to them.
// A file that fails to parse or validate is logged and ignored, the previous
// schedule stays active.
func Watch(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create watcher for poverty schedule: %w", err)
	}

	path = filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return fmt.Errorf("could not watch poverty schedule: %w", err)
	}

	go func() {
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				if filepath.Clean(event.Name) != path || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
					continue
				}

				if err := Load(path); err != nil {
					log.Warn().Err(err).Str("file", path).Msg("poverty schedule not reloaded")
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Error().Err(err).Str("file", path).Msg("poverty schedule watcher")
			}
		}
	}()

	return nil
}
