package buttons

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads c whenever the options image at path is written, replaced
// or removed. It blocks until ctx is done. The containing directory is watched
// so that files replaced by rename are still seen.
func Watch(ctx context.Context, path string, c *Controller) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	path = filepath.Clean(path)
	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) ||
				ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				reg := c.Reload()
				log.Printf("options %s changed, disabled buttons now %v", path, reg.Disabled())
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("watching %s: %v", path, err)
		}
	}
}
