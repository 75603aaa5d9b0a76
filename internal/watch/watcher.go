package watch

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// debounceDelay is how long a file must stay quiet before a change is
// reported. Models append profiling sections in bursts at the end of a run
// or cycle; re-ingesting on every write would parse half-written sections.
const debounceDelay = 500 * time.Millisecond

// Watcher reports profiling log changes so an ingested experiment can be
// refreshed while the model is still running.
type Watcher struct {
	fsw     *fsnotify.Watcher
	Changes chan string // paths whose content settled after a change
	paths   []string
}

// New creates a Watcher over the files matched by the given glob patterns.
// Patterns are expanded once at startup; recursive patterns like
// archive/**/*.out are supported.
func New(patterns []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:     fsw,
		Changes: make(chan string, 64),
	}

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			log.Printf("warning: failed to expand pattern %q: %v", pattern, err)
			continue
		}
		for _, m := range matches {
			abs, _ := filepath.Abs(m)
			if err := fsw.Add(abs); err != nil {
				log.Printf("warning: cannot watch %s: %v", abs, err)
				continue
			}
			w.paths = append(w.paths, abs)
		}
	}

	return w, nil
}

// Paths returns the files being watched.
func (w *Watcher) Paths() []string {
	return w.paths
}

// Start forwards settled file changes to Changes. It blocks until the
// context is cancelled.
func (w *Watcher) Start(ctx context.Context) {
	defer w.fsw.Close()
	defer close(w.Changes)

	// Pending changes by path, flushed once the debounce window passes.
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(debounceDelay / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				pending[ev.Name] = time.Now()
			}

		case now := <-ticker.C:
			for path, last := range pending {
				if now.Sub(last) >= debounceDelay {
					delete(pending, path)
					select {
					case w.Changes <- path:
					default:
						log.Printf("watch: dropped change notification for %s", path)
					}
				}
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("watch error: %v", err)
		}
	}
}
