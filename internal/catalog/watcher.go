package catalog

import (
	"log"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 2 * time.Second

// Watcher triggers a library rescan when a watched root changes. Events
// are debounced so a burst of file copies produces one rescan.
type Watcher struct {
	fw      *fsnotify.Watcher
	refresh func()
	done    chan struct{}
}

// NewWatcher watches the given roots and invokes refresh after changes
// settle. Roots that cannot be watched are logged and skipped.
func NewWatcher(roots []string, refresh func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, root := range roots {
		if err := fw.Add(root); err != nil {
			log.Printf("Warning: cannot watch library root %s: %v", root, err)
		}
	}
	w := &Watcher{fw: fw, refresh: refresh, done: make(chan struct{})}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Remove) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			if strings.HasPrefix(baseName(ev.Name), ".") {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.refresh()
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			log.Printf("Library watcher error: %v", err)
		case <-w.done:
			return
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fw.Close()
}

func baseName(p string) string {
	if i := strings.LastIndexAny(p, "/\\"); i >= 0 {
		return p[i+1:]
	}
	return p
}
