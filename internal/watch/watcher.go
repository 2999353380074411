package watch

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher monitors one snapshot directory and reports which entities
// changed. Index, meta, registry, and journal files are ignored; only
// entity documents count as changes.
type Watcher struct {
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	dir       string
	onChange  func([]string)
	logger    *zap.Logger
	stopChan  chan struct{}
	wg        sync.WaitGroup
}

// New creates a watcher over dir. onChange receives the distinct entity
// names whose files settled during one debounce window.
func New(dir string, onChange func([]string), logger *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	w := &Watcher{
		watcher:  fsw,
		dir:      dir,
		onChange: onChange,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
	w.debouncer = newDebouncer(200*time.Millisecond, func(files []string) {
		names := entityNames(files)
		if len(names) == 0 {
			return
		}
		w.logger.Info("snapshot changed", zap.Strings("objects", names))
		w.onChange(names)
	})

	return w, nil
}

// Start begins watching the snapshot directory.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", w.dir, err)
	}
	w.logger.Info("watching snapshot directory", zap.String("dir", w.dir))

	w.wg.Add(1)
	go w.watch()

	return nil
}

// Stop stops the watcher. Safe to call more than once.
func (w *Watcher) Stop() error {
	select {
	case <-w.stopChan:
		return nil
	default:
		close(w.stopChan)
	}

	w.wg.Wait()
	w.debouncer.stop()
	return w.watcher.Close()
}

// watch is the main event loop.
func (w *Watcher) watch() {
	defer w.wg.Done()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !isEntityFile(event.Name) {
				continue
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				w.debouncer.add(event.Name)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))

		case <-w.stopChan:
			return
		}
	}
}

// isEntityFile reports whether path looks like an entity document. The
// store keeps its own files underscore-prefixed.
func isEntityFile(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, "_") || strings.HasPrefix(base, ".") {
		return false
	}
	return strings.HasSuffix(base, ".json")
}

// entityNames maps entity file paths to sorted distinct object names.
func entityNames(files []string) []string {
	seen := make(map[string]struct{}, len(files))
	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), ".json")
		seen[name] = struct{}{}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// debouncer collects file paths and fires its callback once writes settle.
type debouncer struct {
	duration time.Duration
	mutex    sync.Mutex
	timer    *time.Timer
	files    map[string]struct{}
	callback func([]string)
}

func newDebouncer(duration time.Duration, callback func([]string)) *debouncer {
	return &debouncer{
		duration: duration,
		files:    make(map[string]struct{}),
		callback: callback,
	}
}

// add records a file and restarts the settle timer.
func (d *debouncer) add(file string) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.files[file] = struct{}{}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, d.flush)
}

// flush hands the accumulated files to the callback.
func (d *debouncer) flush() {
	d.mutex.Lock()
	if len(d.files) == 0 {
		d.mutex.Unlock()
		return
	}
	files := make([]string, 0, len(d.files))
	for file := range d.files {
		files = append(files, file)
	}
	d.files = make(map[string]struct{})
	callback := d.callback
	d.mutex.Unlock()

	if callback != nil {
		callback(files)
	}
}

func (d *debouncer) stop() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
}
