// file: internal/watcher/watcher.go
// version: 2.0.0
// guid: 9d0e1f2a-3b4c-5d6e-7f8a-9b0c1d2e3f4a

package watcher

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the default settle period before the callback fires.
const DefaultDebounce = 5 * time.Second

// Callback is invoked after the debounce period with the raw folder root.
type Callback func(rootDir string)

// Watcher monitors the raw media folder for file changes and invokes a
// callback after events settle. The server uses it to invalidate the folder
// listing cache and push a staleness event to connected admin sessions.
type Watcher struct {
	fsWatcher  *fsnotify.Watcher
	rootDir    string
	extensions map[string]bool
	debounce   time.Duration
	callback   Callback
	stop       chan struct{}
	stopped    chan struct{}
	mu         sync.Mutex
	timer      *time.Timer
	running    bool
}

// New creates a Watcher for the given media extensions. Pass 0 for debounce
// to use DefaultDebounce.
func New(extensions []string, callback Callback, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	extMap := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		extMap[strings.ToLower(ext)] = true
	}
	return &Watcher{
		extensions: extMap,
		debounce:   debounce,
		callback:   callback,
		stop:       make(chan struct{}),
		stopped:    make(chan struct{}),
	}
}

// Start begins watching rootDir recursively. It is safe to call only once.
func (w *Watcher) Start(rootDir string) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.fsWatcher = fsw
	w.rootDir = rootDir

	if err := w.addRecursive(rootDir); err != nil {
		fsw.Close()
		return err
	}

	go w.eventLoop()
	return nil
}

// Stop gracefully shuts down the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stop)
	if w.fsWatcher != nil {
		w.fsWatcher.Close()
	}
	<-w.stopped

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible dirs
		}
		if d.IsDir() {
			if watchErr := w.fsWatcher.Add(path); watchErr != nil {
				log.Printf("[WARN] watcher: cannot watch %s: %v", path, watchErr)
			}
		}
		return nil
	})
}

func (w *Watcher) eventLoop() {
	defer close(w.stopped)

	for {
		select {
		case <-w.stop:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Printf("[ERROR] watcher: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	// New directories get watched so nested drops are noticed.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = w.addRecursive(event.Name)
			w.scheduleNotify()
			return
		}
	}

	relevant := event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename|fsnotify.Write) != 0
	if !relevant {
		return
	}
	if !w.isMediaFile(event.Name) {
		return
	}

	w.scheduleNotify()
}

func (w *Watcher) scheduleNotify() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Reset(w.debounce)
		return
	}

	w.timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		w.timer = nil
		w.mu.Unlock()

		log.Printf("[INFO] watcher: raw folder %s changed", w.rootDir)
		if w.callback != nil {
			w.callback(w.rootDir)
		}
	})
}

func (w *Watcher) isMediaFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return w.extensions[ext]
}
