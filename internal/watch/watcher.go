package watch

import (
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a burst of events is coalesced before the callback runs.
const DefaultDebounce = 100 * time.Millisecond

// Watcher watches files and directories for changes with debouncing
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	done     chan struct{}
	once     sync.Once

	mu       sync.Mutex
	handlers map[string]func()
	timers   map[string]*time.Timer
}

func New(debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		watcher:  fw,
		debounce: debounce,
		done:     make(chan struct{}),
		handlers: make(map[string]func()),
		timers:   make(map[string]*time.Timer),
	}
	go w.loop()
	return w, nil
}

// Watch calls onChange after path changes. For a directory, any change to a
// file directly inside it counts.
func (w *Watcher) Watch(path string, onChange func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.watcher.Add(abs); err != nil {
		return err
	}
	w.mu.Lock()
	w.handlers[abs] = onChange
	w.mu.Unlock()
	return nil
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("watch: %v", err)

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	key, fn := w.lookup(event.Name)
	if fn == nil {
		return
	}

	switch {
	case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
		w.schedule(key, fn)

	// Handle file recreation (some editors do this)
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		if key != event.Name {
			// a file inside a watched directory went away
			w.schedule(key, fn)
			return
		}
		// Re-add the watch after a brief delay
		time.Sleep(w.debounce)
		if _, err := os.Stat(key); err == nil {
			if err := w.watcher.Add(key); err != nil {
				log.Printf("watch: re-adding %s: %v", key, err)
			}
		}
		w.schedule(key, fn)
	}
}

// lookup finds the handler registered for name itself or for its directory.
func (w *Watcher) lookup(name string) (string, func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if fn, ok := w.handlers[name]; ok {
		return name, fn
	}
	dir := filepath.Dir(name)
	if fn, ok := w.handlers[dir]; ok {
		return dir, fn
	}
	return "", nil
}

func (w *Watcher) schedule(key string, fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t := w.timers[key]; t != nil {
		t.Stop()
	}
	w.timers[key] = time.AfterFunc(w.debounce, fn)
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		w.mu.Lock()
		for _, t := range w.timers {
			t.Stop()
		}
		w.mu.Unlock()
		err = w.watcher.Close()
	})
	return err
}
