package watch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/c360studio/curriculens/taxonomy"
)

const (
	// DefaultDebounceDelay is how long changes settle before a reload.
	DefaultDebounceDelay = 500 * time.Millisecond

	eventChannelBuffer = 16
)

// ErrDictionaryRemoved is reported when the watched file disappears. The
// current snapshot stays installed.
var ErrDictionaryRemoved = errors.New("dictionary file removed")

// ReloadEvent reports one reload attempt.
type ReloadEvent struct {
	// Path is the dictionary file.
	Path string

	// Dictionary is the newly installed snapshot. Nil when Err is set.
	Dictionary *taxonomy.Dictionary

	// Err is the reason the file was not installed.
	Err error
}

// DictionaryWatcher reloads a dictionary file into a Store when its content
// changes. A file that fails to parse leaves the previous snapshot in place.
type DictionaryWatcher struct {
	path     string
	store    *Store
	debounce time.Duration
	watcher  *fsnotify.Watcher
	logger   *slog.Logger

	pendingMu sync.Mutex
	pending   bool

	// hash is only touched before Start and by the event goroutine.
	hash string

	events        chan ReloadEvent
	droppedEvents atomic.Int64
}

// NewDictionaryWatcher creates a watcher for the dictionary at path. A zero
// debounce uses DefaultDebounceDelay.
func NewDictionaryWatcher(path string, store *Store, debounce time.Duration, logger *slog.Logger) (*DictionaryWatcher, error) {
	if store == nil {
		return nil, errors.New("watch: nil store")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = DefaultDebounceDelay
	}
	return &DictionaryWatcher{
		path:     abs,
		store:    store,
		debounce: debounce,
		watcher:  fsw,
		logger:   logger,
		events:   make(chan ReloadEvent, eventChannelBuffer),
	}, nil
}

// Events returns the channel of reload events. It is closed when the
// watcher stops.
func (w *DictionaryWatcher) Events() <-chan ReloadEvent {
	return w.events
}

// Start records the current file content and begins watching its
// directory. Editors that save by rename replace the file, so the
// directory is watched rather than the file itself.
func (w *DictionaryWatcher) Start(ctx context.Context) error {
	content, err := os.ReadFile(w.path)
	if err != nil {
		return fmt.Errorf("read dictionary: %w", err)
	}
	w.hash = contentHash(content)

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}

	go w.processEvents(ctx)

	w.logger.Info("Dictionary watcher started",
		"path", w.path,
		"debounce", w.debounce)
	return nil
}

// Stop stops the watcher. The events channel is closed by the event loop
// when it exits.
func (w *DictionaryWatcher) Stop() error {
	return w.watcher.Close()
}

// DroppedEvents returns the number of events dropped due to channel overflow.
func (w *DictionaryWatcher) DroppedEvents() int64 {
	return w.droppedEvents.Load()
}

func (w *DictionaryWatcher) processEvents(ctx context.Context) {
	defer close(w.events)
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			w.pendingMu.Lock()
			w.pending = true
			w.pendingMu.Unlock()
			w.logger.Debug("Dictionary change detected", "op", event.Op.String())

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			w.pendingMu.Lock()
			due := w.pending
			w.pending = false
			w.pendingMu.Unlock()
			if due {
				w.reload()
			}
		}
	}
}

// reload installs the file's content if it changed and parses.
func (w *DictionaryWatcher) reload() {
	content, err := os.ReadFile(w.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = ErrDictionaryRemoved
		}
		w.logger.Warn("Dictionary unreadable, keeping current snapshot",
			"path", w.path,
			"error", err)
		w.hash = ""
		w.sendEvent(ReloadEvent{Path: w.path, Err: err})
		return
	}

	hash := contentHash(content)
	if hash == w.hash {
		w.logger.Debug("Dictionary content unchanged", "path", w.path)
		return
	}
	w.hash = hash

	d, err := taxonomy.ParseDictionary(content)
	if err != nil {
		w.logger.Error("Dictionary reload failed, keeping current snapshot",
			"path", w.path,
			"error", err)
		w.sendEvent(ReloadEvent{Path: w.path, Err: err})
		return
	}

	w.store.Swap(d)
	w.logger.Info("Dictionary reloaded",
		"path", w.path,
		"themes", d.Len())
	w.sendEvent(ReloadEvent{Path: w.path, Dictionary: d})
}

func (w *DictionaryWatcher) sendEvent(event ReloadEvent) {
	select {
	case w.events <- event:
	default:
		dropped := w.droppedEvents.Add(1)
		w.logger.Warn("Event channel full, dropping reload event",
			"path", event.Path,
			"total_dropped", dropped)
	}
}

func contentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
