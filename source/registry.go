package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// ErrUnsupported is returned when no reader handles a path.
var ErrUnsupported = errors.New("unsupported input")

// Reader reads one program file into raw sheets.
type Reader interface {
	// Read loads the workbook at path.
	Read(ctx context.Context, path string) (*Workbook, error)

	// Extensions lists the lowercase extensions this reader handles,
	// including the dot. DirExtension marks directory bundles.
	Extensions() []string
}

// DirExtension is the registry key for readers that take a directory.
const DirExtension = "/"

// Registry manages readers keyed by extension.
type Registry struct {
	mu      sync.RWMutex
	readers map[string]Reader
}

// DefaultRegistry is the global registry with the built-in readers.
var DefaultRegistry = NewRegistry()

// NewRegistry creates a registry with the workbook and CSV readers.
func NewRegistry() *Registry {
	r := &Registry{readers: make(map[string]Reader)}
	r.Register(NewXLSXReader())
	r.Register(NewCSVReader())
	return r
}

// Register adds a reader for each of its extensions, replacing any earlier
// reader for the same extension.
func (r *Registry) Register(rd Reader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range rd.Extensions() {
		r.readers[strings.ToLower(ext)] = rd
	}
}

// ReaderFor returns the reader for path, or nil.
func (r *Registry) ReaderFor(path string) Reader {
	key := strings.ToLower(filepath.Ext(path))
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		key = DirExtension
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.readers[key]
}

// Read loads path with the matching reader.
func (r *Registry) Read(ctx context.Context, path string) (*Workbook, error) {
	rd := r.ReaderFor(path)
	if rd == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
	}
	return rd.Read(ctx, path)
}

// Extensions returns every registered extension, sorted.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]string, 0, len(r.readers))
	for ext := range r.readers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
