// Package watch keeps the active thematic dictionary current while a
// long-running process keeps analyzing.
//
// A Store holds one *taxonomy.Dictionary snapshot. A DictionaryWatcher
// reloads the dictionary file when it changes and swaps the whole snapshot;
// an analysis run loads the snapshot once at start and never sees a later
// swap.
package watch

import (
	"sync/atomic"

	"github.com/c360studio/curriculens/taxonomy"
)

// Store is the shared, swappable dictionary snapshot.
type Store struct {
	dict atomic.Pointer[taxonomy.Dictionary]
}

// NewStore returns a store holding d.
func NewStore(d *taxonomy.Dictionary) *Store {
	s := &Store{}
	s.dict.Store(d)
	return s
}

// Load returns the current snapshot.
func (s *Store) Load() *taxonomy.Dictionary {
	return s.dict.Load()
}

// Swap installs d and returns the previous snapshot.
func (s *Store) Swap(d *taxonomy.Dictionary) *taxonomy.Dictionary {
	return s.dict.Swap(d)
}
