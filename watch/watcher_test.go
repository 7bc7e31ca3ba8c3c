package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/curriculens/taxonomy"
)

const twoThemes = `themes:
  - id: SOSTENIBILIDAD
    label: Sostenibilidad
    keywords: [sostenible, economia circular]
  - id: ETICA
    label: Etica
    keywords: [etica]
`

const threeThemes = twoThemes + `  - id: IA
    label: Inteligencia artificial
    keywords: [inteligencia artificial]
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newWatcher(t *testing.T, content string) (*DictionaryWatcher, *Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "themes.yaml")
	writeFile(t, path, content)

	d, err := taxonomy.LoadDictionary(path)
	require.NoError(t, err)
	store := NewStore(d)

	w, err := NewDictionaryWatcher(path, store, 20*time.Millisecond, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })
	return w, store, path
}

func TestStore(t *testing.T) {
	first := taxonomy.DefaultDictionary()
	s := NewStore(first)
	assert.Same(t, first, s.Load())

	second, err := first.WithoutTheme(first.IDs()[0])
	require.NoError(t, err)
	assert.Same(t, first, s.Swap(second))
	assert.Same(t, second, s.Load())
	assert.Equal(t, first.Len()-1, s.Load().Len())
}

func TestNewDictionaryWatcher_NilStore(t *testing.T) {
	_, err := NewDictionaryWatcher("themes.yaml", nil, 0, nil)
	assert.Error(t, err)
}

func TestDictionaryWatcher_Reload(t *testing.T) {
	w, store, path := newWatcher(t, twoThemes)
	w.hash = contentHash([]byte(twoThemes))
	original := store.Load()

	// Unchanged content emits nothing.
	w.reload()
	assert.Empty(t, w.events)

	writeFile(t, path, threeThemes)
	w.reload()
	ev := <-w.events
	require.NoError(t, ev.Err)
	assert.Equal(t, 3, ev.Dictionary.Len())
	assert.Same(t, ev.Dictionary, store.Load())
	assert.Equal(t, 2, original.Len(), "old snapshot is untouched")

	writeFile(t, path, "themes: [")
	w.reload()
	ev = <-w.events
	assert.Error(t, ev.Err)
	assert.Nil(t, ev.Dictionary)
	assert.Equal(t, 3, store.Load().Len(), "bad file keeps the current snapshot")

	writeFile(t, path, "themes: []\n")
	w.reload()
	ev = <-w.events
	assert.ErrorIs(t, ev.Err, taxonomy.ErrNoThemes)

	require.NoError(t, os.Remove(path))
	w.reload()
	ev = <-w.events
	assert.ErrorIs(t, ev.Err, ErrDictionaryRemoved)
	assert.Equal(t, 3, store.Load().Len())
}

func TestDictionaryWatcher_StartMissingFile(t *testing.T) {
	store := NewStore(taxonomy.DefaultDictionary())
	w, err := NewDictionaryWatcher(filepath.Join(t.TempDir(), "none.yaml"), store, 0, nil)
	require.NoError(t, err)
	defer w.Stop()

	assert.Error(t, w.Start(context.Background()))
}

func TestDictionaryWatcher_FileModification(t *testing.T) {
	w, store, path := newWatcher(t, twoThemes)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	require.NoError(t, w.Start(ctx))

	// Give watcher time to set up
	time.Sleep(100 * time.Millisecond)

	writeFile(t, path, threeThemes)

	// A truncating write can surface as one failed reload of an empty file
	// before the complete content arrives.
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev := <-w.Events():
			if ev.Err != nil {
				continue
			}
			assert.Equal(t, 3, ev.Dictionary.Len())
			assert.Equal(t, 3, store.Load().Len())
			return
		case <-timeout:
			t.Fatal("timeout waiting for reload event")
		}
	}
}

func TestDictionaryWatcher_IgnoresSiblingFiles(t *testing.T) {
	w, store, path := newWatcher(t, twoThemes)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, w.Start(ctx))
	time.Sleep(100 * time.Millisecond)

	writeFile(t, filepath.Join(filepath.Dir(path), "other.yaml"), threeThemes)

	select {
	case ev := <-w.Events():
		t.Fatalf("unexpected reload event: %+v", ev)
	case <-time.After(300 * time.Millisecond):
	}
	assert.Equal(t, 2, store.Load().Len())
}
