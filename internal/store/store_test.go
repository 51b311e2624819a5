package store

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStore_SetGetDelete(t *testing.T) {
	s := NewMemStore()

	_, ok := s.Get(KeyDocument)
	assert.False(t, ok)

	require.NoError(t, s.Set(KeyDocument, `{"name":"Jane"}`))
	v, ok := s.Get(KeyDocument)
	assert.True(t, ok)
	assert.Equal(t, `{"name":"Jane"}`, v)

	require.NoError(t, s.Delete(KeyDocument))
	_, ok = s.Get(KeyDocument)
	assert.False(t, ok)
}

func TestMemStore_SubscribeAndCancel(t *testing.T) {
	s := NewMemStore()

	var mu sync.Mutex
	var seen []string
	cancel := s.Subscribe(func(key string) {
		mu.Lock()
		seen = append(seen, key)
		mu.Unlock()
	})

	s.Set(KeyOrder, `["profile"]`)
	s.Set(KeyDocument, `{}`)
	cancel()
	s.Set(KeyOrder, `["skills"]`)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{KeyOrder, KeyDocument}, seen)
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.Set(KeyDocument, `{"name":"Jane"}`))
	require.NoError(t, s.Set(KeyOrder, `["profile","skills"]`))

	// a fresh store over the same directory sees the same values
	s2, err := NewFileStore(dir)
	require.NoError(t, err)
	v, ok := s2.Get(KeyDocument)
	assert.True(t, ok)
	assert.Equal(t, `{"name":"Jane"}`, v)
	v, ok = s2.Get(KeyOrder)
	assert.True(t, ok)
	assert.Equal(t, `["profile","skills"]`, v)
}

func TestFileStore_DeleteIsIdempotent(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Delete("never_written"))
	require.NoError(t, s.Set(KeyViewMode, `"editor"`))
	require.NoError(t, s.Delete(KeyViewMode))
	require.NoError(t, s.Delete(KeyViewMode))
	_, ok := s.Get(KeyViewMode)
	assert.False(t, ok)
}

func TestFileStore_NoPartialValues(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Set(KeyDocument, `{"v":1}`))
	require.NoError(t, s.Set(KeyDocument, `{"v":2}`))

	// only the key's own file remains; no temp leftovers
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, KeyDocument+".json", entries[0].Name())
}

func TestFileStore_WatchDetectsExternalWrites(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.Set(KeyDocument, `{"v":1}`))

	changed := make(chan string, 8)
	cancel := s.Subscribe(func(key string) { changed <- key })
	defer cancel()

	done := make(chan struct{})
	defer close(done)
	go s.Watch(done, 10*time.Millisecond, KeyDocument)

	// simulate another process writing the backing file directly
	time.Sleep(30 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, KeyDocument+".json"), []byte(`{"v":2}`), 0o644))

	select {
	case key := <-changed:
		assert.Equal(t, KeyDocument, key)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher never reported the external write")
	}

	v, ok := s.Get(KeyDocument)
	assert.True(t, ok)
	assert.Equal(t, `{"v":2}`, v)
}
