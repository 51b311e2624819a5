package store

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// FileStore is a Bridge backed by one file per key under a directory, so
// stored values survive restarts. Each write lands in a temp file first and
// is renamed into place, which keeps single-key writes atomic even when
// another process reads concurrently.
type FileStore struct {
	dir  string
	mu   sync.Mutex
	subs subscribers

	// lastSeen tracks serialized values per key so the watcher only fires
	// on real external changes; in-process writes update it directly.
	seenMu   sync.Mutex
	lastSeen map[string]string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{dir: dir, lastSeen: make(map[string]string)}, nil
}

func (f *FileStore) path(key string) string {
	// keys are fixed identifiers, but escape anything path-hostile
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return -1
		}
	}, key)
	if safe == "" {
		safe = hex.EncodeToString([]byte(key))
	}
	return filepath.Join(f.dir, safe+".json")
}

func (f *FileStore) Get(key string) (string, bool) {
	b, err := os.ReadFile(f.path(key))
	if err != nil {
		return "", false
	}
	return string(b), true
}

func (f *FileStore) Set(key, value string) error {
	f.mu.Lock()
	err := f.writeAtomic(key, value)
	f.mu.Unlock()
	if err != nil {
		return err
	}
	f.remember(key, value)
	f.subs.notify(key)
	return nil
}

func (f *FileStore) writeAtomic(key, value string) error {
	dst := f.path(key)
	tmp, err := os.CreateTemp(f.dir, ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

func (f *FileStore) Delete(key string) error {
	f.mu.Lock()
	err := os.Remove(f.path(key))
	f.mu.Unlock()
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	f.remember(key, "")
	f.subs.notify(key)
	return nil
}

func (f *FileStore) Subscribe(fn func(key string)) func() {
	return f.subs.add(fn)
}

func (f *FileStore) remember(key, value string) {
	f.seenMu.Lock()
	f.lastSeen[key] = value
	f.seenMu.Unlock()
}

// Watch polls the backing files for the given keys every interval and
// notifies subscribers when a value changed under an external writer.
// In-process writes already notify synchronously, so the poll only matters
// for other processes; it stays load-bearing because those writers fire no
// in-process event. Watch blocks until done is closed.
func (f *FileStore) Watch(done <-chan struct{}, interval time.Duration, keys ...string) {
	if interval <= 0 {
		interval = 300 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			for _, key := range keys {
				cur, _ := f.Get(key)
				f.seenMu.Lock()
				prev, known := f.lastSeen[key]
				changed := !known || prev != cur
				if changed {
					f.lastSeen[key] = cur
				}
				f.seenMu.Unlock()
				if changed && known {
					f.subs.notify(key)
				}
			}
		}
	}
}
