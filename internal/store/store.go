// Package store is the local persistence bridge: a durable key-value store
// shared by decoupled surfaces (editor, studio, backend client). Values are
// plain JSON strings. The bridge is injected into its consumers and exposes
// an explicit get/set/subscribe API; it is the single source of truth
// between surfaces that hold only transient copies.
package store

import "sync"

// Well-known bridge keys.
const (
	KeyDocument     = "resume_json_v1"
	KeyOrder        = "resume_section_order_v1"
	KeyPendingInput = "pending_user_input"
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyViewMode     = "studio_view_mode"
	KeySidebar      = "sidebar_visible"
)

// Bridge is durable key-value storage with change notification. Writes are
// atomic at single-key granularity; nothing is guaranteed across keys.
// Subscribers are notified for every in-process write.
type Bridge interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
	// Subscribe registers fn to run after each write or delete, with the
	// affected key. The returned function cancels the subscription.
	Subscribe(fn func(key string)) (cancel func())
}

// subscribers is the shared fan-out used by the bridge implementations.
type subscribers struct {
	mu   sync.Mutex
	next int
	fns  map[int]func(key string)
}

func (s *subscribers) add(fn func(key string)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fns == nil {
		s.fns = make(map[int]func(key string))
	}
	id := s.next
	s.next++
	s.fns[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.fns, id)
	}
}

func (s *subscribers) notify(key string) {
	s.mu.Lock()
	fns := make([]func(string), 0, len(s.fns))
	for _, fn := range s.fns {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(key)
	}
}

// MemStore is an in-memory Bridge for tests and ephemeral sessions.
type MemStore struct {
	mu   sync.RWMutex
	data map[string]string
	subs subscribers
}

func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string]string)}
}

func (m *MemStore) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *MemStore) Set(key, value string) error {
	m.mu.Lock()
	m.data[key] = value
	m.mu.Unlock()
	m.subs.notify(key)
	return nil
}

func (m *MemStore) Delete(key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	m.subs.notify(key)
	return nil
}

func (m *MemStore) Subscribe(fn func(key string)) func() {
	return m.subs.add(fn)
}
