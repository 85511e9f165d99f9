package translate

// Store persists text → translation pairs across preprocessing runs. The
// manager never owns process-global state; a store is injected at
// construction and flushed explicitly by the caller.
type Store interface {
	Get(key string) (string, bool)
	Put(key, value string)
	Flush() error
}

// MemoryStore is an in-process Store with no persistence. Useful for tests
// and for engines that opt out of translation caching.
type MemoryStore struct {
	m map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: make(map[string]string)}
}

// Get returns the cached translation for key.
func (s *MemoryStore) Get(key string) (string, bool) {
	v, ok := s.m[key]
	return v, ok
}

// Put stores a translation.
func (s *MemoryStore) Put(key, value string) { s.m[key] = value }

// Flush is a no-op for the in-memory store.
func (s *MemoryStore) Flush() error { return nil }

// Len reports the number of cached entries.
func (s *MemoryStore) Len() int { return len(s.m) }
