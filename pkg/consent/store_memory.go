package consent

import "sync"

// MemoryStore is an in-memory Store. It keeps insertion order and records
// every deletion, which makes it useful for offline evaluation and tests.
type MemoryStore struct {
	mu      sync.Mutex
	cookies []Cookie
	deleted []string
}

// NewMemoryStore creates a store holding cookies. Later duplicates of a name
// are ignored.
func NewMemoryStore(cookies ...Cookie) *MemoryStore {
	s := &MemoryStore{}
	for _, c := range cookies {
		if s.index(c.Name) < 0 {
			s.cookies = append(s.cookies, c)
		}
	}
	return s
}

func (s *MemoryStore) Cookies() []Cookie {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Cookie(nil), s.cookies...)
}

func (s *MemoryStore) Get(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(name); i >= 0 {
		return s.cookies[i].Value, true
	}
	return "", false
}

// Set stores value under name. Expiry and secure flag are not modelled.
func (s *MemoryStore) Set(name, value string, _ int, _ bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(name); i >= 0 {
		s.cookies[i].Value = value
		return
	}
	s.cookies = append(s.cookies, Cookie{Name: name, Value: value})
}

func (s *MemoryStore) Delete(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, name)
	if i := s.index(name); i >= 0 {
		s.cookies = append(s.cookies[:i], s.cookies[i+1:]...)
	}
}

// DeletedNames returns every name passed to Delete, in call order.
func (s *MemoryStore) DeletedNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deleted...)
}

func (s *MemoryStore) index(name string) int {
	for i, c := range s.cookies {
		if c.Name == name {
			return i
		}
	}
	return -1
}
