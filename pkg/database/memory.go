package database

import (
	"bytes"
	"sync"
)

// MemDB is a database backend held fully in memory. It is the backend
// used when header persistence is disabled.
type MemDB struct {
	mu sync.RWMutex
	kv map[string][]byte
}

// NewMemDB returns an empty in-memory database.
func NewMemDB() *MemDB {
	return &MemDB{kv: make(map[string][]byte)}
}

// Has implements the database interface
func (m *MemDB) Has(key []byte) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.kv[string(key)]
	return ok, nil
}

// Put implements the database interface
func (m *MemDB) Put(key []byte, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	m.kv[string(key)] = cp
	return nil
}

// Get implements the database interface
func (m *MemDB) Get(key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.kv[string(key)]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(val))
	copy(cp, val)
	return cp, nil
}

// Delete implements the database interface
func (m *MemDB) Delete(key []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.kv, string(key))
	return nil
}

// Prefix implements the database interface
func (m *MemDB) Prefix(prefix []byte) ([][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var values [][]byte
	for k, v := range m.kv {
		if bytes.HasPrefix([]byte(k), prefix) {
			cp := make([]byte, len(v))
			copy(cp, v)
			values = append(values, cp)
		}
	}
	return values, nil
}

// Close implements the database interface
func (m *MemDB) Close() error {
	return nil
}
