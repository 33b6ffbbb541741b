package snapshot

import (
	"bytes"
	"sync"

	"github.com/ipfs/go-cid"
)

// Memory is an in-process Store. It is safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	objects map[cid.Cid][]byte
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{objects: map[cid.Cid][]byte{}}
}

func (m *Memory) Put(data []byte) (cid.Cid, error) {
	id, err := ID(data)
	if err != nil {
		return cid.Undef, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.objects[id]; ok {
		if !bytes.Equal(existing, data) {
			return cid.Undef, ErrImmutable
		}
		return id, nil
	}
	m.objects[id] = append([]byte(nil), data...)
	return id, nil
}

func (m *Memory) Get(id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, ErrInvalidCID
	}
	m.mu.RLock()
	b, ok := m.objects[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if err := Verify(id, b); err != nil {
		return nil, err
	}
	return append([]byte(nil), b...), nil
}

func (m *Memory) Has(id cid.Cid) bool {
	if !id.Defined() {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[id]
	return ok
}

// Len returns the number of stored snapshots.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
