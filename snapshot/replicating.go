package snapshot

import (
	"fmt"

	"github.com/ipfs/go-cid"
)

// Named associates a Store with a stable backend name.
type Named struct {
	Name  string
	Store Store
}

// Replicating writes every snapshot to all backends and reads in order.
// Writes require every backend to return the CID computed from the bytes.
type Replicating struct {
	Backends []Named
}

var _ Store = Replicating{}

// PutAll writes data to all backends and returns the CID with the per-backend
// results. A backend returning a different CID yields ErrCIDMismatch.
func (r Replicating) PutAll(data []byte) (cid.Cid, map[string]cid.Cid, error) {
	want, err := ID(data)
	if err != nil {
		return cid.Undef, nil, err
	}
	if len(r.Backends) == 0 {
		return cid.Undef, nil, ErrNoBackends
	}

	out := make(map[string]cid.Cid, len(r.Backends))
	for _, b := range r.Backends {
		if b.Store == nil {
			return cid.Undef, nil, fmt.Errorf("snapshot: nil store for backend %q", b.Name)
		}
		got, err := b.Store.Put(data)
		if err != nil {
			return cid.Undef, out, fmt.Errorf("snapshot: backend %q: %w", b.Name, err)
		}
		out[b.Name] = got
		if got != want {
			return cid.Undef, out, ErrCIDMismatch
		}
	}
	return want, out, nil
}

func (r Replicating) Put(data []byte) (cid.Cid, error) {
	id, _, err := r.PutAll(data)
	return id, err
}

func (r Replicating) Get(id cid.Cid) ([]byte, error) {
	for _, b := range r.Backends {
		if b.Store == nil {
			continue
		}
		out, err := b.Store.Get(id)
		if err == nil {
			return out, nil
		}
		if IsNotFound(err) {
			continue
		}
		return nil, err
	}
	return nil, ErrNotFound
}

func (r Replicating) Has(id cid.Cid) bool {
	for _, b := range r.Backends {
		if b.Store != nil && b.Store.Has(id) {
			return true
		}
	}
	return false
}
