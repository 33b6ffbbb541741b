package snapshot

import "github.com/ipfs/go-cid"

// Fallback reads from Stores in slice order and writes only to the first.
//
// Callers supply a fixed order; it is the retrieval strategy.
type Fallback struct {
	Stores []Store
}

var _ Store = Fallback{}

func (f Fallback) Put(data []byte) (cid.Cid, error) {
	if len(f.Stores) == 0 {
		return cid.Undef, ErrNoBackends
	}
	return f.Stores[0].Put(data)
}

func (f Fallback) Get(id cid.Cid) ([]byte, error) {
	for _, s := range f.Stores {
		b, err := s.Get(id)
		if err == nil {
			return b, nil
		}
		if IsNotFound(err) {
			continue
		}
		return nil, err
	}
	return nil, ErrNotFound
}

func (f Fallback) Has(id cid.Cid) bool {
	for _, s := range f.Stores {
		if s.Has(id) {
			return true
		}
	}
	return false
}
