// Package snapshot stores raw config responses keyed by content identifier.
//
// A snapshot is the exact byte string the server returned (base64 text),
// addressed by a CIDv1 with the raw codec and a sha2-256 multihash. Stored
// snapshots never change: the same CID always yields the same bytes.
package snapshot

import (
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// Store is a content-addressed snapshot store.
//
// Contract:
// - Put is idempotent and returns ID(data).
// - Putting different bytes where an object already exists fails with ErrImmutable.
// - Get returns ErrNotFound when the CID is absent and ErrCIDMismatch when the
// stored bytes no longer hash to the CID.
type Store interface {
	Put(data []byte) (cid.Cid, error)
	Get(id cid.Cid) ([]byte, error)
	Has(id cid.Cid) bool
}

// ID returns the CIDv1 (raw codec, sha2-256) of data.
func ID(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// Parse decodes a textual CID. Undefined or malformed input yields ErrInvalidCID.
func Parse(s string) (cid.Cid, error) {
	id, err := cid.Decode(s)
	if err != nil || !id.Defined() {
		return cid.Undef, ErrInvalidCID
	}
	return id, nil
}

// Verify checks that data hashes to id.
func Verify(id cid.Cid, data []byte) error {
	if !id.Defined() {
		return ErrInvalidCID
	}
	got, err := ID(data)
	if err != nil {
		return err
	}
	if got != id {
		return ErrCIDMismatch
	}
	return nil
}
