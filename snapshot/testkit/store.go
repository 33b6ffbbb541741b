// Package testkit holds a conformance suite every snapshot.Store backend runs.
package testkit

import (
	"bytes"
	"testing"

	"github.com/ipfs/go-cid"

	"xdao.co/shellcat/snapshot"
)

// NewStore constructs a fresh, empty store isolated from other tests.
type NewStore func(t *testing.T) snapshot.Store

// Response is a realistic snapshot payload: base64 text with a trailing newline.
var Response = []byte("eJwLycgsVgCi4vzcVIXEvBSF/JLUIoWMxJT8nFQFTgCNzAo=\n")

func RunStoreConformance(t *testing.T, newStore NewStore) {
	t.Helper()

	t.Run("PutGetRoundTrip", func(t *testing.T) {
		s := newStore(t)

		id, err := s.Put(Response)
		if err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		wantID, err := snapshot.ID(Response)
		if err != nil {
			t.Fatalf("ID failed: %v", err)
		}
		if id != wantID {
			t.Fatalf("Put CID mismatch: got %s want %s", id, wantID)
		}

		got, err := s.Get(id)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !bytes.Equal(got, Response) {
			t.Fatalf("Get bytes mismatch")
		}
		if err := snapshot.Verify(id, got); err != nil {
			t.Fatalf("Get returned bytes not matching requested CID: %v", err)
		}
	})

	t.Run("PutIdempotent", func(t *testing.T) {
		s := newStore(t)
		id1, err := s.Put(Response)
		if err != nil {
			t.Fatalf("Put(1) failed: %v", err)
		}
		id2, err := s.Put(Response)
		if err != nil {
			t.Fatalf("Put(2) failed: %v", err)
		}
		if id1 != id2 {
			t.Fatalf("Put not idempotent: %s vs %s", id1, id2)
		}
	})

	t.Run("HasAndNotFound", func(t *testing.T) {
		s := newStore(t)
		b := []byte("missing")
		id, err := snapshot.ID(b)
		if err != nil {
			t.Fatalf("ID failed: %v", err)
		}

		if s.Has(id) {
			t.Fatalf("Has returned true for missing CID")
		}
		if _, err := s.Get(id); !snapshot.IsNotFound(err) {
			t.Fatalf("Get missing: got err=%v want ErrNotFound", err)
		}

		if _, err := s.Put(b); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		if !s.Has(id) {
			t.Fatalf("Has returned false after Put")
		}
	})

	t.Run("RejectUndefCID", func(t *testing.T) {
		s := newStore(t)
		var undef cid.Cid
		if s.Has(undef) {
			t.Fatalf("Has should be false for undefined CID")
		}
		if _, err := s.Get(undef); err == nil {
			t.Fatalf("Get should fail for undefined CID")
		}
	})

	t.Run("EmptySnapshot", func(t *testing.T) {
		s := newStore(t)
		id, err := s.Put(nil)
		if err != nil {
			t.Fatalf("Put(nil) failed: %v", err)
		}
		got, err := s.Get(id)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("expected empty snapshot, got %d bytes", len(got))
		}
	})
}
