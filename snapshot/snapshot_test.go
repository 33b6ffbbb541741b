package snapshot_test

import (
	"errors"
	"testing"

	"github.com/ipfs/go-cid"

	"xdao.co/shellcat/snapshot"
	"xdao.co/shellcat/snapshot/testkit"
)

func TestMemory_Conformance(t *testing.T) {
	testkit.RunStoreConformance(t, func(t *testing.T) snapshot.Store {
		return snapshot.NewMemory()
	})
}

func TestFallback_Conformance(t *testing.T) {
	testkit.RunStoreConformance(t, func(t *testing.T) snapshot.Store {
		return snapshot.Fallback{Stores: []snapshot.Store{snapshot.NewMemory(), snapshot.NewMemory()}}
	})
}

func TestReplicating_Conformance(t *testing.T) {
	testkit.RunStoreConformance(t, func(t *testing.T) snapshot.Store {
		return snapshot.Replicating{Backends: []snapshot.Named{
			{Name: "a", Store: snapshot.NewMemory()},
			{Name: "b", Store: snapshot.NewMemory()},
		}}
	})
}

func TestID_IsCIDv1RawSHA256(t *testing.T) {
	id, err := snapshot.ID([]byte("abc"))
	if err != nil {
		t.Fatalf("ID: %v", err)
	}
	if id.Version() != 1 || id.Type() != cid.Raw {
		t.Fatalf("unexpected cid prefix: %v", id.Prefix())
	}
	// sha2-256("abc") in base32 CIDv1 raw form.
	const want = "bafkreif2pall7dybz7vecqka3zo24irdwabwdi4wc55jznaq75q7eaavvu"
	if id.String() != want {
		t.Fatalf("ID: got %s want %s", id, want)
	}

	parsed, err := snapshot.Parse(want)
	if err != nil || parsed != id {
		t.Fatalf("Parse: %v, %v", parsed, err)
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, s := range []string{"", "not-a-cid", "bafy"} {
		if _, err := snapshot.Parse(s); !errors.Is(err, snapshot.ErrInvalidCID) {
			t.Fatalf("Parse(%q): got %v want ErrInvalidCID", s, err)
		}
	}
}

func TestVerify(t *testing.T) {
	id, _ := snapshot.ID([]byte("abc"))
	if err := snapshot.Verify(id, []byte("abc")); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if err := snapshot.Verify(id, []byte("abd")); !errors.Is(err, snapshot.ErrCIDMismatch) {
		t.Fatalf("Verify mismatch: got %v", err)
	}
	if err := snapshot.Verify(cid.Undef, nil); !errors.Is(err, snapshot.ErrInvalidCID) {
		t.Fatalf("Verify undef: got %v", err)
	}
}

func TestMemory_ImmutableAndCopies(t *testing.T) {
	m := snapshot.NewMemory()
	data := []byte("response")
	id, err := m.Put(data)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	data[0] = 'X'
	got, err := m.Get(id)
	if err != nil || string(got) != "response" {
		t.Fatalf("stored bytes changed with caller buffer: %q, %v", got, err)
	}
	got[0] = 'Y'
	again, _ := m.Get(id)
	if string(again) != "response" {
		t.Fatalf("Get must return a copy")
	}
	if m.Len() != 1 {
		t.Fatalf("Len: got %d", m.Len())
	}
}

type failingStore struct{ snapshot.Store }

func (failingStore) Get(cid.Cid) ([]byte, error) { return nil, errors.New("disk on fire") }

func TestFallback_StopsOnHardError(t *testing.T) {
	good := snapshot.NewMemory()
	id, _ := good.Put([]byte("x"))
	f := snapshot.Fallback{Stores: []snapshot.Store{failingStore{}, good}}
	if _, err := f.Get(id); err == nil || snapshot.IsNotFound(err) {
		t.Fatalf("expected hard error to surface, got %v", err)
	}
}

type skewedStore struct{ *snapshot.Memory }

func (s skewedStore) Put(data []byte) (cid.Cid, error) {
	return s.Memory.Put(append([]byte("skew:"), data...))
}

func TestReplicating_DetectsCIDMismatch(t *testing.T) {
	r := snapshot.Replicating{Backends: []snapshot.Named{
		{Name: "ok", Store: snapshot.NewMemory()},
		{Name: "skewed", Store: skewedStore{snapshot.NewMemory()}},
	}}
	_, per, err := r.PutAll([]byte("x"))
	if !errors.Is(err, snapshot.ErrCIDMismatch) {
		t.Fatalf("expected ErrCIDMismatch, got %v", err)
	}
	if len(per) != 2 {
		t.Fatalf("expected per-backend results, got %v", per)
	}
}

func TestNoBackends(t *testing.T) {
	if _, err := (snapshot.Fallback{}).Put([]byte("x")); !errors.Is(err, snapshot.ErrNoBackends) {
		t.Fatalf("Fallback: got %v", err)
	}
	if _, err := (snapshot.Replicating{}).Put([]byte("x")); !errors.Is(err, snapshot.ErrNoBackends) {
		t.Fatalf("Replicating: got %v", err)
	}
}
