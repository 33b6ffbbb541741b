// Package localfs is a directory-backed snapshot store.
//
// Snapshots are written read-only under <root>/<cid[:2]>/<cid> and never
// rewritten. Importing the package registers the "localfs" backend.
package localfs

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"

	"github.com/ipfs/go-cid"

	"xdao.co/shellcat/snapshot"
)

// Store is a filesystem snapshot store.
type Store struct {
	root string
}

var _ snapshot.Store = (*Store)(nil)

// New returns a store rooted at root, creating the directory if needed.
func New(root string) (*Store, error) {
	if root == "" {
		return nil, errors.New("localfs: root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Store{root: root}, nil
}

// Root returns the store directory.
func (s *Store) Root() string { return s.root }

func (s *Store) Put(data []byte) (cid.Cid, error) {
	id, err := snapshot.ID(data)
	if err != nil {
		return cid.Undef, err
	}

	path := s.pathFor(id)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return cid.Undef, err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o444)
	if err != nil {
		if os.IsExist(err) {
			existing, rerr := s.Get(id)
			if rerr != nil || !bytes.Equal(existing, data) {
				return cid.Undef, snapshot.ErrImmutable
			}
			return id, nil
		}
		return cid.Undef, err
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return cid.Undef, err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return cid.Undef, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return cid.Undef, err
	}
	return id, nil
}

func (s *Store) Get(id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, snapshot.ErrInvalidCID
	}
	b, err := os.ReadFile(s.pathFor(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, snapshot.ErrNotFound
		}
		return nil, err
	}
	if err := snapshot.Verify(id, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Store) Has(id cid.Cid) bool {
	if !id.Defined() {
		return false
	}
	_, err := os.Stat(s.pathFor(id))
	return err == nil
}

func (s *Store) pathFor(id cid.Cid) string {
	name := id.String()
	if len(name) < 2 {
		return filepath.Join(s.root, name)
	}
	return filepath.Join(s.root, name[:2], name)
}
