// Package storeconfig opens a snapshot store from configuration.
//
// Backends are selected by registry name; the binary must link the wanted
// backend packages with blank imports.
//
// WritePolicy values:
// - "first" (default): write only to the first backend; reads fall back in order
// - "all": write to all backends and require CID equality (see snapshot.Replicating)
//
// Example (YAML):
//
//	write_policy: all
//	backends:
//	  - name: localfs
//	    config: {dir: /var/lib/shellcat/snapshots}
//	  - name: localfs
//	    id: backup
//	    config: {dir: /mnt/backup/snapshots}
package storeconfig

import (
	"errors"
	"fmt"

	"xdao.co/shellcat/snapshot"
	"xdao.co/shellcat/snapshot/registry"
)

const (
	WriteFirst = "first"
	WriteAll   = "all"
)

type Config struct {
	WritePolicy string          `yaml:"write_policy,omitempty"`
	Backends    []BackendConfig `yaml:"backends,omitempty"`
}

type BackendConfig struct {
	// Name is the registry backend name to open (e.g. "localfs", "memory").
	Name string `yaml:"name"`
	// ID is an optional stable alias used in per-backend reporting.
	// If empty, Name is used.
	ID     string            `yaml:"id,omitempty"`
	Config map[string]string `yaml:"config,omitempty"`
}

func (b BackendConfig) id() string {
	if b.ID != "" {
		return b.ID
	}
	return b.Name
}

// Enabled reports whether any backend is configured.
func (c Config) Enabled() bool { return len(c.Backends) > 0 }

func (c Config) Validate() error {
	if len(c.Backends) == 0 {
		return errors.New("storeconfig: at least one backend is required")
	}
	seen := make(map[string]struct{}, len(c.Backends))
	for _, b := range c.Backends {
		if b.Name == "" {
			return errors.New("storeconfig: backend name is required")
		}
		if _, ok := seen[b.id()]; ok {
			return fmt.Errorf("storeconfig: duplicate backend id %q", b.id())
		}
		seen[b.id()] = struct{}{}
	}
	switch c.WritePolicy {
	case "", WriteFirst, WriteAll:
		return nil
	default:
		return fmt.Errorf("storeconfig: invalid write_policy %q", c.WritePolicy)
	}
}

// Open opens every configured backend and composes them per WritePolicy.
// The returned close function closes backends in reverse order.
func (c Config) Open(usage registry.Usage) (snapshot.Store, func() error, error) {
	if err := c.Validate(); err != nil {
		return nil, nil, err
	}

	named := make([]snapshot.Named, 0, len(c.Backends))
	closers := make([]func() error, 0, len(c.Backends))
	closeAll := func() error {
		var firstErr error
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}

	for _, b := range c.Backends {
		s, closeFn, err := registry.Open(b.Name, usage, b.Config)
		if err != nil {
			_ = closeAll()
			return nil, nil, fmt.Errorf("storeconfig: backend %q: %w", b.id(), err)
		}
		named = append(named, snapshot.Named{Name: b.id(), Store: s})
		if closeFn != nil {
			closers = append(closers, closeFn)
		}
	}

	if len(named) == 1 {
		return named[0].Store, closeAll, nil
	}
	if c.WritePolicy == WriteAll {
		return snapshot.Replicating{Backends: named}, closeAll, nil
	}
	stores := make([]snapshot.Store, 0, len(named))
	for _, n := range named {
		stores = append(stores, n.Store)
	}
	return snapshot.Fallback{Stores: stores}, closeAll, nil
}
