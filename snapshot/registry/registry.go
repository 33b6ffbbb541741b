// Package registry links snapshot store backends into a binary.
//
// Backends register themselves in init():
//
//	registry.MustRegister(registry.Backend{ ... })
//
// and are enabled by importing the backend package, often as a blank import.
// The in-process "memory" backend is always registered.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"xdao.co/shellcat/snapshot"
)

// Usage restricts which programs accept a backend.
type Usage uint8

const (
	// UsageCLI marks backends usable by one-shot CLI runs.
	UsageCLI Usage = 1 << iota
	// UsageDaemon marks backends usable by long-running daemons.
	UsageDaemon
)

func (u Usage) allows(want Usage) bool { return u&want != 0 }

// Backend opens a snapshot.Store from string key/value configuration.
type Backend struct {
	Name        string
	Description string
	Usage       Usage

	// Open constructs the store. It returns an optional close function.
	Open func(cfg map[string]string) (snapshot.Store, func() error, error)
}

var (
	mu       sync.RWMutex
	backends = map[string]Backend{}
)

func init() {
	MustRegister(Backend{
		Name:        "memory",
		Description: "In-process snapshot store (lost on exit)",
		Usage:       UsageDaemon,
		Open: func(map[string]string) (snapshot.Store, func() error, error) {
			return snapshot.NewMemory(), nil, nil
		},
	})
}

// Register registers a backend.
func Register(b Backend) error {
	if b.Name == "" {
		return fmt.Errorf("registry: backend name is required")
	}
	if b.Open == nil {
		return fmt.Errorf("registry: backend %q missing Open", b.Name)
	}
	if b.Usage == 0 {
		return fmt.Errorf("registry: backend %q missing Usage", b.Name)
	}

	mu.Lock()
	defer mu.Unlock()
	if _, exists := backends[b.Name]; exists {
		return fmt.Errorf("registry: backend %q already registered", b.Name)
	}
	backends[b.Name] = b
	return nil
}

// MustRegister is like Register but panics on error.
func MustRegister(b Backend) {
	if err := Register(b); err != nil {
		panic(err)
	}
}

// List returns backends matching usage, sorted by name.
func List(usage Usage) []Backend {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Backend, 0, len(backends))
	for _, b := range backends {
		if b.Usage.allows(usage) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns backend names matching usage, sorted.
func Names(usage Usage) []string {
	bs := List(usage)
	n := make([]string, 0, len(bs))
	for _, b := range bs {
		n = append(n, b.Name)
	}
	return n
}

// Open opens the named backend if it exists and matches usage.
func Open(name string, usage Usage, cfg map[string]string) (snapshot.Store, func() error, error) {
	mu.RLock()
	b, ok := backends[name]
	mu.RUnlock()
	if !ok {
		return nil, nil, fmt.Errorf("unknown snapshot backend %q", name)
	}
	if !b.Usage.allows(usage) {
		return nil, nil, fmt.Errorf("snapshot backend %q not supported in this binary", name)
	}
	if cfg == nil {
		cfg = map[string]string{}
	}
	return b.Open(cfg)
}
