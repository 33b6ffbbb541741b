package localfs

import (
	"fmt"

	"xdao.co/shellcat/snapshot"
	"xdao.co/shellcat/snapshot/registry"
)

// ConfigDir is the backend config key naming the store directory.
const ConfigDir = "dir"

func init() {
	registry.MustRegister(registry.Backend{
		Name:        "localfs",
		Description: "Local filesystem snapshot store (directory)",
		Usage:       registry.UsageCLI | registry.UsageDaemon,
		Open: func(cfg map[string]string) (snapshot.Store, func() error, error) {
			dir := cfg[ConfigDir]
			if dir == "" {
				return nil, nil, fmt.Errorf("localfs: missing %q", ConfigDir)
			}
			s, err := New(dir)
			return s, nil, err
		},
	})
}
