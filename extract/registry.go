package extract

import "xdao.co/shellcat/catalog"

// Overwrite records a registry assignment that replaced an earlier name.
type Overwrite struct {
	Identifier string
	Previous   string
	Name       string
}

// NameRegistry maps a set or decorator identifier to its display name.
// It is immutable once built.
type NameRegistry struct {
	names      map[string]string
	overwrites []Overwrite
}

// BuildRegistry inserts every shell set, then every decorator, into a single
// keyspace. Later assignments win, so a decorator sharing an identifier with
// a shell set replaces the set's name.
func BuildRegistry(sets, decorators []catalog.ShellSet) NameRegistry {
	r := NameRegistry{names: make(map[string]string, len(sets)+len(decorators))}
	for _, group := range [][]catalog.ShellSet{sets, decorators} {
		for _, s := range group {
			if prev, ok := r.names[s.Identifier]; ok {
				r.overwrites = append(r.overwrites, Overwrite{Identifier: s.Identifier, Previous: prev, Name: s.Name})
			}
			r.names[s.Identifier] = s.Name
		}
	}
	return r
}

// Lookup returns the name registered for a shell's set identifier.
func (r NameRegistry) Lookup(setIdentifier string) (string, bool) {
	name, ok := r.names[setIdentifier]
	return name, ok
}

// Len returns the number of distinct identifiers.
func (r NameRegistry) Len() int { return len(r.names) }

// Overwrites returns the assignments that replaced an earlier name, in order.
func (r NameRegistry) Overwrites() []Overwrite {
	return append([]Overwrite(nil), r.overwrites...)
}
