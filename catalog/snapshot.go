package catalog

import (
	"encoding/json"
	"sync/atomic"

	"github.com/inkwell-ai/inkwell/errors"
)

// Snapshot holds the current catalog behind an atomic pointer. Readers get
// a consistent, fully-built catalog; reloads swap the pointer wholesale and
// never mutate a published catalog.
type Snapshot struct {
	current atomic.Pointer[Catalog]
}

// NewSnapshot returns a snapshot holding an empty catalog, so readers
// before the first load see no items rather than a nil dereference.
func NewSnapshot() *Snapshot {
	s := &Snapshot{}
	s.current.Store(&Catalog{
		Servers:   map[string]*Server{},
		Endpoints: map[string]*Endpoint{},
		Prompts:   map[string]*Prompt{},
	})
	return s
}

// Catalog returns the currently published catalog.
func (s *Snapshot) Catalog() *Catalog {
	return s.current.Load()
}

// Publish swaps in a newly built catalog.
func (s *Snapshot) Publish(c *Catalog) {
	s.current.Store(c)
}

// Dump renders the current catalog as indented JSON, for inspection.
func (s *Snapshot) Dump() ([]byte, error) {
	raw, err := json.MarshalIndent(s.Catalog(), "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "dumping catalog")
	}
	return raw, nil
}
