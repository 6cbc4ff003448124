// Package template contains the certificate template catalog and the pure
// rules for validating a template selection.
package template

import (
	"fmt"
	"strings"
)

// Descriptor describes one certificate series.
type Descriptor struct {
	ID               string
	BackgroundSource string // URI of the PNG/JPEG background
	SerialPrefix     string // e.g. "PMPP B#"
}

// DefaultDescriptors is the built-in catalog.
var DefaultDescriptors = []Descriptor{
	{
		ID:               "template1",
		BackgroundSource: "https://drive.google.com/uc?export=download&id=1io4G0KhYWAdBqoQzGzWUqiNXo0a7VB34",
		SerialPrefix:     "PMPP B#",
	},
	{
		ID:               "template2",
		BackgroundSource: "https://drive.google.com/uc?export=download&id=19BjIZLOxn5FLcbwUiTE7XEq1vb3fET3O",
		SerialPrefix:     "PMP B#",
	},
	{
		ID:               "template3",
		BackgroundSource: "https://drive.google.com/uc?export=download&id=1gJtp2QXNy-6s5sGZfVb7G-UpZkAgkxQL",
		SerialPrefix:     "SS B#",
	},
	{
		ID:               "template4",
		BackgroundSource: "https://drive.google.com/uc?export=download&id=1PvT89gD3wAfPrmUiLIXyRHI5vUYnwHpf",
		SerialPrefix:     "AI B#",
	},
	{
		ID:               "template5",
		BackgroundSource: "https://drive.google.com/uc?export=download&id=1YLsWplPc5G5nh1pI2RyYeUQuFWSOsfBL",
		SerialPrefix:     "AG B#",
	},
}

// Registry is an immutable, ordered template catalog.
type Registry struct {
	ordered []Descriptor
	byID    map[string]Descriptor
}

// NewRegistry builds a registry, rejecting duplicate ids or prefixes.
func NewRegistry(descriptors []Descriptor) (*Registry, error) {
	r := &Registry{
		ordered: make([]Descriptor, 0, len(descriptors)),
		byID:    make(map[string]Descriptor, len(descriptors)),
	}
	prefixes := make(map[string]string, len(descriptors))

	for _, d := range descriptors {
		if strings.TrimSpace(d.ID) == "" {
			return nil, fmt.Errorf("template id cannot be empty")
		}
		if strings.TrimSpace(d.SerialPrefix) == "" {
			return nil, fmt.Errorf("template %s has an empty serial prefix", d.ID)
		}
		if _, dup := r.byID[d.ID]; dup {
			return nil, fmt.Errorf("duplicate template id %q", d.ID)
		}
		if other, dup := prefixes[d.SerialPrefix]; dup {
			return nil, fmt.Errorf("templates %s and %s share serial prefix %q", other, d.ID, d.SerialPrefix)
		}
		prefixes[d.SerialPrefix] = d.ID
		r.byID[d.ID] = d
		r.ordered = append(r.ordered, d)
	}

	return r, nil
}

// MustDefaultRegistry returns the built-in catalog.
func MustDefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultDescriptors)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the descriptor with the given id.
func (r *Registry) Lookup(id string) (Descriptor, bool) {
	d, ok := r.byID[id]
	return d, ok
}

// All returns the catalog in registry order.
func (r *Registry) All() []Descriptor {
	out := make([]Descriptor, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Select returns the descriptors named by ids, in registry order.
// Unknown ids and duplicates are ignored; callers validate first.
func (r *Registry) Select(ids []string) []Descriptor {
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	var out []Descriptor
	for _, d := range r.ordered {
		if wanted[d.ID] {
			out = append(out, d)
		}
	}
	return out
}
