package registry

import (
	"fmt"
	"sort"
)

const (
	DefaultCapacity = 64
	MaxNameLength   = 255
)

var ErrNotFound = fmt.Errorf("entry not found")

type Entry struct {
	Name  string
	Value int
}

type Registry struct {
	entries map[string]Entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry, DefaultCapacity)}
}

func (r *Registry) Put(name string, value int) error {
	if len(name) > MaxNameLength {
		return fmt.Errorf("name too long: %d bytes", len(name))
	}
	r.entries[name] = Entry{Name: name, Value: value}
	return nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
