package schema

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownGeneration is returned by Lookup for unregistered names.
var ErrUnknownGeneration = errors.New("unknown schema generation")

var generations = map[string]func() *Mapping{}

func Register(name string, factory func() *Mapping) {
	generations[name] = factory
}

func Lookup(name string) (*Mapping, error) {
	f, ok := generations[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGeneration, name)
	}
	m := f()
	m.Name = name
	return m, nil
}

func Registered() []string {
	names := make([]string, 0, len(generations))
	for name := range generations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
