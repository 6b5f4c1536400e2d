/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"sort"
	"sync"

	"github.com/suparena/entitycache/errors"
)

// Resolver looks up entity type definitions by name.
type Resolver interface {
	Lookup(name string) (*EntityType, error)
}

// Registry maps entity type names to definitions. It is the context object
// passed to normalization, so relationships can name types registered later
// or the type being defined.
type Registry struct {
	mu    sync.RWMutex
	types map[string]*EntityType
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		types: make(map[string]*EntityType),
	}
}

// Register stores def under its name. A definition already registered under
// that name is replaced.
func (r *Registry) Register(def *EntityType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[def.Name] = def
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (*EntityType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.types[name]
	if !ok {
		return nil, errors.NewUnknownTypeError(name)
	}
	return def, nil
}

// Names returns the registered type names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Map is a read-only Resolver over a plain map, handy for one-off calls.
type Map map[string]*EntityType

// Lookup implements Resolver
func (m Map) Lookup(name string) (*EntityType, error) {
	def, ok := m[name]
	if !ok {
		return nil, errors.NewUnknownTypeError(name)
	}
	return def, nil
}

// Of builds a Map from definitions.
func Of(defs ...*EntityType) Map {
	m := make(Map, len(defs))
	for _, def := range defs {
		m[def.Name] = def
	}
	return m
}
