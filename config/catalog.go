/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/suparena/entitycache"
	"github.com/suparena/entitycache/errors"
	"github.com/suparena/entitycache/registry"
)

// Catalog is the parsed form of a catalog file.
type Catalog struct {
	Types []TypeSpec `yaml:"types"`
}

// TypeSpec declares one entity type.
type TypeSpec struct {
	Name string `yaml:"name"`
	// IDField defaults to "id".
	IDField string `yaml:"idField,omitempty"`
	// SortField defaults to "name".
	SortField string         `yaml:"sortField,omitempty"`
	Relations []RelationSpec `yaml:"relations,omitempty"`
	// Seed is a record or a sequence of records.
	Seed any `yaml:"seed,omitempty"`
}

// RelationSpec declares one relationship of a type.
type RelationSpec struct {
	Key  string `yaml:"key"`
	Type string `yaml:"type"`
	Many bool   `yaml:"many,omitempty"`
}

// Load reads and parses a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse parses catalog YAML, rejecting unknown fields.
func Parse(data []byte) (*Catalog, error) {
	var catalog Catalog
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&catalog); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := catalog.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return &catalog, nil
}

// Validate checks that type names are present and unique and that every
// relationship has a key. Relationship types are resolved when data is
// normalized, so a relationship to an undeclared type fails only once data
// reaches it.
func (c *Catalog) Validate() error {
	if len(c.Types) == 0 {
		return errors.NewValidationError("types", "at least one type is required")
	}

	declared := make(map[string]bool, len(c.Types))
	for i, t := range c.Types {
		if t.Name == "" {
			return errors.NewValidationError(fmt.Sprintf("types[%d].name", i), "name is required")
		}
		if declared[t.Name] {
			return errors.NewValidationError(fmt.Sprintf("types[%d].name", i), fmt.Sprintf("duplicate type %q", t.Name))
		}
		declared[t.Name] = true
	}

	for i, t := range c.Types {
		for j, rel := range t.Relations {
			field := fmt.Sprintf("types[%d].relations[%d]", i, j)
			if rel.Key == "" {
				return errors.NewValidationError(field+".key", "key is required")
			}
		}
	}
	return nil
}

// Definition builds the entity type t declares.
func (t TypeSpec) Definition() *registry.EntityType {
	var opts []registry.Option
	if t.IDField != "" {
		opts = append(opts, registry.WithIDField(t.IDField))
	}
	if t.SortField != "" {
		opts = append(opts, registry.WithSortField(t.SortField))
	}

	relations := make([]registry.Relation, 0, len(t.Relations))
	for _, rel := range t.Relations {
		if rel.Many {
			relations = append(relations, registry.Many(rel.Key, rel.Type))
		} else {
			relations = append(relations, registry.One(rel.Key, rel.Type))
		}
	}
	opts = append(opts, registry.WithSchema(relations...))

	return registry.Define(t.Name, opts...)
}

// Definitions returns the catalog's entity types in catalog order.
func (c *Catalog) Definitions() []*registry.EntityType {
	defs := make([]*registry.EntityType, 0, len(c.Types))
	for _, t := range c.Types {
		defs = append(defs, t.Definition())
	}
	return defs
}

// Registry returns a registry holding every catalog type.
func (c *Catalog) Registry() *registry.Registry {
	reg := registry.NewRegistry()
	for _, def := range c.Definitions() {
		reg.Register(def)
	}
	return reg
}

// BuildStore creates a store and registers the catalog's types in order,
// seeding types with seed data. All types are resolvable before the first
// seed is normalized, so relationships may point at types declared later.
func (c *Catalog) BuildStore(opts ...entitycache.Option) (*entitycache.Store, error) {
	opts = append(opts, entitycache.WithRegistry(c.Registry()))
	store := entitycache.NewStore(opts...)

	for _, t := range c.Types {
		def := t.Definition()
		if t.Seed == nil {
			store.Register(def)
			continue
		}
		if _, err := store.RegisterWithSeed(def, t.Seed); err != nil {
			return nil, fmt.Errorf("seeding %s: %w", t.Name, err)
		}
	}
	return store, nil
}
