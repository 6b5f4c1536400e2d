/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entitycache

import (
	"encoding/json"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/suparena/entitycache/errors"
	"github.com/suparena/entitycache/merge"
	"github.com/suparena/entitycache/normalize"
	"github.com/suparena/entitycache/registry"
)

// Table is the stored form of one entity type.
type Table struct {
	IDs      []registry.Key             `json:"ids"`
	Entities map[string]registry.Record `json:"entities"`
}

func newTable() *Table {
	return &Table{
		IDs:      []registry.Key{},
		Entities: make(map[string]registry.Record),
	}
}

func (t *Table) clone() Table {
	out := Table{
		IDs:      merge.Clone([]any(t.IDs)).([]any),
		Entities: make(map[string]registry.Record, len(t.Entities)),
	}
	for k, rec := range t.Entities {
		out.Entities[k] = cloneRecord(rec)
	}
	return out
}

func cloneRecord(rec registry.Record) registry.Record {
	if out, ok := merge.Clone(rec).(map[string]any); ok {
		return out
	}
	return nil
}

// TableUpdate is one write to a Table. When HasIDs is set the table's ids are
// replaced by IDs; Entities, when non-nil, are deep-merged into the table.
// A nil record merges nothing.
type TableUpdate struct {
	IDs      []registry.Key
	HasIDs   bool
	Entities map[string]registry.Record
}

// ReplaceIDs builds an update that replaces the id list and merges entities.
func ReplaceIDs(ids []registry.Key, entities map[string]registry.Record) TableUpdate {
	return TableUpdate{IDs: ids, HasIDs: true, Entities: entities}
}

// MergeEntities builds an update that only merges entities.
func MergeEntities(entities map[string]registry.Record) TableUpdate {
	return TableUpdate{Entities: entities}
}

// Store holds one Table per entity type.
type Store struct {
	mu     sync.RWMutex
	types  *registry.Registry
	tables map[string]*Table
	logger *zap.Logger
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the logger used for registration and merge events
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRegistry shares an existing registry instead of creating one
func WithRegistry(reg *registry.Registry) Option {
	return func(s *Store) {
		if reg != nil {
			s.types = reg
		}
	}
}

// NewStore creates an empty Store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		types:  registry.NewRegistry(),
		tables: make(map[string]*Table),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry returns the registry relationships are resolved through.
func (s *Store) Registry() *registry.Registry {
	return s.types
}

// SetCache applies update to the table of the named type, creating the table
// if needed.
func (s *Store) SetCache(name string, update TableUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setCacheLocked(name, update)
}

func (s *Store) setCacheLocked(name string, update TableUpdate) {
	table, ok := s.tables[name]
	if !ok {
		table = newTable()
		s.tables[name] = table
	}

	if update.HasIDs {
		ids := make([]registry.Key, len(update.IDs))
		for i, id := range update.IDs {
			ids[i] = merge.Clone(id)
		}
		table.IDs = ids
	}

	for key, rec := range update.Entities {
		if rec == nil {
			continue
		}
		if existing, ok := table.Entities[key]; ok && existing != nil {
			merge.Into(existing, rec)
			continue
		}
		table.Entities[key] = cloneRecord(rec)
	}

	s.logger.Debug("table updated",
		zap.String("entityType", name),
		zap.Bool("idsReplaced", update.HasIDs),
		zap.Int("ids", len(table.IDs)),
		zap.Int("mergedEntities", len(update.Entities)),
		zap.Int("entities", len(table.Entities)))
}

// Register adds def to the registry and resets its table's id list. Entities
// already discovered for the type through other registrations are kept.
func (s *Store) Register(def *registry.EntityType) *registry.EntityType {
	s.types.Register(def)
	s.logger.Debug("entity type registered", zap.String("entityType", def.Name))
	s.SetCache(def.Name, ReplaceIDs([]registry.Key{}, map[string]registry.Record{}))
	return def
}

// RegisterWithSeed normalizes seed as def and, on success, registers def and
// stores the result: the type's own table gets the seed ids and entities, and
// every other type reached through relationships gets its entities merged with
// its ids left alone. When normalization fails def is not registered and
// nothing is stored.
func (s *Store) RegisterWithSeed(def *registry.EntityType, seed any) (*registry.EntityType, error) {
	res, err := s.normalize(pendingType{def: def, base: s.types}, def, seed)
	if err != nil {
		return nil, err
	}

	s.types.Register(def)
	s.logger.Debug("entity type registered", zap.String("entityType", def.Name))
	s.store(def, res)
	return def, nil
}

// Ingest normalizes more data for the registered type name and stores it the
// same way RegisterWithSeed stores seed data.
func (s *Store) Ingest(name string, data any) (*normalize.Result, error) {
	def, err := s.types.Lookup(name)
	if err != nil {
		return nil, err
	}
	res, err := s.normalize(s.types, def, data)
	if err != nil {
		return nil, err
	}
	s.store(def, res)
	return res, nil
}

// pendingType resolves def ahead of its registration so seed data may
// reference its own type.
type pendingType struct {
	def  *registry.EntityType
	base registry.Resolver
}

func (p pendingType) Lookup(name string) (*registry.EntityType, error) {
	if name == p.def.Name {
		return p.def, nil
	}
	return p.base.Lookup(name)
}

func (s *Store) normalize(r registry.Resolver, def *registry.EntityType, data any) (*normalize.Result, error) {
	res, err := normalize.Normalize(r, def, data)
	if err != nil {
		s.logger.Debug("normalization failed", zap.String("entityType", def.Name), zap.Error(err))
		return nil, err
	}
	return res, nil
}

func (s *Store) store(def *registry.EntityType, res *normalize.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.setCacheLocked(def.Name, ReplaceIDs(res.IDs, res.Entities[def.Name]))
	for _, name := range res.Types() {
		if name == def.Name {
			continue
		}
		s.setCacheLocked(name, MergeEntities(res.Entities[name]))
	}
}

// Table returns a copy of the named table.
func (s *Store) Table(name string) (Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	table, ok := s.tables[name]
	if !ok {
		return Table{}, errors.NewNotFoundError("table", name)
	}
	return table.clone(), nil
}

// Tables returns a copy of every table.
func (s *Store) Tables() map[string]Table {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]Table, len(s.tables))
	for name, table := range s.tables {
		out[name] = table.clone()
	}
	return out
}

// Names returns the names of all tables, sorted.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SortedIDs returns the named table's ids ordered by the type's SortComparer.
// The stored order is not changed.
func (s *Store) SortedIDs(name string) ([]registry.Key, error) {
	def, err := s.types.Lookup(name)
	if err != nil {
		return nil, err
	}
	table, err := s.Table(name)
	if err != nil {
		return nil, err
	}
	return registry.SortIDs(def, table.IDs, table.Entities), nil
}

// MarshalJSON renders the store as {"<type>": {"ids": [...], "entities": {...}}}.
func (s *Store) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Tables())
}
