/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides an in-memory implementation of the DataStore interface for testing
package mock

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/suparena/entitycache/errors"
	"github.com/suparena/entitycache/storagemodels"
)

// DataStore is an in-memory implementation of datastore.DataStore[T]
type DataStore[T any] struct {
	mu            sync.RWMutex
	data          map[string]T
	queryFunc     func(ctx context.Context, params *storagemodels.QueryParams) ([]T, error)
	getKeyFunc    func(entity T) string
	partitionFunc func(entity T) string
	indexFuncs    map[string]func(entity T) string
	putError      error
	deleteError   error
	puts          int
}

// New creates a new mock DataStore
func New[T any]() *DataStore[T] {
	return &DataStore[T]{
		data: make(map[string]T),
	}
}

// ForTableItems creates a mock keyed and partitioned the way the DynamoDB
// store lays out table items.
func ForTableItems() *DataStore[storagemodels.TableItem] {
	return New[storagemodels.TableItem]().
		WithGetKeyFunc(func(it storagemodels.TableItem) string {
			return fmt.Sprintf("%s|%s#%s", it.EntityType, it.Kind, it.Key)
		}).
		WithPartitionFunc(func(it storagemodels.TableItem) string {
			return it.EntityType
		}).
		WithIndexPartitionFunc(storagemodels.SnapshotIndex, func(it storagemodels.TableItem) string {
			return it.SnapshotID
		})
}

// WithGetKeyFunc sets a custom function to extract keys from entities
func (m *DataStore[T]) WithGetKeyFunc(f func(T) string) *DataStore[T] {
	m.getKeyFunc = f
	return m
}

// WithPartitionFunc sets the function Query uses to match items against params.KeyInput
func (m *DataStore[T]) WithPartitionFunc(f func(T) string) *DataStore[T] {
	m.partitionFunc = f
	return m
}

// WithIndexPartitionFunc sets the partition function used when params.IndexName is index
func (m *DataStore[T]) WithIndexPartitionFunc(index string, f func(T) string) *DataStore[T] {
	if m.indexFuncs == nil {
		m.indexFuncs = make(map[string]func(T) string)
	}
	m.indexFuncs[index] = f
	return m
}

// WithQueryFunc sets a custom query function for testing
func (m *DataStore[T]) WithQueryFunc(f func(ctx context.Context, params *storagemodels.QueryParams) ([]T, error)) *DataStore[T] {
	m.queryFunc = f
	return m
}

// WithPutError makes Put operations return an error
func (m *DataStore[T]) WithPutError(err error) *DataStore[T] {
	m.putError = err
	return m
}

// WithDeleteError makes Delete operations return an error
func (m *DataStore[T]) WithDeleteError(err error) *DataStore[T] {
	m.deleteError = err
	return m
}

// GetOne retrieves an entity by key string or by a partial entity
func (m *DataStore[T]) GetOne(ctx context.Context, keyInput any) (*T, error) {
	key, err := m.keyOf(keyInput)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if entity, exists := m.data[key]; exists {
		return &entity, nil
	}

	var zero T
	return nil, errors.NewNotFoundError(fmt.Sprintf("%T", zero), key)
}

// Put stores an entity
func (m *DataStore[T]) Put(ctx context.Context, entity T) error {
	if m.putError != nil {
		return m.putError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := m.extractKey(entity)
	if key == "" {
		return errors.NewValidationError("key", "unable to extract key from entity")
	}

	m.data[key] = entity
	m.puts++
	return nil
}

// Query returns the entities in the partition of params.KeyInput, ordered by key
func (m *DataStore[T]) Query(ctx context.Context, params *storagemodels.QueryParams, opts ...storagemodels.QueryOption) ([]T, error) {
	if m.queryFunc != nil {
		return m.queryFunc(ctx, params)
	}

	options := storagemodels.DefaultQueryOptions()
	for _, opt := range opts {
		opt(&options)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	partitionOf := m.partitionFunc
	if params != nil && params.IndexName != nil {
		f, ok := m.indexFuncs[*params.IndexName]
		if !ok {
			return nil, errors.NewValidationError("IndexName", fmt.Sprintf("unknown index %q", *params.IndexName))
		}
		partitionOf = f
	}

	var partition string
	filter := false
	if partitionOf != nil && params != nil {
		if in, ok := params.KeyInput.(T); ok {
			partition = partitionOf(in)
			filter = true
		}
	}

	keys := make([]string, 0, len(m.data))
	for k, v := range m.data {
		if filter && partitionOf(v) != partition {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	results := make([]T, 0, len(keys))
	for _, k := range keys {
		if options.MaxItems > 0 && len(results) >= options.MaxItems {
			break
		}
		results = append(results, m.data[k])
	}
	return results, nil
}

// Delete removes an entity by key string or by a partial entity
func (m *DataStore[T]) Delete(ctx context.Context, keyInput any) error {
	if m.deleteError != nil {
		return m.deleteError
	}

	key, err := m.keyOf(keyInput)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.data[key]; !exists {
		var zero T
		return errors.NewNotFoundError(fmt.Sprintf("%T", zero), key)
	}

	delete(m.data, key)
	return nil
}

// Helper methods for testing

// SetData directly sets the internal data map (for testing)
func (m *DataStore[T]) SetData(data map[string]T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
}

// GetData returns a copy of the internal data map (for testing)
func (m *DataStore[T]) GetData() map[string]T {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]T, len(m.data))
	for k, v := range m.data {
		result[k] = v
	}
	return result
}

// Count returns the number of stored entities
func (m *DataStore[T]) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Puts returns the number of successful Put calls
func (m *DataStore[T]) Puts() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.puts
}

// Clear removes all data
func (m *DataStore[T]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]T)
}

func (m *DataStore[T]) keyOf(keyInput any) (string, error) {
	switch k := keyInput.(type) {
	case string:
		return k, nil
	case T:
		return m.extractKey(k), nil
	case *T:
		if k != nil {
			return m.extractKey(*k), nil
		}
	}
	return "", errors.NewValidationError("keyInput", fmt.Sprintf("unsupported key input %T", keyInput))
}

// extractKey attempts to extract a key from an entity
func (m *DataStore[T]) extractKey(entity T) string {
	if m.getKeyFunc != nil {
		return m.getKeyFunc(entity)
	}
	return fmt.Sprintf("key_%v", entity)
}
