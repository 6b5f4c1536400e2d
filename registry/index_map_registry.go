/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"reflect"
	"sync"
)

// IndexMap maps key attribute names (PK, SK, ...) to macro templates such as
// "TABLE#{EntityType}" that are expanded from the fields of a persisted item.
type IndexMap map[string]string

var (
	indexMapRegistry = make(map[reflect.Type]IndexMap)
	indexMu          sync.RWMutex
)

// RegisterIndexMap associates the Go type T with the index map used to persist it.
func RegisterIndexMap[T any](idxMap IndexMap) {
	var zero T
	t := reflect.TypeOf(zero)

	indexMu.Lock()
	defer indexMu.Unlock()
	indexMapRegistry[t] = idxMap
}

// GetIndexMap retrieves the index map for type T, if any.
func GetIndexMap[T any]() (IndexMap, bool) {
	var zero T
	t := reflect.TypeOf(zero)

	indexMu.RLock()
	defer indexMu.RUnlock()
	m, ok := indexMapRegistry[t]
	return m, ok
}
