/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"encoding/json"
	"math"
	"strconv"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/suparena/entitycache/errors"
)

// Record is a single entity as an arbitrary key-value structure.
type Record = map[string]any

// Key is an identity produced by a SelectIDFunc. It holds a string or a number.
type Key = any

// SelectIDFunc extracts the identity of a record.
type SelectIDFunc func(rec Record) (Key, error)

// SortComparer orders two records, returning a negative number when a sorts
// before b, zero when they are equal and a positive number otherwise.
type SortComparer func(a, b Record) int

// Relation declares that the property Key of a record holds related records of
// the entity type named Type. Many marks a collection relationship.
type Relation struct {
	Key  string
	Type string
	Many bool
}

// One declares a singular relationship: the property holds one related record or is absent.
func One(key, typeName string) Relation {
	return Relation{Key: key, Type: typeName}
}

// Many declares a collection relationship: the property holds zero or more related records.
func Many(key, typeName string) Relation {
	return Relation{Key: key, Type: typeName, Many: true}
}

// EntityType is a resolved entity type definition.
type EntityType struct {
	Name         string
	SelectID     SelectIDFunc
	SortComparer SortComparer
	// Schema is processed in declaration order.
	Schema []Relation
}

// Option configures an EntityType in Define
type Option func(*EntityType)

// WithSelectID sets a custom identity extractor
func WithSelectID(fn SelectIDFunc) Option {
	return func(def *EntityType) {
		def.SelectID = fn
	}
}

// WithIDField reads the identity from the given field instead of "id"
func WithIDField(field string) Option {
	return func(def *EntityType) {
		def.SelectID = FieldSelector(def.Name, field)
	}
}

// WithSortComparer sets a custom ordering
func WithSortComparer(fn SortComparer) Option {
	return func(def *EntityType) {
		def.SortComparer = fn
	}
}

// WithSortField orders records by the given field instead of "name"
func WithSortField(field string) Option {
	return func(def *EntityType) {
		def.SortComparer = FieldComparer(field)
	}
}

// WithSchema appends relationships to the schema
func WithSchema(relations ...Relation) Option {
	return func(def *EntityType) {
		def.Schema = append(def.Schema, relations...)
	}
}

// Define resolves options over the defaults and returns the definition. It has
// no side effects; register the result with a Registry or a cache store.
func Define(name string, opts ...Option) *EntityType {
	def := &EntityType{
		Name:         name,
		SelectID:     FieldSelector(name, "id"),
		SortComparer: FieldComparer("name"),
	}
	for _, opt := range opts {
		opt(def)
	}
	if def.SelectID == nil {
		def.SelectID = FieldSelector(name, "id")
	}
	if def.SortComparer == nil {
		def.SortComparer = FieldComparer("name")
	}
	return def
}

// FieldSelector returns a SelectIDFunc reading field from a record.
func FieldSelector(typeName, field string) SelectIDFunc {
	return func(rec Record) (Key, error) {
		v, ok := rec[field]
		if !ok {
			return nil, errors.NewMissingIdentityError(typeName, field)
		}
		if _, ok := KeyString(v); !ok {
			return nil, errors.NewInvalidKeyError(typeName, field, v)
		}
		return v, nil
	}
}

// FieldComparer returns a locale-aware comparer on the string form of field.
// Records missing the field sort as if it were empty.
func FieldComparer(field string) SortComparer {
	var mu sync.Mutex
	col := collate.New(language.Und)
	return func(a, b Record) int {
		mu.Lock()
		defer mu.Unlock()
		return col.CompareString(fieldString(a, field), fieldString(b, field))
	}
}

func fieldString(rec Record, field string) string {
	v, ok := rec[field]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	if s, ok := KeyString(v); ok {
		return s
	}
	return ""
}

// KeyString renders an identity as the key of an entities map. Strings are used
// as is and numbers are printed in their shortest form ("7", "1.5"). It reports
// false for any other value.
func KeyString(k Key) (string, bool) {
	switch v := k.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case int:
		return strconv.Itoa(v), true
	case int8:
		return strconv.FormatInt(int64(v), 10), true
	case int16:
		return strconv.FormatInt(int64(v), 10), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint:
		return strconv.FormatUint(uint64(v), 10), true
	case uint8:
		return strconv.FormatUint(uint64(v), 10), true
	case uint16:
		return strconv.FormatUint(uint64(v), 10), true
	case uint32:
		return strconv.FormatUint(uint64(v), 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case float32:
		return formatFloat(float64(v), 32)
	case float64:
		return formatFloat(v, 64)
	}
	return "", false
}

func formatFloat(f float64, bits int) (string, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", false
	}
	return strconv.FormatFloat(f, 'f', -1, bits), true
}
