/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package normalize

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/suparena/entitycache/errors"
	"github.com/suparena/entitycache/merge"
	"github.com/suparena/entitycache/registry"
)

// Result is the flat form of one normalization call.
type Result struct {
	// IDs holds one key per top-level input record, in input order. Repeated
	// identities are kept.
	IDs []registry.Key `json:"ids"`
	// Entities maps entity type name to key string to record.
	Entities map[string]map[string]registry.Record `json:"entities"`
}

// Types returns the entity type names present in the result, sorted.
func (r *Result) Types() []string {
	names := make([]string, 0, len(r.Entities))
	for name := range r.Entities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// frame is one record whose relationships are being expanded. Frames are kept
// on an explicit stack so traversal depth does not grow the goroutine stack.
type frame struct {
	def  *registry.EntityType
	in   registry.Record
	out  registry.Record
	next int
	// slot receives the record's key once all relationships are done.
	slot    *[]registry.Key
	pending []rewrite
	// parent and segment locate the record for error messages; the full
	// path is only built when an error is returned.
	parent  *frame
	segment string
}

// path renders the frame's location, e.g. user[0].tickets[1].
func (f *frame) path() string {
	var segments []string
	for cur := f; cur != nil; cur = cur.parent {
		segments = append(segments, cur.segment)
	}
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	return strings.Join(segments, ".")
}

func joinPath(parent *frame, segment string) string {
	if parent == nil {
		return segment
	}
	return parent.path() + "." + segment
}

type rewrite struct {
	key string
	ids *[]registry.Key
}

// Normalize flattens data, a record or a sequence of records of type def, into
// per-type tables. Relationship properties present on a record are replaced in
// the output by the sequence of related keys; related types are looked up by
// name through r. The input is never modified.
func Normalize(r registry.Resolver, def *registry.EntityType, data any) (*Result, error) {
	res := &Result{
		IDs:      []registry.Key{},
		Entities: make(map[string]map[string]registry.Record),
	}

	var stack []*frame
	frames, err := expand(def, data, &res.IDs, nil, def.Name)
	if err != nil {
		return nil, err
	}
	stack = append(stack, frames...)

	for len(stack) > 0 {
		f := stack[len(stack)-1]

		if f.next < len(f.def.Schema) {
			rel := f.def.Schema[f.next]
			f.next++

			value, ok := f.in[rel.Key]
			if !ok {
				continue
			}

			relDef, err := r.Lookup(rel.Type)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", f.path(), rel.Key, err)
			}

			ids := []registry.Key{}
			f.pending = append(f.pending, rewrite{key: rel.Key, ids: &ids})

			children, err := expand(relDef, value, &ids, f, rel.Key)
			if err != nil {
				return nil, err
			}
			stack = append(stack, children...)
			continue
		}

		stack = stack[:len(stack)-1]
		if err := finish(f, res.Entities); err != nil {
			return nil, err
		}
	}

	return res, nil
}

// NormalizeByName resolves the top-level type through r and normalizes data.
func NormalizeByName(r registry.Resolver, name string, data any) (*Result, error) {
	def, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	return Normalize(r, def, data)
}

// expand turns data into frames, reversed so the first record is on top of
// the stack. A value that is not a sequence counts as a sequence of one.
func expand(def *registry.EntityType, data any, slot *[]registry.Key, parent *frame, name string) ([]*frame, error) {
	items, ok := merge.AsSequence(data)
	if !ok {
		items = []any{data}
	}

	frames := make([]*frame, len(items))
	for i, item := range items {
		segment := name
		if ok {
			segment = name + "[" + strconv.Itoa(i) + "]"
		}

		rec, isRecord := merge.AsMap(item)
		if !isRecord {
			return nil, errors.NewValidationError(joinPath(parent, segment), fmt.Sprintf("%s: expected a record, got %T", def.Name, item))
		}

		out := make(registry.Record, len(rec))
		for k, v := range rec {
			out[k] = v
		}
		frames[len(items)-1-i] = &frame{
			def:     def,
			in:      rec,
			out:     out,
			slot:    slot,
			parent:  parent,
			segment: segment,
		}
	}
	return frames, nil
}

// finish applies the relationship rewrites, extracts the identity and merges
// the record into its type's table.
func finish(f *frame, entities map[string]map[string]registry.Record) error {
	for _, rw := range f.pending {
		f.out[rw.key] = *rw.ids
	}

	key, err := f.def.SelectID(f.out)
	if err != nil {
		return fmt.Errorf("%s: %w", f.path(), err)
	}
	ks, ok := registry.KeyString(key)
	if !ok {
		return fmt.Errorf("%s: %w", f.path(), errors.NewInvalidKeyError(f.def.Name, "", key))
	}

	*f.slot = append(*f.slot, key)

	table, ok := entities[f.def.Name]
	if !ok {
		table = make(map[string]registry.Record)
		entities[f.def.Name] = table
	}
	if existing, ok := table[ks]; ok {
		merge.Into(existing, f.out)
	} else {
		table[ks] = merge.Clone(f.out).(map[string]any)
	}
	return nil
}
