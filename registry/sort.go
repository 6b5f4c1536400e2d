/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"sort"
)

// SortIDs returns a copy of ids ordered by the definition's SortComparer,
// looking each id up in entities by its key string. Ids without an entity keep
// their relative order after all known ones.
func SortIDs(def *EntityType, ids []Key, entities map[string]Record) []Key {
	out := make([]Key, len(ids))
	copy(out, ids)

	lookup := func(k Key) (Record, bool) {
		ks, ok := KeyString(k)
		if !ok {
			return nil, false
		}
		rec, ok := entities[ks]
		return rec, ok
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, aok := lookup(out[i])
		b, bok := lookup(out[j])
		if !aok || !bok {
			return aok && !bok
		}
		return def.SortComparer(a, b) < 0
	})
	return out
}
