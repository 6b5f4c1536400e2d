/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package merge

import (
	"reflect"
)

var mapType = reflect.TypeOf(map[string]any(nil))

// Merge deep-merges sources, left to right, into a deep copy of target and
// returns the result.
func Merge(target any, sources ...any) any {
	out := Clone(target)
	for _, src := range sources {
		out = mergeValue(out, src)
	}
	return out
}

// Into deep-merges src into dst in place. dst must not share structure with
// values the caller still uses; src is never mutated and nothing from src is
// aliased into dst.
func Into(dst map[string]any, src map[string]any) {
	for k, v := range src {
		cur, ok := dst[k]
		if !ok {
			dst[k] = Clone(v)
			continue
		}
		dst[k] = mergeValue(cur, v)
	}
}

// Clone returns a deep copy of v. Maps keyed by string come back as
// map[string]any and slices as []any; other values are returned as is.
func Clone(v any) any {
	switch tv := v.(type) {
	case nil:
		return nil
	case map[string]any:
		out := make(map[string]any, len(tv))
		for k, e := range tv {
			out[k] = Clone(e)
		}
		return out
	case []any:
		out := make([]any, len(tv))
		for i, e := range tv {
			out[i] = Clone(e)
		}
		return out
	case string, bool, float64, int, int64:
		return tv
	}

	if m, ok := AsMap(v); ok {
		return Clone(m)
	}
	if s, ok := asSlice(v); ok {
		return Clone(s)
	}
	return v
}

// AsMap reports whether v is a map keyed by string with interface values,
// including named map types such as registry.Record, and returns it as a
// map[string]any sharing the same storage.
func AsMap(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || !rv.Type().ConvertibleTo(mapType) {
		return nil, false
	}
	return rv.Convert(mapType).Interface().(map[string]any), true
}

// AsSequence reports whether v is a slice or array other than a byte string
// and returns its elements. Unless v is already a []any, the result is a copy.
func AsSequence(v any) ([]any, bool) {
	return asSlice(v)
}

func asSlice(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// mergeValue merges src into dst. dst is owned by the caller and may be
// modified; the returned value replaces it.
func mergeValue(dst, src any) any {
	if sm, ok := AsMap(src); ok {
		dm, ok := dst.(map[string]any)
		if !ok {
			if m, isMap := AsMap(dst); isMap {
				dm = Clone(m).(map[string]any)
			} else {
				return Clone(sm)
			}
		}
		Into(dm, sm)
		return dm
	}

	if ss, ok := asSlice(src); ok {
		ds, ok := dst.([]any)
		if !ok {
			s, isSlice := asSlice(dst)
			if !isSlice {
				return Clone(ss)
			}
			ds = Clone(s).([]any)
		}
		if len(ss) > len(ds) {
			grown := make([]any, len(ss))
			copy(grown, ds)
			ds = grown
		}
		for i, e := range ss {
			if ds[i] == nil {
				ds[i] = Clone(e)
				continue
			}
			ds[i] = mergeValue(ds[i], e)
		}
		return ds
	}

	return src
}
