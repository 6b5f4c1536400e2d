/*
Package merge implements the deep-merge primitive used to combine entity
records and cache tables.

Maps merge key by key, recursively. Sequences merge by position: the i-th
source element merges into the i-th target element and a longer source extends
the target, but sequences are never concatenated. Any other value is replaced by
the source value.

	merge.Merge(
	    map[string]any{"tags": []any{"a", "b", "c"}, "n": 1},
	    map[string]any{"tags": []any{"x"}, "m": 2},
	)
	// map[string]any{"tags": []any{"x", "b", "c"}, "n": 1, "m": 2}

Merge never mutates its arguments. Into mutates a destination map the caller
owns and is used by accumulators that are private to one operation.
*/
package merge
