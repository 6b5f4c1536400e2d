/*
Package normalize flattens nested entity graphs into per-type tables.

Given an entity type and nested data, Normalize walks every relationship the
type declares, flattens the related records into their own type's table and
replaces the relationship property with the related keys:

	reg := registry.NewRegistry()
	reg.Register(registry.Define("ticket"))
	user := registry.Define("user", registry.WithSchema(registry.Many("tickets", "ticket")))
	reg.Register(user)

	res, err := normalize.Normalize(reg, user, []any{
	    map[string]any{"id": "u-1", "tickets": []any{
	        map[string]any{"id": "t-1", "name": "ticket one"},
	    }},
	})
	// res.IDs                 == []any{"u-1"}
	// res.Entities["user"]    == {"u-1": {"id": "u-1", "tickets": []any{"t-1"}}}
	// res.Entities["ticket"]  == {"t-1": {"id": "t-1", "name": "ticket one"}}

A record reached more than once, from the top level or through different
relationships, ends up as a single entry: later occurrences deep-merge into
earlier ones (see package merge).

Types may reference themselves or each other; traversal follows the data, which
must not contain itself. Records are processed with an explicit work list, so
deeply nested input does not grow the goroutine stack.
*/
package normalize
