/*
Package entitycache normalizes nested entity graphs into flat, per-type tables
and accumulates them in a cache store.

Callers define entity types with an identity extractor and relationships to
other types, then feed nested data. Each type gets a Table of ordered ids and
records keyed by identity, with relationship values replaced by related keys.

The library is organised in layers:
  - registry: entity type definitions and name resolution
  - normalize: the flattening algorithm
  - merge: the deep-merge primitive shared by both layers
  - Store (this package): per-type tables merged across calls
  - datastore, datastore/ddb, datastore/mock: snapshot persistence

Basic Usage:

	store := entitycache.NewStore()

	ticket := store.Register(registry.Define("ticket"))
	_, err := store.RegisterWithSeed(
	    registry.Define("user", registry.WithSchema(registry.Many("tickets", ticket.Name))),
	    []any{
	        map[string]any{"id": "u-1", "name": "user one", "tickets": []any{
	            map[string]any{"id": "t-1", "name": "ticket one"},
	        }},
	    },
	)

	users, _ := store.Table("user")
	// users.IDs == []any{"u-1"}
	// users.Entities["u-1"]["tickets"] == []any{"t-1"}

	out, _ := json.Marshal(store)
	// {"ticket":{"ids":[],"entities":{"t-1":{...}}},"user":{"ids":["u-1"],"entities":{...}}}

Table Semantics:
A write that carries ids replaces the table's id list; entities are always
deep-merged into what the table already holds. Registering a type with seed data
replaces that type's ids, while types reached only through relationships have
their entities merged and their ids left to their own registration. Types can
therefore be registered in any order.

Persistence:
Store.Save writes every table to a datastore.DataStore as a snapshot stamped
with a fresh id. Store.Load merges the stored tables of the named types back,
and Store.LoadSnapshot restores the items of one snapshot across all types.
*/
package entitycache
