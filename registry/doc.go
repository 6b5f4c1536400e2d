/*
Package registry defines entity types and resolves them by name.

An entity type has a name, an identity extractor, an ordering and an ordered
list of relationships naming other entity types:

	ticket := registry.Define("ticket")
	user := registry.Define("user",
	    registry.WithSchema(
	        registry.Many("tickets", "ticket"),
	        registry.Many("following", "user"),
	        registry.One("invitedBy", "user"),
	    ),
	)

Define fills in defaults: the identity is read from the "id" field and records
order by their "name" field.

Relationships are resolved through a Resolver when data is normalized, not when
the type is defined, so a type may reference itself or a type registered after
it. Registry is the thread-safe Resolver used by the cache store:

	reg := registry.NewRegistry()
	reg.Register(user)
	reg.Register(ticket)

Index Map Registry:
Associates Go types persisted by the datastore packages with key patterns:

	registry.RegisterIndexMap[storagemodels.TableItem](registry.IndexMap{
	    "PK": "TABLE#{EntityType}",
	    "SK": "{Kind}#{Key}",
	})
*/
package registry
