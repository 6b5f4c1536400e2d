/*
Package ddb provides a DynamoDB implementation of the DataStore interface.

The DynamodbDataStore supports:
  - Single-table design with macro-based key expansion
  - Global Secondary Index attributes mapped through GSIConfig
  - Paginated queries with retry of throttling errors

Macro Expansion:
Keys are built from the index map registered for the stored type:

	registry.RegisterIndexMap[storagemodels.TableItem](registry.IndexMap{
	    "PK":     "TABLE#{EntityType}",  // Becomes "TABLE#user"
	    "SK":     "{Kind}#{Key}",        // Becomes "ENTITY#u-1"
	    "GSI1PK": "SNAPSHOT#{SnapshotID}",
	})

Importing this package registers TableItemIndexMap for storagemodels.TableItem,
so cache tables can be saved with:

	store, err := ddb.NewDynamodbDataStore[storagemodels.TableItem](ctx, key, secret, region, "entity-cache")
	snapshotID, err := cache.Save(ctx, store)

Queries page through a partition:

	items, err := store.Query(ctx,
	    &storagemodels.QueryParams{KeyInput: storagemodels.TableItem{EntityType: "user"}},
	    storagemodels.WithPageSize(25),
	    storagemodels.WithMaxRetries(3),
	)
*/
package ddb
