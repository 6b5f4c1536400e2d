/*
Package storagemodels defines the data structures shared by the datastore
implementations.

TableItem:
A cache table is persisted as one id list item plus one item per entity:

	ids := storagemodels.TableItem{
	    EntityType: "user",
	    Kind:       storagemodels.KindIDs,
	    IDs:        []any{"u-1", "u-2"},
	}
	entity := storagemodels.TableItem{
	    EntityType: "user",
	    Kind:       storagemodels.KindEntity,
	    Key:        "u-1",
	    Record:     map[string]any{"id": "u-1", "tickets": []any{"t-1"}},
	}

Items written by one save share a SnapshotID and SavedAt time.

QueryParams and QueryOptions:
Queries select one partition, usually one entity type, and page through it:

	items, err := store.Query(ctx,
	    &storagemodels.QueryParams{KeyInput: storagemodels.TableItem{EntityType: "user"}},
	    storagemodels.WithPageSize(25),
	    storagemodels.WithMaxRetries(3),
	)
*/
package storagemodels
