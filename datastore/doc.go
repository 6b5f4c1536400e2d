/*
Package datastore defines the persistence interface used to save and load cache
snapshots.

	type DataStore[T any] interface {
	    GetOne(ctx context.Context, keyInput any) (*T, error)
	    Put(ctx context.Context, entity T) error
	    Query(ctx context.Context, params *storagemodels.QueryParams, opts ...storagemodels.QueryOption) ([]T, error)
	    Delete(ctx context.Context, keyInput any) error
	}

Implementations:
  - ddb: DynamoDB, single-table design with macro key expansion
  - mock: in-memory, for tests
*/
package datastore
