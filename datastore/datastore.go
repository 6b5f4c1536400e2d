/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"

	"github.com/suparena/entitycache/storagemodels"
)

// DataStore persists items of type T. Keys are given as partial items (or
// the key string for stores without index maps) from which the store builds
// its key attributes.
type DataStore[T any] interface {
	GetOne(ctx context.Context, keyInput any) (*T, error)

	Put(ctx context.Context, entity T) error

	Query(ctx context.Context, params *storagemodels.QueryParams, opts ...storagemodels.QueryOption) ([]T, error)

	Delete(ctx context.Context, keyInput any) error
}
