/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entitycache

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/entitycache/datastore/mock"
	"github.com/suparena/entitycache/registry"
	"github.com/suparena/entitycache/storagemodels"
)

func seededStore(t *testing.T) *Store {
	t.Helper()

	store := NewStore()
	_, err := store.RegisterWithSeed(registry.Define("ticket"), []any{rec{"id": "t-1", "name": "ticket one"}})
	require.NoError(t, err)
	_, err = store.RegisterWithSeed(
		registry.Define("user", registry.WithSchema(registry.Many("tickets", "ticket"))),
		userSeed(),
	)
	require.NoError(t, err)
	return store
}

func TestStoreSaveLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("RoundTrip", func(t *testing.T) {
		src := seededStore(t)
		ds := mock.ForTableItems()

		snapshotID, err := src.Save(ctx, ds)
		require.NoError(t, err)
		_, err = uuid.Parse(snapshotID)
		require.NoError(t, err)
		// user: ids + 2 entities, ticket: ids + 2 entities
		assert.Equal(t, 6, ds.Count())

		for _, item := range ds.GetData() {
			assert.Equal(t, snapshotID, item.SnapshotID)
			_, err := item.SavedTime()
			assert.NoError(t, err)
		}

		dst := NewStore()
		dst.Register(registry.Define("ticket"))
		dst.Register(registry.Define("user", registry.WithSchema(registry.Many("tickets", "ticket"))))
		require.NoError(t, dst.Load(ctx, ds))
		assert.Equal(t, src.Tables(), dst.Tables())
	})

	t.Run("LoadNamedMergesEntities", func(t *testing.T) {
		ds := mock.ForTableItems()
		_, err := seededStore(t).Save(ctx, ds)
		require.NoError(t, err)

		dst := NewStore()
		dst.SetCache("ticket", ReplaceIDs([]registry.Key{"t-9"}, map[string]registry.Record{
			"t-1": {"id": "t-1", "priority": "high"},
		}))
		require.NoError(t, dst.Load(ctx, ds, "ticket"))

		table, err := dst.Table("ticket")
		require.NoError(t, err)
		assert.Equal(t, []registry.Key{"t-1"}, table.IDs)
		assert.Equal(t, registry.Record{"id": "t-1", "name": "ticket one", "priority": "high"}, table.Entities["t-1"])
		assert.Equal(t, []string{"ticket"}, dst.Names())
	})

	t.Run("LoadSnapshot", func(t *testing.T) {
		ds := mock.ForTableItems()
		snapshotID, err := seededStore(t).Save(ctx, ds)
		require.NoError(t, err)

		dst := NewStore()
		require.NoError(t, dst.LoadSnapshot(ctx, ds, snapshotID))
		assert.Equal(t, []string{"ticket", "user"}, dst.Names())

		other := NewStore()
		require.NoError(t, other.LoadSnapshot(ctx, ds, "missing"))
		assert.Empty(t, other.Names())
	})

	t.Run("PutError", func(t *testing.T) {
		ds := mock.ForTableItems().WithPutError(fmt.Errorf("disk full"))
		_, err := seededStore(t).Save(ctx, ds)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
	})

	t.Run("QueryError", func(t *testing.T) {
		ds := mock.ForTableItems().WithQueryFunc(func(context.Context, *storagemodels.QueryParams) ([]storagemodels.TableItem, error) {
			return nil, fmt.Errorf("throttled")
		})
		store := NewStore()
		store.Register(registry.Define("user"))
		err := store.Load(ctx, ds)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "loading user")
	})
}
