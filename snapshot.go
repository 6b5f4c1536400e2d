/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entitycache

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/suparena/entitycache/datastore"
	"github.com/suparena/entitycache/registry"
	"github.com/suparena/entitycache/storagemodels"
)

// Save writes every table to ds: one ids item and one item per entity, all
// stamped with a new snapshot id, which is returned. Tables are written in name
// order and entities in key order.
func (s *Store) Save(ctx context.Context, ds datastore.DataStore[storagemodels.TableItem]) (string, error) {
	snapshotID := uuid.NewString()
	now := time.Now()

	tables := s.Tables()
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)

	written := 0
	for _, name := range names {
		table := tables[name]

		ids := storagemodels.TableItem{
			EntityType: name,
			Kind:       storagemodels.KindIDs,
			IDs:        table.IDs,
		}
		ids.Stamp(snapshotID, now)
		if err := ds.Put(ctx, ids); err != nil {
			return "", fmt.Errorf("saving ids of %s: %w", name, err)
		}
		written++

		keys := make([]string, 0, len(table.Entities))
		for key := range table.Entities {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			item := storagemodels.TableItem{
				EntityType: name,
				Kind:       storagemodels.KindEntity,
				Key:        key,
				Record:     table.Entities[key],
			}
			item.Stamp(snapshotID, now)
			if err := ds.Put(ctx, item); err != nil {
				return "", fmt.Errorf("saving %s %q: %w", name, key, err)
			}
			written++
		}
	}

	s.logger.Info("snapshot saved",
		zap.String("snapshotID", snapshotID),
		zap.Int("tables", len(names)),
		zap.Int("items", written))
	return snapshotID, nil
}

// Load reads the stored items of the named types from ds and applies them
// through SetCache: a stored id list replaces the table's ids and stored
// entities are merged. With no names, every registered type is loaded.
// Numeric ids come back in the form the datastore decodes them to.
func (s *Store) Load(ctx context.Context, ds datastore.DataStore[storagemodels.TableItem], names ...string) error {
	if len(names) == 0 {
		names = s.types.Names()
	}

	for _, name := range names {
		items, err := ds.Query(ctx, &storagemodels.QueryParams{
			KeyInput: storagemodels.TableItem{EntityType: name},
		})
		if err != nil {
			return fmt.Errorf("loading %s: %w", name, err)
		}
		s.applyItems(items)
	}
	return nil
}

// LoadSnapshot applies the items saved under snapshotID, across all types.
func (s *Store) LoadSnapshot(ctx context.Context, ds datastore.DataStore[storagemodels.TableItem], snapshotID string) error {
	index := storagemodels.SnapshotIndex
	items, err := ds.Query(ctx, &storagemodels.QueryParams{
		KeyInput:  storagemodels.TableItem{SnapshotID: snapshotID},
		IndexName: &index,
	})
	if err != nil {
		return fmt.Errorf("loading snapshot %s: %w", snapshotID, err)
	}
	s.applyItems(items)
	return nil
}

func (s *Store) applyItems(items []storagemodels.TableItem) {
	updates := make(map[string]*TableUpdate)
	var order []string
	for _, item := range items {
		update, ok := updates[item.EntityType]
		if !ok {
			update = &TableUpdate{Entities: make(map[string]registry.Record)}
			updates[item.EntityType] = update
			order = append(order, item.EntityType)
		}

		switch item.Kind {
		case storagemodels.KindIDs:
			update.IDs = item.IDs
			if update.IDs == nil {
				update.IDs = []registry.Key{}
			}
			update.HasIDs = true
		case storagemodels.KindEntity:
			if item.Record != nil {
				update.Entities[item.Key] = item.Record
			}
		}
	}
	sort.Strings(order)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, name := range order {
		s.setCacheLocked(name, *updates[name])
	}
}
