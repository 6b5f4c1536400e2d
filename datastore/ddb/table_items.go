/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"github.com/suparena/entitycache/registry"
	"github.com/suparena/entitycache/storagemodels"
)

// TableItemIndexMap lays cache tables out one partition per entity type, with
// a snapshot index across all types.
var TableItemIndexMap = registry.IndexMap{
	"PK":     "TABLE#{EntityType}",
	"SK":     "{Kind}#{Key}",
	"GSI1PK": "SNAPSHOT#{SnapshotID}",
	"GSI1SK": "{EntityType}#{Kind}#{Key}",
}

func init() {
	registry.RegisterIndexMap[storagemodels.TableItem](TableItemIndexMap)
}

// NewTableItemStore constructs a store for cache table items on an existing client.
func NewTableItemStore(client Client, tableName string) *DynamodbDataStore[storagemodels.TableItem] {
	return NewDynamodbDataStoreWithClient[storagemodels.TableItem](client, tableName)
}
