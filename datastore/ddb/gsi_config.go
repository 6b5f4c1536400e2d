/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import "github.com/suparena/entitycache/storagemodels"

// GSIConfig maps an index map's GSI fields to the attribute names of the index.
// Index map fields are named after the index ("GSI1PK", "GSI1SK").
type GSIConfig struct {
	// IndexName is the GSI name in DynamoDB (e.g., "GSI1")
	IndexName string
	// PartitionKeyName is the partition key attribute of the GSI (e.g., "PK1")
	PartitionKeyName string
	// SortKeyName is the sort key attribute of the GSI (e.g., "SK1")
	SortKeyName string
}

// DefaultGSIConfigs holds the GSI configurations
var DefaultGSIConfigs = map[string]GSIConfig{
	storagemodels.SnapshotIndex: {
		IndexName:        storagemodels.SnapshotIndex,
		PartitionKeyName: "PK1",
		SortKeyName:      "SK1",
	},
}

// GetGSIConfig returns the GSI configuration for a given index name
func GetGSIConfig(indexName string) (GSIConfig, bool) {
	cfg, ok := DefaultGSIConfigs[indexName]
	return cfg, ok
}
