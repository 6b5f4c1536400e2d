/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-openapi/strfmt"
)

// Item kinds of a persisted table
const (
	// KindIDs marks the single item holding a table's ordered id list
	KindIDs = "IDS"
	// KindEntity marks an item holding one entity record
	KindEntity = "ENTITY"
)

// SnapshotIndex is the secondary index that groups table items by SnapshotID.
const SnapshotIndex = "GSI1"

// TableItem is one persisted piece of a cache table: either its id list or one
// of its entities.
type TableItem struct {
	// EntityType is the name of the table the item belongs to.
	EntityType string `json:"EntityType" dynamodbav:"EntityType"`
	// Kind is KindIDs or KindEntity.
	Kind string `json:"Kind" dynamodbav:"Kind"`
	// Key is the entity key; empty for the id list item.
	Key string `json:"Key" dynamodbav:"Key"`
	// IDs is set on the id list item.
	IDs []any `json:"IDs,omitempty" dynamodbav:"IDs,omitempty"`
	// Record is set on entity items.
	Record map[string]any `json:"Record,omitempty" dynamodbav:"Record,omitempty"`
	// SnapshotID groups the items written by one save.
	SnapshotID string `json:"SnapshotID" dynamodbav:"SnapshotID"`
	// SavedAt is the save time in strfmt date-time form.
	SavedAt string `json:"SavedAt" dynamodbav:"SavedAt"`
}

// Stamp sets the snapshot id and save time.
func (it *TableItem) Stamp(snapshotID string, at time.Time) {
	it.SnapshotID = snapshotID
	it.SavedAt = strfmt.DateTime(at.UTC()).String()
}

// SavedTime parses SavedAt.
func (it TableItem) SavedTime() (strfmt.DateTime, error) {
	return strfmt.ParseDateTime(it.SavedAt)
}

// QueryParams selects the items of one partition.
type QueryParams struct {
	// KeyInput is a partial item the partition key is expanded from,
	// e.g. TableItem{EntityType: "user"}.
	KeyInput any
	// IndexName is optional if you wish to query a secondary index.
	IndexName *string
	// FilterExpression is an optional filter expression.
	FilterExpression *string
	// ExpressionAttributeValues contains the values for filter placeholders.
	ExpressionAttributeValues map[string]types.AttributeValue
	// ScanIndexForward specifies the order for index traversal.
	// If true (default), traversal is in ascending order.
	ScanIndexForward *bool
}
