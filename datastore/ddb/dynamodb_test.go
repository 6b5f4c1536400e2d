/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	ecerrors "github.com/suparena/entitycache/errors"
	"github.com/suparena/entitycache/registry"
	"github.com/suparena/entitycache/storagemodels"
)

// fakeClient keeps items in memory keyed by PK and SK and pages queries by Limit.
type fakeClient struct {
	mu        sync.Mutex
	items     map[string]map[string]types.AttributeValue
	queryErrs []error
	queries   int
	putErr    error
}

func newFakeClient() *fakeClient {
	return &fakeClient{items: make(map[string]map[string]types.AttributeValue)}
}

func str(av types.AttributeValue) string {
	if s, ok := av.(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func itemKey(key map[string]types.AttributeValue) string {
	return str(key["PK"]) + "|" + str(key["SK"])
}

func (f *fakeClient) GetItem(_ context.Context, in *sdk.GetItemInput, _ ...func(*sdk.Options)) (*sdk.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &sdk.GetItemOutput{Item: f.items[itemKey(in.Key)]}, nil
}

func (f *fakeClient) PutItem(_ context.Context, in *sdk.PutItemInput, _ ...func(*sdk.Options)) (*sdk.PutItemOutput, error) {
	if f.putErr != nil {
		return nil, &smithy.OperationError{ServiceID: "DynamoDB", OperationName: "PutItem", Err: f.putErr}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[itemKey(in.Item)] = in.Item
	return &sdk.PutItemOutput{}, nil
}

func (f *fakeClient) DeleteItem(_ context.Context, in *sdk.DeleteItemInput, _ ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, itemKey(in.Key))
	return &sdk.DeleteItemOutput{}, nil
}

func (f *fakeClient) Query(_ context.Context, in *sdk.QueryInput, _ ...func(*sdk.Options)) (*sdk.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries++
	if len(f.queryErrs) > 0 {
		err := f.queryErrs[0]
		f.queryErrs = f.queryErrs[1:]
		// the SDK wraps service errors with the operation that failed
		return nil, &smithy.OperationError{ServiceID: "DynamoDB", OperationName: "Query", Err: err}
	}

	attr := in.ExpressionAttributeNames["#pk"]
	sortAttr := "SK"
	if in.IndexName != nil {
		sortAttr = DefaultGSIConfigs[*in.IndexName].SortKeyName
	}
	pk := str(in.ExpressionAttributeValues[":pk"])

	var matched []map[string]types.AttributeValue
	for _, item := range f.items {
		if str(item[attr]) == pk {
			matched = append(matched, item)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return str(matched[i][sortAttr]) < str(matched[j][sortAttr]) })

	start := 0
	if pos, ok := in.ExclusiveStartKey["pos"].(*types.AttributeValueMemberN); ok {
		start, _ = strconv.Atoi(pos.Value)
	}
	end := len(matched)
	if in.Limit != nil && start+int(*in.Limit) < end {
		end = start + int(*in.Limit)
	}

	out := &sdk.QueryOutput{Items: matched[start:end]}
	if end < len(matched) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			"pos": &types.AttributeValueMemberN{Value: strconv.Itoa(end)},
		}
	}
	return out, nil
}

func entityItem(entityType, key, snapshot string) storagemodels.TableItem {
	it := storagemodels.TableItem{
		EntityType: entityType,
		Kind:       storagemodels.KindEntity,
		Key:        key,
		Record:     map[string]any{"id": key},
	}
	it.Stamp(snapshot, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))
	return it
}

func TestPutStoresKeyAttributes(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient()
	store := NewTableItemStore(client, "cache")

	require.NoError(t, store.Put(ctx, entityItem("user", "u-1", "snap")))

	stored := client.items["TABLE#user|ENTITY#u-1"]
	require.NotNil(t, stored)
	assert.Equal(t, "TABLE#user", str(stored["PK"]))
	assert.Equal(t, "ENTITY#u-1", str(stored["SK"]))
	assert.Equal(t, "SNAPSHOT#snap", str(stored["PK1"]))
	assert.Equal(t, "user#ENTITY#u-1", str(stored["SK1"]))
	assert.NotContains(t, stored, "GSI1PK")
	assert.Equal(t, "cache", store.TableName())
}

func TestGetOneAndDelete(t *testing.T) {
	ctx := context.Background()
	store := NewTableItemStore(newFakeClient(), "cache")
	item := entityItem("user", "u-1", "snap")
	require.NoError(t, store.Put(ctx, item))

	got, err := store.GetOne(ctx, storagemodels.TableItem{EntityType: "user", Kind: storagemodels.KindEntity, Key: "u-1"})
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.Record["id"])
	assert.Equal(t, "snap", got.SnapshotID)

	savedAt, err := got.SavedTime()
	require.NoError(t, err)
	assert.Equal(t, 2025, time.Time(savedAt).Year())

	require.NoError(t, store.Delete(ctx, item))
	_, err = store.GetOne(ctx, item)
	assert.True(t, ecerrors.IsNotFound(err))
}

func TestPrimaryKeyValidation(t *testing.T) {
	ctx := context.Background()
	store := NewTableItemStore(newFakeClient(), "cache")

	_, err := store.GetOne(ctx, 42)
	require.Error(t, err)

	type keyed struct{ ID, Sort string }
	registry.RegisterIndexMap[keyed](registry.IndexMap{"PK": "{ID}", "SK": "{Sort}"})
	keyedStore := NewDynamodbDataStoreWithClient[keyed](newFakeClient(), "cache")
	_, err = keyedStore.GetOne(ctx, keyed{ID: "x"})
	assert.True(t, ecerrors.IsValidationError(err))
	assert.True(t, ecerrors.IsValidationError(keyedStore.Put(ctx, keyed{ID: "x"})))

	type unmapped struct{ ID string }
	other := NewDynamodbDataStoreWithClient[unmapped](newFakeClient(), "cache")
	err = other.Put(ctx, unmapped{ID: "x"})
	assert.ErrorIs(t, err, ecerrors.ErrNoIndexMap)
}

func TestPutConditionFailed(t *testing.T) {
	client := newFakeClient()
	client.putErr = &types.ConditionalCheckFailedException{Message: aws.String("exists")}
	store := NewTableItemStore(client, "cache")

	err := store.Put(context.Background(), entityItem("user", "u-1", "snap"))
	assert.True(t, ecerrors.IsConditionFailed(err))

	var cfErr *ecerrors.ConditionFailedError
	require.ErrorAs(t, err, &cfErr)
	assert.Equal(t, "Put", cfErr.Operation)
	assert.Equal(t, "exists", cfErr.Condition)
}

func TestQueryPaginates(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient()
	core, logs := observer.New(zap.DebugLevel)
	store := NewTableItemStore(client, "cache").WithLogger(zap.New(core))

	for i := 0; i < 7; i++ {
		require.NoError(t, store.Put(ctx, entityItem("user", fmt.Sprintf("u-%d", i), "snap")))
	}
	require.NoError(t, store.Put(ctx, entityItem("ticket", "t-1", "snap")))

	items, err := store.Query(ctx,
		&storagemodels.QueryParams{KeyInput: storagemodels.TableItem{EntityType: "user"}},
		storagemodels.WithPageSize(3))
	require.NoError(t, err)
	require.Len(t, items, 7)
	assert.Equal(t, "u-0", items[0].Key)
	assert.Equal(t, "u-6", items[6].Key)
	assert.Equal(t, 3, client.queries)
	assert.Equal(t, 3, logs.FilterMessage("query page read").Len())

	limited, err := store.Query(ctx,
		&storagemodels.QueryParams{KeyInput: storagemodels.TableItem{EntityType: "user"}},
		storagemodels.WithPageSize(3), storagemodels.WithMaxItems(4))
	require.NoError(t, err)
	assert.Len(t, limited, 4)
}

func TestQuerySnapshotIndex(t *testing.T) {
	ctx := context.Background()
	store := NewTableItemStore(newFakeClient(), "cache")
	require.NoError(t, store.Put(ctx, entityItem("user", "u-1", "a")))
	require.NoError(t, store.Put(ctx, entityItem("ticket", "t-1", "a")))
	require.NoError(t, store.Put(ctx, entityItem("user", "u-2", "b")))

	index := storagemodels.SnapshotIndex
	items, err := store.Query(ctx, &storagemodels.QueryParams{
		KeyInput:  storagemodels.TableItem{SnapshotID: "a"},
		IndexName: &index,
	})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "ticket", items[0].EntityType)
	assert.Equal(t, "user", items[1].EntityType)
}

func TestQueryValidation(t *testing.T) {
	ctx := context.Background()
	store := NewTableItemStore(newFakeClient(), "cache")

	_, err := store.Query(ctx, nil)
	assert.True(t, ecerrors.IsValidationError(err))

	_, err = store.Query(ctx, &storagemodels.QueryParams{KeyInput: storagemodels.TableItem{}})
	require.NoError(t, err, "an empty entity type still expands to the TABLE# prefix")

	unknown := "GSI7"
	_, err = store.Query(ctx, &storagemodels.QueryParams{KeyInput: storagemodels.TableItem{}, IndexName: &unknown})
	assert.True(t, ecerrors.IsValidationError(err))

	index := storagemodels.SnapshotIndex
	_, err = store.Query(ctx, &storagemodels.QueryParams{KeyInput: storagemodels.TableItem{}, IndexName: &index})
	require.NoError(t, err)
}

func TestQueryRetries(t *testing.T) {
	ctx := context.Background()

	t.Run("RetryableThenSuccess", func(t *testing.T) {
		client := newFakeClient()
		client.queryErrs = []error{
			&types.ProvisionedThroughputExceededException{Message: aws.String("slow down")},
			&types.InternalServerError{Message: aws.String("oops")},
		}
		store := NewTableItemStore(client, "cache")

		_, err := store.Query(ctx,
			&storagemodels.QueryParams{KeyInput: storagemodels.TableItem{EntityType: "user"}},
			storagemodels.WithRetryBackoff(time.Millisecond))
		require.NoError(t, err)
		assert.Equal(t, 3, client.queries)
	})

	t.Run("Exhausted", func(t *testing.T) {
		client := newFakeClient()
		for i := 0; i < 3; i++ {
			client.queryErrs = append(client.queryErrs, &types.RequestLimitExceeded{Message: aws.String("limit")})
		}
		store := NewTableItemStore(client, "cache")

		_, err := store.Query(ctx,
			&storagemodels.QueryParams{KeyInput: storagemodels.TableItem{EntityType: "user"}},
			storagemodels.WithMaxRetries(2), storagemodels.WithRetryBackoff(time.Millisecond))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "after 2 retries")
		assert.Equal(t, 3, client.queries)
	})

	t.Run("NotRetryable", func(t *testing.T) {
		client := newFakeClient()
		client.queryErrs = []error{&types.ResourceNotFoundException{Message: aws.String("no table")}}
		store := NewTableItemStore(client, "cache")

		_, err := store.Query(ctx,
			&storagemodels.QueryParams{KeyInput: storagemodels.TableItem{EntityType: "user"}},
			storagemodels.WithRetryBackoff(time.Millisecond))
		require.Error(t, err)
		assert.Equal(t, 1, client.queries)
	})

	t.Run("ContextCanceled", func(t *testing.T) {
		client := newFakeClient()
		client.queryErrs = []error{&types.RequestLimitExceeded{Message: aws.String("limit")}}
		store := NewTableItemStore(client, "cache")

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := store.Query(cctx,
			&storagemodels.QueryParams{KeyInput: storagemodels.TableItem{EntityType: "user"}})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestExpandMacros(t *testing.T) {
	expanded, err := expandMacros(registry.IndexMap{
		"PK": "USER#{ID}",
		"SK": "AGE#{Age}#{Active}",
		"X":  "{Missing}",
	}, struct {
		ID     string
		Age    int
		Active bool
	}{ID: "u-1", Age: 42, Active: true})
	require.NoError(t, err)
	assert.Equal(t, "USER#u-1", expanded["PK"])
	assert.Equal(t, "AGE#42#true", expanded["SK"])
	assert.Equal(t, "", expanded["X"])

	assert.Equal(t, map[string]string{"PK": "K#abc"}, expandStringKey(registry.IndexMap{"PK": "K#{Anything}"}, "abc"))
	assert.Equal(t, "PK1", attributeName("GSI1PK"))
	assert.Equal(t, "SK1", attributeName("GSI1SK"))
	assert.Equal(t, "PK", attributeName("PK"))

	cfg, ok := GetGSIConfig(storagemodels.SnapshotIndex)
	require.True(t, ok)
	assert.Equal(t, "PK1", cfg.PartitionKeyName)
}

type retryableErr struct{ retry bool }

func (e retryableErr) Error() string     { return "transient" }
func (e retryableErr) IsRetryable() bool { return e.retry }

func TestIsRetryableError(t *testing.T) {
	assert.True(t, isRetryableError(&types.ProvisionedThroughputExceededException{}))
	assert.True(t, isRetryableError(&types.RequestLimitExceeded{}))
	assert.True(t, isRetryableError(&types.InternalServerError{}))
	assert.False(t, isRetryableError(&types.ResourceNotFoundException{}))
	assert.False(t, isRetryableError(fmt.Errorf("plain")))

	wrap := func(err error) error {
		return fmt.Errorf("query error: %w", &smithy.OperationError{ServiceID: "DynamoDB", OperationName: "Query", Err: err})
	}
	assert.True(t, isRetryableError(wrap(&types.ProvisionedThroughputExceededException{})))
	assert.True(t, isRetryableError(wrap(&types.RequestLimitExceeded{})))
	assert.True(t, isRetryableError(wrap(&types.InternalServerError{})))
	assert.True(t, isRetryableError(wrap(retryableErr{retry: true})))
	assert.False(t, isRetryableError(wrap(retryableErr{retry: false})))
	assert.False(t, isRetryableError(wrap(&types.ResourceNotFoundException{})))
}
