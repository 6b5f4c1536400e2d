/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	ecerrors "github.com/suparena/entitycache/errors"
	"github.com/suparena/entitycache/storagemodels"
)

// Query returns every item in the partition expanded from params.KeyInput,
// following pagination. With params.IndexName set, the partition is taken from
// that GSI's fields of the index map.
func (d *DynamodbDataStore[T]) Query(ctx context.Context, params *storagemodels.QueryParams, opts ...storagemodels.QueryOption) ([]T, error) {
	options := storagemodels.DefaultQueryOptions()
	for _, opt := range opts {
		opt(&options)
	}

	input, err := d.buildQueryInput(params, options)
	if err != nil {
		return nil, err
	}

	var results []T
	pageNumber := 0
	for {
		out, err := d.queryWithRetry(ctx, input, options)
		if err != nil {
			return nil, err
		}
		pageNumber++

		for _, item := range out.Items {
			var entity T
			if err := attributevalue.UnmarshalMap(item, &entity); err != nil {
				return nil, fmt.Errorf("failed to unmarshal item on page %d: %w", pageNumber, err)
			}
			results = append(results, entity)
			if options.MaxItems > 0 && len(results) >= options.MaxItems {
				return results, nil
			}
		}

		d.logger.Debug("query page read",
			zap.String("table", d.tableName),
			zap.Int("page", pageNumber),
			zap.Int("items", len(out.Items)))

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}

	return results, nil
}

func (d *DynamodbDataStore[T]) buildQueryInput(params *storagemodels.QueryParams, options storagemodels.QueryOptions) (*dynamodb.QueryInput, error) {
	if params == nil {
		return nil, ecerrors.NewValidationError("params", "query params are required")
	}
	indexMap, err := d.indexMap()
	if err != nil {
		return nil, err
	}
	expanded, err := expandMacros(indexMap, params.KeyInput)
	if err != nil {
		return nil, err
	}

	field, attr := "PK", "PK"
	if params.IndexName != nil {
		cfg, ok := GetGSIConfig(*params.IndexName)
		if !ok {
			return nil, ecerrors.NewValidationError("IndexName", fmt.Sprintf("unknown index %q", *params.IndexName))
		}
		field, attr = cfg.IndexName+"PK", cfg.PartitionKeyName
	}

	pk := expanded[field]
	if pk == "" {
		return nil, ecerrors.NewValidationError("KeyInput", fmt.Sprintf("no value for %s", field))
	}

	values := map[string]types.AttributeValue{
		":pk": &types.AttributeValueMemberS{Value: pk},
	}
	for k, v := range params.ExpressionAttributeValues {
		values[k] = v
	}

	return &dynamodb.QueryInput{
		TableName:                 &d.tableName,
		KeyConditionExpression:    aws.String("#pk = :pk"),
		ExpressionAttributeNames:  map[string]string{"#pk": attr},
		ExpressionAttributeValues: values,
		FilterExpression:          params.FilterExpression,
		IndexName:                 params.IndexName,
		Limit:                     aws.Int32(options.PageSize),
		ScanIndexForward:          params.ScanIndexForward,
	}, nil
}

// queryWithRetry executes a query, retrying retryable errors with a linear backoff
func (d *DynamodbDataStore[T]) queryWithRetry(
	ctx context.Context,
	input *dynamodb.QueryInput,
	options storagemodels.QueryOptions,
) (*dynamodb.QueryOutput, error) {
	var lastErr error

	for attempt := 0; attempt <= options.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		out, err := d.client.Query(ctx, input)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if !isRetryableError(err) {
			return nil, fmt.Errorf("query error: %w", err)
		}

		if attempt < options.MaxRetries {
			backoff := time.Duration(attempt+1) * options.RetryBackoff
			d.logger.Debug("retrying query", zap.Int("attempt", attempt+1), zap.Duration("backoff", backoff), zap.Error(err))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	return nil, fmt.Errorf("query failed after %d retries: %w", options.MaxRetries, lastErr)
}

// isRetryableError determines if a DynamoDB error is retryable. Client errors
// arrive wrapped in a *smithy.OperationError, so the chain is searched.
func isRetryableError(err error) bool {
	var throughput *types.ProvisionedThroughputExceededException
	var limit *types.RequestLimitExceeded
	var internal *types.InternalServerError
	switch {
	case errors.As(err, &throughput), errors.As(err, &limit), errors.As(err, &internal):
		return true
	}

	var retryable interface{ IsRetryable() bool }
	if errors.As(err, &retryable) {
		return retryable.IsRetryable()
	}
	return false
}
