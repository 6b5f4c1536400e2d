/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	ecerrors "github.com/suparena/entitycache/errors"
	"github.com/suparena/entitycache/registry"
)

// Client is the subset of the DynamoDB API the datastore uses. *dynamodb.Client implements it.
type Client interface {
	GetItem(ctx context.Context, params *sdk.GetItemInput, optFns ...func(*sdk.Options)) (*sdk.GetItemOutput, error)
	PutItem(ctx context.Context, params *sdk.PutItemInput, optFns ...func(*sdk.Options)) (*sdk.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *sdk.DeleteItemInput, optFns ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error)
	Query(ctx context.Context, params *sdk.QueryInput, optFns ...func(*sdk.Options)) (*sdk.QueryOutput, error)
}

// DynamodbDataStore implements datastore.DataStore[T] on a single DynamoDB table.
// Key attributes are built from the index map registered for T.
type DynamodbDataStore[T any] struct {
	client    Client
	tableName string
	logger    *zap.Logger
}

var macroPattern = regexp.MustCompile(`{([^}]+)}`)

func expandMacros(indexMap registry.IndexMap, keysInput any) (map[string]string, error) {
	av, err := attributevalue.MarshalMap(keysInput)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal keysInput: %w", err)
	}

	res := make(map[string]string, len(indexMap))
	for fieldName, template := range indexMap {
		res[fieldName] = macroPattern.ReplaceAllStringFunc(template, func(macro string) string {
			val, ok := av[strings.Trim(macro, "{}")]
			if !ok {
				return ""
			}
			return attributeString(val)
		})
	}
	return res, nil
}

// attributeString renders scalar attribute values; sets, binaries and
// documents have no key form and expand to "".
func attributeString(val types.AttributeValue) string {
	switch tv := val.(type) {
	case *types.AttributeValueMemberS:
		return tv.Value
	case *types.AttributeValueMemberN:
		return tv.Value
	case *types.AttributeValueMemberBOOL:
		return fmt.Sprintf("%v", tv.Value)
	default:
		return ""
	}
}

// expandStringKey replaces every macro in the index map with key.
func expandStringKey(indexMap registry.IndexMap, key string) map[string]string {
	expanded := make(map[string]string, len(indexMap))
	for field, template := range indexMap {
		expanded[field] = macroPattern.ReplaceAllString(template, key)
	}
	return expanded
}

// NewDynamoDBClient initializes a DynamoDB client. Static credentials are used
// when an access key is given, otherwise the default credential chain.
func NewDynamoDBClient(ctx context.Context, awsAccessKey, awsSecretKey, awsRegion string) (*sdk.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(awsRegion)}
	if awsAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(awsAccessKey, awsSecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return sdk.NewFromConfig(cfg), nil
}

// NewDynamodbDataStore constructs a DynamodbDataStore for type T backed by a new client.
func NewDynamodbDataStore[T any](ctx context.Context, awsAccessKey, awsSecretKey, awsRegion, awsDDBTableName string) (*DynamodbDataStore[T], error) {
	client, err := NewDynamoDBClient(ctx, awsAccessKey, awsSecretKey, awsRegion)
	if err != nil {
		return nil, fmt.Errorf("failed to create DynamoDB client: %w", err)
	}
	return NewDynamodbDataStoreWithClient[T](client, awsDDBTableName), nil
}

// NewDynamodbDataStoreWithClient constructs a DynamodbDataStore for type T on an existing client.
func NewDynamodbDataStoreWithClient[T any](client Client, tableName string) *DynamodbDataStore[T] {
	return &DynamodbDataStore[T]{
		client:    client,
		tableName: tableName,
		logger:    zap.NewNop(),
	}
}

// WithLogger sets the logger for request-level debug output
func (d *DynamodbDataStore[T]) WithLogger(logger *zap.Logger) *DynamodbDataStore[T] {
	if logger != nil {
		d.logger = logger
	}
	return d
}

func (d *DynamodbDataStore[T]) indexMap() (registry.IndexMap, error) {
	indexMap, ok := registry.GetIndexMap[T]()
	if !ok {
		var zero T
		return nil, fmt.Errorf("%T: %w", zero, ecerrors.ErrNoIndexMap)
	}
	return indexMap, nil
}

// primaryKey builds the PK/SK key from a key string or a partial item.
func (d *DynamodbDataStore[T]) primaryKey(keyInput any) (map[string]types.AttributeValue, error) {
	indexMap, err := d.indexMap()
	if err != nil {
		return nil, err
	}

	var expanded map[string]string
	if s, ok := keyInput.(string); ok {
		expanded = expandStringKey(indexMap, s)
	} else {
		expanded, err = expandMacros(indexMap, keyInput)
		if err != nil {
			return nil, err
		}
	}

	pk, sk := expanded["PK"], expanded["SK"]
	if pk == "" || sk == "" {
		return nil, ecerrors.NewValidationError("keyInput", "expanded index map missing PK or SK")
	}
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: pk},
		"SK": &types.AttributeValueMemberS{Value: sk},
	}, nil
}

// GetOne retrieves a single item by key string or partial item.
func (d *DynamodbDataStore[T]) GetOne(ctx context.Context, keyInput any) (*T, error) {
	key, err := d.primaryKey(keyInput)
	if err != nil {
		return nil, fmt.Errorf("failed to build key: %w", err)
	}

	out, err := d.client.GetItem(ctx, &sdk.GetItemInput{
		TableName: &d.tableName,
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("GetItem error: %w", err)
	}
	if out.Item == nil {
		var zero T
		return nil, ecerrors.NewNotFoundError(fmt.Sprintf("%T", zero), attributeString(key["PK"])+"/"+attributeString(key["SK"]))
	}

	result := new(T)
	if err := attributevalue.UnmarshalMap(out.Item, result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return result, nil
}

// Put stores entity with its key attributes (and GSI attributes) expanded
// from the index map.
func (d *DynamodbDataStore[T]) Put(ctx context.Context, entity T) error {
	indexMap, err := d.indexMap()
	if err != nil {
		return err
	}

	av, err := attributevalue.MarshalMap(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	expanded, err := expandMacros(indexMap, entity)
	if err != nil {
		return err
	}
	if expanded["PK"] == "" || expanded["SK"] == "" {
		return ecerrors.NewValidationError("entity", "expanded index map missing PK or SK")
	}

	for field, value := range expanded {
		if value == "" {
			continue
		}
		av[attributeName(field)] = &types.AttributeValueMemberS{Value: value}
	}

	_, err = d.client.PutItem(ctx, &sdk.PutItemInput{
		TableName: &d.tableName,
		Item:      av,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return ecerrors.NewConditionFailedError("Put", cfe.ErrorMessage())
		}
		return fmt.Errorf("PutItem failed: %w", err)
	}
	d.logger.Debug("item stored",
		zap.String("table", d.tableName),
		zap.String("pk", expanded["PK"]),
		zap.String("sk", expanded["SK"]))
	return nil
}

// Delete removes an item by key string or partial item.
func (d *DynamodbDataStore[T]) Delete(ctx context.Context, keyInput any) error {
	key, err := d.primaryKey(keyInput)
	if err != nil {
		return fmt.Errorf("failed to build key for Delete: %w", err)
	}

	_, err = d.client.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName: &d.tableName,
		Key:       key,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return ecerrors.NewConditionFailedError("Delete", cfe.ErrorMessage())
		}
		return fmt.Errorf("failed to delete item in DynamoDB: %w", err)
	}
	return nil
}

// attributeName maps index map fields to stored attribute names: GSI fields
// such as GSI1PK are stored under the key names of their GSIConfig.
func attributeName(field string) string {
	for name, cfg := range DefaultGSIConfigs {
		switch field {
		case name + "PK":
			return cfg.PartitionKeyName
		case name + "SK":
			return cfg.SortKeyName
		}
	}
	return field
}

// TableName returns the DynamoDB table the store writes to
func (d *DynamodbDataStore[T]) TableName() string {
	return d.tableName
}
