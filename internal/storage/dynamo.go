package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoStore persists snapshots in a DynamoDB table keyed by snapshot key.
type DynamoStore struct {
	client    *dynamodb.Client
	tableName string
}

// dynamoSnapshot represents the DynamoDB item structure
type dynamoSnapshot struct {
	Key       string `dynamodbav:"key"`
	Version   int    `dynamodbav:"version"`
	State     string `dynamodbav:"state"`
	UpdatedAt string `dynamodbav:"updated_at"`
}

func NewDynamoStore(client *dynamodb.Client, tableName string) *DynamoStore {
	return &DynamoStore{client: client, tableName: tableName}
}

func (ds *DynamoStore) Save(ctx context.Context, snap *Snapshot) error {
	item := dynamoSnapshot{
		Key:       snap.Key,
		Version:   snap.Version,
		State:     string(snap.State),
		UpdatedAt: snap.UpdatedAt.Format(time.RFC3339Nano),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	// Overwrite existing snapshot (no condition)
	_, err = ds.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(ds.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put snapshot: %w", err)
	}
	return nil
}

func (ds *DynamoStore) Load(ctx context.Context, key string) (*Snapshot, error) {
	result, err := ds.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(ds.tableName),
		Key: map[string]types.AttributeValue{
			"key": &types.AttributeValueMemberS{Value: key},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	if result.Item == nil {
		return nil, nil // No snapshot exists
	}

	var item dynamoSnapshot
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	updatedAt, _ := time.Parse(time.RFC3339Nano, item.UpdatedAt)

	return &Snapshot{
		Key:       item.Key,
		Version:   item.Version,
		State:     json.RawMessage(item.State),
		UpdatedAt: updatedAt,
	}, nil
}
