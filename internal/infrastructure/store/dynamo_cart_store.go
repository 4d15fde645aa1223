package store

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoAPI is the subset of the DynamoDB client the cart store uses.
// *dynamodb.Client satisfies it; tests substitute a fake.
type DynamoAPI interface {
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// DynamoCartStore keeps cart rows in a DynamoDB table keyed on
// (user_id, product_id). Increment maps onto UpdateItem's ADD action, which
// is DynamoDB's native atomic upsert: the item is created with quantity 1
// when absent and incremented in place otherwise.
type DynamoCartStore struct {
	client    DynamoAPI
	tableName string
}

// dynamoCartRow is the DynamoDB item structure
type dynamoCartRow struct {
	UserID       int    `dynamodbav:"user_id"`
	ProductID    int    `dynamodbav:"product_id"`
	Quantity     int    `dynamodbav:"quantity"`
	LastModified string `dynamodbav:"last_modified"`
}

func NewDynamoCartStore(client DynamoAPI, tableName string) *DynamoCartStore {
	return &DynamoCartStore{
		client:    client,
		tableName: tableName,
	}
}

func cartKey(userID, productID int) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"user_id":    &types.AttributeValueMemberN{Value: strconv.Itoa(userID)},
		"product_id": &types.AttributeValueMemberN{Value: strconv.Itoa(productID)},
	}
}

func (s *DynamoCartStore) Increment(ctx context.Context, userID, productID int) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(s.tableName),
		Key:              cartKey(userID, productID),
		UpdateExpression: aws.String("SET last_modified = :ts ADD quantity :one"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
			":ts":  &types.AttributeValueMemberS{Value: time.Now().Format(time.RFC3339Nano)},
		},
	})
	if err != nil {
		return storeErr("increment cart row", err)
	}
	return nil
}

func (s *DynamoCartStore) SetQuantity(ctx context.Context, userID, productID, quantity int) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(s.tableName),
		Key:              cartKey(userID, productID),
		UpdateExpression: aws.String("SET quantity = :q, last_modified = :ts"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":q":  &types.AttributeValueMemberN{Value: strconv.Itoa(quantity)},
			":ts": &types.AttributeValueMemberS{Value: time.Now().Format(time.RFC3339Nano)},
		},
	})
	if err != nil {
		return storeErr("set cart row quantity", err)
	}
	return nil
}

func (s *DynamoCartStore) Remove(ctx context.Context, userID, productID int) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key:       cartKey(userID, productID),
	})
	if err != nil {
		return storeErr("remove cart row", err)
	}
	return nil
}

// Clear queries the user's keys and deletes them in batches of 25, the
// BatchWriteItem limit.
func (s *DynamoCartStore) Clear(ctx context.Context, userID int) error {
	rows, err := s.RowsForUser(ctx, userID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	for start := 0; start < len(rows); start += 25 {
		end := start + 25
		if end > len(rows) {
			end = len(rows)
		}

		requests := make([]types.WriteRequest, 0, end-start)
		for _, row := range rows[start:end] {
			requests = append(requests, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{
					Key: cartKey(row.UserID, row.ProductID),
				},
			})
		}

		_, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				s.tableName: requests,
			},
		})
		if err != nil {
			return storeErr("clear cart rows", err)
		}
	}
	return nil
}

// RowsForUser follows LastEvaluatedKey across pages; a cart larger than one
// query page (1MB of items) must not silently truncate.
func (s *DynamoCartStore) RowsForUser(ctx context.Context, userID int) ([]CartRow, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberN{Value: strconv.Itoa(userID)},
		},
	}

	var rows []CartRow
	for {
		out, err := s.client.Query(ctx, input)
		if err != nil {
			return nil, storeErr("load cart rows", err)
		}

		var items []dynamoCartRow
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
			return nil, storeErr("unmarshal cart rows", err)
		}

		for _, item := range items {
			lastModified, err := time.Parse(time.RFC3339Nano, item.LastModified)
			if err != nil {
				log.Printf("[Store] Malformed last_modified %q on cart row (user %d, product %d): %v",
					item.LastModified, item.UserID, item.ProductID, err)
			}
			rows = append(rows, CartRow{
				UserID:       item.UserID,
				ProductID:    item.ProductID,
				Quantity:     item.Quantity,
				LastModified: lastModified,
			})
		}

		if len(out.LastEvaluatedKey) == 0 {
			return rows, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}
