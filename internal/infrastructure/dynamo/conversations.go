package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/cmz-api/internal/domain"
)

// ConversationRepo provides typed DynamoDB operations for the conversations table.
type ConversationRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewConversationRepo(client *dynamodb.Client, tableName string) *ConversationRepo {
	return &ConversationRepo{client: client, tableName: tableName}
}

func (r *ConversationRepo) Put(ctx context.Context, c *domain.Conversation) error {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal conversation: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *ConversationRepo) Get(ctx context.Context, conversationID string) (*domain.Conversation, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("conversation_id", conversationID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("conversation %s: %w", conversationID, domain.ErrNotFound)
	}
	var c domain.Conversation
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ConversationRepo) Update(ctx context.Context, conversationID string, updates map[string]interface{}) error {
	expr, names, values, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("conversation_id", conversationID),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	return err
}

func (r *ConversationRepo) SoftDelete(ctx context.Context, conversationID string, stamp domain.Stamp) error {
	return r.Update(ctx, conversationID, map[string]interface{}{
		fieldSoftDelete: true,
		fieldDeleted:    stamp,
	})
}

// ScanAll returns every live conversation, turns included.
func (r *ConversationRepo) ScanAll(ctx context.Context) ([]domain.Conversation, error) {
	var conversations []domain.Conversation
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:                 aws.String(r.tableName),
			FilterExpression:          aws.String(notDeletedFilter),
			ExpressionAttributeValues: notDeletedValues(),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, err
		}
		var page []domain.Conversation
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		conversations = append(conversations, page...)
		if out.LastEvaluatedKey == nil {
			return conversations, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

// ListByUser queries the user_id GSI for one user's live conversations.
func (r *ConversationRepo) ListByUser(ctx context.Context, userID string) ([]domain.Conversation, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("user_id-index"),
		KeyConditionExpression: aws.String("user_id = :uid"),
		FilterExpression:       aws.String(notDeletedFilter),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
			":f":   &types.AttributeValueMemberBOOL{Value: false},
		},
	})
	if err != nil {
		return nil, err
	}
	var conversations []domain.Conversation
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &conversations); err != nil {
		return nil, err
	}
	return conversations, nil
}
