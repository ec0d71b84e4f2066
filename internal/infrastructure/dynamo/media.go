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

// MediaRepo provides typed DynamoDB operations for the media table.
type MediaRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewMediaRepo(client *dynamodb.Client, tableName string) *MediaRepo {
	return &MediaRepo{client: client, tableName: tableName}
}

func (r *MediaRepo) Put(ctx context.Context, m *domain.Media) error {
	item, err := attributevalue.MarshalMap(m)
	if err != nil {
		return fmt.Errorf("marshal media: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *MediaRepo) Get(ctx context.Context, mediaID string) (*domain.Media, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("media_id", mediaID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("media %s: %w", mediaID, domain.ErrNotFound)
	}
	var m domain.Media
	if err := attributevalue.UnmarshalMap(out.Item, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MediaRepo) SoftDelete(ctx context.Context, mediaID string, stamp domain.Stamp) error {
	expr, names, values, err := buildUpdateExpr(map[string]interface{}{
		fieldSoftDelete: true,
		fieldDeleted:    stamp,
	})
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("media_id", mediaID),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	return err
}

// ScanAll returns every live media record.
func (r *MediaRepo) ScanAll(ctx context.Context) ([]domain.Media, error) {
	var media []domain.Media
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
		var page []domain.Media
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		media = append(media, page...)
		if out.LastEvaluatedKey == nil {
			return media, nil
		}
		startKey = out.LastEvaluatedKey
	}
}
