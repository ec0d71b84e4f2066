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

// GuardrailRepo provides typed DynamoDB operations for the guardrails table.
type GuardrailRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewGuardrailRepo(client *dynamodb.Client, tableName string) *GuardrailRepo {
	return &GuardrailRepo{client: client, tableName: tableName}
}

func (r *GuardrailRepo) Put(ctx context.Context, g *domain.Guardrail) error {
	item, err := attributevalue.MarshalMap(g)
	if err != nil {
		return fmt.Errorf("marshal guardrail: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *GuardrailRepo) Get(ctx context.Context, guardrailID string) (*domain.Guardrail, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("guardrail_id", guardrailID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("guardrail %s: %w", guardrailID, domain.ErrNotFound)
	}
	var g domain.Guardrail
	if err := attributevalue.UnmarshalMap(out.Item, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GuardrailRepo) Update(ctx context.Context, guardrailID string, updates map[string]interface{}) error {
	expr, names, values, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("guardrail_id", guardrailID),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	return err
}

func (r *GuardrailRepo) SoftDelete(ctx context.Context, guardrailID string, stamp domain.Stamp) error {
	return r.Update(ctx, guardrailID, map[string]interface{}{
		fieldSoftDelete: true,
		fieldDeleted:    stamp,
	})
}

// ScanAll returns every live guardrail, active or not.
func (r *GuardrailRepo) ScanAll(ctx context.Context) ([]domain.Guardrail, error) {
	var guardrails []domain.Guardrail
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
		var page []domain.Guardrail
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		guardrails = append(guardrails, page...)
		if out.LastEvaluatedKey == nil {
			return guardrails, nil
		}
		startKey = out.LastEvaluatedKey
	}
}
