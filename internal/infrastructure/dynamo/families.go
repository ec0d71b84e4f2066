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

// FamilyRepo provides typed DynamoDB operations for the families table.
type FamilyRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewFamilyRepo(client *dynamodb.Client, tableName string) *FamilyRepo {
	return &FamilyRepo{client: client, tableName: tableName}
}

func (r *FamilyRepo) Put(ctx context.Context, f *domain.Family) error {
	item, err := attributevalue.MarshalMap(f)
	if err != nil {
		return fmt.Errorf("marshal family: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *FamilyRepo) Get(ctx context.Context, familyID string) (*domain.Family, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("family_id", familyID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("family %s: %w", familyID, domain.ErrNotFound)
	}
	var f domain.Family
	if err := attributevalue.UnmarshalMap(out.Item, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FamilyRepo) Update(ctx context.Context, familyID string, updates map[string]interface{}) error {
	expr, names, values, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("family_id", familyID),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	return err
}

func (r *FamilyRepo) SoftDelete(ctx context.Context, familyID string, stamp domain.Stamp) error {
	return r.Update(ctx, familyID, map[string]interface{}{
		fieldSoftDelete: true,
		fieldDeleted:    stamp,
	})
}

// ScanAll returns every live family.
func (r *FamilyRepo) ScanAll(ctx context.Context) ([]domain.Family, error) {
	var families []domain.Family
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
		var page []domain.Family
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		families = append(families, page...)
		if out.LastEvaluatedKey == nil {
			return families, nil
		}
		startKey = out.LastEvaluatedKey
	}
}
