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

// AnimalRepo provides typed DynamoDB operations for the animals table.
type AnimalRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewAnimalRepo(client *dynamodb.Client, tableName string) *AnimalRepo {
	return &AnimalRepo{client: client, tableName: tableName}
}

func (r *AnimalRepo) Put(ctx context.Context, a *domain.Animal) error {
	item, err := attributevalue.MarshalMap(a)
	if err != nil {
		return fmt.Errorf("marshal animal: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *AnimalRepo) Get(ctx context.Context, animalID string) (*domain.Animal, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("animal_id", animalID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("animal %s: %w", animalID, domain.ErrNotFound)
	}
	var a domain.Animal
	if err := attributevalue.UnmarshalMap(out.Item, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AnimalRepo) Update(ctx context.Context, animalID string, updates map[string]interface{}) error {
	expr, names, values, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("animal_id", animalID),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	return err
}

func (r *AnimalRepo) SoftDelete(ctx context.Context, animalID string, stamp domain.Stamp) error {
	return r.Update(ctx, animalID, map[string]interface{}{
		fieldSoftDelete: true,
		fieldDeleted:    stamp,
	})
}

// ScanAll returns every live animal.
func (r *AnimalRepo) ScanAll(ctx context.Context) ([]domain.Animal, error) {
	var animals []domain.Animal
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
		var page []domain.Animal
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		animals = append(animals, page...)
		if out.LastEvaluatedKey == nil {
			return animals, nil
		}
		startKey = out.LastEvaluatedKey
	}
}
